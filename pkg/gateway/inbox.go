package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// Inbox endpoints back the auto-reply scan. Threads arrive with their
// messages either under "messages" or under "items" depending on which
// gateway path produced them; both collapse into domain.InboxThread here.

type rawInboxMessage struct {
	ID     flexID `json:"id"`
	ItemID flexID `json:"item_id"`
	UserID flexID `json:"user_id"`
	Text   string `json:"text"`
}

type rawInboxThread struct {
	ThreadID flexID            `json:"thread_id"`
	ID       flexID            `json:"id"`
	Messages []rawInboxMessage `json:"messages"`
	Items    []rawInboxMessage `json:"items"`
}

func normalizeInboxThread(raw rawInboxThread) domain.InboxThread {
	rawMessages := raw.Messages
	if len(rawMessages) == 0 {
		rawMessages = raw.Items
	}

	messages := make([]domain.InboxMessage, 0, len(rawMessages))
	for _, m := range rawMessages {
		messages = append(messages, domain.InboxMessage{
			ID:       firstID(m.ItemID, m.ID),
			SenderID: string(m.UserID),
			Text:     m.Text,
		})
	}

	return domain.InboxThread{
		ID:       firstID(raw.ThreadID, raw.ID),
		Messages: messages,
	}
}

func (c *Client) InboxThreads(ctx context.Context, token string) ([]domain.InboxThread, error) {
	var raw struct {
		Threads []rawInboxThread `json:"threads"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&raw).
		Get("/direct/inbox")
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox threads: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("inbox lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	threads := make([]domain.InboxThread, 0, len(raw.Threads))
	for _, t := range raw.Threads {
		threads = append(threads, normalizeInboxThread(t))
	}

	return threads, nil
}

// UserByID resolves a numeric user id back to a profile, for naming the
// sender of an inbound message.
func (c *Client) UserByID(ctx context.Context, token, userID string) (*domain.UserProfile, error) {
	var raw rawUser

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("userId", userID).
		SetResult(&raw).
		Get("/users/{userId}/info")
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("user lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return normalizeUser(raw), nil
}

// MediaIDFromCode maps a post shortcode (the CODE in instagram.com/p/CODE/)
// to the media id the engagement endpoints take.
func (c *Client) MediaIDFromCode(ctx context.Context, token, code string) (string, error) {
	var raw struct {
		ID flexID `json:"id"`
		PK flexID `json:"pk"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("code", code).
		SetResult(&raw).
		Get("/medias/code/{code}")
	if err != nil {
		return "", fmt.Errorf("failed to resolve media code %s: %w", code, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("media code lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	id := firstID(raw.ID, raw.PK)
	if id == "" {
		return "", fmt.Errorf("media code lookup returned no id for %s", code)
	}

	return id, nil
}
