package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// Engagement endpoints: stories, likes, comments, follows.

func (c *Client) UserStories(ctx context.Context, token, userID string) ([]domain.StoryItem, error) {
	var raw struct {
		Stories []rawMessage `json:"stories"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("userId", userID).
		SetResult(&raw).
		Get("/users/{userId}/stories")
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("stories lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	stories := make([]domain.StoryItem, 0, len(raw.Stories))
	for _, s := range raw.Stories {
		stories = append(stories, domain.StoryItem{ID: firstID(s.ID, s.ItemID)})
	}

	return stories, nil
}

func (c *Client) MarkStorySeen(ctx context.Context, token string, storyIDs []string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{"storyIds": storyIDs}).
		Post("/stories/seen")
	if err != nil {
		return fmt.Errorf("failed to mark stories seen: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("story seen failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (c *Client) UserMedias(ctx context.Context, token, userID string, amount int) ([]domain.MediaItem, error) {
	var raw struct {
		Medias []struct {
			ID   flexID `json:"id"`
			PK   flexID `json:"pk"`
			Code string `json:"code"`
		} `json:"medias"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("userId", userID).
		SetQueryParam("amount", fmt.Sprintf("%d", amount)).
		SetResult(&raw).
		Get("/users/{userId}/medias")
	if err != nil {
		return nil, fmt.Errorf("failed to get medias: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("medias lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	medias := make([]domain.MediaItem, 0, len(raw.Medias))
	for _, m := range raw.Medias {
		medias = append(medias, domain.MediaItem{ID: firstID(m.ID, m.PK), Code: m.Code})
	}

	return medias, nil
}

func (c *Client) LikeMedia(ctx context.Context, token, mediaID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("mediaId", mediaID).
		Post("/medias/{mediaId}/like")
	if err != nil {
		return fmt.Errorf("failed to like media: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("like failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (c *Client) CommentMedia(ctx context.Context, token, mediaID, text string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("mediaId", mediaID).
		SetBody(map[string]any{"text": text}).
		Post("/medias/{mediaId}/comment")
	if err != nil {
		return fmt.Errorf("failed to comment on media: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("comment failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (c *Client) FollowUser(ctx context.Context, token, userID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("userId", userID).
		Post("/users/{userId}/follow")
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("follow failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
