package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// Client talks to the automation gateway that fronts the Instagram private
// API and the browser-driven login flow. Every call carries a hard timeout
// so a stuck remote call cannot stall the scheduler indefinitely.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

func NewClient(cfg environments.GatewayConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-gw-auth-key", cfg.AuthKey)

	return &Client{
		httpClient: client,
		baseURL:    cfg.URL,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Proxy    *string `json:"proxy,omitempty"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Session string `json:"session"`
}

type restoreRequest struct {
	Username string `json:"username"`
	Session  string `json:"session"`
}

// LoginDirect performs a credential login. Returns a call token plus the
// opaque session blob the caller is responsible for persisting.
func (c *Client) LoginDirect(ctx context.Context, username, password string, proxy *string) (token, session string, err error) {
	return c.login(ctx, "/auth/login", loginRequest{Username: username, Password: password, Proxy: proxy})
}

// LoginInteractive asks the gateway to mint a session through its
// browser-driven flow (2FA/challenge handled on the gateway side).
func (c *Client) LoginInteractive(ctx context.Context, username, password string, proxy *string) (token, session string, err error) {
	return c.login(ctx, "/auth/interactive-login", loginRequest{Username: username, Password: password, Proxy: proxy})
}

func (c *Client) login(ctx context.Context, path string, payload loginRequest) (string, string, error) {
	var out loginResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to send login request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", "", fmt.Errorf("login rejected: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	if out.Token == "" || out.Session == "" {
		return "", "", fmt.Errorf("login response missing token or session")
	}

	return out.Token, out.Session, nil
}

// Restore revives a persisted session blob into a call token.
func (c *Client) Restore(ctx context.Context, username, session string) (string, error) {
	var out loginResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(restoreRequest{Username: username, Session: session}).
		SetResult(&out).
		Post("/auth/restore")
	if err != nil {
		return "", fmt.Errorf("failed to send restore request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("session restore rejected: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	if out.Token == "" {
		return "", fmt.Errorf("restore response missing token")
	}

	return out.Token, nil
}

// AccountInfo is the lightweight identity probe used to prove a channel live.
func (c *Client) AccountInfo(ctx context.Context, token string) (*domain.UserProfile, error) {
	var raw rawUser

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&raw).
		Get("/account/info")
	if err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("account info rejected: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return normalizeUser(raw), nil
}

// ResolveUser is the direct username to id lookup.
func (c *Client) ResolveUser(ctx context.Context, token, username string) (*domain.UserProfile, error) {
	var raw rawUser

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("username", username).
		SetResult(&raw).
		Get("/users/by-username/{username}")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", username, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("user lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return normalizeUser(raw), nil
}

// SearchUsers queries the search index.
func (c *Client) SearchUsers(ctx context.Context, token, query string, count int) ([]domain.UserProfile, error) {
	var raw struct {
		Users []rawUser `json:"users"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("q", query).
		SetQueryParam("count", fmt.Sprintf("%d", count)).
		SetResult(&raw).
		Get("/users/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("user search failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	users := make([]domain.UserProfile, 0, len(raw.Users))
	for _, u := range raw.Users {
		users = append(users, *normalizeUser(u))
	}

	return users, nil
}

// UsernameInfo is the low-level profile-info lookup that bypasses the
// regular resolution path.
func (c *Client) UsernameInfo(ctx context.Context, token, username string) (*domain.UserProfile, error) {
	var raw struct {
		User rawUser `json:"user"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("username", username).
		SetResult(&raw).
		Get("/users/{username}/usernameinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get username info: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("username info failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return normalizeUser(raw.User), nil
}

type sendDirectRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type sendThreadRequest struct {
	ThreadID string `json:"threadId"`
	Text     string `json:"text"`
}

// SendDirect posts a direct message to a resolved user id.
func (c *Client) SendDirect(ctx context.Context, token, userID, text string) (*domain.Message, error) {
	var raw rawMessage

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(sendDirectRequest{UserID: userID, Text: text}).
		SetResult(&raw).
		Post("/direct/send")
	if err != nil {
		return nil, fmt.Errorf("failed to send direct message: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("direct send failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return normalizeMessage(raw), nil
}

// ThreadByParticipants opens or reuses the conversation thread with a user.
func (c *Client) ThreadByParticipants(ctx context.Context, token, userID string) (*domain.Thread, error) {
	var raw rawThread

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("userId", userID).
		SetResult(&raw).
		Get("/direct/thread/by-participants")
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("thread lookup failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	thread := normalizeThread(raw)
	if thread.ID == "" {
		return nil, fmt.Errorf("thread lookup returned no thread id")
	}

	return thread, nil
}

// SendToThread posts a text item into an existing thread.
func (c *Client) SendToThread(ctx context.Context, token, threadID, text string) (*domain.Message, error) {
	var raw rawMessage

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(sendThreadRequest{ThreadID: threadID, Text: text}).
		SetResult(&raw).
		Post("/direct/thread/send")
	if err != nil {
		return nil, fmt.Errorf("failed to send to thread: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("thread send failed: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	msg := normalizeMessage(raw)
	if msg.ThreadID == "" {
		msg.ThreadID = threadID
	}

	return msg, nil
}
