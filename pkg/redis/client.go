package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

// Client caches session blobs so SessionManager can skip a DB round trip
// on every acquire. The database stays the source of truth; the cache is
// best-effort with a TTL.
type Client struct {
	client valkey.Client
}

const (
	sessionKeyPrefix = "ig_session:"
	sessionTTL       = 12 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func (c *Client) CacheSession(ctx context.Context, username, sessionData string) error {
	key := sessionKeyPrefix + username

	err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(sessionData).Ex(sessionTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}

	logger.Debugf("Cached session for %s in Redis", username)

	return nil
}

// GetCachedSession returns the cached blob, or "" when absent.
func (c *Client) GetCachedSession(ctx context.Context, username string) (string, error) {
	key := sessionKeyPrefix + username

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached session: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return "", fmt.Errorf("failed to read cached session: %w", err)
	}

	return data, nil
}

func (c *Client) InvalidateSession(ctx context.Context, username string) error {
	key := sessionKeyPrefix + username

	if err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to invalidate cached session: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
