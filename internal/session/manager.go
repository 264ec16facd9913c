package session

import (
	"context"
	"fmt"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

// Small internal interfaces so the manager can be tested without a real
// store, cache or gateway.

type sessionStore interface {
	GetActiveSession(ctx context.Context, username string) (string, error)
	SaveSession(ctx context.Context, username, sessionData string) error
	DeactivateSession(ctx context.Context, username string) error
}

type sessionCache interface {
	GetCachedSession(ctx context.Context, username string) (string, error)
	CacheSession(ctx context.Context, username, sessionData string) error
	InvalidateSession(ctx context.Context, username string) error
}

// Manager owns session lifecycle: it reuses persisted sessions when they
// still authenticate, and mints fresh ones through the gateway when they
// don't. Every successful path persists the blob before the channel is
// returned.
type Manager struct {
	store sessionStore
	cache sessionCache // optional
	api   remoteAPI
}

func NewManager(store sessionStore, cache sessionCache, api remoteAPI) *Manager {
	return &Manager{
		store: store,
		cache: cache,
		api:   api,
	}
}

// Acquire returns a channel proven live by an identity probe, or
// domain.ErrAuthenticationFailed. It never returns a channel of unknown
// validity.
func (m *Manager) Acquire(ctx context.Context, account domain.Account, useInteractiveLogin bool) (*Channel, error) {
	if ch := m.restoreExisting(ctx, account); ch != nil {
		return ch, nil
	}

	// No reusable session: mint a fresh one.
	var token, blob string
	var err error

	if useInteractiveLogin {
		token, blob, err = m.api.LoginInteractive(ctx, account.Username, account.Password, account.Proxy)
		if err != nil {
			logger.Warnf("Interactive login failed for %s, falling back to direct login: %v", account.Username, err)
			token, blob, err = m.api.LoginDirect(ctx, account.Username, account.Password, account.Proxy)
		}
	} else {
		token, blob, err = m.api.LoginDirect(ctx, account.Username, account.Password, account.Proxy)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAuthenticationFailed, account.Username, err)
	}

	ch, err := m.proveAndPersist(ctx, account, token, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAuthenticationFailed, account.Username, err)
	}

	return ch, nil
}

// restoreExisting tries the cached blob first, then the stored one. A blob
// that fails to restore is invalidated so the next acquire goes straight to
// login.
func (m *Manager) restoreExisting(ctx context.Context, account domain.Account) *Channel {
	blob := m.lookupBlob(ctx, account.Username)
	if blob == "" {
		return nil
	}

	token, err := m.api.Restore(ctx, account.Username, blob)
	if err != nil {
		logger.Warnf("Stored session for %s no longer valid: %v", account.Username, err)
		m.invalidate(ctx, account.Username)
		return nil
	}

	if _, err := m.api.AccountInfo(ctx, token); err != nil {
		logger.Warnf("Session probe failed for %s: %v", account.Username, err)
		m.invalidate(ctx, account.Username)
		return nil
	}

	logger.Infof("Reusing existing session for %s", account.Username)

	return newChannel(account, m.api, token)
}

func (m *Manager) proveAndPersist(ctx context.Context, account domain.Account, token, blob string) (*Channel, error) {
	if _, err := m.api.AccountInfo(ctx, token); err != nil {
		return nil, fmt.Errorf("identity probe failed: %w", err)
	}

	if err := m.store.SaveSession(ctx, account.Username, blob); err != nil {
		// The channel is live; a failed persist only costs session reuse.
		logger.Errorf("Failed to persist session for %s: %v", account.Username, err)
	}

	if m.cache != nil {
		if err := m.cache.CacheSession(ctx, account.Username, blob); err != nil {
			logger.Warnf("Failed to cache session for %s: %v", account.Username, err)
		}
	}

	logger.Infof("Fresh session established for %s", account.Username)

	return newChannel(account, m.api, token), nil
}

func (m *Manager) lookupBlob(ctx context.Context, username string) string {
	if m.cache != nil {
		blob, err := m.cache.GetCachedSession(ctx, username)
		if err != nil {
			logger.Warnf("Session cache read failed for %s: %v", username, err)
		} else if blob != "" {
			return blob
		}
	}

	blob, err := m.store.GetActiveSession(ctx, username)
	if err != nil {
		logger.Errorf("Failed to load session for %s: %v", username, err)
		return ""
	}

	return blob
}

func (m *Manager) invalidate(ctx context.Context, username string) {
	if err := m.store.DeactivateSession(ctx, username); err != nil {
		logger.Warnf("Failed to deactivate session for %s: %v", username, err)
	}

	if m.cache != nil {
		if err := m.cache.InvalidateSession(ctx, username); err != nil {
			logger.Warnf("Failed to drop cached session for %s: %v", username, err)
		}
	}
}
