package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// UpsertAccount creates an account or refreshes its credentials/proxy,
// reactivating it if it was soft-deleted.
func (s *Store) UpsertAccount(ctx context.Context, username, password string, proxy *string) error {
	query := `
		INSERT INTO accounts (username, password, proxy, is_active)
		VALUES (?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE
			password = VALUES(password),
			proxy = VALUES(proxy),
			is_active = 1,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, username, password, proxy); err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", username, err)
	}

	return nil
}

// GetAccount fetches one active account by username.
func (s *Store) GetAccount(ctx context.Context, username string) (domain.Account, error) {
	query := `
		SELECT id, username, password, proxy, is_active, created_at, updated_at
		FROM accounts
		WHERE username = ? AND is_active = 1
	`

	var account domain.Account
	if err := s.db.GetContext(ctx, &account, query, username); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
		}
		return domain.Account{}, fmt.Errorf("failed to get account %s: %w", username, err)
	}

	return account, nil
}

func (s *Store) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT id, username, password, proxy, is_active, created_at, updated_at
		FROM accounts
		WHERE is_active = 1
		ORDER BY id ASC
	`

	var accounts []domain.Account
	if err := s.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}

	return accounts, nil
}

// DeactivateAccount soft-deletes: the row stays so historical delivery
// records keep a valid sender reference.
func (s *Store) DeactivateAccount(ctx context.Context, username string) error {
	query := `
		UPDATE accounts
		SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		WHERE username = ?
	`

	result, err := s.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", username, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
	}

	return nil
}

// SetAccountProxy updates only the proxy for an existing account.
func (s *Store) SetAccountProxy(ctx context.Context, username string, proxy *string) error {
	query := `
		UPDATE accounts
		SET proxy = ?, updated_at = CURRENT_TIMESTAMP
		WHERE username = ?
	`

	result, err := s.db.ExecContext(ctx, query, proxy, username)
	if err != nil {
		return fmt.Errorf("failed to set proxy for %s: %w", username, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
	}

	return nil
}
