package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveSession persists a session blob, overwriting prior state and marking
// the row active again.
func (s *Store) SaveSession(ctx context.Context, username, sessionData string) error {
	query := `
		INSERT INTO sessions (username, session_data, is_active)
		VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE
			session_data = VALUES(session_data),
			is_active = 1,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, username, sessionData); err != nil {
		return fmt.Errorf("failed to save session for %s: %w", username, err)
	}

	return nil
}

// GetActiveSession returns the active session blob for an account, or ""
// when no active session exists.
func (s *Store) GetActiveSession(ctx context.Context, username string) (string, error) {
	query := `
		SELECT session_data FROM sessions
		WHERE username = ? AND is_active = 1
	`

	var data string
	if err := s.db.GetContext(ctx, &data, query, username); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session for %s: %w", username, err)
	}

	return data, nil
}

// DeactivateSession is a soft flag flip; the blob is kept for audit.
func (s *Store) DeactivateSession(ctx context.Context, username string) error {
	query := `
		UPDATE sessions
		SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		WHERE username = ?
	`

	if _, err := s.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("failed to deactivate session for %s: %w", username, err)
	}

	return nil
}
