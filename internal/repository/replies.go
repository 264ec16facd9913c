package repository

import (
	"context"
	"fmt"
)

// HasReplied reports whether an inbound message has already been answered.
func (s *Store) HasReplied(ctx context.Context, messageID string) (bool, error) {
	var exists bool

	query := "SELECT EXISTS(SELECT 1 FROM reply_tracking WHERE message_id = ?)"
	if err := s.db.GetContext(ctx, &exists, query, messageID); err != nil {
		return false, fmt.Errorf("failed to check reply tracking for %s: %w", messageID, err)
	}

	return exists, nil
}

// MarkReplied records the answer to an inbound message. The unique key on
// message_id makes double-processing a no-op instead of a duplicate row.
func (s *Store) MarkReplied(ctx context.Context, account, messageID, target, replyText string) error {
	query := `
		INSERT IGNORE INTO reply_tracking (account_username, message_id, target_username, reply_text)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, account, messageID, target, replyText); err != nil {
		return fmt.Errorf("failed to mark message %s replied: %w", messageID, err)
	}

	return nil
}
