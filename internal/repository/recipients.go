package repository

import (
	"context"
	"fmt"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// EnqueueRecipients inserts usernames into the pending queue. Duplicates
// across calls are ignored, not errors, so re-uploading a list is safe.
func (s *Store) EnqueueRecipients(ctx context.Context, usernames []string, firstnames map[string]string) error {
	query := `
		INSERT IGNORE INTO recipients (username, firstname)
		VALUES (?, ?)
	`

	for _, username := range usernames {
		firstname := ""
		if firstnames != nil {
			firstname = firstnames[username]
		}

		if _, err := s.db.ExecContext(ctx, query, username, firstname); err != nil {
			return fmt.Errorf("failed to enqueue recipient %s: %w", username, err)
		}
	}

	return nil
}

// NextUnprocessedRecipients returns pending recipients in insertion order.
// limit <= 0 means no limit.
func (s *Store) NextUnprocessedRecipients(ctx context.Context, limit int) ([]domain.Recipient, error) {
	query := `
		SELECT id, username, firstname, is_processed, processed_at, created_at
		FROM recipients
		WHERE is_processed = 0
		ORDER BY created_at ASC, id ASC
	`

	var recipients []domain.Recipient
	var err error

	if limit > 0 {
		err = s.db.SelectContext(ctx, &recipients, query+" LIMIT ?", limit)
	} else {
		err = s.db.SelectContext(ctx, &recipients, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed recipients: %w", err)
	}

	return recipients, nil
}

func (s *Store) CountUnprocessedRecipients(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM recipients WHERE is_processed = 0"); err != nil {
		return 0, fmt.Errorf("failed to count unprocessed recipients: %w", err)
	}

	return count, nil
}

// MarkProcessed flips the processed flag exactly once per recipient.
func (s *Store) MarkProcessed(ctx context.Context, username string) error {
	query := `
		UPDATE recipients
		SET is_processed = 1, processed_at = CURRENT_TIMESTAMP
		WHERE username = ?
	`

	if _, err := s.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("failed to mark recipient %s processed: %w", username, err)
	}

	return nil
}
