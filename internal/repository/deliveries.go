package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// RecordDelivery appends a delivery fact and increments today's counter for
// the sender in one transaction, so the materialized DailyCounter can never
// drift from the dm_tracking rows.
func (s *Store) RecordDelivery(ctx context.Context, sender, recipient, messageText string,
	status domain.DeliveryStatus, threadID, messageID, errorDetail *string) error {

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delivery transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	insertFact := `
		INSERT INTO dm_tracking
			(sender_username, recipient_username, message_text, status, thread_id, message_id, error_detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, insertFact,
		sender, recipient, messageText, status, threadID, messageID, errorDetail); err != nil {
		return fmt.Errorf("failed to insert delivery record: %w", err)
	}

	sentInc, failedInc := 0, 0
	if status == domain.DeliverySent {
		sentInc = 1
	} else {
		failedInc = 1
	}

	upsertCounter := `
		INSERT INTO daily_stats (username, date, dms_sent, dms_failed)
		VALUES (?, CURDATE(), ?, ?)
		ON DUPLICATE KEY UPDATE
			dms_sent = dms_sent + VALUES(dms_sent),
			dms_failed = dms_failed + VALUES(dms_failed)
	`

	if _, err := tx.ExecContext(ctx, upsertCounter, sender, sentInc, failedInc); err != nil {
		return fmt.Errorf("failed to upsert daily counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delivery record: %w", err)
	}

	return nil
}

// GetDailyCounter returns the counter for (username, date). A missing row
// reads as zeros, matching the invariant that counters start at zero.
func (s *Store) GetDailyCounter(ctx context.Context, username string, date time.Time) (domain.DailyCounter, error) {
	day := date.Format("2006-01-02")

	counter := domain.DailyCounter{Username: username, Date: day}

	query := `
		SELECT dms_sent, dms_failed FROM daily_stats
		WHERE username = ? AND date = ?
	`

	var row struct {
		Sent   int `db:"dms_sent"`
		Failed int `db:"dms_failed"`
	}

	if err := s.db.GetContext(ctx, &row, query, username, day); err != nil {
		if err == sql.ErrNoRows {
			return counter, nil
		}
		return counter, fmt.Errorf("failed to get daily counter: %w", err)
	}

	counter.Sent = row.Sent
	counter.Failed = row.Failed

	return counter, nil
}

// GetTotalSentToday sums sent counters across accounts for the current date.
func (s *Store) GetTotalSentToday(ctx context.Context) (int, error) {
	var total int

	query := "SELECT COALESCE(SUM(dms_sent), 0) FROM daily_stats WHERE date = CURDATE()"
	if err := s.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to sum sent counters: %w", err)
	}

	return total, nil
}
