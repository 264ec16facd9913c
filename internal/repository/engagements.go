package repository

import (
	"context"
	"fmt"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// RecordEngagement appends one engagement fact.
func (s *Store) RecordEngagement(ctx context.Context, username string, action domain.EngagementAction,
	target string, status domain.EngagementStatus, detail *string) error {

	query := `
		INSERT INTO engagement_log (username, action, target, status, detail)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, username, action, target, status, detail); err != nil {
		return fmt.Errorf("failed to record engagement: %w", err)
	}

	return nil
}

// GetEngagementStats aggregates the engagement log per action for one account.
func (s *Store) GetEngagementStats(ctx context.Context, username string) (domain.EngagementStats, error) {
	stats := domain.EngagementStats{
		Username: username,
		Actions:  make(map[domain.EngagementAction]int),
		Failed:   make(map[domain.EngagementAction]int),
	}

	query := `
		SELECT action,
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) AS success_count,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)  AS failed_count
		FROM engagement_log
		WHERE username = ?
		GROUP BY action
	`

	var rows []struct {
		Action       domain.EngagementAction `db:"action"`
		SuccessCount int                     `db:"success_count"`
		FailedCount  int                     `db:"failed_count"`
	}

	if err := s.db.SelectContext(ctx, &rows, query, username); err != nil {
		return stats, fmt.Errorf("failed to get engagement stats: %w", err)
	}

	for _, row := range rows {
		stats.Actions[row.Action] = row.SuccessCount
		stats.Failed[row.Action] = row.FailedCount
	}

	return stats, nil
}

// GetAnalyticsSnapshot is the aggregate read-only view the control surface
// exposes.
func (s *Store) GetAnalyticsSnapshot(ctx context.Context) (domain.AnalyticsSnapshot, error) {
	var snapshot domain.AnalyticsSnapshot

	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts WHERE is_active = 1)                              AS total_accounts,
			(SELECT COALESCE(SUM(dms_sent), 0) FROM daily_stats WHERE date = CURDATE())      AS total_sent_today,
			(SELECT COALESCE(SUM(dms_failed), 0) FROM daily_stats WHERE date = CURDATE())    AS total_failed_today,
			(SELECT COUNT(*) FROM recipients WHERE is_processed = 0)                         AS unprocessed_recipients,
			(SELECT COUNT(*) FROM sessions WHERE is_active = 1)                              AS active_sessions
	`

	var row struct {
		TotalAccounts         int `db:"total_accounts"`
		TotalSentToday        int `db:"total_sent_today"`
		TotalFailedToday      int `db:"total_failed_today"`
		UnprocessedRecipients int `db:"unprocessed_recipients"`
		ActiveSessions        int `db:"active_sessions"`
	}

	if err := s.db.GetContext(ctx, &row, query); err != nil {
		return snapshot, fmt.Errorf("failed to get analytics snapshot: %w", err)
	}

	snapshot.TotalAccounts = row.TotalAccounts
	snapshot.TotalSentToday = row.TotalSentToday
	snapshot.TotalFailedToday = row.TotalFailedToday
	snapshot.UnprocessedRecipients = row.UnprocessedRecipients
	snapshot.ActiveSessions = row.ActiveSessions

	return snapshot, nil
}
