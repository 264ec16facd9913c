package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

// RunMigrations creates the durable collections. Uniqueness constraints:
// account username, one session row per account, one daily counter per
// (account, date), recipient username, one reply per inbound message.
func RunMigrations(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			password VARCHAR(255) NOT NULL,
			proxy VARCHAR(255),
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_accounts_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			session_data TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_sessions_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS recipients (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			firstname VARCHAR(64) NOT NULL DEFAULT '',
			is_processed BOOLEAN NOT NULL DEFAULT 0,
			processed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_recipients_username (username),
			INDEX idx_recipients_pending (is_processed, created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS dm_tracking (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sender_username VARCHAR(64) NOT NULL,
			recipient_username VARCHAR(64) NOT NULL,
			message_text TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'sent',
			thread_id VARCHAR(100),
			message_id VARCHAR(100),
			error_detail TEXT,
			sent_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_dm_tracking_sender (sender_username, sent_at),
			INDEX idx_dm_tracking_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS daily_stats (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			date DATE NOT NULL,
			dms_sent INT NOT NULL DEFAULT 0,
			dms_failed INT NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_daily_stats_username_date (username, date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS engagement_log (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			action VARCHAR(20) NOT NULL,
			target VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL,
			detail TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_engagement_log_username (username, action)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS reply_tracking (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			account_username VARCHAR(64) NOT NULL,
			message_id VARCHAR(100) NOT NULL,
			target_username VARCHAR(64) NOT NULL,
			reply_text TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_reply_tracking_message (message_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM recipients")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d recipients, skipping seed", count)
		return nil
	}

	testRecipients := []struct {
		username  string
		firstname string
	}{
		{"travel.with.mia", "Mia"},
		{"fitlife_jordan", "Jordan"},
		{"daily.dose.of.dan", "Dan"},
		{"sophie.paints", "Sophie"},
		{"urban_explorer_lee", "Lee"},
		{"chef_marco_official", "Marco"},
		{"yoga.by.anna", "Anna"},
		{"techreviews_sam", "Sam"},
		{"wanderlust.kate", "Kate"},
		{"gallery_of_noah", "Noah"},
	}

	for _, r := range testRecipients {
		_, err := db.Exec(
			"INSERT IGNORE INTO recipients (username, firstname) VALUES (?, ?)",
			r.username, r.firstname,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test recipients", len(testRecipients))
	return nil
}
