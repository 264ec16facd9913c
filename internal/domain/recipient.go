package domain

import "time"

// Recipient is a target queued to receive exactly one message per campaign.
// Rows are created in bulk at campaign setup and never deleted; IsProcessed
// flips exactly once after a terminal delivery outcome.
type Recipient struct {
	ID          int64      `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	Firstname   string     `db:"firstname" json:"firstname,omitempty"`
	IsProcessed bool       `db:"is_processed" json:"isProcessed"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}
