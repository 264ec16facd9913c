package domain

import "time"

// Account is a sender identity the campaign can rotate through.
// Accounts are soft-deleted (IsActive flipped) so historical delivery
// records keep a valid sender reference.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	Proxy     *string   `db:"proxy" json:"proxy,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Session is an opaque authenticated-state blob keyed by account username.
// At most one active session exists per account; invalidation flips
// IsActive instead of deleting the row.
type Session struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	SessionData string    `db:"session_data" json:"-"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
