package repository

import (
	"github.com/jmoiron/sqlx"
)

// Store is the single durable state owner: accounts, sessions, recipients,
// delivery records, daily counters and the engagement log. Every method is
// individually atomic and safe under concurrent invocation; no
// cross-operation transactions are exposed.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}
