package domain

import "errors"

var (
	// ErrAuthenticationFailed means no login path produced a live channel.
	// Account-fatal: the scheduler skips the account, the run continues.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRecipientNotFound means every identity-resolution strategy was
	// exhausted without producing a user id.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAccountNotFound is returned for operations targeting an account
	// that does not exist or is already deactivated.
	ErrAccountNotFound = errors.New("account not found")

	// Start preconditions.
	ErrAlreadyRunning = errors.New("campaign is already running")
	ErrNoAccounts     = errors.New("no accounts configured")
	ErrNoRecipients   = errors.New("no recipients to message")
)
