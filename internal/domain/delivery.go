package domain

import "time"

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Sentinel thread ids recorded when the remote side returns a
// response-validation error. The gateway is known to accept the message
// despite the client-side parsing failure, so these deliveries count as sent.
const (
	ThreadIDValidationSuccess = "validation_success"
	ThreadIDValidationAssumed = "validation_assumed_success"
	ThreadIDUnknown           = "unknown"
)

// DeliveryRecord is an immutable append-only fact: one row per terminal
// delivery outcome, not per internal strategy attempt.
type DeliveryRecord struct {
	ID                int64          `db:"id" json:"id"`
	SenderUsername    string         `db:"sender_username" json:"senderUsername"`
	RecipientUsername string         `db:"recipient_username" json:"recipientUsername"`
	MessageText       *string        `db:"message_text" json:"messageText,omitempty"`
	Status            DeliveryStatus `db:"status" json:"status"`
	ThreadID          *string        `db:"thread_id" json:"threadId,omitempty"`
	MessageID         *string        `db:"message_id" json:"messageId,omitempty"`
	ErrorDetail       *string        `db:"error_detail" json:"errorDetail,omitempty"`
	SentAt            time.Time      `db:"sent_at" json:"sentAt"`
}

// DailyCounter is the materialized per-(account, date) view of delivery
// outcomes. Counters are upserted incrementally and never decremented, so
// for any account and date Sent equals the count of sent DeliveryRecord rows.
type DailyCounter struct {
	Username string `db:"username" json:"username"`
	Date     string `db:"date" json:"date"`
	Sent     int    `db:"dms_sent" json:"sent"`
	Failed   int    `db:"dms_failed" json:"failed"`
}

// SendOutcome is the terminal result of one DeliveryEngine.Send call.
type SendOutcome struct {
	Success     bool
	ThreadID    string
	MessageID   string
	ErrorDetail string
}
