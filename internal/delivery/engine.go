package delivery

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

// Channel is the authenticated surface the engine needs; *session.Channel
// satisfies it.
type Channel interface {
	AccountUsername() string
	ResolveUser(ctx context.Context, username string) (*domain.UserProfile, error)
	SearchUsers(ctx context.Context, query string, count int) ([]domain.UserProfile, error)
	UsernameInfo(ctx context.Context, username string) (*domain.UserProfile, error)
	SendDirect(ctx context.Context, userID, text string) (*domain.Message, error)
	ThreadByParticipants(ctx context.Context, userID string) (*domain.Thread, error)
	SendToThread(ctx context.Context, threadID, text string) (*domain.Message, error)
}

type deliveryStore interface {
	RecordDelivery(ctx context.Context, sender, recipient, messageText string,
		status domain.DeliveryStatus, threadID, messageID, errorDetail *string) error
}

// Engine resolves a recipient and sends one message through ordered
// fallback strategies, classifying the outcome and recording it. One
// DeliveryRecord is written per Send call, not per internal attempt.
type Engine struct {
	store deliveryStore

	// preSendDelay runs before every send attempt; replaced in tests.
	preSendDelay func(ctx context.Context)
}

func NewEngine(store deliveryStore) *Engine {
	return &Engine{
		store:        store,
		preSendDelay: randomizedDelay,
	}
}

// randomizedDelay sleeps 1-3s to pace send attempts.
func randomizedDelay(ctx context.Context) {
	d := time.Second + time.Duration(rand.Int64N(int64(2*time.Second)))

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Send drives the two phases and records the terminal outcome. A remote
// response-validation error is classified as success: the gateway is known
// to accept the message even when its response fails client-side parsing.
func (e *Engine) Send(ctx context.Context, ch Channel, recipientUsername, messageText string) domain.SendOutcome {
	sender := ch.AccountUsername()

	userID, err := e.resolveIdentity(ctx, ch, recipientUsername)
	if err != nil {
		if isValidationError(err) {
			logger.Warnf("Validation error resolving %s - treating as success: %v", recipientUsername, err)
			return e.recordSent(ctx, sender, recipientUsername, messageText, domain.ThreadIDValidationAssumed, "")
		}

		logger.Errorf("Could not resolve recipient %s: %v", recipientUsername, err)
		return e.recordFailed(ctx, sender, recipientUsername, messageText, err.Error())
	}

	threadID, messageID, err := e.sendMessage(ctx, ch, userID, messageText)
	if err != nil {
		if isValidationError(err) {
			logger.Warnf("Validation error sending to %s - treating as success: %v", recipientUsername, err)
			return e.recordSent(ctx, sender, recipientUsername, messageText, domain.ThreadIDValidationAssumed, "")
		}

		logger.Errorf("All send strategies failed for %s: %v", recipientUsername, err)
		return e.recordFailed(ctx, sender, recipientUsername, messageText, err.Error())
	}

	logger.Infof("Successfully sent DM to %s (thread: %s)", recipientUsername, threadID)

	return e.recordSent(ctx, sender, recipientUsername, messageText, threadID, messageID)
}

func (e *Engine) recordSent(ctx context.Context, sender, recipient, text, threadID, messageID string) domain.SendOutcome {
	var msgID *string
	if messageID != "" {
		msgID = &messageID
	}

	if err := e.store.RecordDelivery(ctx, sender, recipient, text,
		domain.DeliverySent, &threadID, msgID, nil); err != nil {
		// Best effort: a store failure never turns a delivered message
		// into a reported failure.
		logger.Errorf("Failed to record sent DM to %s: %v", recipient, err)
	}

	return domain.SendOutcome{Success: true, ThreadID: threadID, MessageID: messageID}
}

func (e *Engine) recordFailed(ctx context.Context, sender, recipient, text, detail string) domain.SendOutcome {
	if err := e.store.RecordDelivery(ctx, sender, recipient, text,
		domain.DeliveryFailed, nil, nil, &detail); err != nil {
		logger.Errorf("Failed to record failed DM to %s: %v", recipient, err)
	}

	return domain.SendOutcome{Success: false, ErrorDetail: detail}
}
