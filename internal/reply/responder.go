package reply

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

// Channel is what one inbox scan needs from a live session.
// *session.Channel satisfies it.
type Channel interface {
	AccountUsername() string
	InboxThreads(ctx context.Context) ([]domain.InboxThread, error)
	UserByID(ctx context.Context, userID string) (*domain.UserProfile, error)
	SendDirect(ctx context.Context, userID, text string) (*domain.Message, error)
}

type replyStore interface {
	HasReplied(ctx context.Context, messageID string) (bool, error)
	MarkReplied(ctx context.Context, account, messageID, target, replyText string) error
}

// rule pairs a keyword pattern with the reply it triggers. Rules are
// checked in order; the first match wins.
type rule struct {
	pattern *regexp.Regexp
	respond func(username string) string
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\b(hey|hi|hello)\b`),
		respond: func(u string) string {
			return fmt.Sprintf("Yo %s! Stoked you replied! What's the deal? 😎", u)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\bhow are you\b`),
		respond: func(u string) string {
			return fmt.Sprintf("Hey %s! I'm pumped, how's your day going? 😄", u)
		},
	},
	{
		// "intereted" is a common typo worth catching.
		pattern: regexp.MustCompile(`(?i)\b(interested|intereted|great|cool|awesome)\b`),
		respond: func(u string) string {
			return fmt.Sprintf("Wow, %s, that's lit! Can you spill more details? 👀", u)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(yes|sure|okay)\b`),
		respond: func(u string) string {
			return fmt.Sprintf("Sweet, %s! Let's roll, what's next on your mind? 🚀", u)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(no|not really)\b`),
		respond: func(u string) string {
			return fmt.Sprintf("No worries, %s! Anything else I can hook you up with? 😊", u)
		},
	},
}

// Responder scans an account's inbox and answers keyword-matched inbound
// messages. Answered message ids are tracked in the store so a message is
// never replied to twice across scans or processes.
type Responder struct {
	store replyStore
}

func NewResponder(store replyStore) *Responder {
	return &Responder{store: store}
}

// CheckAndReply answers the first unanswered inbound message matching a
// keyword rule and reports whether a reply went out. Per-message failures
// are logged and skipped so one broken message cannot block the scan.
func (r *Responder) CheckAndReply(ctx context.Context, ch Channel) (bool, error) {
	threads, err := ch.InboxThreads(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to scan inbox: %w", err)
	}

	for _, thread := range threads {
		for _, msg := range thread.Messages {
			if msg.ID == "" || msg.SenderID == "" || msg.Text == "" {
				continue
			}

			answered, err := r.store.HasReplied(ctx, msg.ID)
			if err != nil {
				return false, err
			}
			if answered {
				continue
			}

			sent, err := r.answer(ctx, ch, msg)
			if err != nil {
				logger.Warnf("Could not answer message %s: %v", msg.ID, err)
				continue
			}
			if sent {
				return true, nil
			}
		}
	}

	return false, nil
}

func (r *Responder) answer(ctx context.Context, ch Channel, msg domain.InboxMessage) (bool, error) {
	var matched *rule
	for i := range rules {
		if rules[i].pattern.MatchString(msg.Text) {
			matched = &rules[i]
			break
		}
	}
	if matched == nil {
		return false, nil
	}

	profile, err := ch.UserByID(ctx, msg.SenderID)
	if err != nil {
		return false, fmt.Errorf("sender lookup failed: %w", err)
	}

	replyText := matched.respond(profile.Username)

	if _, err := ch.SendDirect(ctx, msg.SenderID, replyText); err != nil {
		return false, fmt.Errorf("reply send failed: %w", err)
	}

	logger.Infof("Auto-replied to %s: %s", profile.Username, replyText)

	// The reply is already out; a tracking failure only risks a duplicate
	// on the next scan, so log it instead of failing the call.
	if err := r.store.MarkReplied(ctx, ch.AccountUsername(), msg.ID, profile.Username, replyText); err != nil {
		logger.Errorf("Failed to track reply to %s: %v", profile.Username, err)
	}

	return true, nil
}
