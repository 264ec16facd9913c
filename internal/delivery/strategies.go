package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

// Each phase is an explicit ordered list of named strategies. The drivers
// iterate the lists uniformly: first success wins, a failing strategy hands
// over to the next one.

type resolveStrategy struct {
	name string
	run  func(ctx context.Context, ch Channel, username string) (string, error)
}

var resolveStrategies = []resolveStrategy{
	{
		name: "direct-lookup",
		run: func(ctx context.Context, ch Channel, username string) (string, error) {
			profile, err := ch.ResolveUser(ctx, username)
			if err != nil {
				return "", err
			}
			return profile.ID, nil
		},
	},
	{
		name: "search-index",
		run: func(ctx context.Context, ch Channel, username string) (string, error) {
			users, err := ch.SearchUsers(ctx, username, 1)
			if err != nil {
				return "", err
			}
			if len(users) == 0 {
				return "", fmt.Errorf("no search results for %s", username)
			}
			return users[0].ID, nil
		},
	},
	{
		name: "profile-info",
		run: func(ctx context.Context, ch Channel, username string) (string, error) {
			profile, err := ch.UsernameInfo(ctx, username)
			if err != nil {
				return "", err
			}
			return profile.ID, nil
		},
	},
}

// resolveIdentity tries each strategy in order and stops at the first user
// id. Exhausting the list is domain.ErrRecipientNotFound unless one of the
// failures carried a validation marker, which outranks not-found so the
// caller can apply the presumptive-success rule.
func (e *Engine) resolveIdentity(ctx context.Context, ch Channel, username string) (string, error) {
	var lastErr error

	for _, strategy := range resolveStrategies {
		id, err := strategy.run(ctx, ch, username)
		if err != nil {
			logger.Warnf("Resolution strategy %s failed for %s: %v", strategy.name, username, err)
			lastErr = err
			continue
		}

		if id != "" {
			logger.Debugf("Resolved %s via %s: %s", username, strategy.name, id)
			return id, nil
		}

		lastErr = fmt.Errorf("strategy %s returned empty user id", strategy.name)
	}

	if lastErr != nil && isValidationError(lastErr) {
		return "", lastErr
	}

	return "", fmt.Errorf("%w: %s: %v", domain.ErrRecipientNotFound, username, lastErr)
}

type sendStrategy struct {
	name string
	run  func(ctx context.Context, ch Channel, userID, text string) (threadID, messageID string, err error)
}

var sendStrategies = []sendStrategy{
	{
		name: "direct-send",
		run: func(ctx context.Context, ch Channel, userID, text string) (string, string, error) {
			msg, err := ch.SendDirect(ctx, userID, text)
			if err != nil {
				return "", "", err
			}

			threadID := msg.ThreadID
			if threadID == "" {
				threadID = msg.ID
			}
			if threadID == "" {
				threadID = domain.ThreadIDUnknown
			}

			return threadID, msg.ID, nil
		},
	},
	{
		name: "thread-send",
		run: func(ctx context.Context, ch Channel, userID, text string) (string, string, error) {
			thread, err := ch.ThreadByParticipants(ctx, userID)
			if err != nil {
				return "", "", err
			}

			msg, err := ch.SendToThread(ctx, thread.ID, text)
			if err != nil {
				return "", "", err
			}

			return thread.ID, msg.ID, nil
		},
	},
}

// sendMessage tries each send strategy in order with a randomized delay
// before every attempt. A validation error inside any attempt is the
// presumptive-success case and short-circuits with the sentinel thread id.
func (e *Engine) sendMessage(ctx context.Context, ch Channel, userID, text string) (string, string, error) {
	var lastErr error

	for _, strategy := range sendStrategies {
		e.preSendDelay(ctx)

		threadID, messageID, err := strategy.run(ctx, ch, userID, text)
		if err == nil {
			logger.Debugf("Send strategy %s succeeded (thread: %s)", strategy.name, threadID)
			return threadID, messageID, nil
		}

		if isValidationError(err) {
			logger.Warnf("Validation error in send strategy %s - assuming success", strategy.name)
			return domain.ThreadIDValidationSuccess, "", nil
		}

		logger.Warnf("Send strategy %s failed: %v", strategy.name, err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no send strategy attempted")
	}

	return "", "", fmt.Errorf("all send strategies failed: %w", lastErr)
}

// isValidationError spots the response-validation markers the remote side
// emits when it has accepted a message but the reply fails client-side
// deserialization.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "validation") || strings.Contains(msg, "pydantic")
}
