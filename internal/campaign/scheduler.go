package campaign

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sheryyiee121/instagram-dm-bot/internal/delivery"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/internal/engagement"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

const (
	firstnameFallback = "Friend"
	firstnameTag      = "<FIRSTNAME>"

	// A recipient failing this many deliveries in one run is marked
	// processed instead of requeued, so a permanently undeliverable
	// target cannot cycle forever.
	maxAttemptsPerRecipient = 3
)

// Channel is the full authenticated surface a run hands to the delivery
// engine and the engagement orchestrator. *session.Channel satisfies it.
type Channel interface {
	delivery.Channel
	engagement.Channel
}

// AcquireFunc obtains a live channel for an account; session.Manager.Acquire
// is adapted into this shape at wiring time.
type AcquireFunc func(ctx context.Context, account domain.Account, useInteractiveLogin bool) (Channel, error)

type campaignStore interface {
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
	NextUnprocessedRecipients(ctx context.Context, limit int) ([]domain.Recipient, error)
	CountUnprocessedRecipients(ctx context.Context) (int, error)
	MarkProcessed(ctx context.Context, username string) error
}

type deliveryEngine interface {
	Send(ctx context.Context, ch delivery.Channel, recipientUsername, messageText string) domain.SendOutcome
}

type engager interface {
	Run(ctx context.Context, ch engagement.Channel, targetUsername string, settings domain.CampaignSettings)
}

// runState is owned by the worker goroutine while running; the control
// surface only reads the snapshot fields under the scheduler mutex.
type runState struct {
	settings  domain.CampaignSettings
	accounts  []domain.Account
	queue     []domain.Recipient
	sentSet   map[string]struct{}
	attempts  map[string]int
	totalSent int
}

// Scheduler drives one campaign at a time: it rotates accounts under the
// per-account and global quotas, pulls recipients FIFO, and observes a
// cooperative stop flag at every loop boundary. Only one run may exist
// process-wide.
type Scheduler struct {
	store   campaignStore
	acquire AcquireFunc
	engine  deliveryEngine
	engager engager

	mu          sync.RWMutex
	running     bool
	lastOutcome domain.RunOutcome
	stopChan    chan struct{}
	doneChan    chan struct{}
	run         *runState
}

func NewScheduler(store campaignStore, acquire AcquireFunc, engine deliveryEngine, eng engager) *Scheduler {
	return &Scheduler{
		store:   store,
		acquire: acquire,
		engine:  engine,
		engager: eng,
	}
}

// Start validates preconditions and launches the worker goroutine. A
// rejection leaves the scheduler exactly as it was.
func (s *Scheduler) Start(ctx context.Context, settings domain.CampaignSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrAlreadyRunning
	}

	accounts, err := s.store.ListActiveAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return domain.ErrNoAccounts
	}

	pending, err := s.store.NextUnprocessedRecipients(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}
	if len(pending) == 0 {
		return domain.ErrNoRecipients
	}

	s.run = &runState{
		settings: settings,
		accounts: accounts,
		queue:    pending,
		sentSet:  make(map[string]struct{}),
		attempts: make(map[string]int),
	}
	s.running = true
	s.lastOutcome = domain.OutcomeNone
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})

	logger.Infof("Starting campaign: %d accounts, %d recipients, quotas %d/%d",
		len(accounts), len(pending), settings.PerAccountQuota, settings.TotalQuota)

	go s.runLoop(ctx, s.run, s.stopChan, s.doneChan)

	return nil
}

// Stop requests cancellation and returns without waiting; the worker exits
// at its next checkpoint.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("campaign is not running")
	}

	select {
	case <-s.stopChan:
		// already requested
	default:
		close(s.stopChan)
		logger.Infof("Campaign stop requested")
	}

	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status reports the live run when one exists, otherwise store-backed counts.
func (s *Scheduler) Status(ctx context.Context) domain.CampaignStatus {
	s.mu.RLock()
	running := s.running
	outcome := s.lastOutcome
	var run *runState
	if running {
		run = s.run
	}
	s.mu.RUnlock()

	if run != nil {
		s.mu.RLock()
		status := domain.CampaignStatus{
			Running:             true,
			LastOutcome:         outcome,
			AccountsCount:       len(run.accounts),
			RecipientsRemaining: len(run.queue),
			SentCount:           len(run.sentSet),
		}
		s.mu.RUnlock()
		return status
	}

	status := domain.CampaignStatus{Running: false, LastOutcome: outcome}

	if accounts, err := s.store.ListActiveAccounts(ctx); err == nil {
		status.AccountsCount = len(accounts)
	}
	if remaining, err := s.store.CountUnprocessedRecipients(ctx); err == nil {
		status.RecipientsRemaining = remaining
	}

	return status
}

func (s *Scheduler) runLoop(ctx context.Context, run *runState, stopChan, doneChan chan struct{}) {
	defer close(doneChan)

	outcome := domain.OutcomeCompleted

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Campaign worker panic: %v", r)
			outcome = domain.OutcomeFailed
		}

		s.mu.Lock()
		s.running = false
		s.lastOutcome = outcome
		s.mu.Unlock()

		logger.Infof("Campaign finished: %s (%d sent)", outcome, run.totalSent)
	}()

	for i, account := range run.accounts {
		if s.stopRequested(ctx, stopChan) {
			outcome = domain.OutcomeStopped
			return
		}

		if run.totalSent >= run.settings.TotalQuota || s.queueLen(run) == 0 {
			return
		}

		logger.Infof("Starting DM process with account: %s", account.Username)

		ch, err := s.acquire(ctx, account, run.settings.UseInteractiveLogin)
		if err != nil {
			logger.Errorf("Skipping account %s: %v", account.Username, err)
			continue
		}

		stopped := s.sendWithAccount(ctx, run, stopChan, ch)
		if stopped {
			outcome = domain.OutcomeStopped
			return
		}

		// Inter-account delay, only when more work remains.
		if i < len(run.accounts)-1 && s.queueLen(run) > 0 && run.totalSent < run.settings.TotalQuota {
			delay := time.Duration(run.settings.DelayBetweenAccounts) * time.Minute
			logger.Infof("Switching accounts in %v...", delay)
			if !s.sleep(ctx, stopChan, delay) {
				outcome = domain.OutcomeStopped
				return
			}
		}
	}
}

// sendWithAccount runs the inner per-account loop. Returns true when the
// run was cancelled.
func (s *Scheduler) sendWithAccount(ctx context.Context, run *runState, stopChan chan struct{}, ch Channel) bool {
	accountSent := 0

	for accountSent < run.settings.PerAccountQuota && run.totalSent < run.settings.TotalQuota {
		if s.stopRequested(ctx, stopChan) {
			return true
		}

		recipient, ok := s.dequeue(run)
		if !ok {
			return false
		}

		// Already delivered in this run: skip without consuming quota.
		if _, sent := run.sentSet[recipient.Username]; sent {
			logger.Debugf("Skipping already sent recipient: %s", recipient.Username)
			continue
		}

		text := personalize(run.settings.MessageTemplate, recipient.Firstname)

		logger.Infof("Sending to %s with %s", recipient.Username, ch.AccountUsername())

		outcome := s.engine.Send(ctx, ch, recipient.Username, text)
		if outcome.Success {
			if err := s.store.MarkProcessed(ctx, recipient.Username); err != nil {
				logger.Errorf("Failed to mark %s processed: %v", recipient.Username, err)
			}

			s.mu.Lock()
			run.sentSet[recipient.Username] = struct{}{}
			run.totalSent++
			s.mu.Unlock()
			accountSent++

			logger.Infof("Sent %d/%d messages with %s", accountSent, run.settings.PerAccountQuota, ch.AccountUsername())

			if run.settings.AutoEngage {
				s.engager.Run(ctx, ch, recipient.Username, run.settings)
			}
		} else {
			s.requeueOrGiveUp(ctx, run, recipient)
			continue
		}

		delay := time.Duration(run.settings.DelayBetweenMessages) * time.Second
		if !s.sleep(ctx, stopChan, delay) {
			return true
		}
	}

	if accountSent >= run.settings.PerAccountQuota {
		logger.Infof("Reached %d messages with %s, switching account", accountSent, ch.AccountUsername())
	}

	return false
}

// requeueOrGiveUp re-offers a failed recipient at the tail of the queue
// until the attempt cap, then marks it processed so the queue drains.
func (s *Scheduler) requeueOrGiveUp(ctx context.Context, run *runState, recipient domain.Recipient) {
	run.attempts[recipient.Username]++
	attempts := run.attempts[recipient.Username]

	if attempts >= maxAttemptsPerRecipient {
		logger.Warnf("Giving up on %s after %d attempts", recipient.Username, attempts)
		if err := s.store.MarkProcessed(ctx, recipient.Username); err != nil {
			logger.Errorf("Failed to mark %s processed: %v", recipient.Username, err)
		}
		return
	}

	logger.Warnf("Requeueing %s (attempt %d/%d)", recipient.Username, attempts, maxAttemptsPerRecipient)

	s.mu.Lock()
	run.queue = append(run.queue, recipient)
	s.mu.Unlock()
}

func (s *Scheduler) dequeue(run *runState) (domain.Recipient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(run.queue) == 0 {
		return domain.Recipient{}, false
	}

	recipient := run.queue[0]
	run.queue = run.queue[1:]
	return recipient, true
}

func (s *Scheduler) queueLen(run *runState) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(run.queue)
}

func (s *Scheduler) stopRequested(ctx context.Context, stopChan chan struct{}) bool {
	select {
	case <-stopChan:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sleep blocks for d, returning false when the run is cancelled first.
func (s *Scheduler) sleep(ctx context.Context, stopChan chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return !s.stopRequested(ctx, stopChan)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}

func personalize(template, firstname string) string {
	if firstname == "" {
		firstname = firstnameFallback
	}

	return strings.ReplaceAll(template, firstnameTag, firstname)
}
