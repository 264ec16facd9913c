package campaign

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sheryyiee121/instagram-dm-bot/internal/delivery"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/internal/engagement"
)

// stubChannel satisfies Channel via the embedded interface; only the
// methods the scheduler itself touches are implemented.
type stubChannel struct {
	Channel
	username string
}

func (s *stubChannel) AccountUsername() string { return s.username }

type fakeCampaignStore struct {
	mu         sync.Mutex
	accounts   []domain.Account
	recipients []domain.Recipient
	processed  []string

	accountsErr   error
	recipientsErr error
}

func (f *fakeCampaignStore) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeCampaignStore) NextUnprocessedRecipients(ctx context.Context, limit int) ([]domain.Recipient, error) {
	if f.recipientsErr != nil {
		return nil, f.recipientsErr
	}
	out := make([]domain.Recipient, len(f.recipients))
	copy(out, f.recipients)
	return out, nil
}

func (f *fakeCampaignStore) CountUnprocessedRecipients(ctx context.Context) (int, error) {
	return len(f.recipients), nil
}

func (f *fakeCampaignStore) MarkProcessed(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, username)
	return nil
}

func (f *fakeCampaignStore) processedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.processed))
	copy(out, f.processed)
	return out
}

type sentCall struct {
	Sender    string
	Recipient string
	Text      string
}

type fakeEngine struct {
	mu      sync.Mutex
	failFor map[string]bool
	sends   []sentCall
	onSend  func(recipient string)
}

func (f *fakeEngine) Send(ctx context.Context, ch delivery.Channel, recipientUsername, messageText string) domain.SendOutcome {
	f.mu.Lock()
	f.sends = append(f.sends, sentCall{
		Sender:    ch.AccountUsername(),
		Recipient: recipientUsername,
		Text:      messageText,
	})
	fail := f.failFor[recipientUsername]
	f.mu.Unlock()

	if f.onSend != nil {
		f.onSend(recipientUsername)
	}

	if fail {
		return domain.SendOutcome{Success: false, ErrorDetail: "simulated failure"}
	}
	return domain.SendOutcome{Success: true, ThreadID: "t1"}
}

func (f *fakeEngine) sentCalls() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentCall, len(f.sends))
	copy(out, f.sends)
	return out
}

type fakeEngager struct {
	mu      sync.Mutex
	targets []string
}

func (f *fakeEngager) Run(ctx context.Context, ch engagement.Channel, targetUsername string, settings domain.CampaignSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, targetUsername)
}

func (f *fakeEngager) engaged() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.targets))
	copy(out, f.targets)
	return out
}

func okAcquire(ctx context.Context, account domain.Account, useInteractiveLogin bool) (Channel, error) {
	return &stubChannel{username: account.Username}, nil
}

func testSettings() domain.CampaignSettings {
	s := domain.DefaultCampaignSettings()
	s.DelayBetweenMessages = 0
	s.DelayBetweenAccounts = 0
	s.AutoEngage = false
	return s
}

func recipients(names ...string) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(names))
	for _, name := range names {
		out = append(out, domain.Recipient{Username: name})
	}
	return out
}

func waitForRun(t *testing.T, s *Scheduler) {
	t.Helper()
	select {
	case <-s.doneChan:
	case <-time.After(5 * time.Second):
		t.Fatal("campaign run did not finish in time")
	}
}

func TestStart_RejectsWhenAlreadyRunning(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}},
		recipients: recipients("r1", "r2"),
	}
	engine := &fakeEngine{}
	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	settings := testSettings()
	settings.DelayBetweenMessages = 5 // keep the first run alive

	if err := s.Start(context.Background(), settings); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	if err := s.Start(context.Background(), settings); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	waitForRun(t, s)
}

func TestStart_RejectsWithoutAccountsOrRecipients(t *testing.T) {
	s := NewScheduler(&fakeCampaignStore{recipients: recipients("r1")}, okAcquire, &fakeEngine{}, &fakeEngager{})
	if err := s.Start(context.Background(), testSettings()); !errors.Is(err, domain.ErrNoAccounts) {
		t.Errorf("expected ErrNoAccounts, got %v", err)
	}

	s = NewScheduler(&fakeCampaignStore{accounts: []domain.Account{{Username: "acct1"}}}, okAcquire, &fakeEngine{}, &fakeEngager{})
	if err := s.Start(context.Background(), testSettings()); !errors.Is(err, domain.ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}

func TestRun_HonorsTotalAndPerAccountQuotas(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}, {Username: "acct2"}},
		recipients: recipients("r1", "r2", "r3", "r4", "r5"),
	}
	engine := &fakeEngine{}
	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	settings := testSettings()
	settings.PerAccountQuota = 2
	settings.TotalQuota = 3

	if err := s.Start(context.Background(), settings); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	sends := engine.sentCalls()
	if len(sends) != 3 {
		t.Fatalf("expected 3 sends under total quota, got %d", len(sends))
	}
	// The first account stops at its per-account quota.
	if sends[0].Sender != "acct1" || sends[1].Sender != "acct1" {
		t.Errorf("expected first two sends from acct1, got %s/%s", sends[0].Sender, sends[1].Sender)
	}
	if sends[2].Sender != "acct2" {
		t.Errorf("expected third send from acct2, got %s", sends[2].Sender)
	}

	if got := len(store.processedNames()); got != 3 {
		t.Errorf("expected 3 recipients marked processed, got %d", got)
	}

	status := s.Status(context.Background())
	if status.Running {
		t.Error("expected run to have finished")
	}
	if status.LastOutcome != domain.OutcomeCompleted {
		t.Errorf("expected outcome completed, got %s", status.LastOutcome)
	}
}

func TestRun_SkipsDuplicateRecipientsWithoutConsumingQuota(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}},
		recipients: recipients("r1", "r1", "r2"),
	}
	engine := &fakeEngine{}
	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	if err := s.Start(context.Background(), testSettings()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	sends := engine.sentCalls()
	if len(sends) != 2 {
		t.Fatalf("expected 2 sends (duplicate skipped), got %d", len(sends))
	}
	if sends[0].Recipient != "r1" || sends[1].Recipient != "r2" {
		t.Errorf("unexpected send order: %+v", sends)
	}
}

func TestRun_RequeuesFailuresThenGivesUp(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}},
		recipients: recipients("bad", "good"),
	}
	engine := &fakeEngine{failFor: map[string]bool{"bad": true}}
	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	if err := s.Start(context.Background(), testSettings()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	attempts := 0
	for _, call := range engine.sentCalls() {
		if call.Recipient == "bad" {
			attempts++
		}
	}
	if attempts != maxAttemptsPerRecipient {
		t.Errorf("expected %d attempts for a failing recipient, got %d", maxAttemptsPerRecipient, attempts)
	}

	// The exhausted recipient is marked processed so the queue drains.
	processed := store.processedNames()
	foundBad := false
	for _, name := range processed {
		if name == "bad" {
			foundBad = true
		}
	}
	if !foundBad {
		t.Error("expected exhausted recipient to be marked processed")
	}

	if s.Status(context.Background()).LastOutcome != domain.OutcomeCompleted {
		t.Error("a drained queue is a completed run even with failures")
	}
}

func TestRun_StopCancelsBetweenMessages(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}},
		recipients: recipients("r1", "r2", "r3"),
	}

	firstSend := make(chan struct{})
	engine := &fakeEngine{}
	var once sync.Once
	engine.onSend = func(string) {
		once.Do(func() { close(firstSend) })
	}

	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	settings := testSettings()
	settings.DelayBetweenMessages = 10 // long enough for Stop to land in the sleep

	if err := s.Start(context.Background(), settings); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-firstSend
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	waitForRun(t, s)

	if got := len(engine.sentCalls()); got != 1 {
		t.Errorf("expected exactly 1 send before stop, got %d", got)
	}

	status := s.Status(context.Background())
	if status.Running {
		t.Error("expected run to have stopped")
	}
	if status.LastOutcome != domain.OutcomeStopped {
		t.Errorf("expected outcome stopped, got %s", status.LastOutcome)
	}
}

func TestRun_SkipsAccountsThatFailToAuthenticate(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "dead"}, {Username: "live"}},
		recipients: recipients("r1"),
	}
	engine := &fakeEngine{}

	acquire := func(ctx context.Context, account domain.Account, useInteractiveLogin bool) (Channel, error) {
		if account.Username == "dead" {
			return nil, domain.ErrAuthenticationFailed
		}
		return &stubChannel{username: account.Username}, nil
	}

	s := NewScheduler(store, acquire, engine, &fakeEngager{})

	if err := s.Start(context.Background(), testSettings()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	sends := engine.sentCalls()
	if len(sends) != 1 || sends[0].Sender != "live" {
		t.Fatalf("expected the live account to carry the send, got %+v", sends)
	}
}

func TestRun_EngagesAfterSuccessfulSendWhenEnabled(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "acct1"}},
		recipients: recipients("won", "lost"),
	}
	engine := &fakeEngine{failFor: map[string]bool{"lost": true}}
	engager := &fakeEngager{}
	s := NewScheduler(store, okAcquire, engine, engager)

	settings := testSettings()
	settings.AutoEngage = true

	if err := s.Start(context.Background(), settings); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	for _, target := range engager.engaged() {
		if target == "lost" {
			t.Error("failed deliveries must not trigger engagement")
		}
	}

	foundWon := false
	for _, target := range engager.engaged() {
		if target == "won" {
			foundWon = true
		}
	}
	if !foundWon {
		t.Error("expected engagement to run for the delivered recipient")
	}
}

func TestRun_PersonalizesMessageTemplate(t *testing.T) {
	store := &fakeCampaignStore{
		accounts: []domain.Account{{Username: "acct1"}},
		recipients: []domain.Recipient{
			{Username: "named", Firstname: "Ayşe"},
			{Username: "anon"},
		},
	}
	engine := &fakeEngine{}
	s := NewScheduler(store, okAcquire, engine, &fakeEngager{})

	settings := testSettings()
	settings.MessageTemplate = "Hey <FIRSTNAME>, hello!"

	if err := s.Start(context.Background(), settings); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForRun(t, s)

	sends := engine.sentCalls()
	if len(sends) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sends))
	}
	if sends[0].Text != "Hey Ayşe, hello!" {
		t.Errorf("unexpected personalized text: %q", sends[0].Text)
	}
	if sends[1].Text != "Hey Friend, hello!" {
		t.Errorf("expected fallback name, got %q", sends[1].Text)
	}
}

func TestStatus_IdleUsesStoreCounts(t *testing.T) {
	store := &fakeCampaignStore{
		accounts:   []domain.Account{{Username: "a"}, {Username: "b"}},
		recipients: recipients("r1", "r2", "r3"),
	}
	s := NewScheduler(store, okAcquire, &fakeEngine{}, &fakeEngager{})

	status := s.Status(context.Background())
	if status.Running {
		t.Error("expected idle status")
	}
	if status.AccountsCount != 2 {
		t.Errorf("expected 2 accounts, got %d", status.AccountsCount)
	}
	if status.RecipientsRemaining != 3 {
		t.Errorf("expected 3 remaining, got %d", status.RecipientsRemaining)
	}
}
