package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

type fakeEngageChannel struct {
	resolveErr error
	profileID  string

	stories    []domain.StoryItem
	storiesErr error
	seenIDs    []string
	seenErr    error

	medias    []domain.MediaItem
	mediasErr error
	likeErr   error

	commentErr error
	comments   []string

	followErr  error
	followedID string
}

func (f *fakeEngageChannel) AccountUsername() string { return "acct1" }

func (f *fakeEngageChannel) ResolveUser(ctx context.Context, username string) (*domain.UserProfile, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &domain.UserProfile{ID: f.profileID, Username: username}, nil
}

func (f *fakeEngageChannel) UserStories(ctx context.Context, userID string) ([]domain.StoryItem, error) {
	return f.stories, f.storiesErr
}

func (f *fakeEngageChannel) MarkStorySeen(ctx context.Context, storyIDs []string) error {
	f.seenIDs = storyIDs
	return f.seenErr
}

func (f *fakeEngageChannel) UserMedias(ctx context.Context, userID string, amount int) ([]domain.MediaItem, error) {
	return f.medias, f.mediasErr
}

func (f *fakeEngageChannel) LikeMedia(ctx context.Context, mediaID string) error {
	return f.likeErr
}

func (f *fakeEngageChannel) CommentMedia(ctx context.Context, mediaID, text string) error {
	f.comments = append(f.comments, text)
	return f.commentErr
}

func (f *fakeEngageChannel) FollowUser(ctx context.Context, userID string) error {
	f.followedID = userID
	return f.followErr
}

type recordedEngagement struct {
	Username string
	Action   domain.EngagementAction
	Target   string
	Status   domain.EngagementStatus
}

type fakeEngagementStore struct {
	records []recordedEngagement
}

func (f *fakeEngagementStore) RecordEngagement(ctx context.Context, username string,
	action domain.EngagementAction, target string, status domain.EngagementStatus, detail *string) error {
	f.records = append(f.records, recordedEngagement{
		Username: username,
		Action:   action,
		Target:   target,
		Status:   status,
	})
	return nil
}

func (f *fakeEngagementStore) byAction(action domain.EngagementAction) []recordedEngagement {
	var out []recordedEngagement
	for _, rec := range f.records {
		if rec.Action == action {
			out = append(out, rec)
		}
	}
	return out
}

func allEnabled() domain.CampaignSettings {
	s := domain.DefaultCampaignSettings()
	s.AutoStory = true
	s.AutoLike = true
	s.AutoComment = true
	s.AutoFollow = true
	return s
}

func TestRun_AllActionsRecorded(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)
	o.pickComment = func() string { return "Nice! 👍" }

	ch := &fakeEngageChannel{
		profileID: "501",
		stories:   []domain.StoryItem{{ID: "s1"}, {ID: "s2"}},
		medias:    []domain.MediaItem{{ID: "m1", Code: "CODE1"}, {ID: "m2"}},
	}

	o.Run(context.Background(), ch, "target", allEnabled())

	if len(ch.seenIDs) != 2 {
		t.Errorf("expected 2 stories watched, got %d", len(ch.seenIDs))
	}
	if ch.followedID != "501" {
		t.Errorf("expected follow of 501, got %q", ch.followedID)
	}
	if len(ch.comments) != 1 || ch.comments[0] != "Nice! 👍" {
		t.Errorf("expected the pinned comment, got %v", ch.comments)
	}

	if got := len(store.byAction(domain.ActionStoryView)); got != 1 {
		t.Errorf("expected 1 story-view record, got %d", got)
	}
	if got := len(store.byAction(domain.ActionLike)); got != 2 {
		t.Errorf("expected 2 like records, got %d", got)
	}
	if got := len(store.byAction(domain.ActionFollow)); got != 1 {
		t.Errorf("expected 1 follow record, got %d", got)
	}
	if got := len(store.byAction(domain.ActionComment)); got != 1 {
		t.Errorf("expected 1 comment record, got %d", got)
	}

	// Like records prefer the media code over the raw id.
	likes := store.byAction(domain.ActionLike)
	if likes[0].Target != "CODE1" {
		t.Errorf("expected like target CODE1, got %q", likes[0].Target)
	}
	if likes[1].Target != "m2" {
		t.Errorf("expected like target m2, got %q", likes[1].Target)
	}
}

func TestRun_ResolveFailureSkipsEverything(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)

	ch := &fakeEngageChannel{resolveErr: errors.New("lookup failed")}

	o.Run(context.Background(), ch, "target", allEnabled())

	if len(store.records) != 0 {
		t.Errorf("expected no engagement records, got %d", len(store.records))
	}
	if ch.followedID != "" {
		t.Error("expected no follow attempt")
	}
}

func TestRun_StoryCapAtThree(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)

	ch := &fakeEngageChannel{
		profileID: "501",
		stories: []domain.StoryItem{
			{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"}, {ID: "s5"},
		},
	}

	settings := domain.DefaultCampaignSettings()
	settings.AutoLike = false

	o.Run(context.Background(), ch, "target", settings)

	if len(ch.seenIDs) != maxStoriesPerUser {
		t.Errorf("expected %d stories watched, got %d", maxStoriesPerUser, len(ch.seenIDs))
	}
}

func TestRun_ActionFailuresAreIsolated(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)
	o.pickComment = func() string { return "Wow! 🤩" }

	// Story listing fails; likes and the rest still run.
	ch := &fakeEngageChannel{
		profileID:  "501",
		storiesErr: errors.New("stories unavailable"),
		medias:     []domain.MediaItem{{ID: "m1"}},
	}

	o.Run(context.Background(), ch, "target", allEnabled())

	storyRecords := store.byAction(domain.ActionStoryView)
	if len(storyRecords) != 1 || storyRecords[0].Status != domain.EngagementFailed {
		t.Fatalf("expected one failed story record, got %+v", storyRecords)
	}

	if got := len(store.byAction(domain.ActionLike)); got != 1 {
		t.Errorf("expected the like to run despite the story failure, got %d records", got)
	}
	if ch.followedID != "501" {
		t.Error("expected the follow to run despite the story failure")
	}
	if len(ch.comments) != 1 {
		t.Error("expected the comment to run despite the story failure")
	}
}

func TestRun_DisabledActionsDoNotRun(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)

	ch := &fakeEngageChannel{
		profileID: "501",
		stories:   []domain.StoryItem{{ID: "s1"}},
		medias:    []domain.MediaItem{{ID: "m1"}},
	}

	// Defaults leave comment and follow off.
	o.Run(context.Background(), ch, "target", domain.DefaultCampaignSettings())

	if ch.followedID != "" {
		t.Error("follow must not run when disabled")
	}
	if len(ch.comments) != 0 {
		t.Error("comment must not run when disabled")
	}
	if len(ch.seenIDs) != 1 {
		t.Error("story watching should run when enabled")
	}
}

func TestRun_CommentListingFailureIsRecorded(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)

	ch := &fakeEngageChannel{
		profileID: "501",
		mediasErr: errors.New("medias unavailable"),
	}

	settings := domain.DefaultCampaignSettings()
	settings.AutoStory = false
	settings.AutoLike = false
	settings.AutoComment = true

	o.Run(context.Background(), ch, "target", settings)

	if len(ch.comments) != 0 {
		t.Errorf("expected no comment sent, got %v", ch.comments)
	}

	records := store.byAction(domain.ActionComment)
	if len(records) != 1 {
		t.Fatalf("expected 1 comment record, got %d", len(records))
	}
	if records[0].Status != domain.EngagementFailed {
		t.Errorf("expected failed comment record, got %s", records[0].Status)
	}
	if records[0].Target != "target" {
		t.Errorf("expected record target %q, got %q", "target", records[0].Target)
	}
}

func TestRun_NoPostsAndNoStoriesAreRecorded(t *testing.T) {
	store := &fakeEngagementStore{}
	o := NewOrchestrator(store)

	// Lookups succeed but the target has nothing to engage with.
	ch := &fakeEngageChannel{profileID: "501"}

	settings := domain.DefaultCampaignSettings()
	settings.AutoComment = true

	o.Run(context.Background(), ch, "target", settings)

	if len(ch.seenIDs) != 0 {
		t.Errorf("expected no stories watched, got %v", ch.seenIDs)
	}
	if len(ch.comments) != 0 {
		t.Errorf("expected no comment sent, got %v", ch.comments)
	}

	for _, action := range []domain.EngagementAction{
		domain.ActionStoryView, domain.ActionLike, domain.ActionComment,
	} {
		records := store.byAction(action)
		if len(records) != 1 {
			t.Fatalf("expected 1 %s record, got %d", action, len(records))
		}
		if records[0].Status != domain.EngagementFailed {
			t.Errorf("expected failed %s record, got %s", action, records[0].Status)
		}
	}
}
