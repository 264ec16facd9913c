package engagement

import (
	"context"
	"math/rand/v2"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
)

const (
	maxStoriesPerUser = 3
	maxLikesPerUser   = 3
)

// commentTemplates is the fixed phrase set a comment is drawn from.
var commentTemplates = []string{
	"Great post! 🔥",
	"Love this! 💯",
	"Amazing content! 👏",
	"This is awesome! 🙌",
	"So cool! 😍",
	"Nice! 👍",
	"Wow! 🤩",
	"Beautiful! ❤️",
}

type Channel interface {
	AccountUsername() string
	ResolveUser(ctx context.Context, username string) (*domain.UserProfile, error)
	UserStories(ctx context.Context, userID string) ([]domain.StoryItem, error)
	MarkStorySeen(ctx context.Context, storyIDs []string) error
	UserMedias(ctx context.Context, userID string, amount int) ([]domain.MediaItem, error)
	LikeMedia(ctx context.Context, mediaID string) error
	CommentMedia(ctx context.Context, mediaID, text string) error
	FollowUser(ctx context.Context, userID string) error
}

type engagementStore interface {
	RecordEngagement(ctx context.Context, username string, action domain.EngagementAction,
		target string, status domain.EngagementStatus, detail *string) error
}

// Orchestrator runs the optional post-delivery action sequence. Sub-actions
// are isolated: one failing never aborts the others, and every attempted
// sub-action leaves an engagement record.
type Orchestrator struct {
	store engagementStore

	// pickComment is split out so tests can pin the template choice.
	pickComment func() string
}

func NewOrchestrator(store engagementStore) *Orchestrator {
	return &Orchestrator{
		store: store,
		pickComment: func() string {
			return commentTemplates[rand.IntN(len(commentTemplates))]
		},
	}
}

// Run performs the enabled sub-actions against one target.
func (o *Orchestrator) Run(ctx context.Context, ch Channel, targetUsername string, settings domain.CampaignSettings) {
	logger.Infof("Starting auto-engagement for %s", targetUsername)

	profile, err := ch.ResolveUser(ctx, targetUsername)
	if err != nil {
		logger.Warnf("Cannot engage %s, user lookup failed: %v", targetUsername, err)
		return
	}

	if settings.AutoStory {
		o.watchStories(ctx, ch, profile.ID, targetUsername)
	}

	if settings.AutoLike {
		o.likePosts(ctx, ch, profile.ID, targetUsername)
	}

	if settings.AutoFollow {
		o.follow(ctx, ch, profile.ID, targetUsername)
	}

	if settings.AutoComment {
		o.comment(ctx, ch, profile.ID, targetUsername)
	}

	logger.Infof("Completed auto-engagement for %s", targetUsername)
}

func (o *Orchestrator) watchStories(ctx context.Context, ch Channel, userID, target string) {
	stories, err := ch.UserStories(ctx, userID)
	if err != nil {
		logger.Warnf("Could not list stories for %s: %v", target, err)
		o.record(ctx, ch, domain.ActionStoryView, target, domain.EngagementFailed, err.Error())
		return
	}

	if len(stories) == 0 {
		logger.Infof("No active stories for %s", target)
		o.record(ctx, ch, domain.ActionStoryView, target, domain.EngagementFailed, "no active stories")
		return
	}

	if len(stories) > maxStoriesPerUser {
		stories = stories[:maxStoriesPerUser]
	}

	ids := make([]string, 0, len(stories))
	for _, story := range stories {
		ids = append(ids, story.ID)
	}

	if err := ch.MarkStorySeen(ctx, ids); err != nil {
		logger.Warnf("Could not watch stories for %s: %v", target, err)
		o.record(ctx, ch, domain.ActionStoryView, target, domain.EngagementFailed, err.Error())
		return
	}

	logger.Infof("Watched %d stories from %s", len(ids), target)
	o.record(ctx, ch, domain.ActionStoryView, target, domain.EngagementSuccess,
		"Auto-engaged after DM")
}

func (o *Orchestrator) likePosts(ctx context.Context, ch Channel, userID, target string) {
	medias, err := ch.UserMedias(ctx, userID, maxLikesPerUser)
	if err != nil {
		logger.Warnf("Could not list posts for %s: %v", target, err)
		o.record(ctx, ch, domain.ActionLike, target, domain.EngagementFailed, err.Error())
		return
	}

	if len(medias) == 0 {
		logger.Infof("No posts to like from %s", target)
		o.record(ctx, ch, domain.ActionLike, target, domain.EngagementFailed, "no posts found")
		return
	}

	for _, media := range medias {
		mediaTarget := media.Code
		if mediaTarget == "" {
			mediaTarget = media.ID
		}

		if err := ch.LikeMedia(ctx, media.ID); err != nil {
			logger.Warnf("Could not like post %s from %s: %v", mediaTarget, target, err)
			o.record(ctx, ch, domain.ActionLike, mediaTarget, domain.EngagementFailed, err.Error())
			continue
		}

		logger.Infof("Liked post %s from %s", mediaTarget, target)
		o.record(ctx, ch, domain.ActionLike, mediaTarget, domain.EngagementSuccess, "Auto-engaged after DM")
	}
}

func (o *Orchestrator) follow(ctx context.Context, ch Channel, userID, target string) {
	if err := ch.FollowUser(ctx, userID); err != nil {
		logger.Warnf("Could not follow %s: %v", target, err)
		o.record(ctx, ch, domain.ActionFollow, target, domain.EngagementFailed, err.Error())
		return
	}

	logger.Infof("Followed %s", target)
	o.record(ctx, ch, domain.ActionFollow, target, domain.EngagementSuccess, "Auto-engaged after DM")
}

func (o *Orchestrator) comment(ctx context.Context, ch Channel, userID, target string) {
	medias, err := ch.UserMedias(ctx, userID, 1)
	if err != nil {
		logger.Warnf("Could not list posts to comment on for %s: %v", target, err)
		o.record(ctx, ch, domain.ActionComment, target, domain.EngagementFailed, err.Error())
		return
	}

	if len(medias) == 0 {
		logger.Warnf("No post to comment on for %s", target)
		o.record(ctx, ch, domain.ActionComment, target, domain.EngagementFailed, "no posts found")
		return
	}

	text := o.pickComment()

	mediaTarget := medias[0].Code
	if mediaTarget == "" {
		mediaTarget = medias[0].ID
	}

	if err := ch.CommentMedia(ctx, medias[0].ID, text); err != nil {
		logger.Warnf("Could not comment on post from %s: %v", target, err)
		o.record(ctx, ch, domain.ActionComment, mediaTarget, domain.EngagementFailed, err.Error())
		return
	}

	logger.Infof("Commented on post from %s: %s", target, text)
	o.record(ctx, ch, domain.ActionComment, mediaTarget, domain.EngagementSuccess, text)
}

func (o *Orchestrator) record(ctx context.Context, ch Channel, action domain.EngagementAction,
	target string, status domain.EngagementStatus, detail string) {

	var d *string
	if detail != "" {
		d = &detail
	}

	if err := o.store.RecordEngagement(ctx, ch.AccountUsername(), action, target, status, d); err != nil {
		logger.Errorf("Failed to record %s engagement for %s: %v", action, target, err)
	}
}
