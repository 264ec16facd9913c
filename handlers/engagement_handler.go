package handlers

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/campaign"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/internal/reply"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

const manualStoryCap = 3

// postCodePattern pulls the shortcode out of instagram.com/p/CODE/ and
// /reel/CODE/ links.
var postCodePattern = regexp.MustCompile(`/(p|reel)/([A-Za-z0-9_-]+)/?`)

// EngagementChannel is the authenticated surface a manual engagement call
// needs. *session.Channel satisfies it.
type EngagementChannel interface {
	reply.Channel
	ResolveUser(ctx context.Context, username string) (*domain.UserProfile, error)
	UserStories(ctx context.Context, userID string) ([]domain.StoryItem, error)
	MarkStorySeen(ctx context.Context, storyIDs []string) error
	MediaIDFromCode(ctx context.Context, code string) (string, error)
	LikeMedia(ctx context.Context, mediaID string) error
	CommentMedia(ctx context.Context, mediaID, text string) error
	FollowUser(ctx context.Context, userID string) error
}

// EngagementAcquireFunc obtains a live channel for an account;
// session.Manager.Acquire is adapted into this shape at wiring time.
type EngagementAcquireFunc func(ctx context.Context, account domain.Account, useInteractiveLogin bool) (EngagementChannel, error)

type engagementAdminStore interface {
	GetAccount(ctx context.Context, username string) (domain.Account, error)
	RecordEngagement(ctx context.Context, username string, action domain.EngagementAction,
		target string, status domain.EngagementStatus, detail *string) error
}

type replyChecker interface {
	CheckAndReply(ctx context.Context, ch reply.Channel) (bool, error)
}

// EngagementHandler exposes one-off engagement actions outside a campaign
// run, driven by an operator rather than the scheduler.
type EngagementHandler struct {
	store     engagementAdminStore
	acquire   EngagementAcquireFunc
	responder replyChecker
	settings  *campaign.SettingsStore
}

func NewEngagementHandler(store engagementAdminStore, acquire EngagementAcquireFunc,
	responder replyChecker, settings *campaign.SettingsStore) *EngagementHandler {
	return &EngagementHandler{
		store:     store,
		acquire:   acquire,
		responder: responder,
		settings:  settings,
	}
}

type likePostRequest struct {
	Username string `json:"username" validate:"required,ig_username"`
	PostURL  string `json:"postUrl" validate:"required"`
}

type commentPostRequest struct {
	Username    string `json:"username" validate:"required,ig_username"`
	PostURL     string `json:"postUrl" validate:"required"`
	CommentText string `json:"commentText" validate:"required,max=300"`
}

type targetUserRequest struct {
	Username       string `json:"username" validate:"required,ig_username"`
	TargetUsername string `json:"targetUsername" validate:"required,ig_username"`
}

type checkRepliesRequest struct {
	Username string `json:"username" validate:"required,ig_username"`
}

// mediaCodeFromInput accepts either a post link or a bare shortcode.
func mediaCodeFromInput(input string) (string, error) {
	if strings.Contains(input, "instagram.com") {
		match := postCodePattern.FindStringSubmatch(input)
		if match == nil {
			return "", errors.New("invalid Instagram post URL")
		}
		return match[2], nil
	}
	return input, nil
}

func (h *EngagementHandler) channelFor(c echo.Context, username string) (EngagementChannel, error) {
	account, err := h.store.GetAccount(c.Request().Context(), username)
	if err != nil {
		return nil, err
	}

	return h.acquire(c.Request().Context(), account, h.settings.Get().UseInteractiveLogin)
}

func (h *EngagementHandler) respondAcquireError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return response.NotFound(c, "account not found")
	}
	return response.InternalServerError(c, err)
}

// LikePost godoc
// @Summary Like a post as one of the sender accounts
// @Tags engagement
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param request body likePostRequest true "Account and post link or shortcode"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/engagement/like [post]
func (h *EngagementHandler) LikePost(c echo.Context) error {
	var req likePostRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	code, err := mediaCodeFromInput(req.PostURL)
	if err != nil {
		return response.BadRequest(c, err)
	}

	ch, err := h.channelFor(c, req.Username)
	if err != nil {
		return h.respondAcquireError(c, err)
	}

	ctx := c.Request().Context()

	mediaID, err := ch.MediaIDFromCode(ctx, code)
	if err != nil {
		h.recordManual(ctx, ch, domain.ActionLike, code, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	if err := ch.LikeMedia(ctx, mediaID); err != nil {
		h.recordManual(ctx, ch, domain.ActionLike, code, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	logger.Infof("%s liked post %s", req.Username, code)
	h.recordManual(ctx, ch, domain.ActionLike, code, domain.EngagementSuccess, "Manual engagement")

	return response.OkWithMessage(c, "Post liked", map[string]string{"code": code})
}

// CommentPost godoc
// @Summary Comment on a post as one of the sender accounts
// @Tags engagement
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param request body commentPostRequest true "Account, post link and comment text"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/engagement/comment [post]
func (h *EngagementHandler) CommentPost(c echo.Context) error {
	var req commentPostRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	code, err := mediaCodeFromInput(req.PostURL)
	if err != nil {
		return response.BadRequest(c, err)
	}

	ch, err := h.channelFor(c, req.Username)
	if err != nil {
		return h.respondAcquireError(c, err)
	}

	ctx := c.Request().Context()

	mediaID, err := ch.MediaIDFromCode(ctx, code)
	if err != nil {
		h.recordManual(ctx, ch, domain.ActionComment, code, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	if err := ch.CommentMedia(ctx, mediaID, req.CommentText); err != nil {
		h.recordManual(ctx, ch, domain.ActionComment, code, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	logger.Infof("%s commented on post %s", req.Username, code)
	h.recordManual(ctx, ch, domain.ActionComment, code, domain.EngagementSuccess, req.CommentText)

	return response.OkWithMessage(c, "Comment posted", map[string]string{"code": code})
}

// WatchStory godoc
// @Summary Watch a user's stories as one of the sender accounts
// @Tags engagement
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param request body targetUserRequest true "Account and target username"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/engagement/story [post]
func (h *EngagementHandler) WatchStory(c echo.Context) error {
	var req targetUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	ch, err := h.channelFor(c, req.Username)
	if err != nil {
		return h.respondAcquireError(c, err)
	}

	ctx := c.Request().Context()

	profile, err := ch.ResolveUser(ctx, req.TargetUsername)
	if err != nil {
		h.recordManual(ctx, ch, domain.ActionStoryView, req.TargetUsername, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	stories, err := ch.UserStories(ctx, profile.ID)
	if err != nil {
		h.recordManual(ctx, ch, domain.ActionStoryView, req.TargetUsername, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	if len(stories) == 0 {
		h.recordManual(ctx, ch, domain.ActionStoryView, req.TargetUsername, domain.EngagementFailed, "no active stories")
		return response.NotFound(c, "no active stories")
	}

	if len(stories) > manualStoryCap {
		stories = stories[:manualStoryCap]
	}

	ids := make([]string, 0, len(stories))
	for _, story := range stories {
		ids = append(ids, story.ID)
	}

	if err := ch.MarkStorySeen(ctx, ids); err != nil {
		h.recordManual(ctx, ch, domain.ActionStoryView, req.TargetUsername, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	logger.Infof("%s watched %d stories from %s", req.Username, len(ids), req.TargetUsername)
	h.recordManual(ctx, ch, domain.ActionStoryView, req.TargetUsername, domain.EngagementSuccess, "Manual engagement")

	return response.OkWithMessage(c, "Stories watched", map[string]any{
		"target":  req.TargetUsername,
		"watched": len(ids),
	})
}

// FollowTarget godoc
// @Summary Follow a user as one of the sender accounts
// @Tags engagement
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param request body targetUserRequest true "Account and target username"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/engagement/follow [post]
func (h *EngagementHandler) FollowTarget(c echo.Context) error {
	var req targetUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	ch, err := h.channelFor(c, req.Username)
	if err != nil {
		return h.respondAcquireError(c, err)
	}

	ctx := c.Request().Context()

	profile, err := ch.ResolveUser(ctx, req.TargetUsername)
	if err != nil {
		h.recordManual(ctx, ch, domain.ActionFollow, req.TargetUsername, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	if err := ch.FollowUser(ctx, profile.ID); err != nil {
		h.recordManual(ctx, ch, domain.ActionFollow, req.TargetUsername, domain.EngagementFailed, err.Error())
		return response.InternalServerError(c, err)
	}

	logger.Infof("%s followed %s", req.Username, req.TargetUsername)
	h.recordManual(ctx, ch, domain.ActionFollow, req.TargetUsername, domain.EngagementSuccess, "Manual engagement")

	return response.OkWithMessage(c, "User followed", map[string]string{"target": req.TargetUsername})
}

// CheckReplies godoc
// @Summary Scan an account's inbox and auto-reply to keyword matches
// @Tags engagement
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param request body checkRepliesRequest true "Account to scan"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/engagement/replies/check [post]
func (h *EngagementHandler) CheckReplies(c echo.Context) error {
	var req checkRepliesRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	ch, err := h.channelFor(c, req.Username)
	if err != nil {
		return h.respondAcquireError(c, err)
	}

	replied, err := h.responder.CheckAndReply(c.Request().Context(), ch)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]bool{"replied": replied})
}

func (h *EngagementHandler) recordManual(ctx context.Context, ch EngagementChannel,
	action domain.EngagementAction, target string, status domain.EngagementStatus, detail string) {

	var d *string
	if detail != "" {
		d = &detail
	}

	if err := h.store.RecordEngagement(ctx, ch.AccountUsername(), action, target, status, d); err != nil {
		logger.Errorf("Failed to record %s engagement for %s: %v", action, target, err)
	}
}
