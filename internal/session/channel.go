package session

import (
	"context"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// remoteAPI is everything the gateway client offers an authenticated
// caller. *gateway.Client satisfies it.
type remoteAPI interface {
	Restore(ctx context.Context, username, session string) (string, error)
	LoginDirect(ctx context.Context, username, password string, proxy *string) (token, session string, err error)
	LoginInteractive(ctx context.Context, username, password string, proxy *string) (token, session string, err error)
	AccountInfo(ctx context.Context, token string) (*domain.UserProfile, error)

	ResolveUser(ctx context.Context, token, username string) (*domain.UserProfile, error)
	SearchUsers(ctx context.Context, token, query string, count int) ([]domain.UserProfile, error)
	UsernameInfo(ctx context.Context, token, username string) (*domain.UserProfile, error)
	SendDirect(ctx context.Context, token, userID, text string) (*domain.Message, error)
	ThreadByParticipants(ctx context.Context, token, userID string) (*domain.Thread, error)
	SendToThread(ctx context.Context, token, threadID, text string) (*domain.Message, error)

	InboxThreads(ctx context.Context, token string) ([]domain.InboxThread, error)
	UserByID(ctx context.Context, token, userID string) (*domain.UserProfile, error)
	MediaIDFromCode(ctx context.Context, token, code string) (string, error)

	UserStories(ctx context.Context, token, userID string) ([]domain.StoryItem, error)
	MarkStorySeen(ctx context.Context, token string, storyIDs []string) error
	UserMedias(ctx context.Context, token, userID string, amount int) ([]domain.MediaItem, error)
	LikeMedia(ctx context.Context, token, mediaID string) error
	CommentMedia(ctx context.Context, token, mediaID, text string) error
	FollowUser(ctx context.Context, token, userID string) error
}

// Channel is an authenticated conversation with the gateway on behalf of
// one account. It binds the call token so callers never handle raw
// credentials or session state.
type Channel struct {
	account domain.Account
	api     remoteAPI
	token   string
}

func newChannel(account domain.Account, api remoteAPI, token string) *Channel {
	return &Channel{
		account: account,
		api:     api,
		token:   token,
	}
}

func (ch *Channel) AccountUsername() string {
	return ch.account.Username
}

func (ch *Channel) ResolveUser(ctx context.Context, username string) (*domain.UserProfile, error) {
	return ch.api.ResolveUser(ctx, ch.token, username)
}

func (ch *Channel) SearchUsers(ctx context.Context, query string, count int) ([]domain.UserProfile, error) {
	return ch.api.SearchUsers(ctx, ch.token, query, count)
}

func (ch *Channel) UsernameInfo(ctx context.Context, username string) (*domain.UserProfile, error) {
	return ch.api.UsernameInfo(ctx, ch.token, username)
}

func (ch *Channel) SendDirect(ctx context.Context, userID, text string) (*domain.Message, error) {
	return ch.api.SendDirect(ctx, ch.token, userID, text)
}

func (ch *Channel) ThreadByParticipants(ctx context.Context, userID string) (*domain.Thread, error) {
	return ch.api.ThreadByParticipants(ctx, ch.token, userID)
}

func (ch *Channel) SendToThread(ctx context.Context, threadID, text string) (*domain.Message, error) {
	return ch.api.SendToThread(ctx, ch.token, threadID, text)
}

func (ch *Channel) InboxThreads(ctx context.Context) ([]domain.InboxThread, error) {
	return ch.api.InboxThreads(ctx, ch.token)
}

func (ch *Channel) UserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return ch.api.UserByID(ctx, ch.token, userID)
}

func (ch *Channel) MediaIDFromCode(ctx context.Context, code string) (string, error) {
	return ch.api.MediaIDFromCode(ctx, ch.token, code)
}

func (ch *Channel) UserStories(ctx context.Context, userID string) ([]domain.StoryItem, error) {
	return ch.api.UserStories(ctx, ch.token, userID)
}

func (ch *Channel) MarkStorySeen(ctx context.Context, storyIDs []string) error {
	return ch.api.MarkStorySeen(ctx, ch.token, storyIDs)
}

func (ch *Channel) UserMedias(ctx context.Context, userID string, amount int) ([]domain.MediaItem, error) {
	return ch.api.UserMedias(ctx, ch.token, userID, amount)
}

func (ch *Channel) LikeMedia(ctx context.Context, mediaID string) error {
	return ch.api.LikeMedia(ctx, ch.token, mediaID)
}

func (ch *Channel) CommentMedia(ctx context.Context, mediaID, text string) error {
	return ch.api.CommentMedia(ctx, ch.token, mediaID, text)
}

func (ch *Channel) FollowUser(ctx context.Context, userID string) error {
	return ch.api.FollowUser(ctx, ch.token, userID)
}
