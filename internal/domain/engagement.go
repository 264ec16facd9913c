package domain

import "time"

type EngagementAction string

const (
	ActionLike      EngagementAction = "like"
	ActionComment   EngagementAction = "comment"
	ActionFollow    EngagementAction = "follow"
	ActionStoryView EngagementAction = "story_view"
)

type EngagementStatus string

const (
	EngagementSuccess EngagementStatus = "success"
	EngagementFailed  EngagementStatus = "failed"
)

// EngagementRecord is an immutable append-only fact about one attempted
// post-delivery action.
type EngagementRecord struct {
	ID        int64            `db:"id" json:"id"`
	Username  string           `db:"username" json:"username"`
	Action    EngagementAction `db:"action" json:"action"`
	Target    string           `db:"target" json:"target"`
	Status    EngagementStatus `db:"status" json:"status"`
	Detail    *string          `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// EngagementStats aggregates engagement_log rows per action for one account.
type EngagementStats struct {
	Username string                   `json:"username"`
	Actions  map[EngagementAction]int `json:"actions"`
	Failed   map[EngagementAction]int `json:"failed"`
}
