package domain

// CampaignSettings controls one scheduler run. Unset values are filled with
// the documented defaults at load time, not at use sites.
type CampaignSettings struct {
	TotalQuota           int    `json:"totalQuota" validate:"min=1"`
	PerAccountQuota      int    `json:"perAccountQuota" validate:"min=1"`
	DelayBetweenMessages int    `json:"delayBetweenMessagesSeconds" validate:"min=0"`
	DelayBetweenAccounts int    `json:"delayBetweenAccountsMinutes" validate:"min=0"`
	AutoEngage           bool   `json:"autoEngage"`
	AutoLike             bool   `json:"autoLike"`
	AutoStory            bool   `json:"autoStory"`
	AutoComment          bool   `json:"autoComment"`
	AutoFollow           bool   `json:"autoFollow"`
	UseInteractiveLogin  bool   `json:"useInteractiveLogin"`
	MessageTemplate      string `json:"messageTemplate"`
}

// DefaultCampaignSettings returns the documented defaults.
func DefaultCampaignSettings() CampaignSettings {
	return CampaignSettings{
		TotalQuota:           100,
		PerAccountQuota:      25,
		DelayBetweenMessages: 20,
		DelayBetweenAccounts: 2,
		AutoEngage:           true,
		AutoLike:             true,
		AutoStory:            true,
		AutoComment:          false,
		AutoFollow:           false,
		UseInteractiveLogin:  true,
		MessageTemplate:      "Hello <FIRSTNAME>! How are you?",
	}
}

// RunOutcome describes how the last campaign run ended.
type RunOutcome string

const (
	OutcomeNone      RunOutcome = ""
	OutcomeCompleted RunOutcome = "completed"
	OutcomeStopped   RunOutcome = "stopped"
	OutcomeFailed    RunOutcome = "failed"
)

// CampaignStatus is the read-only view the control surface exposes.
type CampaignStatus struct {
	Running             bool       `json:"running"`
	LastOutcome         RunOutcome `json:"lastOutcome,omitempty"`
	AccountsCount       int        `json:"accountsCount"`
	RecipientsRemaining int        `json:"recipientsRemaining"`
	SentCount           int        `json:"sentCount"`
}

// AnalyticsSnapshot is the aggregate read-only view over the store.
type AnalyticsSnapshot struct {
	TotalAccounts         int `json:"totalAccounts"`
	TotalSentToday        int `json:"totalSentToday"`
	TotalFailedToday      int `json:"totalFailedToday"`
	UnprocessedRecipients int `json:"unprocessedRecipients"`
	ActiveSessions        int `json:"activeSessions"`
}
