package campaign

import (
	"sync"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// SettingsStore holds the current campaign settings: env defaults at boot,
// updated through the settings endpoints, snapshotted by Start.
type SettingsStore struct {
	mu      sync.RWMutex
	current domain.CampaignSettings
}

func NewSettingsStore(cfg environments.CampaignConfig) *SettingsStore {
	settings := domain.DefaultCampaignSettings()

	settings.TotalQuota = cfg.TotalQuota
	settings.PerAccountQuota = cfg.PerAccountQuota
	settings.DelayBetweenMessages = cfg.DelayBetweenMessages
	settings.DelayBetweenAccounts = cfg.DelayBetweenAccounts
	settings.AutoEngage = cfg.AutoEngage
	settings.AutoLike = cfg.AutoLike
	settings.AutoStory = cfg.AutoStory
	settings.AutoComment = cfg.AutoComment
	settings.AutoFollow = cfg.AutoFollow
	settings.UseInteractiveLogin = cfg.UseInteractiveLogin
	if cfg.MessageTemplate != "" {
		settings.MessageTemplate = cfg.MessageTemplate
	}

	return &SettingsStore{current: settings}
}

func (s *SettingsStore) Get() domain.CampaignSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SettingsStore) Update(settings domain.CampaignSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
}
