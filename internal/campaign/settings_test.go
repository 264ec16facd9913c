package campaign

import (
	"testing"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
)

func TestNewSettingsStore_EnvOverrides(t *testing.T) {
	store := NewSettingsStore(environments.CampaignConfig{
		TotalQuota:           200,
		PerAccountQuota:      10,
		DelayBetweenMessages: 5,
		DelayBetweenAccounts: 1,
		AutoEngage:           true,
		AutoLike:             false,
		AutoStory:            true,
		AutoComment:          false,
		AutoFollow:           false,
		UseInteractiveLogin:  true,
	})

	got := store.Get()
	if got.TotalQuota != 200 {
		t.Errorf("expected total quota 200, got %d", got.TotalQuota)
	}
	if got.PerAccountQuota != 10 {
		t.Errorf("expected per-account quota 10, got %d", got.PerAccountQuota)
	}
	if got.AutoLike {
		t.Error("expected auto like disabled")
	}
	if got.MessageTemplate != "Hello <FIRSTNAME>! How are you?" {
		t.Errorf("expected default message template to be kept, got %q", got.MessageTemplate)
	}
}

func TestSettingsStore_UpdateReplacesSnapshot(t *testing.T) {
	store := NewSettingsStore(testCampaignEnvConfig())

	updated := store.Get()
	updated.TotalQuota = 40
	updated.AutoFollow = true
	store.Update(updated)

	got := store.Get()
	if got.TotalQuota != 40 {
		t.Errorf("expected total quota 40, got %d", got.TotalQuota)
	}
	if !got.AutoFollow {
		t.Error("expected auto follow enabled after update")
	}
	if got.PerAccountQuota != updated.PerAccountQuota {
		t.Errorf("expected per-account quota %d, got %d", updated.PerAccountQuota, got.PerAccountQuota)
	}
}

func testCampaignEnvConfig() environments.CampaignConfig {
	return environments.CampaignConfig{
		TotalQuota:           100,
		PerAccountQuota:      25,
		DelayBetweenMessages: 20,
		DelayBetweenAccounts: 2,
		AutoEngage:           true,
		AutoLike:             true,
		AutoStory:            true,
		UseInteractiveLogin:  true,
	}
}
