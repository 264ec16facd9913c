package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
)

// The gateway returns thread/message/user objects in different concrete
// shapes depending on which API path produced them. These raw types accept
// every known variant; normalize* maps them into the single internal shapes
// before anything outside this package sees them.

// flexID accepts ids arriving as either JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type rawUser struct {
	PK       flexID `json:"pk"`
	ID       flexID `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type rawThread struct {
	ThreadID flexID `json:"thread_id"`
	ID       flexID `json:"id"`
}

type rawMessage struct {
	ThreadID flexID `json:"thread_id"`
	ID       flexID `json:"id"`
	ItemID   flexID `json:"item_id"`
}

func firstID(ids ...flexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func normalizeUser(raw rawUser) *domain.UserProfile {
	return &domain.UserProfile{
		ID:       firstID(raw.PK, raw.ID),
		Username: raw.Username,
		FullName: raw.FullName,
	}
}

func normalizeThread(raw rawThread) *domain.Thread {
	return &domain.Thread{ID: firstID(raw.ThreadID, raw.ID)}
}

func normalizeMessage(raw rawMessage) *domain.Message {
	return &domain.Message{
		ID:       firstID(raw.ItemID, raw.ID),
		ThreadID: string(raw.ThreadID),
	}
}
