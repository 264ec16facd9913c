package domain

// Thread and Message are the single internal shapes all gateway responses
// are normalized into. The gateway returns thread/message objects in
// different concrete forms depending on the API path; nothing outside
// pkg/gateway ever sees those raw shapes.

type Thread struct {
	ID string `json:"id"`
}

type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// UserProfile is the normalized identity record used by resolution and
// engagement flows.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
}

// InboxThread is one conversation from the inbox scan, with the messages
// the gateway returned for it. InboxMessage carries just what the reply
// matcher needs.
type InboxThread struct {
	ID       string         `json:"id"`
	Messages []InboxMessage `json:"messages"`
}

type InboxMessage struct {
	ID       string `json:"id"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// StoryItem and MediaItem are the normalized engagement targets.
type StoryItem struct {
	ID string `json:"id"`
}

type MediaItem struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
}
