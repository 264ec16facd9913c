package gateway

import (
	"encoding/json"
	"testing"
)

func TestFlexID_AcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"12345"`, "12345"},
		{`12345`, "12345"},
		{`9007199254740993`, "9007199254740993"}, // beyond float64 precision
		{`null`, ""},
		{`""`, ""},
	}

	for _, tc := range cases {
		var id flexID
		if err := json.Unmarshal([]byte(tc.raw), &id); err != nil {
			t.Errorf("unmarshal %s failed: %v", tc.raw, err)
			continue
		}
		if string(id) != tc.want {
			t.Errorf("unmarshal %s = %q, want %q", tc.raw, id, tc.want)
		}
	}
}

func TestNormalizeUser_PrefersPK(t *testing.T) {
	var raw rawUser
	if err := json.Unmarshal([]byte(`{"pk": 101, "id": "202", "username": "someone"}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	profile := normalizeUser(raw)
	if profile.ID != "101" {
		t.Errorf("expected pk to win, got %q", profile.ID)
	}
	if profile.Username != "someone" {
		t.Errorf("expected username preserved, got %q", profile.Username)
	}
}

func TestNormalizeUser_FallsBackToID(t *testing.T) {
	var raw rawUser
	if err := json.Unmarshal([]byte(`{"id": "202", "username": "someone"}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got := normalizeUser(raw).ID; got != "202" {
		t.Errorf("expected fallback to id, got %q", got)
	}
}

func TestNormalizeThread_AcceptsEitherShape(t *testing.T) {
	var withThreadID rawThread
	if err := json.Unmarshal([]byte(`{"thread_id": 7}`), &withThreadID); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := normalizeThread(withThreadID).ID; got != "7" {
		t.Errorf("expected thread id 7, got %q", got)
	}

	var withID rawThread
	if err := json.Unmarshal([]byte(`{"id": "abc"}`), &withID); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := normalizeThread(withID).ID; got != "abc" {
		t.Errorf("expected thread id abc, got %q", got)
	}
}

func TestNormalizeMessage_PrefersItemID(t *testing.T) {
	var raw rawMessage
	if err := json.Unmarshal([]byte(`{"thread_id": "t1", "id": "m1", "item_id": 900}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	msg := normalizeMessage(raw)
	if msg.ID != "900" {
		t.Errorf("expected item_id to win, got %q", msg.ID)
	}
	if msg.ThreadID != "t1" {
		t.Errorf("expected thread t1, got %q", msg.ThreadID)
	}
}

func TestNormalizeInboxThread_MessagesShape(t *testing.T) {
	var raw rawInboxThread
	payload := `{
		"thread_id": 340282,
		"messages": [
			{"item_id": "msg1", "user_id": 900, "text": "hey"},
			{"id": 77, "user_id": "901", "text": "sounds great"}
		]
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	thread := normalizeInboxThread(raw)
	if thread.ID != "340282" {
		t.Errorf("expected thread id 340282, got %q", thread.ID)
	}
	if len(thread.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(thread.Messages))
	}
	if thread.Messages[0].ID != "msg1" || thread.Messages[0].SenderID != "900" {
		t.Errorf("unexpected first message %+v", thread.Messages[0])
	}
	if thread.Messages[1].ID != "77" || thread.Messages[1].SenderID != "901" {
		t.Errorf("unexpected second message %+v", thread.Messages[1])
	}
}

func TestNormalizeInboxThread_ItemsShape(t *testing.T) {
	var raw rawInboxThread
	payload := `{
		"id": "t9",
		"items": [{"item_id": 12, "user_id": 900, "text": "yes"}]
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	thread := normalizeInboxThread(raw)
	if thread.ID != "t9" {
		t.Errorf("expected thread id t9, got %q", thread.ID)
	}
	if len(thread.Messages) != 1 || thread.Messages[0].ID != "12" {
		t.Fatalf("expected the items shape to normalize, got %+v", thread.Messages)
	}
	if thread.Messages[0].Text != "yes" {
		t.Errorf("expected message text to carry over, got %q", thread.Messages[0].Text)
	}
}
