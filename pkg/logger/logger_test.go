package logger

import (
	"fmt"
	"strings"
	"testing"
)

func TestRecent_CapturesTaggedLines(t *testing.T) {
	Infof("campaign run %d started", 42)
	Warnf("slow response")
	Errorf("send failed")

	lines := Recent()
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 captured lines, got %d", len(lines))
	}

	last := lines[len(lines)-3:]
	if !strings.Contains(last[0], "[INFO] campaign run 42 started") {
		t.Errorf("unexpected info line: %q", last[0])
	}
	if !strings.Contains(last[1], "[WARN] slow response") {
		t.Errorf("unexpected warn line: %q", last[1])
	}
	if !strings.Contains(last[2], "[ERROR] send failed") {
		t.Errorf("unexpected error line: %q", last[2])
	}
}

func TestRecent_CapsAtCapacity(t *testing.T) {
	for i := 0; i < recentCapacity+20; i++ {
		Infof("line %d", i)
	}

	lines := Recent()
	if len(lines) != recentCapacity {
		t.Fatalf("expected %d lines, got %d", recentCapacity, len(lines))
	}

	// The newest line survives, the oldest are dropped.
	want := fmt.Sprintf("line %d", recentCapacity+19)
	if !strings.Contains(lines[len(lines)-1], want) {
		t.Errorf("expected newest line %q, got %q", want, lines[len(lines)-1])
	}
}

func TestRecent_ReturnsACopy(t *testing.T) {
	Infof("original")

	lines := Recent()
	if len(lines) == 0 {
		t.Fatal("expected captured lines")
	}

	lines[0] = "mutated"
	if Recent()[0] == "mutated" {
		t.Error("Recent must return a copy, not the backing slice")
	}
}
