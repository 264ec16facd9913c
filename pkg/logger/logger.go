package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const recentCapacity = 100

var recent = struct {
	mu    sync.Mutex
	lines []string
}{}

// Initialize logging flags (called once from main)
func Init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func Infof(format string, v ...any) {
	capture("[INFO] ", format, v...)
	log.Printf("[INFO] "+format, v...)
}

func Warnf(format string, v ...any) {
	capture("[WARN] ", format, v...)
	log.Printf("[WARN] "+format, v...)
}

func Errorf(format string, v ...any) {
	capture("[ERROR] ", format, v...)
	log.Printf("[ERROR] "+format, v...)
}

func Debugf(format string, v ...any) {
	log.Printf("[DEBUG] "+format, v...)
}

func Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

// capture keeps the last recentCapacity info/warn/error lines in memory so
// the dashboard can poll them without tailing process output.
func capture(prefix, format string, v ...any) {
	line := time.Now().Format("2006-01-02 15:04:05") + " " + prefix + fmt.Sprintf(format, v...)

	recent.mu.Lock()
	defer recent.mu.Unlock()

	recent.lines = append(recent.lines, line)
	if len(recent.lines) > recentCapacity {
		recent.lines = recent.lines[len(recent.lines)-recentCapacity:]
	}
}

// Recent returns a copy of the captured log lines, oldest first.
func Recent() []string {
	recent.mu.Lock()
	defer recent.mu.Unlock()

	out := make([]string, len(recent.lines))
	copy(out, recent.lines)
	return out
}
