package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoggerWritesSessionFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := NewLogger(Config{Enabled: true, Dir: dir}, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	ev := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: "session_1_abcd1234",
		Source:    "whatsapp",
		Direction: "inbound",
		Path:      "remote",
		Text:      "your kyc is blocked",
	}
	l.Record(ev)

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "session_1_abcd1234.ndjson"))
	if err != nil {
		t.Fatalf("Failed to read session journal: %v", err)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to decode journal line: %v", err)
	}
	if got.Text != ev.Text || got.Direction != "inbound" || got.Path != "remote" {
		t.Errorf("Unexpected event %+v", got)
	}
}

func TestLoggerGlobalStream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	global := filepath.Join(dir, "all.ndjson")
	l, err := NewLogger(Config{
		Enabled:       true,
		Dir:           dir,
		GlobalEnabled: true,
		GlobalPath:    global,
	}, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	l.Record(Event{SessionID: "a", Direction: "inbound", Text: "one"})
	l.Record(Event{SessionID: "b", Direction: "outbound", Text: "two"})

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(global)
	if err != nil {
		t.Fatalf("Failed to read global journal: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("Expected 2 global journal lines, got %d", lines)
	}
}

func TestLoggerDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := NewLogger(Config{Enabled: false, Dir: dir}, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	l.Record(Event{SessionID: "s", Text: "dropped"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files when disabled, got %d", len(entries))
	}
}

func TestLoggerCloseIdempotent(t *testing.T) {
	t.Parallel()

	l, err := NewLogger(Config{Enabled: true, Dir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}

	// Records after close are silently dropped.
	l.Record(Event{SessionID: "late", Text: "ignored"})
}

func TestSessionFileNameSanitized(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"session_1_abc":    "session_1_abc.ndjson",
		"../../etc/passwd": ".._.._etc_passwd.ndjson",
		"weird id!@#":      "weird_id___.ndjson",
		"":                 "unknown.ndjson",
		"...":              "unknown.ndjson",
	}
	for in, want := range cases {
		if got := sessionFileName(in); got != want {
			t.Errorf("sessionFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
