package session

import (
	"strings"
	"testing"
	"time"

	"github.com/nkurella/honeyguard/internal/domain"
)

func TestNewIDUnique(t *testing.T) {
	t.Parallel()

	a := NewID()
	b := NewID()
	if a == b {
		t.Errorf("Expected distinct ids, got %q twice", a)
	}
	if !strings.HasPrefix(a, "session_") {
		t.Errorf("Expected session_ prefix, got %q", a)
	}
}

func TestGetOrCreateStable(t *testing.T) {
	t.Parallel()

	s := NewStore()
	first := s.GetOrCreate("abc", domain.SourceManual)
	second := s.GetOrCreate("abc", "whatsapp")

	if first != second {
		t.Error("Expected the same session for the same id")
	}
	if second.Source != domain.SourceManual {
		t.Errorf("Expected original source to survive, got %q", second.Source)
	}
	if s.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", s.Count())
	}
}

func TestAppendAndHistory(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.GetOrCreate("abc", domain.SourceManual)

	now := time.Now().UTC()
	s.Append("abc",
		domain.Message{Sender: domain.SenderScammer, Text: "share your otp", Timestamp: now},
		domain.Message{Sender: domain.SenderAssistant, Text: "which otp?", Timestamp: now},
	)

	hist := s.History("abc")
	if len(hist) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(hist))
	}
	if hist[0].Sender != domain.SenderScammer || hist[1].Sender != domain.SenderAssistant {
		t.Errorf("Expected scammer then assistant, got %q then %q", hist[0].Sender, hist[1].Sender)
	}

	// The returned history is a copy.
	hist[0].Text = "mutated"
	if s.History("abc")[0].Text != "share your otp" {
		t.Error("Expected store history to be unaffected by caller mutation")
	}
}

func TestAppendUnknownSession(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append("ghost", domain.Message{Sender: domain.SenderScammer, Text: "hi"})

	if s.Count() != 0 {
		t.Error("Expected append to unknown id not to create a session")
	}
	if got := s.History("ghost"); len(got) != 0 {
		t.Errorf("Expected empty history, got %v", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.GetOrCreate("abc", domain.SourceManual)
	s.Append("abc", domain.Message{Sender: domain.SenderScammer, Text: "kyc blocked"})

	snap := s.Snapshot()

	// Snapshots are deep copies, detached from the live store.
	s.Append("abc", domain.Message{Sender: domain.SenderAssistant, Text: "oh no"})
	if len(snap["abc"].Messages) != 1 {
		t.Fatalf("Expected snapshot to hold 1 message, got %d", len(snap["abc"].Messages))
	}

	fresh := NewStore()
	fresh.Restore(snap)
	if fresh.Count() != 1 {
		t.Fatalf("Expected 1 restored session, got %d", fresh.Count())
	}
	if got := fresh.History("abc"); len(got) != 1 || got[0].Text != "kyc blocked" {
		t.Errorf("Expected restored history, got %v", got)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.GetOrCreate("abc", domain.SourceManual)
	s.Reset()
	if s.Count() != 0 {
		t.Errorf("Expected empty store after reset, got %d", s.Count())
	}
}
