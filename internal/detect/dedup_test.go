package detect

import (
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	a := Fingerprint("Your KYC is blocked, call 9876543210")
	b := Fingerprint("Your KYC is blocked, call 9876543210")
	if a != b {
		t.Errorf("Expected identical fingerprints, got %d and %d", a, b)
	}

	c := Fingerprint("a completely different message")
	if a == c {
		t.Errorf("Expected different fingerprints for different text, both %d", a)
	}
}

func TestIndexSeenAndMark(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	text := "urgent: verify your account now"

	if idx.Seen(text) {
		t.Error("Expected unseen text to report false")
	}

	idx.Mark(text)
	if !idx.Seen(text) {
		t.Error("Expected marked text to report true")
	}

	// Marking again must not change anything.
	idx.Mark(text)
	if idx.Len() != 1 {
		t.Errorf("Expected 1 fingerprint after idempotent mark, got %d", idx.Len())
	}
}

func TestIndexReset(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	idx.Mark("one")
	idx.Mark("two")
	idx.Reset()

	if idx.Len() != 0 {
		t.Errorf("Expected empty index after reset, got %d entries", idx.Len())
	}
	if idx.Seen("one") {
		t.Error("Expected reset index to forget fingerprints")
	}
}
