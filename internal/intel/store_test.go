package intel

import (
	"reflect"
	"testing"

	"github.com/nkurella/honeyguard/internal/domain"
)

func TestMergeSetUnion(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Merge(domain.Intelligence{
		PhoneNumbers: []string{"9876543210"},
		Keywords:     []string{"kyc", "otp"},
	})
	s.Merge(domain.Intelligence{
		PhoneNumbers:  []string{"9876543210", "8765432109"},
		PhishingLinks: []string{"https://evil.example"},
		Keywords:      []string{"otp", "urgent"},
	})

	got := s.Snapshot()
	if !reflect.DeepEqual(got.PhoneNumbers, []string{"9876543210", "8765432109"}) {
		t.Errorf("Expected deduplicated phones in first-seen order, got %v", got.PhoneNumbers)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"kyc", "otp", "urgent"}) {
		t.Errorf("Expected deduplicated keywords, got %v", got.Keywords)
	}
	if len(got.PhishingLinks) != 1 {
		t.Errorf("Expected 1 link, got %v", got.PhishingLinks)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Merge(domain.Intelligence{UpiIDs: []string{"a@paytm"}})

	snap := s.Snapshot()
	snap.UpiIDs[0] = "mutated"

	if s.Snapshot().UpiIDs[0] != "a@paytm" {
		t.Error("Expected store unaffected by snapshot mutation")
	}
}

func TestRestoreDeduplicates(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Merge(domain.Intelligence{Keywords: []string{"stale"}})
	s.Restore(domain.Intelligence{
		Keywords: []string{"kyc", "kyc", "otp"},
	})

	got := s.Snapshot()
	if !reflect.DeepEqual(got.Keywords, []string{"kyc", "otp"}) {
		t.Errorf("Expected restored keywords without duplicates, got %v", got.Keywords)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Merge(domain.Intelligence{Keywords: []string{"kyc"}})
	s.Reset()

	if !s.Snapshot().IsEmpty() {
		t.Errorf("Expected empty store after reset, got %+v", s.Snapshot())
	}

	// Entities seen before the reset are collectable again.
	s.Merge(domain.Intelligence{Keywords: []string{"kyc"}})
	if len(s.Snapshot().Keywords) != 1 {
		t.Errorf("Expected keyword re-collected after reset, got %v", s.Snapshot().Keywords)
	}
}
