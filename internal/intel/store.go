package intel

import (
	"sync"

	"github.com/nkurella/honeyguard/internal/domain"
)

// Store accumulates intelligence for the lifetime of the process. Membership
// is checked before insert so each field behaves as an ordered set.
type Store struct {
	mu    sync.RWMutex
	data  domain.Intelligence
	known map[string]map[string]struct{}
}

// NewStore creates an empty intelligence store.
func NewStore() *Store {
	s := &Store{}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.data = domain.Intelligence{}
	s.known = map[string]map[string]struct{}{
		"phone": {},
		"url":   {},
		"upi":   {},
		"kw":    {},
	}
}

func (s *Store) add(kind string, list *[]string, v string) {
	if _, ok := s.known[kind][v]; ok {
		return
	}
	s.known[kind][v] = struct{}{}
	*list = append(*list, v)
}

// Merge folds one message's extracted entities into the store with
// set-union semantics.
func (s *Store) Merge(in domain.Intelligence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range in.PhoneNumbers {
		s.add("phone", &s.data.PhoneNumbers, v)
	}
	for _, v := range in.PhishingLinks {
		s.add("url", &s.data.PhishingLinks, v)
	}
	for _, v := range in.UpiIDs {
		s.add("upi", &s.data.UpiIDs, v)
	}
	for _, v := range in.Keywords {
		s.add("kw", &s.data.Keywords, v)
	}
}

// Snapshot returns a copy of the accumulated intelligence.
func (s *Store) Snapshot() domain.Intelligence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Intelligence{
		PhoneNumbers:  append([]string{}, s.data.PhoneNumbers...),
		PhishingLinks: append([]string{}, s.data.PhishingLinks...),
		UpiIDs:        append([]string{}, s.data.UpiIDs...),
		Keywords:      append([]string{}, s.data.Keywords...),
	}
}

// Restore replaces the accumulated intelligence, deduplicating defensively.
func (s *Store) Restore(in domain.Intelligence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	for _, v := range in.PhoneNumbers {
		s.add("phone", &s.data.PhoneNumbers, v)
	}
	for _, v := range in.PhishingLinks {
		s.add("url", &s.data.PhishingLinks, v)
	}
	for _, v := range in.UpiIDs {
		s.add("upi", &s.data.UpiIDs, v)
	}
	for _, v := range in.Keywords {
		s.add("kw", &s.data.Keywords, v)
	}
}

// Reset clears all accumulated intelligence.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}
