// Package detect implements the local, deterministic parts of the scam
// pipeline: message deduplication and the keyword detection gate.
package detect

import (
	"sync"
)

// Index suppresses re-analysis of message text already seen during this
// process lifetime. Fingerprints are 32-bit rolling hashes: cheap, and
// collision-tolerant for a best-effort guard where a missed re-analysis
// costs little.
type Index struct {
	mu   sync.Mutex
	seen map[int32]struct{}
}

// NewIndex creates an empty deduplication index.
func NewIndex() *Index {
	return &Index{seen: make(map[int32]struct{})}
}

// Fingerprint returns the deterministic hash used for deduplication.
func Fingerprint(text string) int32 {
	var h int32
	for _, r := range text {
		h = h*31 + int32(r)
	}
	return h
}

// Seen reports whether text was already marked.
func (x *Index) Seen(text string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.seen[Fingerprint(text)]
	return ok
}

// Mark records text as analyzed. Marking is idempotent.
func (x *Index) Mark(text string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seen[Fingerprint(text)] = struct{}{}
}

// Reset forgets all fingerprints.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seen = make(map[int32]struct{})
}

// Len returns the number of distinct fingerprints recorded.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.seen)
}
