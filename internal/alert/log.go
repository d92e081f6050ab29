// Package alert keeps a bounded, most-recent-first record of detected scams.
package alert

import (
	"sync"

	"github.com/nkurella/honeyguard/internal/domain"
)

// DefaultCapacity is the number of alerts retained before the oldest is
// evicted.
const DefaultCapacity = 50

// truncateAt is the number of characters of message text kept in an alert.
const truncateAt = 100

// Log is a fixed-capacity alert buffer. New entries go to the front; once
// capacity is exceeded the oldest entry is dropped.
type Log struct {
	mu      sync.RWMutex
	entries []domain.Alert
	cap     int
}

// NewLog creates an alert log with the given capacity. Non-positive values
// fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{cap: capacity}
}

// Truncate shortens message text for display, appending an ellipsis marker
// when anything was cut.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= truncateAt {
		return text
	}
	return string(runes[:truncateAt]) + "..."
}

// Add records an alert at the front of the buffer, truncating its text.
func (l *Log) Add(a domain.Alert) {
	a.Text = Truncate(a.Text)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]domain.Alert{a}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// Recent returns up to n alerts, most recent first. n <= 0 returns all
// retained entries.
func (l *Log) Recent(n int) []domain.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]domain.Alert{}, l.entries[:n]...)
}

// Len returns the number of retained alerts.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Restore replaces the buffer from a persisted snapshot, enforcing capacity.
func (l *Log) Restore(entries []domain.Alert) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > l.cap {
		entries = entries[:l.cap]
	}
	l.entries = append([]domain.Alert{}, entries...)
}

// Reset drops every retained alert.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
