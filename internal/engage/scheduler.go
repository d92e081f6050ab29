// Package engage schedules automatic replies that keep a scammer talking.
package engage

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/nkurella/honeyguard/internal/domain"
	"github.com/nkurella/honeyguard/internal/settings"
)

// Reply delay window. Randomized so the reply cadence is not detectably
// inhuman.
const (
	minDelay = 2000 * time.Millisecond
	maxDelay = 5000 * time.Millisecond
)

// sendTimeout bounds the deferred send once it fires.
const sendTimeout = 30 * time.Second

// SendAdapter delivers an engagement reply through whatever platform
// mechanism the environment supplies. Failures are logged, never retried.
type SendAdapter interface {
	Send(ctx context.Context, sessionID, text string) error
}

// Record tracks scheduling state per session, separate from the session
// store.
type Record struct {
	LastMessage string    `json:"lastMessage"`
	LastReply   string    `json:"lastReply"`
	Timestamp   time.Time `json:"timestamp"`
}

// Handle refers to one scheduled send. Cancel stops it if it has not fired;
// nothing currently cancels sends, but the interface should not preclude it.
type Handle struct {
	timer *time.Timer
}

// Cancel stops the pending send. It reports whether the send was still
// pending.
func (h *Handle) Cancel() bool {
	if h == nil || h.timer == nil {
		return false
	}
	return h.timer.Stop()
}

// Scheduler defers engagement replies behind a randomized delay.
type Scheduler struct {
	mu       sync.Mutex
	pending  map[string]Record
	settings *settings.Manager
	logger   *slog.Logger
	delayFn  func() time.Duration
}

// NewScheduler creates a scheduler gated on the manager's auto-engage flag.
func NewScheduler(mgr *settings.Manager, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		pending:  make(map[string]Record),
		settings: mgr,
		logger:   logger,
		delayFn:  Delay,
	}
}

// Delay draws a send delay uniformly from [2000, 5000] ms inclusive.
func Delay() time.Duration {
	span := int64((maxDelay-minDelay)/time.Millisecond) + 1
	return minDelay + time.Duration(rand.Int63n(span))*time.Millisecond
}

// MaybeEngage schedules a single deferred send of the verdict's reply when
// auto-engage is enabled and the verdict calls for one. Returns nil when
// nothing was scheduled. Two calls for different messages in the same
// session schedule independently; that matches natural conversational
// cadence.
func (s *Scheduler) MaybeEngage(verdict domain.Verdict, sessionID, lastMessage string, adapter SendAdapter) *Handle {
	if verdict == nil || !verdict.IsScam() || verdict.Reply() == "" {
		return nil
	}
	if !s.settings.Current().AutoEngage {
		return nil
	}

	reply := verdict.Reply()
	s.mu.Lock()
	s.pending[sessionID] = Record{
		LastMessage: lastMessage,
		LastReply:   reply,
		Timestamp:   time.Now().UTC(),
	}
	s.mu.Unlock()

	delay := s.delayFn()
	s.logger.Info("Engagement reply scheduled", "session_id", sessionID, "delay", delay)

	timer := time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := adapter.Send(ctx, sessionID, reply); err != nil {
			s.logger.Warn("Engagement send failed", "session_id", sessionID, "error", err)
		}
	})
	return &Handle{timer: timer}
}

// LastRecord returns the most recent scheduling record for a session.
func (s *Scheduler) LastRecord(sessionID string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.pending[sessionID]
	return rec, ok
}

// Reset drops all scheduling records. Already-queued sends are unaffected.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]Record)
}
