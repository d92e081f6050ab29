// Package pipeline orchestrates the scam analysis flow: dedupe, local gate,
// remote-or-fallback classification, intelligence extraction, session
// tracking, and alert recording.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nkurella/honeyguard/internal/alert"
	"github.com/nkurella/honeyguard/internal/classify"
	"github.com/nkurella/honeyguard/internal/detect"
	"github.com/nkurella/honeyguard/internal/domain"
	"github.com/nkurella/honeyguard/internal/intel"
	"github.com/nkurella/honeyguard/internal/journal"
	"github.com/nkurella/honeyguard/internal/session"
)

// maxMessageLength bounds the text accepted by Analyze. The watcher already
// filters out page noise above this size.
const maxMessageLength = 2000

// Caller-visible input errors. Everything else degrades gracefully.
var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrMessageTooLong = errors.New("message text exceeds maximum length")
)

// AlertSink receives a structured alert per detected scam, for the
// environment to display or notify on.
type AlertSink interface {
	Notify(domain.Alert)
}

type noopSink struct{}

func (noopSink) Notify(domain.Alert) {}

// Result is the outcome of one Analyze call.
type Result struct {
	SessionID string `json:"sessionId,omitempty"`
	// Verdict is nil when the message was not flagged by the gate.
	Verdict domain.Verdict `json:"verdict,omitempty"`
	// Suppressed reports that the deduplication index had already seen
	// this exact text and no analysis was performed.
	Suppressed bool `json:"suppressed,omitempty"`
}

// Stats is the query surface exposed to the environment.
type Stats struct {
	TotalScams   int64               `json:"totalScams"`
	Intelligence domain.Intelligence `json:"intelligence"`
	RecentAlerts []domain.Alert      `json:"recentAlerts"`
}

// Config wires an Analyzer. Sink, Journal, and Logger may be nil.
type Config struct {
	Classifier classify.Classifier
	Sessions   *session.Store
	Intel      *intel.Store
	Alerts     *alert.Log
	Dedupe     *detect.Index
	Sink       AlertSink
	Journal    journal.Recorder
	Logger     *slog.Logger
}

// Analyzer runs the core pipeline. All mutable state it touches is owned
// here or by the stores it was constructed with; callers never mutate those
// structures directly.
type Analyzer struct {
	classifier classify.Classifier
	sessions   *session.Store
	intel      *intel.Store
	alerts     *alert.Log
	dedupe     *detect.Index
	sink       AlertSink
	journal    journal.Recorder
	logger     *slog.Logger

	totalScams atomic.Int64
	dirty      atomic.Bool
}

// New creates an Analyzer from the given collaborators.
func New(cfg Config) *Analyzer {
	if cfg.Sink == nil {
		cfg.Sink = noopSink{}
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Analyzer{
		classifier: cfg.Classifier,
		sessions:   cfg.Sessions,
		intel:      cfg.Intel,
		alerts:     cfg.Alerts,
		dedupe:     cfg.Dedupe,
		sink:       cfg.Sink,
		journal:    cfg.Journal,
		logger:     cfg.Logger,
	}
}

// Analyze runs one observed message through the pipeline. Only invalid input
// is returned as an error; remote classifier failures degrade to the local
// fallback and still produce a Result.
func (a *Analyzer) Analyze(ctx context.Context, text, source, sessionID string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLength {
		return nil, ErrMessageTooLong
	}
	if source == "" {
		source = domain.SourceManual
	}

	if a.dedupe.Seen(text) {
		return &Result{SessionID: sessionID, Suppressed: true}, nil
	}
	a.dedupe.Mark(text)

	if !detect.QuickCheck(text) {
		return &Result{SessionID: sessionID}, nil
	}

	if sessionID == "" {
		sessionID = session.NewID()
	}
	a.sessions.GetOrCreate(sessionID, source)
	history := a.sessions.History(sessionID)

	now := time.Now().UTC()
	msg := domain.Message{Sender: domain.SenderScammer, Text: text, Timestamp: now}

	resp, err := a.classifier.Analyze(ctx, classify.Request{
		SessionID: sessionID,
		Message:   msg,
		History:   history,
		Metadata:  classify.DefaultMetadata(source),
	})
	if err != nil {
		a.logger.Warn("remote classifier unavailable, using local fallback",
			"session_id", sessionID, "error", err)
		return a.fallback(text, source, sessionID, now), nil
	}

	// The remote classifier only answers with an engagement line, so a
	// successful call always confirms a scam. Append the round-trip as a
	// pair to keep the scammer line and its reply correlated.
	a.sessions.Append(sessionID, msg, domain.Message{
		Sender:    domain.SenderAssistant,
		Text:      resp.Reply,
		Timestamp: time.Now().UTC(),
	})
	a.recordDetection(text, source, sessionID, now, resp.Reply, "remote")
	a.journal.Record(journal.Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		Source:    source,
		Direction: "outbound",
		Path:      "remote",
		Text:      resp.Reply,
	})

	return &Result{SessionID: sessionID, Verdict: domain.RemoteVerdict{ReplyText: resp.Reply}}, nil
}

// fallback classifies locally after a RemoteUnavailable condition. A
// positive verdict still records intelligence and an alert, but no session
// history: no conversational round-trip occurred.
func (a *Analyzer) fallback(text, source, sessionID string, now time.Time) *Result {
	verdict := detect.ClassifyLocally(text)
	if verdict.Scam {
		a.recordDetection(text, source, sessionID, now, verdict.ReplyText, "fallback")
	}
	return &Result{SessionID: sessionID, Verdict: verdict}
}

func (a *Analyzer) recordDetection(text, source, sessionID string, now time.Time, reply, path string) {
	a.intel.Merge(intel.Extract(text))
	a.totalScams.Add(1)

	al := domain.Alert{
		Text:      alert.Truncate(text),
		Source:    source,
		Timestamp: now,
		Reply:     reply,
	}
	a.alerts.Add(al)
	a.sink.Notify(al)
	a.journal.Record(journal.Event{
		Timestamp: now.Format(time.RFC3339Nano),
		SessionID: sessionID,
		Source:    source,
		Direction: "inbound",
		Path:      path,
		Text:      text,
	})
	a.dirty.Store(true)

	a.logger.Info("Scam detected",
		"session_id", sessionID,
		"source", source,
		"path", path,
		"total_scams", a.totalScams.Load())
}

// Stats returns the aggregate view: total detections, accumulated
// intelligence, and the ten most recent alerts.
func (a *Analyzer) Stats() Stats {
	return Stats{
		TotalScams:   a.totalScams.Load(),
		Intelligence: a.intel.Snapshot(),
		RecentAlerts: a.alerts.Recent(10),
	}
}

// Clear resets all accumulated state: sessions, intelligence, alerts, the
// scam counter, and the deduplication index.
func (a *Analyzer) Clear() {
	a.sessions.Reset()
	a.intel.Reset()
	a.alerts.Reset()
	a.dedupe.Reset()
	a.totalScams.Store(0)
	a.dirty.Store(true)
	a.logger.Info("All accumulated state cleared")
}

// Snapshot returns a consistent copy of all accumulated state for
// persistence.
func (a *Analyzer) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		TotalScams:   a.totalScams.Load(),
		Intelligence: a.intel.Snapshot(),
		Alerts:       a.alerts.Recent(0),
		Sessions:     a.sessions.Snapshot(),
	}
}

// Restore replaces accumulated state from a persisted snapshot.
func (a *Analyzer) Restore(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	a.totalScams.Store(snap.TotalScams)
	a.intel.Restore(snap.Intelligence)
	a.alerts.Restore(snap.Alerts)
	a.sessions.Restore(snap.Sessions)
}

// ConsumeDirty reports whether state changed since the last call and clears
// the flag. Used by the snapshot worker.
func (a *Analyzer) ConsumeDirty() bool {
	return a.dirty.Swap(false)
}
