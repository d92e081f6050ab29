// Package journal writes an NDJSON record of detections and engagement
// traffic, one file per session plus an optional global stream. Writes are
// queued and flushed by a background goroutine so the pipeline never blocks
// on disk.
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Event is one journal line.
type Event struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Direction string `json:"direction"` // "inbound" or "outbound"
	Path      string `json:"path,omitempty"`
	Text      string `json:"text"`
}

// Recorder is the journaling contract the pipeline depends on.
type Recorder interface {
	Record(Event)
}

// NopRecorder discards all events.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(Event) {}

// Config controls the NDJSON journal.
type Config struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Logger is the file-backed Recorder implementation.
type Logger struct {
	cfg    Config
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// Ensure Logger implements Recorder.
var _ Recorder = (*Logger)(nil)

var sessionFileRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NewLogger creates the journal and starts its writer goroutine. With
// Enabled false it behaves as a no-op.
func NewLogger(cfg Config, logger *slog.Logger) (*Logger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	l := &Logger{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
	}

	if !cfg.Enabled {
		close(l.done)
		return l, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0755); err != nil {
			return nil, fmt.Errorf("create global journal directory: %w", err)
		}
	}

	go l.writeLoop()
	return l, nil
}

// Record queues an event. Events are dropped when the queue is full; the
// journal is diagnostic output, not the system of record.
func (l *Logger) Record(ev Event) {
	if !l.cfg.Enabled {
		return
	}
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}

	select {
	case l.queue <- ev:
	default:
		l.logger.Warn("journal queue full, dropping event", "session_id", ev.SessionID)
	}
}

// Close stops accepting events and waits for queued writes to flush.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	if !l.cfg.Enabled {
		return nil
	}
	close(l.queue)
	<-l.done
	return nil
}

func (l *Logger) writeLoop() {
	defer close(l.done)
	for ev := range l.queue {
		l.write(ev)
	}
}

func (l *Logger) write(ev Event) {
	line, err := json.Marshal(ev)
	if err != nil {
		l.logger.Warn("failed to encode journal event", "error", err)
		return
	}
	line = append(line, '\n')

	path := filepath.Join(l.cfg.Dir, sessionFileName(ev.SessionID))
	if err := appendFile(path, line); err != nil {
		l.logger.Warn("failed to write session journal", "path", path, "error", err)
	}

	if l.cfg.GlobalEnabled {
		if err := appendFile(l.cfg.GlobalPath, line); err != nil {
			l.logger.Warn("failed to write global journal", "path", l.cfg.GlobalPath, "error", err)
		}
	}
}

func sessionFileName(sessionID string) string {
	name := sessionFileRe.ReplaceAllString(sessionID, "_")
	if strings.TrimLeft(name, "._-") == "" {
		name = "unknown"
	}
	return name + ".ndjson"
}

func appendFile(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
