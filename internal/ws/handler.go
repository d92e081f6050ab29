package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/nkurella/honeyguard/internal/domain"
	"github.com/nkurella/honeyguard/internal/engage"
	"github.com/nkurella/honeyguard/internal/pipeline"
)

// Handler upgrades watcher connections and dispatches their events through
// the pipeline.
type Handler struct {
	analyzer      *pipeline.Analyzer
	scheduler     *engage.Scheduler
	mgr           *Manager
	allowedOrigin string
	isDev         bool
}

// NewHandler creates the /ws/channel handler.
func NewHandler(analyzer *pipeline.Analyzer, scheduler *engage.Scheduler, mgr *Manager, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		analyzer:      analyzer,
		scheduler:     scheduler,
		mgr:           mgr,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// inbound is a frame sent by the watcher.
type inbound struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Source    string `json:"source,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// verdictFrame answers an observed-message event.
type verdictFrame struct {
	Type       string   `json:"type"`
	SessionID  string   `json:"sessionId,omitempty"`
	Suppressed bool     `json:"suppressed,omitempty"`
	IsScam     bool     `json:"isScam"`
	Reply      string   `json:"reply,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := conn.Close(websocket.StatusNormalClosure, "channel closed"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	h.mgr.Register(conn)
	defer h.mgr.Unregister(conn)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.readLoop(ctx, conn)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by watcher")
			} else if !errors.Is(err, context.Canceled) {
				slog.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.writeError(ctx, conn, "invalid frame")
			continue
		}

		switch msg.Type {
		case "message":
			h.handleMessage(ctx, conn, msg)
		case "ping":
			if err := writeJSON(ctx, conn, map[string]string{"type": "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		default:
			h.writeError(ctx, conn, "unknown frame type")
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, msg inbound) {
	result, err := h.analyzer.Analyze(ctx, msg.Text, msg.Source, msg.SessionID)
	if err != nil {
		h.writeError(ctx, conn, err.Error())
		return
	}

	if result.SessionID != "" {
		h.mgr.Bind(result.SessionID, conn)
	}

	frame := verdictFrame{
		Type:       "verdict",
		SessionID:  result.SessionID,
		Suppressed: result.Suppressed,
	}
	if result.Verdict != nil {
		frame.IsScam = result.Verdict.IsScam()
		frame.Reply = result.Verdict.Reply()
		if lv, ok := result.Verdict.(domain.LocalVerdict); ok {
			confidence := lv.Confidence
			frame.Confidence = &confidence
			frame.Keywords = lv.Keywords
		}
	}
	if err := writeJSON(ctx, conn, frame); err != nil {
		slog.Debug("Failed to send verdict", "error", err)
		return
	}

	if result.Verdict != nil && result.Verdict.IsScam() {
		h.scheduler.MaybeEngage(result.Verdict, result.SessionID, msg.Text, h.mgr)
	}
}

func (h *Handler) writeError(ctx context.Context, conn *websocket.Conn, message string) {
	if err := writeJSON(ctx, conn, map[string]string{"type": "error", "error": message}); err != nil {
		slog.Debug("Failed to send error frame", "error", err)
	}
}
