// Package ws provides the WebSocket channel between the engine and the
// message watcher: inbound observed-message events, verdict replies,
// engagement pushes, and alert broadcasts.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/nkurella/honeyguard/internal/domain"
)

// Manager tracks active watcher connections and which connection owns each
// session, so scheduled engagement sends reach the surface that observed
// the conversation.
type Manager struct {
	mu        sync.RWMutex
	conns     map[*websocket.Conn]struct{}
	bySession map[string]*websocket.Conn
}

// NewManager creates an empty connection manager.
func NewManager() *Manager {
	return &Manager{
		conns:     make(map[*websocket.Conn]struct{}),
		bySession: make(map[string]*websocket.Conn),
	}
}

// Register adds a new watcher connection.
func (m *Manager) Register(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[conn] = struct{}{}
	slog.Info("Watcher connection registered", "connections", len(m.conns))
}

// Unregister removes a connection and any session bindings pointing at it.
func (m *Manager) Unregister(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, conn)
	for sid, c := range m.bySession {
		if c == conn {
			delete(m.bySession, sid)
		}
	}
	slog.Info("Watcher connection unregistered", "connections", len(m.conns))
}

// Bind records that a session's traffic arrives over the given connection.
// A later connection for the same session replaces the binding.
func (m *Manager) Bind(sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySession[sessionID] = conn
}

// Send pushes an engagement reply to the connection owning the session.
// Implements the engage.SendAdapter contract.
func (m *Manager) Send(ctx context.Context, sessionID, text string) error {
	m.mu.RLock()
	conn := m.bySession[sessionID]
	m.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("no active connection for session %s", sessionID)
	}
	return writeJSON(ctx, conn, map[string]string{
		"type":      "engage",
		"sessionId": sessionID,
		"reply":     text,
	})
}

// Notify broadcasts a detected-scam alert to every connected watcher.
// Implements the pipeline.AlertSink contract.
func (m *Manager) Notify(a domain.Alert) {
	m.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(m.conns))
	for conn := range m.conns {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	payload := struct {
		Type  string       `json:"type"`
		Alert domain.Alert `json:"alert"`
	}{Type: "alert", Alert: a}

	for _, conn := range conns {
		if err := writeJSON(context.Background(), conn, payload); err != nil {
			slog.Debug("Failed to broadcast alert", "error", err)
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
