// Package domain contains core domain types for the HoneyGuard application.
package domain

import (
	"time"
)

// Sender identifies which side of a conversation produced a message.
type Sender string

const (
	// SenderScammer marks a message observed from the untrusted counterpart.
	SenderScammer Sender = "scammer"
	// SenderAssistant marks an engagement reply produced by the system.
	SenderAssistant Sender = "assistant"
)

// SourceManual tags ad hoc analysis requests that did not arrive from a
// monitored messaging surface.
const SourceManual = "Manual"

// Message is one line of a tracked conversation.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session tracks one ongoing conversation with a counterpart.
// Messages are append-only and preserve insertion order.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Messages  []Message `json:"messages"`
	StartTime time.Time `json:"startTime"`
}

// MessageCount returns the number of messages exchanged in the session.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}
