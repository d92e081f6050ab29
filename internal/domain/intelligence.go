package domain

import (
	"time"
)

// Intelligence holds structured artifacts extracted from scam traffic.
// Each slice behaves as an ordered set: no duplicates, insertion order
// preserved for display.
type Intelligence struct {
	PhoneNumbers  []string `json:"phoneNumbers"`
	PhishingLinks []string `json:"phishingLinks"`
	UpiIDs        []string `json:"upiIds"`
	Keywords      []string `json:"keywords"`
}

// IsEmpty reports whether no artifacts were extracted.
func (i Intelligence) IsEmpty() bool {
	return len(i.PhoneNumbers) == 0 && len(i.PhishingLinks) == 0 &&
		len(i.UpiIDs) == 0 && len(i.Keywords) == 0
}

// Alert is an immutable record of one detected scam event.
type Alert struct {
	// Text is the offending message truncated to 100 characters, with an
	// ellipsis marker when truncated.
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Reply     string    `json:"reply,omitempty"`
}

// Snapshot is the persistable image of all accumulated state. It is what
// the store writes after mutations and reads back at startup.
type Snapshot struct {
	TotalScams   int64               `json:"totalScams"`
	Intelligence Intelligence        `json:"intelligence"`
	Alerts       []Alert             `json:"recentAlerts"`
	Sessions     map[string]*Session `json:"sessions"`
}
