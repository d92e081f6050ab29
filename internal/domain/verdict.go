package domain

// Verdict is the classification outcome for one analyzed message. It is a
// tagged variant: RemoteVerdict for replies produced by the remote
// classifier, LocalVerdict for the deterministic fallback path.
type Verdict interface {
	// IsScam reports whether the message was judged a scam attempt.
	IsScam() bool
	// Reply returns the engagement reply text, or "" when there is none.
	Reply() string
}

// RemoteVerdict is the outcome of a successful remote classification. A
// successful remote call always confirms a scam; the reply is the assistant
// engagement line to send back.
type RemoteVerdict struct {
	ReplyText string `json:"reply"`
}

// IsScam always reports true for a remote verdict.
func (v RemoteVerdict) IsScam() bool { return true }

// Reply returns the assistant engagement line.
func (v RemoteVerdict) Reply() string { return v.ReplyText }

// LocalVerdict is the outcome of the local fallback classifier.
type LocalVerdict struct {
	Scam bool `json:"isScam"`
	// Confidence is matchedKeywords/5. It is deliberately uncapped above
	// 1.0 and used only as a diagnostic, never for threshold decisions.
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
	ReplyText  string   `json:"reply,omitempty"`
}

// IsScam reports the local two-branch keyword rule outcome.
func (v LocalVerdict) IsScam() bool { return v.Scam }

// Reply returns the generic caution reply, or "" when not a scam.
func (v LocalVerdict) Reply() string { return v.ReplyText }
