// Package classify talks to the remote scam classifier and defines the
// contract the pipeline orchestrates against.
package classify

import (
	"context"
	"errors"

	"github.com/nkurella/honeyguard/internal/domain"
)

// ErrRemoteUnavailable is the single failure condition of the remote
// classifier: network errors, non-2xx statuses, and malformed responses all
// collapse into it. The pipeline recovers from it with the local fallback
// and never surfaces it to callers.
var ErrRemoteUnavailable = errors.New("remote classifier unavailable")

// Metadata carries channel information alongside a classification request.
// Language and locale are fixed defaults unless the caller overrides them.
type Metadata struct {
	Channel  string `json:"channel"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

// DefaultMetadata returns the metadata used when the caller supplies none.
func DefaultMetadata(channel string) Metadata {
	return Metadata{Channel: channel, Language: "English", Locale: "IN"}
}

// Request is one classification call: the new message plus the prior
// history of its session (not including the new message).
type Request struct {
	SessionID string           `json:"sessionId"`
	Message   domain.Message   `json:"message"`
	History   []domain.Message `json:"conversationHistory"`
	Metadata  Metadata         `json:"metadata"`
}

// Response is the remote classifier's answer. A reply from the remote
// classifier is definitionally an assistant engagement line: there is no
// "not a scam" success path.
type Response struct {
	Reply string `json:"reply"`
}

// Classifier is implemented by the remote HTTP client and by test fakes.
type Classifier interface {
	Analyze(ctx context.Context, req Request) (*Response, error)
}
