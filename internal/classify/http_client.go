package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nkurella/honeyguard/internal/settings"
)

// apiKeyHeader carries the classifier credential.
const apiKeyHeader = "X-API-Key"

// HTTPClient submits classification requests to the remote service via
// POST /analyze-message. Endpoint and credential are read from the settings
// manager on every call so runtime updates apply without reconnecting.
type HTTPClient struct {
	httpClient *http.Client
	settings   *settings.Manager
	logger     *slog.Logger
}

// Ensure HTTPClient implements Classifier.
var _ Classifier = (*HTTPClient)(nil)

// NewHTTPClient creates a remote classifier client. The http.Client is
// injected so the caller decides timeout policy; nil means no timeout.
func NewHTTPClient(httpClient *http.Client, mgr *settings.Manager, logger *slog.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{httpClient: httpClient, settings: mgr, logger: logger}
}

// Analyze submits one classification request. Every failure mode wraps
// ErrRemoteUnavailable.
func (c *HTTPClient) Analyze(ctx context.Context, req Request) (*Response, error) {
	cfg := c.settings.Current()
	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrRemoteUnavailable)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRemoteUnavailable, err)
	}

	url := strings.TrimSuffix(cfg.APIEndpoint, "/") + "/analyze-message"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemoteUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close classifier response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRemoteUnavailable, err)
	}
	if out.Reply == "" {
		return nil, fmt.Errorf("%w: response missing reply", ErrRemoteUnavailable)
	}
	return &out, nil
}
