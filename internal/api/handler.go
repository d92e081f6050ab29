// Package api provides HTTP handlers for the HoneyGuard API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nkurella/honeyguard/internal/domain"
	"github.com/nkurella/honeyguard/internal/engage"
	"github.com/nkurella/honeyguard/internal/pipeline"
	"github.com/nkurella/honeyguard/internal/settings"
)

// maxRequestBodySize is the maximum allowed request body size (64KB). The
// pipeline rejects anything over 2000 characters anyway.
const maxRequestBodySize = 64 << 10

// Handler serves the analysis and query surface.
type Handler struct {
	analyzer  *pipeline.Analyzer
	scheduler *engage.Scheduler
	settings  *settings.Manager
	adapter   engage.SendAdapter
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(analyzer *pipeline.Analyzer, scheduler *engage.Scheduler, mgr *settings.Manager, adapter engage.SendAdapter) *Handler {
	return &Handler{
		analyzer:  analyzer,
		scheduler: scheduler,
		settings:  mgr,
		adapter:   adapter,
	}
}

// RegisterRoutes mounts the API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/stats", h.HandleStats)
		r.Post("/clear", h.HandleClear)
		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandleUpdateSettings)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Text      string `json:"text"`
	Source    string `json:"source,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// AnalyzeResponse mirrors the pipeline result for HTTP callers.
type AnalyzeResponse struct {
	SessionID  string   `json:"sessionId,omitempty"`
	Suppressed bool     `json:"suppressed,omitempty"`
	IsScam     bool     `json:"isScam"`
	Reply      string   `json:"reply,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// HandleAnalyze handles POST /api/analyze: ad hoc analysis of a pasted or
// selected message. The source defaults to Manual.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text, req.Source, req.SessionID)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyMessage) || errors.Is(err, pipeline.ErrMessageTooLong) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Analyze failed", "error", err)
		Error(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := AnalyzeResponse{
		SessionID:  result.SessionID,
		Suppressed: result.Suppressed,
	}
	if result.Verdict != nil {
		resp.IsScam = result.Verdict.IsScam()
		resp.Reply = result.Verdict.Reply()
		if lv, ok := result.Verdict.(domain.LocalVerdict); ok {
			confidence := lv.Confidence
			resp.Confidence = &confidence
			resp.Keywords = lv.Keywords
		}
		if result.Verdict.IsScam() {
			h.scheduler.MaybeEngage(result.Verdict, result.SessionID, req.Text, h.adapter)
		}
	}
	JSON(w, http.StatusOK, resp)
}

// HandleStats handles GET /api/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.analyzer.Stats())
}

// HandleClear handles POST /api/clear: bulk reset of all accumulated state.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.analyzer.Clear()
	h.scheduler.Reset()
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleGetSettings handles GET /api/settings.
func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.settings.Current())
}

// HandleUpdateSettings handles PUT /api/settings. Changes take effect
// immediately; the classifier client and scheduler read current values per
// call.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.Update(r.Context(), req); err != nil {
		slog.Error("Failed to update settings", "error", err)
		Error(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}
	JSON(w, http.StatusOK, h.settings.Current())
}
