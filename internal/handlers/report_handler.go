package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/services/report"
)

// ReportHandler serves report generation and retrieval.
type ReportHandler struct {
	pipeline interfaces.ReportPipeline
	store    *report.Store
	timeout  time.Duration
	logger   arbor.ILogger
}

// NewReportHandler creates a report handler.
func NewReportHandler(pipelineService interfaces.ReportPipeline, store *report.Store, config *common.Config, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		pipeline: pipelineService,
		store:    store,
		timeout:  common.ParseDurationOrDefault(config.Gemini.Timeout, 5*time.Minute),
		logger:   logger,
	}
}

type generateRequest struct {
	Ticker string `json:"ticker"`
}

// GenerateHandler handles POST /api/report.
func (h *ReportHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.pipeline.Run(ctx, req.Ticker)
	if err != nil {
		h.logger.Warn().
			Str("ticker", req.Ticker).
			Err(err).
			Msg("Report generation failed")
		WritePipelineError(w, err)
		return
	}

	h.store.Save(result)
	WriteJSON(w, http.StatusOK, result)
}

// GetHandler handles GET /api/report/{id}.
func (h *ReportHandler) GetHandler(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	result, ok := h.store.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "report not found")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// ListHandler handles GET /api/reports.
func (h *ReportHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	reports := h.store.List()
	summaries := make([]map[string]interface{}, 0, len(reports))
	for _, rep := range reports {
		summaries = append(summaries, map[string]interface{}{
			"id":           rep.ID,
			"ticker":       rep.Ticker,
			"symbol":       rep.Symbol,
			"model":        rep.Model,
			"generated_at": rep.GeneratedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(summaries),
		"reports": summaries,
	})
}
