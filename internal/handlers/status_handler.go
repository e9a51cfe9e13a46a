package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/keys"
)

// ModelStatus exposes the memoized model choice for the status view.
type ModelStatus interface {
	Cached() (models.ModelChoice, bool)
}

// StatusHandler reports application readiness, including the credential gate.
type StatusHandler struct {
	config   *common.Config
	keys     *keys.Resolver
	resolver ModelStatus
	logger   arbor.ILogger
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(config *common.Config, keyResolver *keys.Resolver, resolver ModelStatus, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:   config,
		keys:     keyResolver,
		resolver: resolver,
		logger:   logger,
	}
}

// GetStatusHandler handles GET /api/status.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, h.statusPayload())
}

func (h *StatusHandler) statusPayload() map[string]interface{} {
	missing := h.keys.Missing()
	status := "ready"
	if len(missing) > 0 {
		status = "waiting for keys"
	}

	payload := map[string]interface{}{
		"status":  status,
		"version": common.GetVersion(),
		"keys": map[string]interface{}{
			"ready":   len(missing) == 0,
			"missing": missing,
		},
		"search_mode":      h.config.Search.Mode,
		"model_resolution": h.config.Gemini.ModelResolution,
		"market_suffix":    h.config.Markets.DefaultSuffix,
		"cache_enabled":    h.config.Cache.Enabled,
	}

	if h.resolver != nil {
		if choice, ok := h.resolver.Cached(); ok {
			payload["model"] = choice.Name
		}
	}

	return payload
}

type setKeysRequest struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	TavilyAPIKey string `json:"tavily_api_key"`
}

// SetKeysHandler handles POST /api/keys, the manual credential fallback.
// Supplied keys only fill slots still empty; config and environment win.
func (h *StatusHandler) SetKeysHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req setKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	missing := h.keys.SetKeys(req.GeminiAPIKey, req.TavilyAPIKey)
	h.logger.Info().Int("still_missing", len(missing)).Msg("Runtime credentials applied")

	WriteJSON(w, http.StatusOK, h.statusPayload())
}

// HealthHandler handles GET /api/health.
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": common.GetVersion(),
	})
}
