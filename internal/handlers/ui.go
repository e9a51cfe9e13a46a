package handlers

import (
	"embed"
	"net/http"

	"github.com/ternarybob/arbor"
)

//go:embed pages/index.html
var pages embed.FS

// UIHandler serves the single-page research UI.
type UIHandler struct {
	logger arbor.ILogger
}

// NewUIHandler creates a UI handler.
func NewUIHandler(logger arbor.ILogger) *UIHandler {
	return &UIHandler{logger: logger}
}

// IndexHandler handles GET /.
func (h *UIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := pages.ReadFile("pages/index.html")
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read embedded page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
