package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.app.UIHandler.IndexHandler)

	// API routes - reports
	mux.HandleFunc("/api/report", s.app.ReportHandler.GenerateHandler) // POST - run pipeline
	mux.HandleFunc("/api/report/", s.handleReportRoutes)               // GET /{id}, GET /{id}/export
	mux.HandleFunc("/api/reports", s.app.ReportHandler.ListHandler)    // GET - list stored reports

	// API routes - system
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/keys", s.app.StatusHandler.SetKeysHandler)
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)

	return mux
}

// handleReportRoutes dispatches /api/report/{id} and /api/report/{id}/export.
func (s *Server) handleReportRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/report/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/export"); ok {
		s.app.ExportHandler.ExportReportHandler(w, r, id)
		return
	}

	if strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}

	s.app.ReportHandler.GetHandler(w, r, rest)
}
