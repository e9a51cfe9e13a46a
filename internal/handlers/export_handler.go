package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/services/export"
	"github.com/ternarybob/scrutor/internal/services/report"
)

// ExportHandler renders stored reports in alternate formats.
type ExportHandler struct {
	store    *report.Store
	exporter *export.Service
	logger   arbor.ILogger
}

// NewExportHandler creates an export handler.
func NewExportHandler(store *report.Store, exporter *export.Service, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		store:    store,
		exporter: exporter,
		logger:   logger,
	}
}

// ExportReportHandler handles GET /api/report/{id}/export?format=markdown|html|pdf.
func (h *ExportHandler) ExportReportHandler(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	result, ok := h.store.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "report not found")
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.exporter.Render(result, format)
	if err != nil {
		h.logger.Error().
			Str("report_id", id).
			Str("format", string(format)).
			Err(err).
			Msg("Report export failed")
		WriteError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == export.FormatPDF {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s-report.pdf"`, result.Symbol))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
