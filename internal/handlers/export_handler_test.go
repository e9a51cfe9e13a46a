package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/services/export"
	"github.com/ternarybob/scrutor/internal/services/report"
)

func newExportHandler(store *report.Store) *ExportHandler {
	logger := arbor.NewLogger()
	return NewExportHandler(store, export.NewService(logger), logger)
}

func TestExportReportHandler_Markdown(t *testing.T) {
	store := report.NewStore()
	rep := testReport("r1", "TCS.NS")
	rep.FinancialTable = "| Year | Revenue(Cr) | PAT(Cr) | ROE % |"
	rep.NewsContext = "- Headline: snippet..."
	store.Save(rep)
	handler := newExportHandler(store)

	req := httptest.NewRequest("GET", "/api/report/r1/export?format=markdown", nil)
	rec := httptest.NewRecorder()
	handler.ExportReportHandler(rec, req, "r1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "markdown") {
		t.Errorf("Expected markdown content type, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "TCS.NS") {
		t.Error("Expected rendered markdown to contain the symbol")
	}
	if !strings.Contains(body, "Executive Summary") {
		t.Error("Expected rendered markdown to contain the report content")
	}
}

func TestExportReportHandler_DefaultFormat(t *testing.T) {
	store := report.NewStore()
	store.Save(testReport("r1", "TCS.NS"))
	handler := newExportHandler(store)

	req := httptest.NewRequest("GET", "/api/report/r1/export", nil)
	rec := httptest.NewRecorder()
	handler.ExportReportHandler(rec, req, "r1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "markdown") {
		t.Errorf("Expected markdown as default format, got %q", ct)
	}
}

func TestExportReportHandler_PDF(t *testing.T) {
	store := report.NewStore()
	store.Save(testReport("r1", "TCS.NS"))
	handler := newExportHandler(store)

	req := httptest.NewRequest("GET", "/api/report/r1/export?format=pdf", nil)
	rec := httptest.NewRecorder()
	handler.ExportReportHandler(rec, req, "r1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "TCS.NS-report.pdf") {
		t.Errorf("Expected attachment disposition with symbol, got %q", disposition)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("Expected PDF magic bytes in response body")
	}
}

func TestExportReportHandler_UnknownFormat(t *testing.T) {
	store := report.NewStore()
	store.Save(testReport("r1", "TCS.NS"))
	handler := newExportHandler(store)

	req := httptest.NewRequest("GET", "/api/report/r1/export?format=docx", nil)
	rec := httptest.NewRecorder()
	handler.ExportReportHandler(rec, req, "r1")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestExportReportHandler_NotFound(t *testing.T) {
	handler := newExportHandler(report.NewStore())

	req := httptest.NewRequest("GET", "/api/report/missing/export?format=pdf", nil)
	rec := httptest.NewRecorder()
	handler.ExportReportHandler(rec, req, "missing")

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
