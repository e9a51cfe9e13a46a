// Package interfaces defines the service contracts consumed across the
// application. Implementations live under internal/services.
package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// Message represents a single turn in a generation request.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// FinancialsService fetches statement data and derives the per-year metrics.
type FinancialsService interface {
	// Snapshot returns the derived three-year snapshot for a raw ticker
	// string. Returns *models.DataUnavailableError when no reporting
	// period yields usable figures.
	Snapshot(ctx context.Context, rawTicker string) (*models.FinancialSnapshot, error)
}

// NewsService fetches adverse-news context for a ticker. It never fails
// upward: errors degrade to a placeholder NewsContext.
type NewsService interface {
	Context(ctx context.Context, rawTicker string) models.NewsContext
}

// ModelResolver selects the generation model for a session.
type ModelResolver interface {
	// Resolve returns the model choice per the configured resolution
	// strategy. Returns *models.NoModelAvailableError when enumeration
	// fails or yields nothing usable.
	Resolve(ctx context.Context) (models.ModelChoice, error)
}

// ReportService synthesizes the four-section investment report.
type ReportService interface {
	Generate(ctx context.Context, req ReportRequest) (*models.Report, error)
}

// ReportRequest carries the assembled inputs for one generation.
type ReportRequest struct {
	Ticker         string
	Symbol         string
	Model          string
	FinancialTable string
	NewsContext    string
}

// ReportPipeline runs the full fetch-and-generate flow for one ticker.
type ReportPipeline interface {
	Run(ctx context.Context, rawTicker string) (*models.Report, error)
}

// CacheStore is the time-boxed result cache keyed by (function, symbol).
type CacheStore interface {
	// Get unmarshals a fresh entry into out and reports whether one existed.
	Get(function, symbol string, out interface{}) bool
	// Put stores a value, replacing any previous entry for the key.
	Put(function, symbol string, value interface{}) error
	Close() error
}
