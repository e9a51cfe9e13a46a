// Package models defines the request-scoped records that flow through the
// research pipeline. None of these carry mutation semantics beyond
// recompute-and-replace.
package models

import (
	"fmt"
	"strings"
	"time"
)

// YearFigures holds the derived metrics for a single fiscal year.
// Revenue and net profit are expressed in crore (raw value / 1e7) rounded to
// whole units; return on equity is a percentage rounded to one decimal.
type YearFigures struct {
	RevenueCr   float64 `json:"revenue_cr"`
	NetProfitCr float64 `json:"net_profit_cr"`
	ROEPercent  float64 `json:"roe_percent"`
}

// YearRow pairs a fiscal year label with its figures.
type YearRow struct {
	Year    string      `json:"year"`
	Figures YearFigures `json:"figures"`
}

// FinancialSnapshot is the per-ticker result of the financial data fetch:
// up to three most-recent reporting periods with derived metrics.
type FinancialSnapshot struct {
	Symbol string    `json:"symbol"`
	Years  []YearRow `json:"years"`
}

// IsEmpty reports whether no usable reporting period survived parsing.
// An empty snapshot halts the pipeline before report generation.
func (s *FinancialSnapshot) IsEmpty() bool {
	return s == nil || len(s.Years) == 0
}

// Markdown renders the snapshot as a markdown table suitable for embedding
// in the generation prompt and the transparency view.
func (s *FinancialSnapshot) Markdown() string {
	if s.IsEmpty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("| Year | Revenue(Cr) | PAT(Cr) | ROE % |\n")
	b.WriteString("|------|-------------|---------|-------|\n")
	for _, row := range s.Years {
		b.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.1f |\n",
			row.Year, row.Figures.RevenueCr, row.Figures.NetProfitCr, row.Figures.ROEPercent))
	}
	return b.String()
}

// NewsItem is a single search result reduced to a title and truncated excerpt.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url,omitempty"`
}

// NewsContext is the formatted news block embedded in the prompt. Degraded
// marks a placeholder produced after a search failure; it never blocks
// report generation.
type NewsContext struct {
	Items    []NewsItem `json:"items,omitempty"`
	Text     string     `json:"text"`
	Degraded bool       `json:"degraded"`
}

// Sources recorded on a ModelChoice.
const (
	ModelSourcePreferred      = "preferred"
	ModelSourceFirstAvailable = "first-available"
	ModelSourceFixed          = "fixed"
)

// ModelChoice records how the generation model was resolved for a session.
type ModelChoice struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Report is the final pipeline output.
type Report struct {
	ID             string    `json:"id"`
	Ticker         string    `json:"ticker"`
	Symbol         string    `json:"symbol"`
	Model          string    `json:"model"`
	Provider       string    `json:"provider"`
	FinancialTable string    `json:"financial_table"`
	NewsContext    string    `json:"news_context"`
	Content        string    `json:"content"` // generated report markdown
	GeneratedAt    time.Time `json:"generated_at"`
}
