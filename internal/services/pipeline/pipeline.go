// Package pipeline orchestrates a research run: credential gate, model
// resolution, financial and news fetches, then report generation.
package pipeline

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/keys"
)

// Cache function names. Cached results are keyed by (function, symbol) and
// expire on the configured rolling window.
const (
	cacheFinancials = "financials"
	cacheNews       = "news"
	cacheReport     = "report"
)

// Service runs the end-to-end research pipeline.
type Service struct {
	config     *common.Config
	keys       *keys.Resolver
	resolver   interfaces.ModelResolver
	financials interfaces.FinancialsService
	news       interfaces.NewsService
	report     interfaces.ReportService
	cache      interfaces.CacheStore
	logger     arbor.ILogger
}

// NewService creates a pipeline service. cache may be nil to disable caching.
func NewService(
	config *common.Config,
	keyResolver *keys.Resolver,
	modelResolver interfaces.ModelResolver,
	financials interfaces.FinancialsService,
	news interfaces.NewsService,
	report interfaces.ReportService,
	cache interfaces.CacheStore,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:     config,
		keys:       keyResolver,
		resolver:   modelResolver,
		financials: financials,
		news:       news,
		report:     report,
		cache:      cache,
		logger:     logger,
	}
}

// Run executes the pipeline for a raw ticker string. Credentials are checked
// before any provider call; a missing key returns
// *models.ConfigurationMissingError with nothing fetched.
func (s *Service) Run(ctx context.Context, rawTicker string) (*models.Report, error) {
	if _, err := s.keys.Resolve(); err != nil {
		return nil, err
	}

	ticker := common.ParseTicker(rawTicker, s.config.Markets.DefaultSuffix)
	if ticker.IsZero() {
		return nil, &models.DataUnavailableError{Symbol: rawTicker}
	}
	symbol := ticker.Symbol()

	s.logger.Info().
		Str("ticker", ticker.Code).
		Str("symbol", symbol).
		Msg("Starting research run")

	if s.cacheEnabled() {
		var cached models.Report
		if s.cache.Get(cacheReport, symbol, &cached) {
			s.logger.Info().
				Str("symbol", symbol).
				Str("report_id", cached.ID).
				Msg("Returning cached report")
			return &cached, nil
		}
	}

	choice, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var snapshot *models.FinancialSnapshot
	var newsCtx models.NewsContext

	if s.config.Report.FailFast {
		// Financials first; a fatal data error skips the news fetch.
		snapshot, err = s.fetchFinancials(ctx, rawTicker, symbol)
		if err != nil {
			return nil, err
		}
		newsCtx = s.fetchNews(ctx, rawTicker, symbol)
	} else {
		// News first, preserving the ordering where context is gathered
		// regardless of financial data availability.
		newsCtx = s.fetchNews(ctx, rawTicker, symbol)
		snapshot, err = s.fetchFinancials(ctx, rawTicker, symbol)
		if err != nil {
			return nil, err
		}
	}

	report, err := s.report.Generate(ctx, interfaces.ReportRequest{
		Ticker:         ticker.Code,
		Symbol:         symbol,
		Model:          choice.Name,
		FinancialTable: snapshot.Markdown(),
		NewsContext:    newsCtx.Text,
	})
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Put(cacheReport, symbol, report); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache report")
		}
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("model", report.Model).
		Str("report_id", report.ID).
		Msg("Research run complete")

	return report, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.config.Cache.Enabled
}

func (s *Service) fetchFinancials(ctx context.Context, rawTicker, symbol string) (*models.FinancialSnapshot, error) {
	if s.cacheEnabled() {
		var cached models.FinancialSnapshot
		if s.cache.Get(cacheFinancials, symbol, &cached) {
			return &cached, nil
		}
	}

	snapshot, err := s.financials.Snapshot(ctx, rawTicker)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Put(cacheFinancials, symbol, snapshot); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache financial snapshot")
		}
	}

	return snapshot, nil
}

func (s *Service) fetchNews(ctx context.Context, rawTicker, symbol string) models.NewsContext {
	if s.cacheEnabled() {
		var cached models.NewsContext
		if s.cache.Get(cacheNews, symbol, &cached) {
			return cached
		}
	}

	newsCtx := s.news.Context(ctx, rawTicker)

	// Degraded placeholders are not cached so the next run can retry the search
	if s.cacheEnabled() && !newsCtx.Degraded {
		if err := s.cache.Put(cacheNews, symbol, newsCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache news context")
		}
	}

	return newsCtx
}
