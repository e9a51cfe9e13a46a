// Package app wires configuration, services and handlers together.
package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/eodhd"
	"github.com/ternarybob/scrutor/internal/handlers"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/services/export"
	"github.com/ternarybob/scrutor/internal/services/financials"
	"github.com/ternarybob/scrutor/internal/services/keys"
	"github.com/ternarybob/scrutor/internal/services/llm"
	"github.com/ternarybob/scrutor/internal/services/news"
	"github.com/ternarybob/scrutor/internal/services/pipeline"
	"github.com/ternarybob/scrutor/internal/services/report"
	"github.com/ternarybob/scrutor/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Providers
	EODHDClient     *eodhd.Client
	ProviderFactory *llm.ProviderFactory

	// Services
	KeyResolver       *keys.Resolver
	ModelResolver     *llm.Resolver
	FinancialsService interfaces.FinancialsService
	NewsService       interfaces.NewsService
	ReportService     interfaces.ReportService
	PipelineService   *pipeline.Service
	ExportService     *export.Service
	ReportStore       *report.Store
	Cache             interfaces.CacheStore

	// HTTP handlers
	UIHandler     *handlers.UIHandler
	ReportHandler *handlers.ReportHandler
	StatusHandler *handlers.StatusHandler
	ExportHandler *handlers.ExportHandler
}

// New initializes the application graph.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	// Financial data provider
	a.EODHDClient = eodhd.NewClient(config.EODHD.APIToken,
		eodhd.WithBaseURL(config.EODHD.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.EODHD.RateLimit),
		eodhd.WithTimeout(common.ParseDurationOrDefault(config.EODHD.Timeout, 30*time.Second)),
	)

	// LLM providers and model resolution
	a.ProviderFactory = llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)
	a.ModelResolver = llm.NewResolver(&config.Gemini, a.ProviderFactory, logger)

	// Credential gate
	a.KeyResolver = keys.NewResolver(config, logger)
	if missing := a.KeyResolver.Missing(); len(missing) > 0 {
		logger.Warn().
			Strs("missing", missing).
			Msg("Waiting for keys: report generation disabled until configured")
	}

	// Time-boxed result cache
	if config.Cache.Enabled {
		db, err := badger.NewBadgerDB(logger, &config.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		a.Cache = badger.NewCacheStorage(db, &config.Cache, logger)
	}

	// Domain services
	a.FinancialsService = financials.NewService(a.EODHDClient, &config.Markets, logger)

	backend, err := news.NewBackend(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search backend: %w", err)
	}
	a.NewsService = news.NewService(backend, &config.Search, &config.Markets, logger)

	a.ReportService = report.NewService(a.ProviderFactory, &config.Report, logger)
	a.ReportStore = report.NewStore()
	a.ExportService = export.NewService(logger)

	a.PipelineService = pipeline.NewService(
		config,
		a.KeyResolver,
		a.ModelResolver,
		a.FinancialsService,
		a.NewsService,
		a.ReportService,
		a.Cache,
		logger,
	)

	// HTTP handlers
	a.UIHandler = handlers.NewUIHandler(logger)
	a.ReportHandler = handlers.NewReportHandler(a.PipelineService, a.ReportStore, config, logger)
	a.StatusHandler = handlers.NewStatusHandler(config, a.KeyResolver, a.ModelResolver, logger)
	a.ExportHandler = handlers.NewExportHandler(a.ReportStore, a.ExportService, logger)

	logger.Info().
		Str("search_mode", config.Search.Mode).
		Str("model_resolution", config.Gemini.ModelResolution).
		Bool("cache_enabled", config.Cache.Enabled).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.ProviderFactory != nil {
		a.ProviderFactory.Close()
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close cache")
			return err
		}
	}
	return nil
}
