package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/keys"
)

type fakeResolver struct {
	choice models.ModelChoice
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context) (models.ModelChoice, error) {
	f.calls++
	return f.choice, f.err
}

type fakeFinancials struct {
	snapshot *models.FinancialSnapshot
	err      error
	calls    int
}

func (f *fakeFinancials) Snapshot(ctx context.Context, rawTicker string) (*models.FinancialSnapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

type fakeNews struct {
	ctx   models.NewsContext
	calls int
}

func (f *fakeNews) Context(ctx context.Context, rawTicker string) models.NewsContext {
	f.calls++
	return f.ctx
}

type fakeReport struct {
	report *models.Report
	err    error
	calls  int
	last   interfaces.ReportRequest
}

func (f *fakeReport) Generate(ctx context.Context, req interfaces.ReportRequest) (*models.Report, error) {
	f.calls++
	f.last = req
	return f.report, f.err
}

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(function, symbol string, out interface{}) bool {
	data, ok := m.entries[function+"|"+symbol]
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (m *memoryCache) Put(function, symbol string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[function+"|"+symbol] = data
	return nil
}

func (m *memoryCache) Close() error { return nil }

type fixture struct {
	cfg        *common.Config
	resolver   *fakeResolver
	financials *fakeFinancials
	news       *fakeNews
	report     *fakeReport
	cache      *memoryCache
}

func newFixture() *fixture {
	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = "gem-key"
	cfg.Tavily.APIKey = "tav-key"

	snapshot := &models.FinancialSnapshot{
		Symbol: "ZOMATO.NS",
		Years: []models.YearRow{
			{Year: "2025", Figures: models.YearFigures{RevenueCr: 12114, NetProfitCr: 351, ROEPercent: 1.7}},
		},
	}

	content := "## Executive Summary\n...\n## Financial Health Check\n...\n## Risk Analysis\n...\n## Investment Verdict\n..."

	return &fixture{
		cfg:        cfg,
		resolver:   &fakeResolver{choice: models.ModelChoice{Name: "gemini-2.0-flash", Source: models.ModelSourcePreferred, ResolvedAt: time.Now()}},
		financials: &fakeFinancials{snapshot: snapshot},
		news:       &fakeNews{ctx: models.NewsContext{Text: "- Headline: snippet...\n"}},
		report:     &fakeReport{report: &models.Report{ID: "r1", Content: content, Model: "gemini-2.0-flash"}},
		cache:      newMemoryCache(),
	}
}

func (f *fixture) service() *Service {
	logger := arbor.NewLogger()
	return NewService(f.cfg, keys.NewResolver(f.cfg, logger), f.resolver, f.financials, f.news, f.report, f.cache, logger)
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture()
	svc := f.service()

	report, err := svc.Run(context.Background(), "zomato")

	require.NoError(t, err)
	assert.Contains(t, report.Content, "## Executive Summary")
	assert.Contains(t, report.Content, "## Financial Health Check")
	assert.Contains(t, report.Content, "## Risk Analysis")
	assert.Contains(t, report.Content, "## Investment Verdict")

	assert.Equal(t, 1, f.resolver.calls)
	assert.Equal(t, 1, f.financials.calls)
	assert.Equal(t, 1, f.news.calls)
	assert.Equal(t, 1, f.report.calls)

	assert.Equal(t, "ZOMATO", f.report.last.Ticker)
	assert.Equal(t, "ZOMATO.NS", f.report.last.Symbol)
	assert.Equal(t, "gemini-2.0-flash", f.report.last.Model)
	assert.Contains(t, f.report.last.FinancialTable, "| Year | Revenue(Cr) | PAT(Cr) | ROE % |")
	assert.Contains(t, f.report.last.FinancialTable, "| 2025 | 12114 | 351 | 1.7 |")
	assert.Equal(t, "- Headline: snippet...\n", f.report.last.NewsContext)
}

func TestRunMissingCredentialsMakesNoProviderCalls(t *testing.T) {
	f := newFixture()
	f.cfg.Gemini.APIKey = ""
	svc := f.service()

	_, err := svc.Run(context.Background(), "ZOMATO")

	require.Error(t, err)
	assert.True(t, models.IsConfigurationMissing(err))
	assert.Equal(t, 0, f.resolver.calls)
	assert.Equal(t, 0, f.financials.calls)
	assert.Equal(t, 0, f.news.calls)
	assert.Equal(t, 0, f.report.calls)
}

func TestRunFailFastSkipsNews(t *testing.T) {
	f := newFixture()
	f.financials.snapshot = nil
	f.financials.err = &models.DataUnavailableError{Symbol: "FAKECO.NS"}
	svc := f.service()

	_, err := svc.Run(context.Background(), "FAKECO")

	require.Error(t, err)
	assert.True(t, models.IsDataUnavailable(err))
	assert.Contains(t, err.Error(), "FAKECO.NS")
	assert.Equal(t, 0, f.news.calls)
	assert.Equal(t, 0, f.report.calls)
}

func TestRunAlwaysFetchNewsOrdering(t *testing.T) {
	f := newFixture()
	f.cfg.Report.FailFast = false
	f.financials.snapshot = nil
	f.financials.err = &models.DataUnavailableError{Symbol: "FAKECO.NS"}
	svc := f.service()

	_, err := svc.Run(context.Background(), "FAKECO")

	require.Error(t, err)
	assert.True(t, models.IsDataUnavailable(err))
	// News was still fetched before the fatal financial error surfaced
	assert.Equal(t, 1, f.news.calls)
	assert.Equal(t, 0, f.report.calls)
}

func TestRunModelResolutionFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.resolver.choice = models.ModelChoice{}
	f.resolver.err = &models.NoModelAvailableError{}
	svc := f.service()

	_, err := svc.Run(context.Background(), "ZOMATO")

	require.Error(t, err)
	assert.True(t, models.IsNoModelAvailable(err))
	assert.Equal(t, 0, f.financials.calls)
	assert.Equal(t, 0, f.report.calls)
}

func TestRunCachesSuccessfulFetches(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Run(context.Background(), "ZOMATO")

	require.NoError(t, err)
	assert.Contains(t, f.cache.entries, "financials|ZOMATO.NS")
	assert.Contains(t, f.cache.entries, "news|ZOMATO.NS")
	assert.Contains(t, f.cache.entries, "report|ZOMATO.NS")
}

func TestRunReturnsCachedReport(t *testing.T) {
	f := newFixture()
	svc := f.service()

	first, err := svc.Run(context.Background(), "ZOMATO")
	require.NoError(t, err)

	second, err := svc.Run(context.Background(), "ZOMATO")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// The second run answered from cache without touching any provider
	assert.Equal(t, 1, f.resolver.calls)
	assert.Equal(t, 1, f.financials.calls)
	assert.Equal(t, 1, f.news.calls)
	assert.Equal(t, 1, f.report.calls)
}

func TestRunDoesNotCacheDegradedNews(t *testing.T) {
	f := newFixture()
	f.news.ctx = models.NewsContext{Text: "No recent news snippets available.", Degraded: true}
	svc := f.service()

	_, err := svc.Run(context.Background(), "ZOMATO")

	require.NoError(t, err)
	assert.NotContains(t, f.cache.entries, "news|ZOMATO.NS")
}

func TestRunCacheDisabled(t *testing.T) {
	f := newFixture()
	f.cfg.Cache.Enabled = false
	svc := f.service()

	_, err := svc.Run(context.Background(), "ZOMATO")

	require.NoError(t, err)
	assert.Empty(t, f.cache.entries)
}

func TestRunEmptyTicker(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Run(context.Background(), "   ")

	require.Error(t, err)
	assert.True(t, models.IsDataUnavailable(err))
	assert.Equal(t, 0, f.financials.calls)
}
