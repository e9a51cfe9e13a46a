package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
)

func newTestCache(t *testing.T) *CacheStorage {
	t.Helper()
	cfg := &common.CacheConfig{Enabled: true, Hours: 1, InMemory: true}
	db, err := NewBadgerDB(arbor.NewLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCacheStorage(db, cfg, arbor.NewLogger())
}

func TestCachePutGetRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	snapshot := &models.FinancialSnapshot{
		Symbol: "TCS.NS",
		Years: []models.YearRow{
			{Year: "2025", Figures: models.YearFigures{RevenueCr: 255000, NetProfitCr: 48000, ROEPercent: 50.5}},
		},
	}
	require.NoError(t, cache.Put("financials", "TCS.NS", snapshot))

	var out models.FinancialSnapshot
	require.True(t, cache.Get("financials", "TCS.NS", &out))
	assert.Equal(t, "TCS.NS", out.Symbol)
	require.Len(t, out.Years, 1)
	assert.Equal(t, 50.5, out.Years[0].Figures.ROEPercent)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	cache := newTestCache(t)

	var out models.FinancialSnapshot
	assert.False(t, cache.Get("financials", "UNKNOWN.NS", &out))
}

func TestCacheKeysAreFunctionScoped(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Put("financials", "TCS.NS", models.FinancialSnapshot{Symbol: "TCS.NS"}))

	var out models.NewsContext
	assert.False(t, cache.Get("news", "TCS.NS", &out))
}

func TestCacheEntryExpires(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Put("news", "TCS.NS", models.NewsContext{Text: "- headline: snippet...\n"}))

	// Advance the clock past the freshness window
	cache.now = func() time.Time { return time.Now().Add(61 * time.Minute) }

	var out models.NewsContext
	assert.False(t, cache.Get("news", "TCS.NS", &out))
}

func TestCachePutReplacesEntry(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Put("news", "TCS.NS", models.NewsContext{Text: "old"}))
	require.NoError(t, cache.Put("news", "TCS.NS", models.NewsContext{Text: "new"}))

	var out models.NewsContext
	require.True(t, cache.Get("news", "TCS.NS", &out))
	assert.Equal(t, "new", out.Text)
}
