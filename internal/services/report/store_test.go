package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/scrutor/internal/models"
)

func storedReport(id string, generatedAt time.Time) *models.Report {
	return &models.Report{
		ID:          id,
		Symbol:      "TCS.NS",
		GeneratedAt: generatedAt,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore()
	store.Save(storedReport("r1", time.Now()))

	got, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "r1", got.ID)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.Save(storedReport("old", base))
	store.Save(storedReport("new", base.Add(time.Hour)))
	store.Save(storedReport("mid", base.Add(time.Minute)))

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxReports; i++ {
		store.Save(storedReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	store.Save(storedReport("overflow", base.Add(time.Duration(maxReports)*time.Minute)))

	_, ok := store.Get("r0")
	assert.False(t, ok, "oldest report should be evicted")
	_, ok = store.Get("overflow")
	assert.True(t, ok)
	assert.Len(t, store.List(), maxReports)
}

func TestStore_ReplaceSameIDDoesNotEvict(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxReports; i++ {
		store.Save(storedReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	store.Save(storedReport("r5", base.Add(time.Hour*24)))

	_, ok := store.Get("r0")
	assert.True(t, ok, "replacing an existing ID should not evict")
	assert.Len(t, store.List(), maxReports)
}
