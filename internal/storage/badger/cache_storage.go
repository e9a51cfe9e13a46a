package badger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// cacheEntry is the stored record for one (function, symbol) result.
type cacheEntry struct {
	Key      string `badgerhold:"key"`
	Function string
	Symbol   string
	Payload  []byte
	StoredAt time.Time
}

// CacheStorage implements interfaces.CacheStore with a rolling freshness
// window. Entries older than the window are treated as absent and replaced
// on the next Put.
type CacheStorage struct {
	db     *BadgerDB
	window time.Duration
	logger arbor.ILogger

	// now is replaceable in tests
	now func() time.Time
}

// NewCacheStorage creates a cache storage with the configured window.
func NewCacheStorage(db *BadgerDB, config *common.CacheConfig, logger arbor.ILogger) *CacheStorage {
	hours := config.Hours
	if hours <= 0 {
		hours = 1
	}
	return &CacheStorage{
		db:     db,
		window: time.Duration(hours) * time.Hour,
		logger: logger,
		now:    time.Now,
	}
}

func cacheKey(function, symbol string) string {
	return function + "|" + symbol
}

// Get unmarshals a fresh entry into out and reports whether one existed.
func (c *CacheStorage) Get(function, symbol string, out interface{}) bool {
	var entry cacheEntry
	err := c.db.Store().Get(cacheKey(function, symbol), &entry)
	if err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			c.logger.Warn().
				Str("function", function).
				Str("symbol", symbol).
				Err(err).
				Msg("Cache read failed")
		}
		return false
	}

	if c.now().Sub(entry.StoredAt) >= c.window {
		return false
	}

	if err := json.Unmarshal(entry.Payload, out); err != nil {
		c.logger.Warn().
			Str("function", function).
			Str("symbol", symbol).
			Err(err).
			Msg("Cache entry unmarshal failed")
		return false
	}

	c.logger.Debug().
		Str("function", function).
		Str("symbol", symbol).
		Msg("Cache hit")
	return true
}

// Put stores a value, replacing any previous entry for the key.
func (c *CacheStorage) Put(function, symbol string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	key := cacheKey(function, symbol)
	entry := cacheEntry{
		Key:      key,
		Function: function,
		Symbol:   symbol,
		Payload:  payload,
		StoredAt: c.now(),
	}

	if err := c.db.Store().Upsert(key, entry); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *CacheStorage) Close() error {
	return c.db.Close()
}
