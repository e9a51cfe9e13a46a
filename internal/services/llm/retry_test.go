package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/scrutor/internal/common"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"429 status", errors.New("Error 429, Message: rate limited"), true},
		{"resource exhausted", errors.New("Status: RESOURCE_EXHAUSTED"), true},
		{"quota message", errors.New("you exceeded your current quota"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"not found", errors.New("Error 404, model not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimitError(tt.err))
		})
	}
}

func TestIsModelNotFoundError(t *testing.T) {
	assert.True(t, IsModelNotFoundError(errors.New("Error 404, Message: model gemini-x is not found")))
	assert.True(t, IsModelNotFoundError(errors.New("Status: NOT_FOUND")))
	assert.False(t, IsModelNotFoundError(errors.New("Error 429")))
	assert.False(t, IsModelNotFoundError(nil))
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{
			"please retry pattern",
			errors.New("Error 429, Message: quota exceeded. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"),
			time.Duration(45.387061394 * float64(time.Second)),
		},
		{
			"retryDelay pattern",
			errors.New("retryDelay: 12s"),
			12 * time.Second,
		},
		{"no delay", errors.New("Error 429"), 0},
		{"nil error", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractRetryDelay(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    4 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}

	assert.Equal(t, 4*time.Second, config.CalculateBackoff(0, 0))
	assert.Equal(t, 8*time.Second, config.CalculateBackoff(1, 0))
	assert.Equal(t, 16*time.Second, config.CalculateBackoff(2, 0))

	// Capped at MaxBackoff
	assert.Equal(t, 30*time.Second, config.CalculateBackoff(5, 0))

	// API-provided delay plus buffer used as base
	assert.Equal(t, 11*time.Second, config.CalculateBackoff(0, 10*time.Second))
}

func TestCalculateBackoffNonDecreasing(t *testing.T) {
	config := NewDefaultRetryConfig()
	prev := time.Duration(0)
	for attempt := 0; attempt < 6; attempt++ {
		backoff := config.CalculateBackoff(attempt, 0)
		assert.GreaterOrEqual(t, backoff, prev, "attempt %d", attempt)
		prev = backoff
	}
}

func TestNewRetryConfigFromReport(t *testing.T) {
	rc := NewRetryConfigFromReport(&common.ReportConfig{
		MaxAttempts:       5,
		InitialBackoff:    "2s",
		MaxBackoff:        "1m",
		BackoffMultiplier: 3.0,
	})

	assert.Equal(t, 5, rc.MaxAttempts)
	assert.Equal(t, 2*time.Second, rc.InitialBackoff)
	assert.Equal(t, time.Minute, rc.MaxBackoff)
	assert.Equal(t, 3.0, rc.BackoffMultiplier)

	// Invalid values fall back to defaults
	rc = NewRetryConfigFromReport(&common.ReportConfig{
		InitialBackoff: "not-a-duration",
	})
	assert.Equal(t, DefaultMaxAttempts, rc.MaxAttempts)
	assert.Equal(t, DefaultInitialBackoff, rc.InitialBackoff)
}
