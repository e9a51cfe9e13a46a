package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// The pipeline distinguishes six failure classes so callers can apply
// differentiated policy (fatal vs. degrade-gracefully vs. retry) instead of
// string-matching error messages.

// ConfigurationMissingError indicates one or both API credentials are absent.
// Fatal; blocks all provider calls; never retried.
type ConfigurationMissingError struct {
	Missing []string
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("waiting for keys: %s not configured", strings.Join(e.Missing, ", "))
}

// NoModelAvailableError indicates model enumeration failed or returned no
// model usable for free-form text generation. Fatal for the run.
type NoModelAvailableError struct {
	Cause error
}

func (e *NoModelAvailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no working generation models found for this credential: %v", e.Cause)
	}
	return "no working generation models found for this credential"
}

func (e *NoModelAvailableError) Unwrap() error { return e.Cause }

// DataUnavailableError indicates the financial provider returned no usable
// statement rows for the ticker. Fatal for the run; names the symbol so the
// user can correct it.
type DataUnavailableError struct {
	Symbol string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no financial data found for '%s': check if the ticker is correct", e.Symbol)
}

// RateLimitedError indicates the generation provider signaled quota
// exhaustion. Recoverable via bounded retry/backoff and model fallback.
type RateLimitedError struct {
	Model      string
	RetryAfter time.Duration
	Cause      error
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited on model %s, retry after %v", e.Model, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited on model %s", e.Model)
}

func (e *RateLimitedError) Unwrap() error { return e.Cause }

// ModelNotFoundError indicates the generation provider rejected the model
// identifier for this credential. Not retried against the same model.
type ModelNotFoundError struct {
	Model string
	Cause error
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %s is not available for this credential", e.Model)
}

func (e *ModelNotFoundError) Unwrap() error { return e.Cause }

// QuotaExhaustedError is the terminal form of RateLimitedError, surfaced
// after retries and fallback are spent.
type QuotaExhaustedError struct {
	Model    string
	Attempts int
	Cause    error
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("exceeded daily quota after %d attempts on model %s: try again later", e.Attempts, e.Model)
}

func (e *QuotaExhaustedError) Unwrap() error { return e.Cause }

// IsConfigurationMissing reports whether err is a credential gate failure.
func IsConfigurationMissing(err error) bool {
	var target *ConfigurationMissingError
	return errors.As(err, &target)
}

// IsNoModelAvailable reports whether err is a model enumeration failure.
func IsNoModelAvailable(err error) bool {
	var target *NoModelAvailableError
	return errors.As(err, &target)
}

// IsDataUnavailable reports whether err is an empty financial snapshot.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

// IsRateLimited reports whether err is a recoverable quota signal.
func IsRateLimited(err error) bool {
	var target *RateLimitedError
	return errors.As(err, &target)
}

// IsModelNotFound reports whether err is a model rejection.
func IsModelNotFound(err error) bool {
	var target *ModelNotFoundError
	return errors.As(err, &target)
}

// IsQuotaExhausted reports whether err is a terminal quota failure.
func IsQuotaExhausted(err error) bool {
	var target *QuotaExhaustedError
	return errors.As(err, &target)
}
