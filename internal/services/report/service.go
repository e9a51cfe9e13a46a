// Package report synthesizes the four-section investment report from the
// assembled financial and news context.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/llm"
)

const systemInstruction = "You are a senior equity research analyst covering Indian listed companies. " +
	"Be direct and evidence-driven; flag governance and fraud risks explicitly."

const promptTemplate = `Analyze %s using the data below.

Financial data (figures in crore):
%s

Recent news:
%s

Write an investment research report with exactly these four sections:

## Executive Summary
A concise overview of the company's position and trajectory.

## Financial Health Check
Assess revenue growth, profitability and return on equity from the table.

## Risk Analysis
Cover business, financial and governance risks, including any fraud signals in the news.

## Investment Verdict
A clear Buy / Hold / Avoid call with rationale.`

// ContentGenerator is the provider-facing generation surface. A single call
// performs a single attempt; retry policy lives here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)
}

// Service implements interfaces.ReportService.
//
// Rate-limit errors are retried with increasing backoff up to the configured
// attempt count, then the fallback model (if any) receives exactly one
// resubmission. All other errors propagate immediately.
type Service struct {
	generator ContentGenerator
	config    *common.ReportConfig
	retry     *llm.RetryConfig
	logger    arbor.ILogger

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a report service.
func NewService(generator ContentGenerator, config *common.ReportConfig, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		config:    config,
		retry:     llm.NewRetryConfigFromReport(config),
		logger:    logger,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Generate produces the report for the assembled request.
func (s *Service) Generate(ctx context.Context, req interfaces.ReportRequest) (*models.Report, error) {
	prompt := fmt.Sprintf(promptTemplate, req.Symbol, req.FinancialTable, req.NewsContext)

	resp, err := s.generateWithRetry(ctx, req.Model, prompt)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		ID:             uuid.New().String(),
		Ticker:         req.Ticker,
		Symbol:         req.Symbol,
		Model:          resp.Model,
		Provider:       string(resp.Provider),
		FinancialTable: req.FinancialTable,
		NewsContext:    req.NewsContext,
		Content:        resp.Text,
		GeneratedAt:    time.Now(),
	}, nil
}

// generateWithRetry runs the primary attempt loop and the single fallback
// resubmission.
func (s *Service) generateWithRetry(ctx context.Context, model, prompt string) (*llm.ContentResponse, error) {
	request := &llm.ContentRequest{
		Model:             model,
		SystemInstruction: systemInstruction,
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		resp, err := s.generator.GenerateContent(ctx, request)
		if err == nil {
			return resp, nil
		}

		var rateLimited *models.RateLimitedError
		if !errors.As(err, &rateLimited) {
			// Non-quota failures are not retried
			return nil, err
		}
		lastErr = err

		if attempt == s.retry.MaxAttempts-1 {
			break
		}

		backoff := s.retry.CalculateBackoff(attempt, rateLimited.RetryAfter)
		s.logger.Warn().
			Str("model", model).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Rate limited, retrying generation")

		if err := s.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	if s.config.FallbackModel != "" && s.config.FallbackModel != model {
		s.logger.Warn().
			Str("model", model).
			Str("fallback", s.config.FallbackModel).
			Int("attempts", s.retry.MaxAttempts).
			Msg("Retries exhausted, resubmitting once with fallback model")

		request.Model = s.config.FallbackModel
		resp, err := s.generator.GenerateContent(ctx, request)
		if err == nil {
			return resp, nil
		}
		if models.IsRateLimited(err) {
			return nil, &models.QuotaExhaustedError{
				Model:    s.config.FallbackModel,
				Attempts: s.retry.MaxAttempts + 1,
				Cause:    err,
			}
		}
		return nil, err
	}

	return nil, &models.QuotaExhaustedError{
		Model:    model,
		Attempts: s.retry.MaxAttempts,
		Cause:    lastErr,
	}
}
