package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
)

// ModelLister enumerates the models available for content generation.
type ModelLister interface {
	ListGeminiModels(ctx context.Context) ([]string, error)
}

// Resolver selects the Gemini model used for report generation according to
// the configured resolution policy:
//
//	"fixed"  - use the configured model, never enumerate
//	"once"   - enumerate on first use and memoize for the process lifetime
//	"always" - enumerate on every request
type Resolver struct {
	config *common.GeminiConfig
	lister ModelLister
	logger arbor.ILogger

	mu     sync.Mutex
	cached *models.ModelChoice
}

// NewResolver creates a model resolver.
func NewResolver(config *common.GeminiConfig, lister ModelLister, logger arbor.ILogger) *Resolver {
	return &Resolver{
		config: config,
		lister: lister,
		logger: logger,
	}
}

// Resolve returns the model to use for the next generation request.
func (r *Resolver) Resolve(ctx context.Context) (models.ModelChoice, error) {
	switch r.config.ModelResolution {
	case "fixed":
		return models.ModelChoice{
			Name:       stripModelsPrefix(r.config.Model),
			Source:     models.ModelSourceFixed,
			ResolvedAt: time.Now(),
		}, nil

	case "always":
		return r.choose(ctx)

	default: // "once"
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.cached != nil {
			return *r.cached, nil
		}
		choice, err := r.choose(ctx)
		if err != nil {
			return models.ModelChoice{}, err
		}
		r.cached = &choice
		return choice, nil
	}
}

// Cached returns the memoized choice when one exists, for status reporting.
func (r *Resolver) Cached() (models.ModelChoice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		return models.ModelChoice{}, false
	}
	return *r.cached, true
}

// choose enumerates available models and applies the preference list.
func (r *Resolver) choose(ctx context.Context) (models.ModelChoice, error) {
	available, err := r.lister.ListGeminiModels(ctx)
	if err != nil {
		return models.ModelChoice{}, &models.NoModelAvailableError{Cause: err}
	}
	if len(available) == 0 {
		return models.ModelChoice{}, &models.NoModelAvailableError{
			Cause: fmt.Errorf("no models support content generation"),
		}
	}

	availableSet := make(map[string]bool, len(available))
	for _, name := range available {
		availableSet[name] = true
		availableSet[stripModelsPrefix(name)] = true
	}

	for _, preferred := range r.config.ModelPreferences {
		if availableSet[preferred] || availableSet[stripModelsPrefix(preferred)] {
			choice := models.ModelChoice{
				Name:       stripModelsPrefix(preferred),
				Source:     models.ModelSourcePreferred,
				ResolvedAt: time.Now(),
			}
			r.logger.Debug().
				Str("model", choice.Name).
				Str("source", choice.Source).
				Msg("Resolved preferred model")
			return choice, nil
		}
	}

	choice := models.ModelChoice{
		Name:       stripModelsPrefix(available[0]),
		Source:     models.ModelSourceFirstAvailable,
		ResolvedAt: time.Now(),
	}
	r.logger.Warn().
		Str("model", choice.Name).
		Msg("No preferred model available, using first available")
	return choice, nil
}

func stripModelsPrefix(name string) string {
	return strings.TrimPrefix(name, "models/")
}
