// Package keys gates the pipeline on the presence of the two provider
// credentials: the generation key and the search key.
package keys

import (
	"os"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
)

// Credentials holds the resolved per-run secrets.
type Credentials struct {
	GeminiAPIKey string
	SearchAPIKey string
	// Source records where the keys came from, for the status view only.
	Source string
}

// Resolver resolves credentials from configuration (which already merges
// environment overrides at load time).
type Resolver struct {
	config *common.Config
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewResolver creates a credential resolver.
func NewResolver(config *common.Config, logger arbor.ILogger) *Resolver {
	return &Resolver{
		config: config,
		logger: logger,
	}
}

// Resolve returns the credentials or a *models.ConfigurationMissingError
// naming every absent key. No provider call happens before this passes.
func (r *Resolver) Resolve() (Credentials, error) {
	missing := r.Missing()
	if len(missing) > 0 {
		return Credentials{}, &models.ConfigurationMissingError{Missing: missing}
	}

	source := "config"
	if os.Getenv("SCRUTOR_GEMINI_API_KEY") != "" {
		source = "environment"
	}

	return Credentials{
		GeminiAPIKey: r.config.Gemini.APIKey,
		SearchAPIKey: r.config.Tavily.APIKey,
		Source:       source,
	}, nil
}

// Missing lists the credentials still required before the pipeline can run.
// The search key is only required for the Tavily backend; the DuckDuckGo
// backend is keyless.
func (r *Resolver) Missing() []string {
	var missing []string
	if r.config.Gemini.APIKey == "" {
		missing = append(missing, "gemini api key")
	}
	if r.config.Search.Mode == "tavily" && r.config.Tavily.APIKey == "" {
		missing = append(missing, "tavily api key")
	}
	return missing
}

// SetKeys applies keys supplied at runtime, the manual fallback for
// deployments without config or environment credentials. A supplied key
// only fills a slot that is still empty; config and environment values
// always win. Returns the credentials still missing afterwards.
func (r *Resolver) SetKeys(geminiKey, searchKey string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key := strings.TrimSpace(geminiKey); key != "" && r.config.Gemini.APIKey == "" {
		r.config.Gemini.APIKey = key
		r.logger.Info().Msg("Gemini API key supplied at runtime")
	}
	if key := strings.TrimSpace(searchKey); key != "" && r.config.Tavily.APIKey == "" {
		r.config.Tavily.APIKey = key
		r.logger.Info().Msg("Tavily API key supplied at runtime")
	}

	return r.Missing()
}

// Ready reports whether all required credentials are present.
func (r *Resolver) Ready() bool {
	return len(r.Missing()) == 0
}
