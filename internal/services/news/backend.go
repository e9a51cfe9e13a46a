// Package news assembles the news context embedded in the generation prompt.
// A search failure degrades to a placeholder; it never blocks the pipeline.
package news

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/tavily"
)

// Result is a single search hit, backend-independent.
type Result struct {
	Title   string
	Content string
	URL     string
}

// Backend performs a web search.
type Backend interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	Name() string
}

// NewBackend creates the search backend selected by configuration.
func NewBackend(cfg *common.Config, logger arbor.ILogger) (Backend, error) {
	switch cfg.Search.Mode {
	case "tavily":
		return &tavilyBackend{cfg: cfg, logger: logger}, nil

	case "duckduckgo":
		return NewDuckDuckGoBackend(cfg.Search.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search mode: %s", cfg.Search.Mode)
	}
}

// tavilyBackend adapts the Tavily client to the Backend interface. The client
// is created lazily so keys supplied at runtime are picked up.
type tavilyBackend struct {
	cfg    *common.Config
	logger arbor.ILogger
	client *tavily.Client
}

func (b *tavilyBackend) Name() string { return "tavily" }

func (b *tavilyBackend) getClient() (*tavily.Client, error) {
	if b.client != nil {
		return b.client, nil
	}

	if b.cfg.Tavily.APIKey == "" {
		return nil, &models.ConfigurationMissingError{Missing: []string{"tavily api key"}}
	}

	opts := []tavily.ClientOption{tavily.WithLogger(b.logger)}
	if b.cfg.Tavily.BaseURL != "" {
		opts = append(opts, tavily.WithBaseURL(b.cfg.Tavily.BaseURL))
	}
	if d := common.ParseDurationOrDefault(b.cfg.Search.Timeout, 0); d > 0 {
		opts = append(opts, tavily.WithTimeout(d))
	}

	b.client = tavily.NewClient(b.cfg.Tavily.APIKey, opts...)
	return b.client, nil
}

func (b *tavilyBackend) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	client, err := b.getClient()
	if err != nil {
		return nil, err
	}

	hits, err := client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			Title:   hit.Title,
			Content: hit.Content,
			URL:     hit.URL,
		})
	}
	return results, nil
}
