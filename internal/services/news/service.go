package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/models"
)

// Placeholder is embedded in the prompt when the search fails or returns
// nothing, so generation proceeds without a news section.
const Placeholder = "No recent news snippets available."

// Service implements interfaces.NewsService. Search failures are logged and
// degraded to the placeholder; Context never returns an error.
type Service struct {
	backend Backend
	config  *common.SearchConfig
	markets *common.MarketsConfig
	logger  arbor.ILogger
}

// NewService creates a news service.
func NewService(backend Backend, config *common.SearchConfig, markets *common.MarketsConfig, logger arbor.ILogger) *Service {
	return &Service{
		backend: backend,
		config:  config,
		markets: markets,
		logger:  logger,
	}
}

// Context searches for recent coverage of the ticker and formats it for the
// generation prompt.
func (s *Service) Context(ctx context.Context, rawTicker string) models.NewsContext {
	ticker := common.ParseTicker(rawTicker, s.markets.DefaultSuffix)
	query := s.buildQuery(ticker.Code)

	timeout := common.ParseDurationOrDefault(s.config.Timeout, 0)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results, err := s.backend.Search(ctx, query, s.config.MaxResults)
	if err != nil {
		s.logger.Warn().
			Str("backend", s.backend.Name()).
			Str("query", query).
			Err(err).
			Msg("News search failed, continuing without news")
		return models.NewsContext{Text: Placeholder, Degraded: true}
	}

	if len(results) == 0 {
		return models.NewsContext{Text: Placeholder, Degraded: true}
	}

	items := make([]models.NewsItem, 0, len(results))
	var text strings.Builder
	for _, result := range results {
		snippet := truncateRunes(result.Content, s.config.SnippetLength)
		items = append(items, models.NewsItem{
			Title:   result.Title,
			Snippet: snippet,
			URL:     result.URL,
		})
		text.WriteString(fmt.Sprintf("- %s: %s...\n", result.Title, snippet))
	}

	s.logger.Info().
		Str("backend", s.backend.Name()).
		Int("results", len(items)).
		Msg("News context assembled")

	return models.NewsContext{Items: items, Text: text.String()}
}

// buildQuery appends the configured bias keywords to the ticker code.
func (s *Service) buildQuery(code string) string {
	keywords := strings.TrimSpace(s.config.Keywords)
	if keywords == "" {
		return code
	}
	return code + " " + keywords
}

// truncateRunes shortens s to at most n runes, preserving multi-byte
// characters.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
