// Package tavily provides a client for the Tavily search API.
package tavily

import (
	"fmt"
	"time"
)

// APIError represents an error returned by the Tavily API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavily API error (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError indicates the API rate limit was exceeded.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("tavily rate limit exceeded, retry after %v", e.RetryAfter)
}

// SearchRequest is the body for a search call.
type SearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// SearchResponse is the envelope returned by the search endpoint.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}
