package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "ZOMATO share price news india frauds analysis", req.Query)
		assert.Equal(t, 3, req.MaxResults)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"query": "ZOMATO share price news india frauds analysis",
			"results": [
				{"title": "Zomato shares rally", "content": "Zomato shares rose 4% today.", "url": "https://example.test/a"},
				{"title": "Q4 results", "content": "Quarterly results beat estimates.", "url": "https://example.test/b"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	results, err := client.Search(context.Background(), "ZOMATO share price news india frauds analysis", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Zomato shares rally", results[0].Title)
	assert.Equal(t, "Quarterly results beat estimates.", results[1].Content)
}

func TestSearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 3)

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 3)

	require.Error(t, err)
	_, ok := err.(*RateLimitError)
	assert.True(t, ok)
}
