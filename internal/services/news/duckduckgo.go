package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	ddgBaseURL   = "https://html.duckduckgo.com/html/"
	ddgUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DuckDuckGoBackend searches via the DuckDuckGo HTML endpoint. It needs no
// API key, which makes it the keyless fallback to Tavily.
type DuckDuckGoBackend struct {
	baseURL    string
	httpClient *http.Client
}

// NewDuckDuckGoBackend creates a DuckDuckGo search backend.
func NewDuckDuckGoBackend(timeout string) *DuckDuckGoBackend {
	t := 15 * time.Second
	if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
		t = d
	}

	return &DuckDuckGoBackend{
		baseURL: ddgBaseURL,
		httpClient: &http.Client{
			Timeout: t,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

// Search scrapes the first page of results.
func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	searchURL := b.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a")
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find("a.result__snippet").Text())

		actualURL := extractActualURL(href)
		if title == "" || actualURL == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			Content: snippet,
			URL:     actualURL,
		})
		return len(results) < maxResults
	})

	return results, nil
}

// extractActualURL unwraps DuckDuckGo's redirect wrapper
// ("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com").
func extractActualURL(ddgURL string) string {
	if strings.Contains(ddgURL, "uddg=") {
		if strings.HasPrefix(ddgURL, "//") {
			ddgURL = "https:" + ddgURL
		}
		parsed, err := url.Parse(ddgURL)
		if err != nil {
			return ""
		}
		if decoded := parsed.Query().Get("uddg"); decoded != "" {
			return decoded
		}
	}

	if strings.HasPrefix(ddgURL, "http://") || strings.HasPrefix(ddgURL, "https://") {
		return ddgURL
	}

	return ""
}
