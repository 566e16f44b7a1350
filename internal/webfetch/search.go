package webfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// SearchResult is one hit returned by Search.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// rateLimitConfig tunes the token-bucket limiter guarding the SearXNG
// instance from overload.
type rateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	JitterPercent     float64
}

func defaultRateLimitConfig() rateLimitConfig {
	return rateLimitConfig{
		RequestsPerSecond: 0.5,
		BurstSize:         2,
		MaxRetries:        3,
		BaseDelay:         1 * time.Second,
		MaxDelay:          30 * time.Second,
		JitterPercent:     0.3,
	}
}

type tokenBucket struct {
	capacity   int
	tokens     int
	refillAt   time.Time
	refillRate time.Duration
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate time.Duration) *tokenBucket {
	return &tokenBucket{capacity: capacity, tokens: capacity, refillAt: time.Now(), refillRate: refillRate}
}

func (tb *tokenBucket) takeToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if now.After(tb.refillAt) {
		elapsed := now.Sub(tb.refillAt)
		tokensToAdd := int(elapsed / tb.refillRate)
		if tokensToAdd > 0 {
			tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
			tb.refillAt = tb.refillAt.Add(time.Duration(tokensToAdd) * tb.refillRate)
		}
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *tokenBucket) waitForToken(ctx context.Context) error {
	for {
		if tb.takeToken() {
			return nil
		}
		tb.mu.Lock()
		waitTime := time.Until(tb.refillAt)
		tb.mu.Unlock()
		if waitTime <= 0 {
			waitTime = tb.refillRate
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

type searxClient struct {
	http        *http.Client
	baseURL     string
	rateLimiter *tokenBucket
	cfg         rateLimitConfig
}

func newSearxClient(baseURL string) *searxClient {
	cfg := defaultRateLimitConfig()
	refillRate := time.Duration(float64(time.Second) / cfg.RequestsPerSecond)
	return &searxClient{
		http:        &http.Client{Timeout: 12 * time.Second},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: newTokenBucket(cfg.BurstSize, refillRate),
		cfg:         cfg,
	}
}

func (c *searxClient) search(ctx context.Context, query string, max int, category string) ([]SearchResult, error) {
	if err := c.rateLimiter.waitForToken(ctx); err != nil {
		return nil, fmt.Errorf("rate limited: %w", err)
	}
	return c.searchWithRetry(ctx, query, max, category)
}

func (c *searxClient) searchWithRetry(ctx context.Context, query string, max int, category string) ([]SearchResult, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		results, err := c.searchOnce(ctx, query, max, category)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		lastErr = err

		delay := c.cfg.BaseDelay * (1 << attempt)
		if delay > c.cfg.MaxDelay {
			delay = c.cfg.MaxDelay
		}
		jitter := time.Duration(float64(delay) * c.cfg.JitterPercent * (0.5 + randFloat64()))
		delay += jitter

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("search failed after %d retries: %v", c.cfg.MaxRetries, lastErr)
}

func randFloat64() float64 {
	return float64(time.Now().UnixNano()%1000) / 1000.0
}

func (c *searxClient) searchOnce(ctx context.Context, query string, max int, category string) ([]SearchResult, error) {
	results, err := c.searchJSON(ctx, query, max, category)
	if err == nil && len(results) > 0 {
		return results, nil
	}
	return c.searchHTML(ctx, query, max, category)
}

func (c *searxClient) searchJSON(ctx context.Context, query string, max int, category string) ([]SearchResult, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("format", "json")
	v.Set("categories", category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUA())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("searxng http %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(body.Results))
	for i, r := range body.Results {
		if i >= max {
			break
		}
		results = append(results, SearchResult{Title: strings.TrimSpace(r.Title), URL: r.URL})
	}
	return results, nil
}

func (c *searxClient) searchHTML(ctx context.Context, query string, max int, category string) ([]SearchResult, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("categories", category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUA())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("searxng http %d", resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	urls := extractURLs(root)
	results := make([]SearchResult, 0, len(urls))
	seen := map[string]struct{}{}
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		title := u
		if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
			title = parsed.Host + parsed.Path
		}
		results = append(results, SearchResult{Title: title, URL: u})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

func extractURLs(doc *html.Node) []string {
	var urls []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.Contains(attr.Val, "http") {
					urls = append(urls, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return urls
}
