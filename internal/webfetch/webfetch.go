package webfetch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Match is one occurrence of a pattern found on a rendered page.
type Match struct {
	Text    string
	Context string
}

// Collaborator is the contract the core drives but does not own: fetch a
// page to Markdown, find a pattern within a rendered page, and search the
// web for links. Implementations must honour a default idle timeout on any
// browser they hold open, support connect/launch/auto browser discovery,
// detect CAPTCHA challenges, and clean up tabs on every path.
type Collaborator interface {
	Fetch(ctx context.Context, url string) (*PageContent, error)
	Find(ctx context.Context, url, pattern string) ([]Match, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Close() error
}

// Config configures a Service.
type Config struct {
	SearXNGURL  string
	Browser     BrowserConfig
	FetchMaxMB  int64
	MaxResults  int
	RenderDelay time.Duration // per-navigation timeout for Find
}

// Service is the default Collaborator: plain HTTP + readability for Fetch,
// a pooled Chrome/Chromium tab for Find, and a rate-limited SearXNG client
// for Search.
type Service struct {
	opts    fetchOptions
	search  *searxClient
	browser *browserPool
	render  time.Duration
	maxRes  int
}

// New constructs a Service from cfg, applying sensible defaults for any
// zero fields.
func New(cfg Config) *Service {
	maxBytes := cfg.FetchMaxMB * 1000 * 1000
	if maxBytes <= 0 {
		maxBytes = 8 * 1000 * 1000
	}
	render := cfg.RenderDelay
	if render <= 0 {
		render = 15 * time.Second
	}
	maxRes := cfg.MaxResults
	if maxRes <= 0 {
		maxRes = 5
	}

	searxURL := cfg.SearXNGURL
	if searxURL == "" {
		searxURL = "https://searx.be"
	}

	return &Service{
		opts: fetchOptions{
			Timeout:        20 * time.Second,
			MaxBytes:       maxBytes,
			PreferReadable: true,
			MaxRedirects:   10,
		},
		search:  newSearxClient(searxURL),
		browser: newBrowserPool(cfg.Browser),
		render:  render,
		maxRes:  maxRes,
	}
}

// Fetch retrieves url over plain HTTP and returns Markdown content,
// preferring the Readability-extracted article body.
func (s *Service) Fetch(ctx context.Context, url string) (*PageContent, error) {
	return fetchHTTP(ctx, url, s.opts)
}

// Find renders url in a real browser and returns every occurrence of
// pattern (a regular expression) in the visible text, each with a short
// surrounding context window. Returns a CAPTCHA error (see IsCAPTCHA) if the
// rendered page is a challenge rather than content.
func (s *Service) Find(ctx context.Context, url, pattern string) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("webfetch: invalid pattern: %w", err)
	}

	_, body, err := s.browser.renderedPage(ctx, url, s.render)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, loc := range re.FindAllStringIndex(body, -1) {
		start, end := loc[0], loc[1]
		ctxStart := max(0, start-60)
		ctxEnd := min(len(body), end+60)
		matches = append(matches, Match{
			Text:    body[start:end],
			Context: strings.TrimSpace(body[ctxStart:ctxEnd]),
		})
	}
	return matches, nil
}

// Search queries the configured SearXNG instance and returns up to
// MaxResults links.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return s.search.search(ctx, strings.TrimSpace(query), s.maxRes, "general")
}

// Close tears down any pooled browser immediately.
func (s *Service) Close() error {
	return s.browser.Close()
}

var _ Collaborator = (*Service)(nil)
