// Package webfetch is the Chrome-controlled page fetcher, pattern finder,
// and search collaborator used by the web-facing tools. The core depends on
// it through the Collaborator interface but does not own its lifecycle.
package webfetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

// PageContent is the structured result of a fetch; Markdown is the payload
// handed back to the model.
type PageContent struct {
	InputURL     string
	FinalURL     string
	Status       int
	ContentType  string
	Charset      string
	Title        string
	Markdown     string
	UsedReadable bool
	FetchedAt    time.Time
}

// fetchOptions tunes the plain HTTP path. Zero value is sensible.
type fetchOptions struct {
	Timeout        time.Duration
	MaxBytes       int64
	PreferReadable bool
	UserAgent      string
	MaxRedirects   int
}

var browserUAs = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:102.0) Gecko/20100101 Firefox/102.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36 Edg/115.0.0.0",
}

func randomUA() string {
	return browserUAs[int(time.Now().UnixNano())%len(browserUAs)]
}

func newHTTPClient(o fetchOptions) *http.Client {
	dialer := &net.Dialer{Timeout: 7 * time.Second, KeepAlive: 30 * time.Second}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   7 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	checkRedirect := func(req *http.Request, via []*http.Request) error {
		max := o.MaxRedirects
		if max <= 0 {
			max = 10
		}
		if len(via) > max {
			return fmt.Errorf("stopped after %d redirects", max)
		}
		return nil
	}

	return &http.Client{Transport: transport, CheckRedirect: checkRedirect, Timeout: o.Timeout}
}

// fetchHTTP performs a plain (non-browser) fetch with readability extraction
// and HTML-to-Markdown conversion. Used by Fetch; Find does not use it and
// always renders the page in the browser.
func fetchHTTP(ctx context.Context, rawURL string, o fetchOptions) (*PageContent, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	client := newHTTPClient(o)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	ua := o.UserAgent
	if ua == "" {
		ua = randomUA()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	ct, cs := parseContentType(resp.Header.Get("Content-Type"))

	limited := io.LimitReader(resp.Body, o.MaxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > o.MaxBytes {
		return nil, fmt.Errorf("response exceeds max bytes (%d)", o.MaxBytes)
	}

	utf8Body, err := toUTF8(body, cs)
	if err != nil {
		return nil, fmt.Errorf("charset decode: %w", err)
	}

	res := &PageContent{
		InputURL:    rawURL,
		FinalURL:    finalURL,
		Status:      resp.StatusCode,
		ContentType: ct,
		Charset:     cs,
		FetchedAt:   time.Now(),
	}

	switch {
	case isHTML(ct):
		html := string(utf8Body)
		var articleHTML, title string
		var usedRead bool

		if o.PreferReadable {
			base, _ := url.Parse(finalURL)
			art, rerr := readability.FromReader(strings.NewReader(html), base)
			if rerr == nil && strings.TrimSpace(art.Content) != "" {
				articleHTML = art.Content
				title = strings.TrimSpace(art.Title)
				usedRead = true
			}
		}
		if articleHTML == "" {
			articleHTML = html
		}

		md, mdErr := htmltomarkdown.ConvertString(articleHTML, converter.WithDomain(baseOrigin(finalURL)))
		if mdErr != nil {
			return nil, fmt.Errorf("html to markdown: %w", mdErr)
		}
		if title != "" && !hasLeadingH1(md) {
			md = "# " + title + "\n\n" + md
		}

		res.Markdown = strings.TrimSpace(md)
		res.Title = title
		res.UsedReadable = usedRead
		return res, nil

	case strings.HasPrefix(ct, "text/"):
		res.Markdown = fenced(string(utf8Body), guessFenceLanguage(ct))
		return res, nil

	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		res.Markdown = fenced(string(utf8Body), "json")
		return res, nil

	default:
		name := ct
		if name == "" {
			name = "application/octet-stream"
		}
		res.Markdown = fmt.Sprintf("**Downloaded a non-text resource** (`%s`, %d bytes).\n\n[Download original](%s)", name, len(body), finalURL)
		return res, nil
	}
}

func parseContentType(h string) (ctype, charsetLabel string) {
	if h == "" {
		return "", ""
	}
	mt, params, err := mime.ParseMediaType(h)
	if err != nil {
		return h, ""
	}
	return strings.ToLower(mt), strings.ToLower(params["charset"])
}

func isHTML(ct string) bool {
	return ct == "text/html" || ct == "application/xhtml+xml" || strings.HasSuffix(ct, "html")
}

func toUTF8(b []byte, charsetLabel string) ([]byte, error) {
	if charsetLabel == "" || strings.EqualFold(charsetLabel, "utf-8") || strings.EqualFold(charsetLabel, "utf8") {
		return b, nil
	}
	r, err := charset.NewReaderLabel(charsetLabel, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func baseOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func guessFenceLanguage(ct string) string {
	switch ct {
	case "text/markdown":
		return "md"
	case "text/csv":
		return "csv"
	case "text/xml", "application/xml":
		return "xml"
	case "text/html", "application/xhtml+xml":
		return "html"
	default:
		return ""
	}
}

func fenced(s, lang string) string {
	s = strings.TrimRight(s, "\n")
	if lang != "" {
		return "```" + lang + "\n" + s + "\n```"
	}
	return "```\n" + s + "\n```"
}

func hasLeadingH1(md string) bool {
	md = strings.TrimLeft(md, "\n")
	return strings.HasPrefix(md, "# ")
}
