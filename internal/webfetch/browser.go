package webfetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserMode selects how the pool reaches a Chrome/Chromium instance.
type BrowserMode string

const (
	// BrowserModeAuto tries a connect URL if configured, then a launch
	// path, then falls back to chromedp's default exec allocator.
	BrowserModeAuto BrowserMode = "auto"
	// BrowserModeConnect attaches to an already-running browser over its
	// DevTools websocket URL.
	BrowserModeConnect BrowserMode = "connect"
	// BrowserModeLaunch starts a new browser process at an explicit path.
	BrowserModeLaunch BrowserMode = "launch"
)

// BrowserConfig configures how the pool reaches Chrome and how long an idle
// browser is kept warm before being torn down.
type BrowserConfig struct {
	Mode        BrowserMode
	WSURL       string
	ExecPath    string
	IdleTimeout time.Duration
}

// captchaError is returned when a rendered page is recognized as a CAPTCHA
// challenge rather than real content; IsCAPTCHA detects it.
type captchaError struct {
	url string
}

func (e *captchaError) Error() string {
	return fmt.Sprintf("webfetch: CAPTCHA challenge detected at %s", e.url)
}

// IsCAPTCHA reports whether err was produced because a page looked like a
// CAPTCHA challenge.
func IsCAPTCHA(err error) bool {
	_, ok := err.(*captchaError)
	return ok
}

var captchaMarkers = []string{
	"recaptcha",
	"hcaptcha",
	"cf-challenge",
	"cf-turnstile",
	"verify you are human",
	"let's confirm you are human",
	"are you a robot",
	"checking your browser before accessing",
}

func looksLikeCAPTCHA(title, body string) bool {
	haystack := strings.ToLower(title + "\n" + body)
	for _, marker := range captchaMarkers {
		if strings.Contains(haystack, marker) {
			return true
		}
	}
	return false
}

// browserPool owns a single lazily-started browser, torn down after
// IdleTimeout of inactivity. Each call that needs the browser gets its own
// tab context and closes the tab when done; the underlying browser process
// stays warm across calls until it idles out.
type browserPool struct {
	cfg BrowserConfig

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserCncl context.CancelFunc
	idleTimer   *time.Timer
}

func newBrowserPool(cfg BrowserConfig) *browserPool {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	if cfg.Mode == "" {
		cfg.Mode = BrowserModeAuto
	}
	return &browserPool{cfg: cfg}
}

// tab returns a fresh chromedp tab context rooted in the pooled browser,
// starting the browser on first use. Callers must cancel the returned
// context (closing the tab) when finished; the browser process itself is
// reaped by the idle timer, not by tab closure.
func (p *browserPool) tab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browserCtx == nil {
		if err := p.startLocked(ctx); err != nil {
			return nil, nil, err
		}
	}
	p.resetIdleLocked()

	tabCtx, cancel := chromedp.NewContext(p.browserCtx)
	return tabCtx, cancel, nil
}

func (p *browserPool) startLocked(ctx context.Context) error {
	switch p.cfg.Mode {
	case BrowserModeConnect:
		if p.cfg.WSURL == "" {
			return fmt.Errorf("webfetch: connect mode requires a browser websocket URL")
		}
		return p.startRemoteLocked(ctx, p.cfg.WSURL)
	case BrowserModeLaunch:
		if p.cfg.ExecPath == "" {
			return fmt.Errorf("webfetch: launch mode requires an executable path")
		}
		return p.startLocalLocked(ctx, p.cfg.ExecPath)
	default: // auto
		if p.cfg.WSURL != "" {
			if err := p.startRemoteLocked(ctx, p.cfg.WSURL); err == nil {
				return nil
			}
		}
		return p.startLocalLocked(ctx, p.cfg.ExecPath)
	}
}

func (p *browserPool) startRemoteLocked(ctx context.Context, wsURL string) error {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, wsURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("webfetch: connect to browser at %s: %w", wsURL, err)
	}
	p.allocCancel = allocCancel
	p.browserCtx = browserCtx
	p.browserCncl = browserCancel
	return nil
}

func (p *browserPool) startLocalLocked(ctx context.Context, execPath string) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("webfetch: launch browser: %w", err)
	}
	p.allocCancel = allocCancel
	p.browserCtx = browserCtx
	p.browserCncl = browserCancel
	return nil
}

func (p *browserPool) resetIdleLocked() {
	if p.idleTimer != nil {
		p.idleTimer.Stop()
	}
	p.idleTimer = time.AfterFunc(p.cfg.IdleTimeout, p.closeIdle)
}

func (p *browserPool) closeIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownLocked()
}

func (p *browserPool) shutdownLocked() {
	if p.browserCncl != nil {
		p.browserCncl()
		p.browserCncl = nil
	}
	if p.allocCancel != nil {
		p.allocCancel()
		p.allocCancel = nil
	}
	p.browserCtx = nil
}

// Close tears down the browser immediately, regardless of idle state.
func (p *browserPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idleTimer != nil {
		p.idleTimer.Stop()
	}
	p.shutdownLocked()
	return nil
}

// renderedPage navigates to url in a pooled tab and returns its title and
// visible text, detecting CAPTCHA challenges along the way. The tab is
// always closed on return.
func (p *browserPool) renderedPage(ctx context.Context, url string, timeout time.Duration) (title, body string, err error) {
	tabCtx, cancel, err := p.tab(ctx)
	if err != nil {
		return "", "", err
	}
	defer cancel()

	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()

	err = chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Title(&title),
		chromedp.Text("body", &body, chromedp.ByQuery),
	)
	if err != nil {
		return "", "", fmt.Errorf("webfetch: render %s: %w", url, err)
	}
	if looksLikeCAPTCHA(title, body) {
		return title, body, &captchaError{url: url}
	}
	return title, body, nil
}
