package webfetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeCAPTCHA(t *testing.T) {
	assert.True(t, looksLikeCAPTCHA("Just a moment...", "Checking your browser before accessing the site."))
	assert.True(t, looksLikeCAPTCHA("", "Please complete the reCAPTCHA below"))
	assert.False(t, looksLikeCAPTCHA("Example Domain", "This domain is for use in illustrative examples."))
}

func TestIsCAPTCHA(t *testing.T) {
	err := &captchaError{url: "https://example.com"}
	assert.True(t, IsCAPTCHA(err))
	assert.False(t, IsCAPTCHA(assert.AnError))
}

func TestNewBrowserPoolDefaults(t *testing.T) {
	p := newBrowserPool(BrowserConfig{})
	assert.Equal(t, BrowserModeAuto, p.cfg.Mode)
	assert.Equal(t, 5*time.Minute, p.cfg.IdleTimeout)
}

func TestBrowserPoolRequiresWSURLForConnectMode(t *testing.T) {
	p := newBrowserPool(BrowserConfig{Mode: BrowserModeConnect})
	err := p.startLocked(nil)
	assert.Error(t, err)
}

func TestBrowserPoolRequiresExecPathForLaunchMode(t *testing.T) {
	p := newBrowserPool(BrowserConfig{Mode: BrowserModeLaunch})
	err := p.startLocked(nil)
	assert.Error(t, err)
}
