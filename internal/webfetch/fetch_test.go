package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() fetchOptions {
	return fetchOptions{
		Timeout:        5 * time.Second,
		MaxBytes:       1 << 20,
		PreferReadable: true,
		MaxRedirects:   5,
	}
}

func TestFetchHTTPExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Example</title></head><body><nav>skip</nav><article><p>Hello world.</p></article></body></html>`))
	}))
	defer srv.Close()

	res, err := fetchHTTP(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Contains(t, res.Markdown, "Hello world.")
}

func TestFetchHTTPPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("just some text"))
	}))
	defer srv.Close()

	res, err := fetchHTTP(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "```\njust some text\n```", res.Markdown)
}

func TestFetchHTTPJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	res, err := fetchHTTP(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"ok\":true}\n```", res.Markdown)
}

func TestFetchHTTPBinaryStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x01, 0x02})
	}))
	defer srv.Close()

	res, err := fetchHTTP(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "Downloaded a non-text resource")
}

func TestFetchHTTPRejectsNonHTTPScheme(t *testing.T) {
	_, err := fetchHTTP(context.Background(), "ftp://example.com/file", testOptions())
	assert.Error(t, err)
}

func TestFetchHTTPEnforcesMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.MaxBytes = 10
	_, err := fetchHTTP(context.Background(), srv.URL, opts)
	assert.Error(t, err)
}
