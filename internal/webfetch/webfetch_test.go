package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{})
	assert.Equal(t, int64(8*1000*1000), s.opts.MaxBytes)
	assert.Equal(t, 5, s.maxRes)
	assert.Equal(t, "https://searx.be", s.search.baseURL)
}

func TestServiceFetchDelegatesToHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	s := New(Config{})
	res, err := s.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "content")
}

func TestServiceSearchDelegatesToSearx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"Hit","url":"https://hit.test"}]}`))
	}))
	defer srv.Close()

	s := New(Config{SearXNGURL: srv.URL})
	s.search.cfg.MaxRetries = 1
	results, err := s.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Hit", results[0].Title)
}

func TestServiceCloseWithoutBrowserIsNoop(t *testing.T) {
	s := New(Config{})
	assert.NoError(t, s.Close())
}

var _ Collaborator = (*Service)(nil)
