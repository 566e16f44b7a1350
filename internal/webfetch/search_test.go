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

func TestSearchJSONPreferred(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"Go","url":"https://go.dev"},{"title":"Golang","url":"https://golang.org"}]}`))
	}))
	defer srv.Close()

	c := newSearxClient(srv.URL)
	c.cfg.MaxRetries = 1
	results, err := c.search(context.Background(), "golang", 5, "general")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go", results[0].Title)
	assert.Equal(t, "https://go.dev", results[0].URL)
}

func TestSearchRespectsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"a","url":"https://a.test"},{"title":"b","url":"https://b.test"},{"title":"c","url":"https://c.test"}]}`))
	}))
	defer srv.Close()

	c := newSearxClient(srv.URL)
	c.cfg.MaxRetries = 1
	results, err := c.search(context.Background(), "q", 2, "general")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTokenBucketLimitsBurst(t *testing.T) {
	tb := newTokenBucket(1, time.Hour)
	assert.True(t, tb.takeToken())
	assert.False(t, tb.takeToken())
}
