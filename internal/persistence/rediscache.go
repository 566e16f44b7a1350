package persistence

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"codelet/internal/config"
	"codelet/internal/session"
)

// manifestTTL bounds how long a cached manifest is trusted before a reader
// falls back to the file store, so a write made from another process is
// eventually picked up even without an explicit invalidation.
const manifestTTL = 5 * time.Minute

// SessionCache wraps a SessionStore with a Redis read-through cache for
// session manifests, so a busy session manager doesn't hit disk on every
// status poll.
type SessionCache struct {
	store  *SessionStore
	client redis.UniversalClient
}

// NewSessionCache builds a Redis-backed cache in front of store when cfg is
// enabled; returns nil, nil when disabled so callers can skip the decorator
// entirely and use store directly.
func NewSessionCache(cfg config.RedisConfig, store *SessionStore) (*SessionCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLSInsecureSkipVerify {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &SessionCache{store: store, client: client}, nil
}

func (c *SessionCache) key(id string) string { return "codelet:session:" + id }

// Load returns the cached manifest when present and unexpired, falling
// through to the file store (and repopulating the cache) on a miss.
func (c *SessionCache) Load(ctx context.Context, id string) (session.Manifest, error) {
	if data, err := c.client.Get(ctx, c.key(id)).Bytes(); err == nil {
		var m session.Manifest
		if jsonErr := json.Unmarshal(data, &m); jsonErr == nil {
			return m, nil
		}
	}
	m, err := c.store.Load(id)
	if err != nil {
		return session.Manifest{}, err
	}
	c.set(ctx, m)
	return m, nil
}

// Save writes through to the file store, then refreshes the cache entry.
func (c *SessionCache) Save(ctx context.Context, m session.Manifest) error {
	if err := c.store.Save(m); err != nil {
		return err
	}
	c.set(ctx, m)
	return nil
}

func (c *SessionCache) set(ctx context.Context, m session.Manifest) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(m.ID), data, manifestTTL)
}

// Invalidate drops a session's cache entry, e.g. after Delete.
func (c *SessionCache) Invalidate(ctx context.Context, id string) {
	c.client.Del(ctx, c.key(id))
}

// Close releases the underlying Redis connection pool.
func (c *SessionCache) Close() error { return c.client.Close() }
