package llm

import "context"

// CacheUsage is one provider usage report, broken out by cache status so
// callers can track fresh-input, cache-read, and cache-creation tokens
// separately instead of a single blended prompt-token count.
type CacheUsage struct {
	InputTokens              uint64
	OutputTokens             uint64
	CacheReadInputTokens     uint64
	CacheCreationInputTokens uint64
	CacheReadSet             bool
	CacheCreationSet         bool
}

type cacheTapKey struct{}

// WithCacheTap returns a context that, when passed to a streaming provider
// call, has fn invoked once with that call's CacheUsage as soon as the
// provider has parsed its usage block. Used by the agent loop to feed a
// per-turn token tracker without providers importing it directly.
func WithCacheTap(ctx context.Context, fn func(CacheUsage)) context.Context {
	return context.WithValue(ctx, cacheTapKey{}, fn)
}

// ReportCacheUsage invokes the tap registered on ctx, if any. A no-op when
// no tap is registered (headless calls, tests, non-Anthropic providers that
// never distinguish cache buckets).
func ReportCacheUsage(ctx context.Context, u CacheUsage) {
	if fn, ok := ctx.Value(cacheTapKey{}).(func(CacheUsage)); ok && fn != nil {
		fn(u)
	}
}
