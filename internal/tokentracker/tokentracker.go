// Package tokentracker implements the cache-aware token usage accumulator:
// a per-turn TokenTracker with disjoint input/cache-read/cache-creation
// counts, cumulative billed totals across provider continuations, and a
// segmented output tracker that never lets the on-screen rate regress.
package tokentracker

import "codelet/internal/tokencount"

// Usage is a single provider usage report for one API call.
type Usage struct {
	InputTokens               uint64
	OutputTokens              uint64
	CacheReadInputTokens      uint64
	CacheCreationInputTokens  uint64
	CacheReadSet              bool
	CacheCreationSet          bool
}

// TokenTracker accumulates usage for a single agent turn, which may span
// multiple API calls ("continuations") when a provider segments its response.
type TokenTracker struct {
	InputTokens              uint64
	OutputTokens             uint64
	CacheReadInputTokens     uint64
	CacheCreationInputTokens uint64

	CumulativeBilledInput  uint64
	CumulativeBilledOutput uint64
}

// New returns a zeroed tracker, as at session creation.
func New() *TokenTracker { return &TokenTracker{} }

// UpdateFromUsage sets the per-segment fields and adds to the cumulative
// accumulators, which are monotonically non-decreasing across calls.
func (t *TokenTracker) UpdateFromUsage(u Usage) {
	t.InputTokens = u.InputTokens
	t.OutputTokens = u.OutputTokens
	if u.CacheReadSet {
		t.CacheReadInputTokens = u.CacheReadInputTokens
	}
	if u.CacheCreationSet {
		t.CacheCreationInputTokens = u.CacheCreationInputTokens
	}

	t.CumulativeBilledInput += u.InputTokens
	t.CumulativeBilledOutput += u.OutputTokens
}

// UpdateCache performs a partial update, preserving whichever field is nil.
func (t *TokenTracker) UpdateCache(cacheRead, cacheCreation *uint64) {
	if cacheRead != nil {
		t.CacheReadInputTokens = *cacheRead
	}
	if cacheCreation != nil {
		t.CacheCreationInputTokens = *cacheCreation
	}
}

// TotalInput is the disjoint sum: fresh + cache_read + cache_creation.
func (t *TokenTracker) TotalInput() uint64 {
	return t.InputTokens + t.CacheReadInputTokens + t.CacheCreationInputTokens
}

// TotalContext adds output tokens, used for full-context threshold checks.
func (t *TokenTracker) TotalContext() uint64 {
	return t.TotalInput() + t.OutputTokens
}

// EffectiveTokens is the count used for threshold comparisons after applying
// the 90% cache discount: fresh input plus cache-creation tokens, minus 90%
// of the cache-read tokens.
func (t *TokenTracker) EffectiveTokens() float64 {
	return float64(t.InputTokens) + float64(t.CacheCreationInputTokens) - 0.9*float64(t.CacheReadInputTokens)
}

// OutputTracker tracks output tokens across a continuation with explicit
// estimated-vs-authoritative state, so the display rate never regresses.
type OutputTracker struct {
	estimated     uint64
	authoritative *uint64
	cumulative    uint64
}

// NewOutputTracker starts from the given cumulative base (e.g. restored from
// a prior session attach).
func NewOutputTracker(initialCumulative uint64) *OutputTracker {
	return &OutputTracker{cumulative: initialCumulative}
}

// RecordChunk adds the estimated token cost of a streamed text chunk.
func (o *OutputTracker) RecordChunk(text string) {
	o.estimated += uint64(tokencount.Count(text))
}

// RecordTokens adds a caller-supplied token count directly to the estimate.
func (o *OutputTracker) RecordTokens(n uint64) { o.estimated += n }

// UpdateFromUsage sets the authoritative value for the current segment.
func (o *OutputTracker) UpdateFromUsage(outputTokens uint64) {
	v := outputTokens
	o.authoritative = &v
}

// StartNewSegment folds the current segment into the cumulative base (using
// the authoritative value when present, else the estimate) and resets.
func (o *OutputTracker) StartNewSegment() {
	segment := o.estimated
	if o.authoritative != nil {
		segment = *o.authoritative
	}
	o.cumulative += segment
	o.estimated = 0
	o.authoritative = nil
}

// DisplayTokens returns cumulative + max(estimated, authoritative), so the
// on-screen rate never appears to go backwards.
func (o *OutputTracker) DisplayTokens() uint64 {
	current := o.estimated
	if o.authoritative != nil && *o.authoritative > current {
		current = *o.authoritative
	}
	return o.cumulative + current
}

// CumulativeBase returns tokens already folded from completed segments.
func (o *OutputTracker) CumulativeBase() uint64 { return o.cumulative }

// CurrentEstimate returns the current segment's estimate only.
func (o *OutputTracker) CurrentEstimate() uint64 { return o.estimated }

// HasAuthoritative reports whether the current segment has an authoritative value.
func (o *OutputTracker) HasAuthoritative() bool { return o.authoritative != nil }
