package tokentracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func u64p(v uint64) *uint64 { return &v }

func TestTotalInputCalculation(t *testing.T) {
	tr := New()
	tr.UpdateFromUsage(Usage{InputTokens: 100_000, CacheReadInputTokens: 50_000, CacheCreationInputTokens: 5_000, OutputTokens: 10_000, CacheReadSet: true, CacheCreationSet: true})
	assert.EqualValues(t, 155_000, tr.TotalInput())
	assert.EqualValues(t, 165_000, tr.TotalContext())
}

func TestEffectiveTokensCacheDiscount(t *testing.T) {
	tr := New()
	tr.UpdateFromUsage(Usage{InputTokens: 10_000, CacheReadInputTokens: 4_000, CacheReadSet: true})
	assert.InDelta(t, 6_400.0, tr.EffectiveTokens(), 0.001)
}

func TestCumulativeBilledMonotonic(t *testing.T) {
	tr := New()
	tr.UpdateFromUsage(Usage{InputTokens: 100, OutputTokens: 10})
	first := tr.CumulativeBilledInput
	tr.UpdateFromUsage(Usage{InputTokens: 50, OutputTokens: 5})
	assert.GreaterOrEqual(t, tr.CumulativeBilledInput, first)
	assert.EqualValues(t, 150, tr.CumulativeBilledInput)
}

func TestUpdateCachePartial(t *testing.T) {
	tr := New()
	tr.UpdateCache(u64p(10), nil)
	assert.EqualValues(t, 10, tr.CacheReadInputTokens)
	tr.UpdateCache(nil, u64p(20))
	assert.EqualValues(t, 10, tr.CacheReadInputTokens)
	assert.EqualValues(t, 20, tr.CacheCreationInputTokens)
}

func TestOutputTrackerSegmentAccumulation(t *testing.T) {
	ot := NewOutputTracker(0)
	ot.RecordTokens(100)
	ot.UpdateFromUsage(90)
	assert.EqualValues(t, 100, ot.DisplayTokens())

	ot.StartNewSegment()
	assert.EqualValues(t, 90, ot.CumulativeBase())
	assert.EqualValues(t, 0, ot.CurrentEstimate())
	assert.False(t, ot.HasAuthoritative())
	assert.EqualValues(t, 90, ot.DisplayTokens())

	ot.RecordTokens(50)
	assert.EqualValues(t, 140, ot.DisplayTokens())
}

func TestOutputTrackerAuthoritativeHigher(t *testing.T) {
	ot := NewOutputTracker(0)
	ot.RecordTokens(50)
	ot.UpdateFromUsage(80)
	assert.EqualValues(t, 80, ot.DisplayTokens())
}
