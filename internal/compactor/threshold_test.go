package compactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdAndBudget200k(t *testing.T) {
	assert.Equal(t, 180_000, Threshold(200_000))
	assert.Equal(t, 150_000, SummarizationBudget(200_000))
}

func TestBudgetEqualToBuffer(t *testing.T) {
	assert.Equal(t, int(50_000*0.8), SummarizationBudget(50_000))
}

func TestBudgetSmallerThanBuffer(t *testing.T) {
	assert.Equal(t, int(30_000*0.8), SummarizationBudget(30_000))
}
