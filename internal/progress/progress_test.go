package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitNoopWhenUnset(t *testing.T) {
	Clear()
	assert.NotPanics(t, func() { Emit("hello") })
}

func TestBracketSetsAndClears(t *testing.T) {
	var got []string
	Bracket(func(c string) { got = append(got, c) }, func() {
		Emit("line1")
		Emit("line2")
	})
	assert.Equal(t, []string{"line1", "line2"}, got)

	Emit("line3")
	assert.Equal(t, []string{"line1", "line2"}, got)
}
