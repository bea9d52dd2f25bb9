package lexile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeOfProperties(t *testing.T) {
	for _, level := range []int{0, 1, 50, 99, 100, 105, 199, 200, 950, 1599, 1600} {
		floor, ceiling := RangeOf(level)
		assert.Equal(t, 0, floor%100, "level %d", level)
		assert.Equal(t, floor+100, ceiling, "level %d", level)
		assert.LessOrEqual(t, floor, level, "level %d", level)
		assert.Greater(t, ceiling, level, "level %d", level)
	}
}

func TestRangeTransitionBoundary(t *testing.T) {
	f95, c95 := RangeOf(95)
	f105, c105 := RangeOf(105)
	f115, c115 := RangeOf(115)

	assert.Equal(t, 0, f95)
	assert.Equal(t, 100, c95)
	assert.Equal(t, 100, f105)
	assert.Equal(t, 200, c105)

	// 95 -> 105 crosses a range; 105 -> 115 does not
	assert.NotEqual(t, f95, f105)
	assert.Equal(t, f105, f115)
	assert.Equal(t, c105, c115)
}
