package mathx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ec4x/engine/internal/mathx"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, mathx.Clamp(5, 0, 10))
	assert.Equal(t, 0, mathx.Clamp(-5, 0, 10))
	assert.Equal(t, 10, mathx.Clamp(50, 0, 10))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 6, mathx.Sum([]int{1, 2, 3}))
	assert.Equal(t, 0, mathx.Sum([]int{}))
	assert.InDelta(t, 2.5, mathx.Sum([]float64{1.0, 1.5}), 0.0001)
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 9, mathx.Max(9, 4))
	assert.Equal(t, 4, mathx.Max(4, 9))
	assert.Equal(t, 4, mathx.Min(9, 4))
	assert.Equal(t, 4, mathx.Min(4, 9))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, mathx.RoundHalfUp(2.5))
	assert.Equal(t, 2, mathx.RoundHalfUp(2.4))
	assert.Equal(t, -3, mathx.RoundHalfUp(-2.5))
}
