package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	a := Position{X: 0, Y: 0, Z: 0}
	b := Position{X: 10, Y: 0, Z: 0}

	assert.Equal(t, a, Lerp(a, b, 0.0))
	assert.Equal(t, b, Lerp(a, b, 1.0))
	assert.Equal(t, Position{X: 5, Y: 0, Z: 0}, Lerp(a, b, 0.5))
}

func TestDistance(t *testing.T) {
	a := Position{X: 0, Y: 0, Z: 0}
	b := Position{X: 10, Y: 0, Z: 0}

	// Distance is squared — comparisons use squared thresholds.
	assert.Equal(t, float32(0), Distance(a, a))
	assert.Equal(t, float32(0), Distance(b, b))
	assert.Equal(t, float32(100), Distance(a, b))

	c := Position{X: 3, Y: 4, Z: 0}
	assert.Equal(t, float32(25), Distance(a, c))
	assert.GreaterOrEqual(t, Distance(b, c), float32(0))
}
