package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmaskSet(t *testing.T) {
	m := NewBitmask(4)

	m.Set(0)
	assert.Equal(t, Bitmask{1, 0, 0, 0}, m)

	m.Set(1)
	assert.Equal(t, Bitmask{3, 0, 0, 0}, m)
}

func TestBitmaskClear(t *testing.T) {
	m := NewBitmask(4)

	m.Set(0)
	m.Set(1)
	assert.Equal(t, Bitmask{3, 0, 0, 0}, m)

	m.Clear(0)
	assert.Equal(t, Bitmask{2, 0, 0, 0}, m)
	m.Clear(0) // clearing twice is a no-op
	assert.Equal(t, Bitmask{2, 0, 0, 0}, m)
}

func TestBitmaskToggle(t *testing.T) {
	m := NewBitmask(4)

	assert.True(t, m.Toggle(0))
	assert.Equal(t, Bitmask{1, 0, 0, 0}, m)

	assert.False(t, m.Toggle(0))
	assert.Equal(t, Bitmask{0, 0, 0, 0}, m)
}

func TestBitmaskContains(t *testing.T) {
	m := NewBitmask(4)

	m.Set(0)
	assert.True(t, m.Contains(0))
	assert.False(t, m.Contains(1))

	m.Set(1)
	assert.True(t, m.Contains(0))
	assert.True(t, m.Contains(1))

	m.Set(9)
	assert.True(t, m.Contains(9))
	assert.Equal(t, Bitmask{3, 2, 0, 0}, m)
}

func TestBitmaskCrossByte(t *testing.T) {
	m := NewBitmask(4)

	m.Set(17)
	assert.Equal(t, Bitmask{0, 0, 2, 0}, m)
	assert.True(t, m.Contains(17))
	assert.False(t, m.Contains(16))
}
