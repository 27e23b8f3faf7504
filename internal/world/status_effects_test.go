package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
)

func TestStatusEffects(t *testing.T) {
	var s StatusEffects

	// Sensible initial state.
	_, found := s.Get(0)
	assert.False(t, found)
	assert.False(t, s.IsDirty())

	// Adding sets the dirty flag and the effect can be read back.
	s.Add(50, 0, 30.0, common.ObjectId(7))
	e, found := s.Get(50)
	require.True(t, found)
	assert.Equal(t, ipc.StatusEffect{EffectID: 50, Param: 0, Duration: 30.0, SourceActor: 7}, e)
	assert.True(t, s.IsDirty())

	s.ResetDirty()
	assert.False(t, s.IsDirty())

	// Removing marks dirty and the effect is really gone.
	s.Remove(50)
	_, found = s.Get(50)
	assert.False(t, found)
	assert.True(t, s.IsDirty())
}

func TestStatusEffectsUpsert(t *testing.T) {
	var s StatusEffects
	s.Add(50, 1, 30.0, 0)
	s.Add(50, 9, 60.0, 0)

	require.Len(t, s.Data(), 1)
	e, _ := s.Get(50)
	assert.Equal(t, float32(60.0), e.Duration)
	assert.Equal(t, uint16(1), e.Param, "param is set on create only")
}

func TestStatusEffectsRemoveMissingIsNotDirty(t *testing.T) {
	var s StatusEffects
	s.Add(50, 0, 1.0, 0)
	s.ResetDirty()

	s.Remove(99)
	assert.False(t, s.IsDirty(), "removing a missing effect leaves the flag alone")
}

func TestStatusEffectsOrderPreserved(t *testing.T) {
	var s StatusEffects
	s.Add(1, 0, 10, 0)
	s.Add(2, 0, 10, 0)
	s.Add(3, 0, 10, 0)

	s.Remove(2)
	data := s.Data()
	require.Len(t, data, 2)
	assert.Equal(t, uint16(1), data[0].EffectID)
	assert.Equal(t, uint16(3), data[1].EffectID)
}

func TestStatusEffectsTickExpiry(t *testing.T) {
	var s StatusEffects
	s.Add(1, 0, 0.15, 0)
	s.Add(2, 0, 0, 0) // permanent
	s.ResetDirty()

	s.Tick(0.1)
	assert.False(t, s.IsDirty())
	require.Len(t, s.Data(), 2)

	s.Tick(0.1)
	assert.True(t, s.IsDirty())
	require.Len(t, s.Data(), 1)
	assert.Equal(t, uint16(2), s.Data()[0].EffectID)
}
