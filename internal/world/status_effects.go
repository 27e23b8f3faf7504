package world

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
)

// StatusEffects is the mutable effect table of one actor. Mutations set a
// dirty flag that drives delta updates to the client; only an explicit
// ResetDirty clears it.
type StatusEffects struct {
	effects []ipc.StatusEffect
	dirty   bool
}

// Add upserts the effect by id, refreshing its duration.
func (s *StatusEffects) Add(effectID uint16, param uint16, duration float32, source common.ObjectId) {
	e := s.findOrCreate(effectID, param, source)
	e.Duration = duration
	s.dirty = true
}

func (s *StatusEffects) findOrCreate(effectID, param uint16, source common.ObjectId) *ipc.StatusEffect {
	for i := range s.effects {
		if s.effects[i].EffectID == effectID {
			return &s.effects[i]
		}
	}
	s.effects = append(s.effects, ipc.StatusEffect{
		EffectID:    effectID,
		Param:       param,
		SourceActor: source,
	})
	return &s.effects[len(s.effects)-1]
}

// Get returns a snapshot of the effect, if present.
func (s *StatusEffects) Get(effectID uint16) (ipc.StatusEffect, bool) {
	for i := range s.effects {
		if s.effects[i].EffectID == effectID {
			return s.effects[i], true
		}
	}
	return ipc.StatusEffect{}, false
}

// Remove deletes the effect by id. The dirty flag is set only when a removal
// actually happened; remaining entries keep their relative order.
func (s *StatusEffects) Remove(effectID uint16) {
	for i := range s.effects {
		if s.effects[i].EffectID == effectID {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			s.dirty = true
			return
		}
	}
}

// Tick advances every duration by dt seconds, expiring effects that run out.
// Infinite effects carry a zero duration and never expire.
func (s *StatusEffects) Tick(dt float32) {
	kept := s.effects[:0]
	for i := range s.effects {
		e := s.effects[i]
		if e.Duration > 0 {
			e.Duration -= dt
			if e.Duration <= 0 {
				s.dirty = true
				continue
			}
		}
		kept = append(kept, e)
	}
	s.effects = kept
}

// Data returns the effect list snapshot in insertion order.
func (s *StatusEffects) Data() []ipc.StatusEffect {
	return s.effects
}

// IsDirty reports whether the table changed since the last reset.
func (s *StatusEffects) IsDirty() bool {
	return s.dirty
}

// ResetDirty clears the dirty flag.
func (s *StatusEffects) ResetDirty() {
	s.dirty = false
}
