package world

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
)

// Actor is one networked entity inside an instance. Exactly one of the
// variant fields is set, matching Kind.
type Actor struct {
	ID   common.ObjectId
	Kind ActorKind

	// Player holds the spawn payload the owning connection keeps current.
	Player *ipc.PlayerSpawn

	// Npc holds the spawn payload plus server-side movement state.
	Npc *NpcState

	// Object holds a non-actor event object.
	Object *ipc.ObjectSpawn
}

type ActorKind int

const (
	ActorPlayer ActorKind = iota
	ActorNpc
	ActorObject
)

// NpcState is the server-side half of an NPC: its spawn payload and the
// path-following state driven by the tick.
type NpcState struct {
	Spawn ipc.NpcSpawn

	// CurrentPath is the waypoint queue produced by a navmesh query; the
	// head is the waypoint being approached.
	CurrentPath []common.Position
	// CurrentLerp is the progress toward the head waypoint, from
	// SegmentStart, in [0, 1).
	CurrentLerp   float32
	SegmentStart  *common.Position
	CurrentTarget common.ObjectId
	// LastPosition is the last position broadcast to observers.
	LastPosition *common.Position
}

// CommonSpawn returns the shared spawn chunk regardless of variant, or nil
// for plain objects.
func (a *Actor) CommonSpawn() *ipc.CommonSpawn {
	switch a.Kind {
	case ActorPlayer:
		return &a.Player.Common
	case ActorNpc:
		return &a.Npc.Spawn.Common
	default:
		return nil
	}
}

// Position returns the actor's authoritative position.
func (a *Actor) Position() common.Position {
	if c := a.CommonSpawn(); c != nil {
		return c.Position
	}
	return a.Object.Position
}
