package world

import (
	"math/rand"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/ipc"
)

// Instance is the authoritative container for one occurrence of a zone.
// Owned exclusively by the world task goroutine — no locks.
type Instance struct {
	ID        uint16
	Zone      data.ZoneInfo
	WeatherID uint16
	Actors    map[common.ObjectId]*Actor
	Navmesh   Navmesh // nil disables NPC movement
}

// NewInstance builds an instance for the zone, pulling metadata and default
// weather from game data.
func NewInstance(id uint16, gd data.GameData) *Instance {
	zone, _ := gd.Zone(id)
	weather, ok := gd.Weather(id)
	if !ok {
		weather = 1
	}
	return &Instance{
		ID:        id,
		Zone:      zone,
		WeatherID: weather,
		Actors:    make(map[common.ObjectId]*Actor),
	}
}

// FindActor resolves an actor id; a dangling id is simply not found.
func (i *Instance) FindActor(id common.ObjectId) (*Actor, bool) {
	a, ok := i.Actors[id]
	return a, ok
}

// InsertPlayer registers a player actor.
func (i *Instance) InsertPlayer(id common.ObjectId, spawn *ipc.PlayerSpawn) {
	i.Actors[id] = &Actor{ID: id, Kind: ActorPlayer, Player: spawn}
}

// InsertNpc registers an NPC actor with empty movement state.
func (i *Instance) InsertNpc(id common.ObjectId, spawn ipc.NpcSpawn) {
	i.Actors[id] = &Actor{ID: id, Kind: ActorNpc, Npc: &NpcState{Spawn: spawn}}
}

// InsertObject registers an event object.
func (i *Instance) InsertObject(id common.ObjectId, spawn *ipc.ObjectSpawn) {
	i.Actors[id] = &Actor{ID: id, Kind: ActorObject, Object: spawn}
}

// RemoveActor drops an actor; removing an unknown id is a no-op.
func (i *Instance) RemoveActor(id common.ObjectId) {
	delete(i.Actors, id)
}

// Players returns the ids of every player actor in the instance.
func (i *Instance) Players() []common.ObjectId {
	var out []common.ObjectId
	for id, a := range i.Actors {
		if a.Kind == ActorPlayer {
			out = append(out, id)
		}
	}
	return out
}

// GenerateActorID produces a fresh actor id for this process. Player ids
// come from persistence; this serves NPCs and event objects.
func GenerateActorID() common.ObjectId {
	for {
		id := common.ObjectId(rand.Uint32())
		if id != 0 && id != common.InvalidObjectId {
			return id
		}
	}
}
