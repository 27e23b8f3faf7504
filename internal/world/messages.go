package world

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
)

// ClientId identifies one connected session inside the world task.
type ClientId uint64

// ClientHandle is the world task's grip on one zone connection: identity
// plus the bounded channel the task fans FromServer messages into.
type ClientHandle struct {
	ID        ClientId
	ActorID   common.ObjectId
	ContentID uint64
	Send      chan FromServer
}

// ── connection → world ─────────────────────────────────────────────

// ToServer is a message from a connection task to the world task. Messages
// from one connection are processed in FIFO order.
type ToServer interface{ toServer() }

// NewClient registers a connection with the world.
type NewClient struct {
	Handle ClientHandle
}

// ClientDisconnected unregisters a connection; the world reclaims its actor
// and every spawn index other clients hold for it.
type ClientDisconnected struct {
	ID ClientId
}

// ZoneLoaded places the client's player actor into an instance after the
// client finished loading.
type ZoneLoaded struct {
	ID     ClientId
	ZoneID uint16
	Spawn  ipc.PlayerSpawn
}

// Message routes a chat line through the world.
type Message struct {
	FromID     ClientId
	FromActor  common.ObjectId
	ZoneID     uint16
	Position   common.Position
	Channel    ipc.ChatChannel
	SenderName string
	Text       string
}

// ActorMoved reports the owning client's positional update.
type ActorMoved struct {
	FromID   ClientId
	ActorID  common.ObjectId
	Position common.Position
	Rotation float32
}

// ActionRequest asks for an action execution against a target.
type ActionRequest struct {
	FromID    ClientId
	ActorID   common.ObjectId
	Target    common.ObjectId
	ActionID  uint32
	RequestID uint16
}

// GainEffect applies a status effect to an actor, visible to observers.
type GainEffect struct {
	FromID   ClientId
	ActorID  common.ObjectId
	EffectID uint16
	Param    uint16
	Duration float32
}

// LoseEffect removes a status effect from an actor.
type LoseEffect struct {
	FromID   ClientId
	ActorID  common.ObjectId
	EffectID uint16
}

// BroadcastControl fans an arbitrary actor control event to everyone who
// can see the source actor (pose changes, emotes, cast bars).
type BroadcastControl struct {
	FromID  ClientId
	ActorID common.ObjectId
	Data    ipc.ActorControl
}

// GimmickAccessor forwards a scripted gimmick interaction into the world.
type GimmickAccessor struct {
	FromID    ClientId
	ActorID   common.ObjectId
	GimmickID uint32
	Param     uint32
}

// ChangeTerritory moves the client's actor into another instance.
type ChangeTerritory struct {
	ID       ClientId
	ZoneID   uint16
	Position common.Position
}

// SetNpcPath asks the world to path an NPC toward a goal via the navmesh.
type SetNpcPath struct {
	ZoneID  uint16
	ActorID common.ObjectId
	Goal    common.Position
}

// SpawnNpc places an NPC actor into an instance.
type SpawnNpc struct {
	ZoneID uint16
	Spawn  ipc.NpcSpawn
}

// SpawnObject places an event object into an instance.
type SpawnObject struct {
	ZoneID uint16
	Spawn  ipc.ObjectSpawn
}

// DespawnActor removes an actor from its instance.
type DespawnActor struct {
	ZoneID  uint16
	ActorID common.ObjectId
}

// ReloadScripts asks every connection to reload its script host.
type ReloadScripts struct{}

func (NewClient) toServer()          {}
func (ClientDisconnected) toServer() {}
func (ZoneLoaded) toServer()         {}
func (Message) toServer()            {}
func (ActorMoved) toServer()         {}
func (ActionRequest) toServer()      {}
func (BroadcastControl) toServer()   {}
func (GainEffect) toServer()         {}
func (LoseEffect) toServer()         {}
func (GimmickAccessor) toServer()    {}
func (ChangeTerritory) toServer()    {}
func (SetNpcPath) toServer()         {}
func (SpawnNpc) toServer()           {}
func (SpawnObject) toServer()        {}
func (DespawnActor) toServer()       {}
func (ReloadScripts) toServer()      {}

// ── world → connection ─────────────────────────────────────────────

// FromServer is a fan-out message from the world task to one connection.
// Delivery order matches emission order; a full client queue drops the
// message with a warning rather than blocking the world.
type FromServer interface{ fromServer() }

// SpawnPlayer spawns another player's actor; the spawn index inside Common
// is already recipient-specific.
type SpawnPlayer struct {
	ActorID common.ObjectId
	Spawn   ipc.PlayerSpawn
}

// SpawnNpcActor spawns an NPC actor with a recipient-specific index.
type SpawnNpcActor struct {
	ActorID common.ObjectId
	Spawn   ipc.NpcSpawn
}

// SpawnObjectEntity spawns an event object with a recipient-specific index
// from the object pool.
type SpawnObjectEntity struct {
	ActorID common.ObjectId
	Spawn   ipc.ObjectSpawn
}

// DespawnIndex releases a previously spawned actor on the client.
type DespawnIndex struct {
	SpawnIndex uint8
	ActorID    common.ObjectId
}

// MoveActor is a positional update for a visible actor.
type MoveActor struct {
	ActorID  common.ObjectId
	Position common.Position
	Rotation float32
	Speed    uint8
}

// ControlActor relays an actor control event from another actor.
type ControlActor struct {
	ActorID common.ObjectId
	Data    ipc.ActorControl
}

// ControlTargetActor relays a targeted actor control event.
type ControlTargetActor struct {
	ActorID common.ObjectId
	Data    ipc.ActorControlTarget
}

// ControlSelf relays a self-only actor control event.
type ControlSelf struct {
	Data ipc.ActorControlSelf
}

// ChatFanout delivers a routed chat line.
type ChatFanout struct {
	Channel       ipc.ChatChannel
	SenderActorID common.ObjectId
	SenderName    string
	Text          string
}

// EffectTick drives timed status-effect expiration on the connection.
type EffectTick struct {
	Dt float32
}

// ReloadScriptsNotice asks the connection to reload its script host.
type ReloadScriptsNotice struct{}

func (SpawnPlayer) fromServer()         {}
func (SpawnNpcActor) fromServer()       {}
func (SpawnObjectEntity) fromServer()   {}
func (DespawnIndex) fromServer()        {}
func (MoveActor) fromServer()           {}
func (ControlActor) fromServer()        {}
func (ControlTargetActor) fromServer()  {}
func (ControlSelf) fromServer()         {}
func (ChatFanout) fromServer()          {}
func (EffectTick) fromServer()          {}
func (ReloadScriptsNotice) fromServer() {}
