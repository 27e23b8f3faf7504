package world

import (
	"context"
	"math"
	"time"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/ipc"
	"go.uber.org/zap"
)

const (
	// VisibilityRange is the spawn window radius in world units.
	VisibilityRange float32 = 120.0
	// ChatRange is the proximity chat radius (Say/Shout/Yell/CustomEmote).
	ChatRange float32 = 25.0

	// Per-recipient allocator dimensions. Actor index 0 is the recipient
	// itself, so the actor pool starts at 1.
	maxSpawnedActors  = 100
	maxSpawnedObjects = 40

	// npcMoveEpsilon is the squared movement delta below which no ActorMove
	// is emitted.
	npcMoveEpsilon float32 = 0.01

	npcWalkSpeed float32 = 4.0 // world units per second along a path
)

var (
	visibilityRangeSq = VisibilityRange * VisibilityRange
	chatRangeSq       = ChatRange * ChatRange
)

// clientState is the world task's bookkeeping for one connection.
type clientState struct {
	handle   ClientHandle
	zoneID   uint16
	inZone   bool
	position common.Position

	// Per-recipient spawn index pools.
	actorAlloc  *SpawnAllocator
	objectAlloc *SpawnAllocator
}

// Server is the world task: the single goroutine owning every instance and
// the player roster. All interaction happens over the Incoming channel.
type Server struct {
	Incoming chan ToServer

	log      *zap.Logger
	gd       data.GameData
	tickRate time.Duration

	instances map[uint16]*Instance
	clients   map[ClientId]*clientState
}

// NewServer builds a world task. Instances are created lazily as players
// enter territories.
func NewServer(gd data.GameData, tickRate time.Duration, log *zap.Logger) *Server {
	return &Server{
		Incoming:  make(chan ToServer, 256),
		log:       log,
		gd:        gd,
		tickRate:  tickRate,
		instances: make(map[uint16]*Instance),
		clients:   make(map[ClientId]*clientState),
	}
}

// Run drives the world until ctx is cancelled. Messages are processed in
// arrival order; the tick fires at the configured cadence and missed ticks
// coalesce.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.Incoming:
			s.handle(msg)
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			s.tick(float32(dt.Seconds()))
		}
	}
}

// instance returns the instance for a zone, creating it on first entry.
func (s *Server) instance(zoneID uint16) *Instance {
	inst, ok := s.instances[zoneID]
	if !ok {
		inst = NewInstance(zoneID, s.gd)
		s.instances[zoneID] = inst
		s.log.Info("建立副本", zap.Uint16("zone", zoneID), zap.Uint16("weather", inst.WeatherID))
	}
	return inst
}

// send delivers one message to a client, dropping it when the queue is full.
func (s *Server) send(cs *clientState, msg FromServer) {
	select {
	case cs.handle.Send <- msg:
	default:
		s.log.Warn("客戶端佇列已滿，丟棄訊息",
			zap.Uint64("client", uint64(cs.handle.ID)),
			zap.String("actor", cs.handle.ActorID.String()),
		)
	}
}

func (s *Server) handle(msg ToServer) {
	switch m := msg.(type) {
	case NewClient:
		s.clients[m.Handle.ID] = &clientState{
			handle:      m.Handle,
			actorAlloc:  NewSpawnAllocator(maxSpawnedActors, 1),
			objectAlloc: NewSpawnAllocator(maxSpawnedObjects, 0),
		}
	case ClientDisconnected:
		s.handleDisconnect(m.ID)
	case ZoneLoaded:
		s.handleZoneLoaded(m)
	case Message:
		s.handleMessage(m)
	case ActorMoved:
		s.handleActorMoved(m)
	case ActionRequest:
		s.handleActionRequest(m)
	case BroadcastControl:
		s.broadcastControl(m.ActorID, m.Data)
	case GainEffect:
		s.broadcastControl(m.ActorID, ipc.ActorControl{
			Category: ipc.ActorControlGainEffect,
			Param1:   uint32(m.EffectID),
			Param2:   uint32(m.Param),
		})
	case LoseEffect:
		s.broadcastControl(m.ActorID, ipc.ActorControl{
			Category: ipc.ActorControlLoseEffect,
			Param1:   uint32(m.EffectID),
		})
	case GimmickAccessor:
		s.broadcastControl(m.ActorID, ipc.ActorControl{
			Category: ipc.ActorControlCategory(0x107),
			Param1:   m.GimmickID,
			Param2:   m.Param,
		})
	case ChangeTerritory:
		s.handleChangeTerritory(m)
	case SetNpcPath:
		s.handleSetNpcPath(m)
	case SpawnNpc:
		s.handleSpawnNpc(m)
	case SpawnObject:
		s.handleSpawnObject(m)
	case DespawnActor:
		s.despawnActor(m.ZoneID, m.ActorID)
	case ReloadScripts:
		for _, cs := range s.clients {
			s.send(cs, ReloadScriptsNotice{})
		}
	}
}

func (s *Server) handleZoneLoaded(m ZoneLoaded) {
	cs, ok := s.clients[m.ID]
	if !ok {
		return
	}
	inst := s.instance(m.ZoneID)

	// A player's object id is unique across all instances; a stale actor
	// from a crashed session is replaced, never duplicated.
	for zoneID, other := range s.instances {
		if _, found := other.Actors[cs.handle.ActorID]; found {
			s.despawnActor(zoneID, cs.handle.ActorID)
		}
	}

	cs.zoneID = m.ZoneID
	cs.inZone = true
	cs.position = m.Spawn.Common.Position

	spawn := m.Spawn
	inst.InsertPlayer(cs.handle.ActorID, &spawn)

	// Walk both directions of visibility once: they see us, we see them.
	for _, other := range s.clients {
		if other == cs || !other.inZone || other.zoneID != m.ZoneID {
			continue
		}
		s.updateVisibilityPair(other, cs)
		s.updateVisibilityPair(cs, other)
	}
	// Show every NPC and object already inside the window.
	for id, actor := range inst.Actors {
		switch actor.Kind {
		case ActorNpc:
			s.updateNpcVisibility(cs, id, actor)
		case ActorObject:
			s.updateObjectVisibility(cs, id, actor)
		}
	}
}

// updateVisibilityPair reconciles whether observer should currently see
// subject, spawning or despawning as the window dictates.
func (s *Server) updateVisibilityPair(observer, subject *clientState) {
	visible := common.Distance(observer.position, subject.position) <= visibilityRangeSq &&
		observer.zoneID == subject.zoneID && subject.inZone

	has := observer.actorAlloc.Contains(subject.handle.ActorID)
	switch {
	case visible && !has:
		idx, ok := observer.actorAlloc.Reserve(subject.handle.ActorID)
		if !ok {
			// Pool exhausted: this visibility pair is dropped, not fatal.
			s.log.Warn("生成索引耗盡",
				zap.Uint64("observer", uint64(observer.handle.ID)),
				zap.String("subject", subject.handle.ActorID.String()),
			)
			return
		}
		inst := s.instances[subject.zoneID]
		actor, found := inst.FindActor(subject.handle.ActorID)
		if !found || actor.Kind != ActorPlayer {
			observer.actorAlloc.Free(subject.handle.ActorID)
			return
		}
		spawn := *actor.Player
		spawn.Common.SpawnIndex = idx
		s.send(observer, SpawnPlayer{ActorID: subject.handle.ActorID, Spawn: spawn})
	case !visible && has:
		idx, _ := observer.actorAlloc.Free(subject.handle.ActorID)
		s.send(observer, DespawnIndex{SpawnIndex: idx, ActorID: subject.handle.ActorID})
	}
}

// updateNpcVisibility reconciles one NPC against one observer.
func (s *Server) updateNpcVisibility(observer *clientState, id common.ObjectId, actor *Actor) {
	visible := common.Distance(observer.position, actor.Position()) <= visibilityRangeSq

	has := observer.actorAlloc.Contains(id)
	switch {
	case visible && !has:
		idx, ok := observer.actorAlloc.Reserve(id)
		if !ok {
			s.log.Warn("生成索引耗盡", zap.Uint64("observer", uint64(observer.handle.ID)), zap.String("npc", id.String()))
			return
		}
		spawn := actor.Npc.Spawn
		spawn.Common.SpawnIndex = idx
		s.send(observer, SpawnNpcActor{ActorID: id, Spawn: spawn})
	case !visible && has:
		idx, _ := observer.actorAlloc.Free(id)
		s.send(observer, DespawnIndex{SpawnIndex: idx, ActorID: id})
	}
}

func (s *Server) handleActorMoved(m ActorMoved) {
	cs, ok := s.clients[m.FromID]
	if !ok || !cs.inZone {
		return
	}
	inst := s.instance(cs.zoneID)

	pos := inst.Zone.Clamp(m.Position)
	cs.position = pos

	if actor, found := inst.FindActor(m.ActorID); found && actor.Kind == ActorPlayer {
		actor.Player.Common.Position = pos
		actor.Player.Common.Rotation = m.Rotation
	}

	for _, other := range s.clients {
		if other == cs || !other.inZone || other.zoneID != cs.zoneID {
			continue
		}
		had := other.actorAlloc.Contains(m.ActorID)
		s.updateVisibilityPair(other, cs)
		s.updateVisibilityPair(cs, other)
		// A freshly delivered spawn already carries the new position; only
		// previously visible observers need the move.
		if had && other.actorAlloc.Contains(m.ActorID) {
			s.send(other, MoveActor{ActorID: m.ActorID, Position: pos, Rotation: m.Rotation})
		}
	}
	// Entering NPC and object windows while walking.
	for id, actor := range inst.Actors {
		switch actor.Kind {
		case ActorNpc:
			s.updateNpcVisibility(cs, id, actor)
		case ActorObject:
			s.updateObjectVisibility(cs, id, actor)
		}
	}
}

func (s *Server) handleMessage(m Message) {
	for _, other := range s.clients {
		if other.handle.ID == m.FromID || !other.inZone || other.zoneID != m.ZoneID {
			continue
		}
		if m.Channel.IsProximity() && common.Distance(other.position, m.Position) > chatRangeSq {
			continue
		}
		s.send(other, ChatFanout{
			Channel:       m.Channel,
			SenderActorID: m.FromActor,
			SenderName:    m.SenderName,
			Text:          m.Text,
		})
	}
}

func (s *Server) handleActionRequest(m ActionRequest) {
	cs, ok := s.clients[m.FromID]
	if !ok || !cs.inZone {
		return
	}
	inst := s.instance(cs.zoneID)
	if _, found := inst.FindActor(m.Target); !found && m.Target != 0 {
		// Dangling target id — tell only the requester.
		s.send(cs, ControlSelf{Data: ipc.ActorControlSelf{
			Category: ipc.ActorControlCooldown,
			Param1:   m.ActionID,
		}})
		return
	}
	// Validated; the connection runs the effect builder and reports the
	// result itself. Observers get the casting control event.
	s.broadcastControl(m.ActorID, ipc.ActorControl{
		Category: ipc.ActorControlCategory(0x11),
		Param1:   m.ActionID,
	})
}

// broadcastControl fans an actor control to every client that can see the
// source actor.
func (s *Server) broadcastControl(actorID common.ObjectId, data ipc.ActorControl) {
	for _, other := range s.clients {
		if !other.inZone {
			continue
		}
		if other.handle.ActorID == actorID || other.actorAlloc.Contains(actorID) {
			s.send(other, ControlActor{ActorID: actorID, Data: data})
		}
	}
}

func (s *Server) handleChangeTerritory(m ChangeTerritory) {
	cs, ok := s.clients[m.ID]
	if !ok {
		return
	}
	if cs.inZone {
		s.despawnActor(cs.zoneID, cs.handle.ActorID)
	}
	cs.inZone = false
	cs.zoneID = m.ZoneID
	cs.position = m.Position
	// The connection drives InitZone and re-enters with ZoneLoaded.
}

func (s *Server) handleSetNpcPath(m SetNpcPath) {
	inst, ok := s.instances[m.ZoneID]
	if !ok || inst.Navmesh == nil {
		return
	}
	actor, found := inst.FindActor(m.ActorID)
	if !found || actor.Kind != ActorNpc {
		return
	}
	if path, ok := inst.Navmesh.FindPath(actor.Position(), m.Goal); ok {
		actor.Npc.CurrentPath = path
		actor.Npc.CurrentLerp = 0
		actor.Npc.SegmentStart = nil
	}
}

func (s *Server) handleSpawnNpc(m SpawnNpc) {
	inst := s.instance(m.ZoneID)
	id := GenerateActorID()
	for {
		if _, exists := inst.Actors[id]; !exists {
			break
		}
		id = GenerateActorID()
	}
	inst.InsertNpc(id, m.Spawn)
	for _, cs := range s.clients {
		if cs.inZone && cs.zoneID == m.ZoneID {
			s.updateNpcVisibility(cs, id, inst.Actors[id])
		}
	}
}

func (s *Server) handleSpawnObject(m SpawnObject) {
	inst := s.instance(m.ZoneID)
	id := GenerateActorID()
	for {
		if _, exists := inst.Actors[id]; !exists {
			break
		}
		id = GenerateActorID()
	}
	spawn := m.Spawn
	inst.InsertObject(id, &spawn)
	for _, cs := range s.clients {
		if cs.inZone && cs.zoneID == m.ZoneID {
			s.updateObjectVisibility(cs, id, inst.Actors[id])
		}
	}
}

// updateObjectVisibility reconciles one event object against one observer.
// Objects draw indices from the object pool, not the actor pool.
func (s *Server) updateObjectVisibility(observer *clientState, id common.ObjectId, actor *Actor) {
	visible := common.Distance(observer.position, actor.Position()) <= visibilityRangeSq

	has := observer.objectAlloc.Contains(id)
	switch {
	case visible && !has:
		idx, ok := observer.objectAlloc.Reserve(id)
		if !ok {
			s.log.Warn("物件索引耗盡", zap.Uint64("observer", uint64(observer.handle.ID)), zap.String("object", id.String()))
			return
		}
		spawn := *actor.Object
		spawn.Index = idx
		spawn.EntityID = uint32(id)
		s.send(observer, SpawnObjectEntity{ActorID: id, Spawn: spawn})
	case !visible && has:
		idx, _ := observer.objectAlloc.Free(id)
		s.send(observer, DespawnIndex{SpawnIndex: idx, ActorID: id})
	}
}

// despawnActor removes an actor from its instance and releases every spawn
// index recipients hold for it.
func (s *Server) despawnActor(zoneID uint16, actorID common.ObjectId) {
	inst, ok := s.instances[zoneID]
	if !ok {
		return
	}
	inst.RemoveActor(actorID)
	for _, other := range s.clients {
		if idx, held := other.actorAlloc.Free(actorID); held {
			s.send(other, DespawnIndex{SpawnIndex: idx, ActorID: actorID})
		}
		if idx, held := other.objectAlloc.Free(actorID); held {
			s.send(other, DespawnIndex{SpawnIndex: idx, ActorID: actorID})
		}
	}
}

func (s *Server) handleDisconnect(id ClientId) {
	cs, ok := s.clients[id]
	if !ok {
		return
	}
	if cs.inZone {
		s.despawnActor(cs.zoneID, cs.handle.ActorID)
	}
	delete(s.clients, id)
	s.log.Info("玩家離開世界", zap.Uint64("client", uint64(id)), zap.String("actor", cs.handle.ActorID.String()))
}

// ── tick ───────────────────────────────────────────────────────────

// tick advances NPC path-following and fans EffectTick to connections for
// timed status-effect expiry.
func (s *Server) tick(dt float32) {
	for zoneID, inst := range s.instances {
		for id, actor := range inst.Actors {
			if actor.Kind != ActorNpc {
				continue
			}
			s.tickNpc(zoneID, id, actor.Npc, dt)
		}
	}
	for _, cs := range s.clients {
		if cs.inZone {
			s.send(cs, EffectTick{Dt: dt})
		}
	}
}

func (s *Server) tickNpc(zoneID uint16, id common.ObjectId, npc *NpcState, dt float32) {
	if len(npc.CurrentPath) == 0 {
		return
	}

	if npc.SegmentStart == nil {
		start := npc.Spawn.Common.Position
		npc.SegmentStart = &start
		npc.CurrentLerp = 0
	}
	start := *npc.SegmentStart
	goal := npc.CurrentPath[0]

	segmentSq := common.Distance(start, goal)
	if segmentSq <= 0 {
		npc.CurrentPath = npc.CurrentPath[1:]
		npc.SegmentStart = nil
		return
	}

	// Distance comparisons stay squared everywhere else; the sqrt happens
	// only here, to scale the lerp step to the segment length.
	npc.CurrentLerp += npcWalkSpeed * dt / float32(math.Sqrt(float64(segmentSq)))
	if npc.CurrentLerp >= 1.0 {
		npc.Spawn.Common.Position = goal
		npc.CurrentPath = npc.CurrentPath[1:]
		npc.SegmentStart = nil
	} else {
		npc.Spawn.Common.Position = common.Lerp(start, goal, npc.CurrentLerp)
	}

	moved := npc.LastPosition == nil ||
		common.Distance(*npc.LastPosition, npc.Spawn.Common.Position) > npcMoveEpsilon
	if !moved {
		return
	}
	pos := npc.Spawn.Common.Position
	npc.LastPosition = &pos

	for _, cs := range s.clients {
		if !cs.inZone || cs.zoneID != zoneID {
			continue
		}
		s.updateNpcVisibility(cs, id, s.instances[zoneID].Actors[id])
		if cs.actorAlloc.Contains(id) {
			s.send(cs, MoveActor{
				ActorID:  id,
				Position: pos,
				Rotation: npc.Spawn.Common.Rotation,
				Speed:    uint8(npcWalkSpeed),
			})
		}
	}
}
