package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/ipc"
)

type fakeGameData struct{}

func (fakeGameData) Zone(id uint16) (data.ZoneInfo, bool) {
	return data.ZoneInfo{ID: id, Name: "test zone"}, true
}
func (fakeGameData) Weather(uint16) (uint16, bool)            { return 2, true }
func (fakeGameData) Aetheryte(uint32) (data.Aetheryte, bool)  { return data.Aetheryte{}, false }
func (fakeGameData) Item(uint32) (data.ItemTemplate, bool)    { return data.ItemTemplate{}, false }

func newTestServer() *Server {
	return NewServer(fakeGameData{}, 100*time.Millisecond, zap.NewNop())
}

func join(s *Server, id ClientId, actorID common.ObjectId, zone uint16, pos common.Position) chan FromServer {
	ch := make(chan FromServer, 64)
	s.handle(NewClient{Handle: ClientHandle{ID: id, ActorID: actorID, Send: ch}})
	spawn := ipc.PlayerSpawn{}
	spawn.Common.Position = pos
	spawn.Common.Name = "Tester"
	s.handle(ZoneLoaded{ID: id, ZoneID: zone, Spawn: spawn})
	return ch
}

func drain(ch chan FromServer) []FromServer {
	var out []FromServer
	for {
		select {
		case msg := <-ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestZoneLoadedSpawnsMutually(t *testing.T) {
	s := newTestServer()

	chA := join(s, 1, 0x1000, 182, common.Position{})
	chB := join(s, 2, 0x2000, 182, common.Position{X: 5})

	// A sees B spawn with a recipient-local index starting at 1 (index 0 is
	// always the recipient itself).
	msgsA := drain(chA)
	require.Len(t, msgsA, 1)
	spawnB := msgsA[0].(SpawnPlayer)
	assert.Equal(t, uint8(1), spawnB.Spawn.Common.SpawnIndex)

	msgsB := drain(chB)
	require.Len(t, msgsB, 1)
	spawnA := msgsB[0].(SpawnPlayer)
	assert.Equal(t, uint8(1), spawnA.Spawn.Common.SpawnIndex)
}

func TestZoneSeparationBlocksSpawns(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})
	chB := join(s, 2, 0x2000, 183, common.Position{})

	assert.Empty(t, drain(chA))
	assert.Empty(t, drain(chB))
}

func TestVisibilityWindow(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})
	_ = join(s, 2, 0x2000, 182, common.Position{X: 500}) // outside the window

	assert.Empty(t, drain(chA), "far actors are not spawned")

	// B walks into range: A gets the spawn.
	s.handle(ActorMoved{FromID: 2, ActorID: 0x2000, Position: common.Position{X: 50}})
	msgs := drain(chA)
	require.Len(t, msgs, 1)
	_, ok := msgs[0].(SpawnPlayer)
	assert.True(t, ok)

	// B walks away again: A gets the despawn and the index is reclaimed.
	s.handle(ActorMoved{FromID: 2, ActorID: 0x2000, Position: common.Position{X: 500}})
	msgs = drain(chA)
	require.Len(t, msgs, 1)
	despawn, ok := msgs[0].(DespawnIndex)
	require.True(t, ok)
	assert.Equal(t, uint8(1), despawn.SpawnIndex)
	assert.Equal(t, common.ObjectId(0x2000), despawn.ActorID)
}

func TestMovesFanOutToObservers(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})
	_ = join(s, 2, 0x2000, 182, common.Position{X: 5})
	drain(chA)

	s.handle(ActorMoved{FromID: 2, ActorID: 0x2000, Position: common.Position{X: 7}, Rotation: 1.5})
	msgs := drain(chA)
	require.Len(t, msgs, 1)
	mv := msgs[0].(MoveActor)
	assert.Equal(t, common.ObjectId(0x2000), mv.ActorID)
	assert.Equal(t, float32(7), mv.Position.X)
}

func TestChatProximity(t *testing.T) {
	s := newTestServer()
	chNear := join(s, 1, 0x1000, 182, common.Position{X: 10})
	chFar := join(s, 2, 0x2000, 182, common.Position{X: 100})
	chOther := join(s, 3, 0x3000, 183, common.Position{})
	drain(chNear)
	drain(chFar)
	drain(chOther)

	s.handle(Message{
		FromID:     4,
		FromActor:  0x4000,
		ZoneID:     182,
		Position:   common.Position{X: 0},
		Channel:    ipc.ChannelSay,
		SenderName: "Speaker",
		Text:       "hello",
	})

	// Say carries 25 units: only the near client hears it.
	near := drain(chNear)
	require.Len(t, near, 1)
	chat := near[0].(ChatFanout)
	assert.Equal(t, "hello", chat.Text)
	assert.Empty(t, drain(chFar))
	assert.Empty(t, drain(chOther))

	// Party chat ignores distance within the zone.
	s.handle(Message{FromID: 4, FromActor: 0x4000, ZoneID: 182, Channel: ipc.ChannelParty, Text: "inv"})
	assert.Len(t, drain(chNear), 1)
	assert.Len(t, drain(chFar), 1)
	assert.Empty(t, drain(chOther))
}

func TestDisconnectReclaimsIndices(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})
	_ = join(s, 2, 0x2000, 182, common.Position{X: 1})
	drain(chA)

	s.handle(ClientDisconnected{ID: 2})
	msgs := drain(chA)
	require.Len(t, msgs, 1)
	despawn := msgs[0].(DespawnIndex)
	assert.Equal(t, common.ObjectId(0x2000), despawn.ActorID)

	// The freed index is immediately reusable.
	chC := join(s, 3, 0x3000, 182, common.Position{X: 2})
	msgs = drain(chA)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint8(1), msgs[0].(SpawnPlayer).Spawn.Common.SpawnIndex)
	drain(chC)
}

func TestNpcPathFollowing(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})

	spawn := ipc.NpcSpawn{}
	spawn.Common.Position = common.Position{X: 10}
	spawn.Common.BNpcBase = 13498
	s.handle(SpawnNpc{ZoneID: 182, Spawn: spawn})

	msgs := drain(chA)
	require.Len(t, msgs, 1)
	npcSpawn := msgs[0].(SpawnNpcActor)
	npcID := common.ObjectId(0)
	for id := range s.instances[182].Actors {
		if id != 0x1000 {
			npcID = id
		}
	}
	require.NotZero(t, npcID)
	assert.Equal(t, uint8(1), npcSpawn.Spawn.Common.SpawnIndex)

	// Attach a straight-line navmesh and path the NPC.
	s.instances[182].Navmesh = StraightLineNavmesh{}
	s.handle(SetNpcPath{ZoneID: 182, ActorID: npcID, Goal: common.Position{X: 14}})

	// One 100ms tick at walk speed moves it 0.4 units toward the goal.
	s.tick(0.1)
	msgs = drain(chA)
	var move *MoveActor
	for _, m := range msgs {
		if mv, ok := m.(MoveActor); ok {
			move = &mv
		}
	}
	require.NotNil(t, move)
	assert.InDelta(t, 10.4, move.Position.X, 0.01)

	// Enough ticks to finish the segment: NPC lands on the waypoint and the
	// path drains.
	for i := 0; i < 20; i++ {
		s.tick(0.1)
	}
	npc := s.instances[182].Actors[npcID].Npc
	assert.Empty(t, npc.CurrentPath)
	assert.InDelta(t, 14.0, npc.Spawn.Common.Position.X, 0.01)
}

func TestObjectSpawnUsesObjectPool(t *testing.T) {
	s := newTestServer()
	chA := join(s, 1, 0x1000, 182, common.Position{})

	obj := ipc.ObjectSpawn{Kind: ipc.ObjectKindEventObj, BaseID: 2000123}
	obj.Position = common.Position{X: 3}
	s.handle(SpawnObject{ZoneID: 182, Spawn: obj})

	msgs := drain(chA)
	require.Len(t, msgs, 1)
	spawned := msgs[0].(SpawnObjectEntity)
	// Object indices start at 0 — a separate pool from actor indices.
	assert.Equal(t, uint8(0), spawned.Spawn.Index)
	assert.Equal(t, uint32(2000123), spawned.Spawn.BaseID)
	assert.NotZero(t, spawned.Spawn.EntityID)

	// Despawning the object frees its index and notifies the observer.
	s.handle(DespawnActor{ZoneID: 182, ActorID: spawned.ActorID})
	msgs = drain(chA)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint8(0), msgs[0].(DespawnIndex).SpawnIndex)
}

func TestMissingNavmeshDisablesMovement(t *testing.T) {
	s := newTestServer()
	_ = join(s, 1, 0x1000, 182, common.Position{})

	spawn := ipc.NpcSpawn{}
	spawn.Common.Position = common.Position{X: 10}
	s.handle(SpawnNpc{ZoneID: 182, Spawn: spawn})

	var npcID common.ObjectId
	for id := range s.instances[182].Actors {
		if id != 0x1000 {
			npcID = id
		}
	}
	s.handle(SetNpcPath{ZoneID: 182, ActorID: npcID, Goal: common.Position{X: 50}})
	s.tick(0.1) // must not fault
	assert.Equal(t, float32(10), s.instances[182].Actors[npcID].Npc.Spawn.Common.Position.X)
}

func TestBackpressureDropsInsteadOfBlocking(t *testing.T) {
	s := newTestServer()
	ch := make(chan FromServer) // unbuffered and never read
	s.handle(NewClient{Handle: ClientHandle{ID: 1, ActorID: 0x1000, Send: ch}})
	spawn := ipc.PlayerSpawn{}
	s.handle(ZoneLoaded{ID: 1, ZoneID: 182, Spawn: spawn})

	done := make(chan struct{})
	go func() {
		// A second client's spawn fan-out would block on the dead channel if
		// the world didn't drop.
		join(s, 2, 0x2000, 182, common.Position{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("world task blocked on a full client queue")
	}
}
