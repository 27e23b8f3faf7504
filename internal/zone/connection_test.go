package zone

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
	"github.com/xivgo/server/internal/persist"
	"github.com/xivgo/server/internal/world"
)

type fakeGameData struct{}

func (fakeGameData) Zone(id uint16) (data.ZoneInfo, bool) {
	return data.ZoneInfo{ID: id, Name: "test"}, true
}
func (fakeGameData) Weather(uint16) (uint16, bool) { return 2, true }
func (fakeGameData) Aetheryte(id uint32) (data.Aetheryte, bool) {
	if id == 8 {
		return data.Aetheryte{ID: 8, ZoneID: 182, Cost: 70, X: 40.5, Y: 4, Z: -150.3}, true
	}
	return data.Aetheryte{}, false
}
func (fakeGameData) Item(uint32) (data.ItemTemplate, bool) { return data.ItemTemplate{}, false }

type fakeDB struct {
	saved []persist.CharacterRow
}

func (f *fakeDB) GetByContentID(_ context.Context, id uint64) (persist.CharacterRow, error) {
	return persist.CharacterRow{}, persist.ErrCharacterNotFound
}
func (f *fakeDB) Save(_ context.Context, row *persist.CharacterRow) error {
	f.saved = append(f.saved, *row)
	return nil
}
func (f *fakeDB) ListByServiceAccount(context.Context, uint32) ([]persist.CharacterRow, error) {
	return nil, nil
}
func (f *fakeDB) NameTaken(context.Context, string) (bool, error)              { return false, nil }
func (f *fakeDB) Create(context.Context, *persist.CharacterRow) (uint64, error) { return 1, nil }
func (f *fakeDB) Delete(context.Context, uint64) error                          { return nil }
func (f *fakeDB) NextActorID(context.Context) (uint32, error)                   { return 0x10000001, nil }

func testConfig() *config.Config {
	return &config.Config{
		World: config.WorldConfig{ServerID: 1, SendQueueSize: 256},
		Game:  config.GameConfig{ReceiveBufferSize: 64 * 1024},
	}
}

func newTestConnection(t *testing.T) (*Connection, *fakeDB, chan world.ToServer) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	db := &fakeDB{}
	worldCh := make(chan world.ToServer, 64)
	c := NewConnection(server, 1, Deps{
		Config:   testConfig(),
		Log:      zap.NewNop(),
		GameData: fakeGameData{},
		DB:       db,
		World:    worldCh,
	})
	c.player = &Player{
		ContentID: 1,
		ActorID:   0x10000001,
		Name:      "Tester",
		ClassJob:  1,
		Levels:    map[uint8]uint16{1: 10},
		Exp:       map[uint8]uint32{},
		HP:        100,
		MaxHP:     100,
		MP:        100,
		MaxMP:     100,
		ZoneID:    182,
		Inventory: inventory.New(),
		Unlocks:   common.NewBitmask(unlockBitmaskBytes),
	}
	c.setPhase(PhaseZoneActive)
	return c, db, worldCh
}

// drainSent decodes every queued outbound IPC payload.
func drainSent(t *testing.T, c *Connection) []ipc.ServerZonePayload {
	t.Helper()
	var out []ipc.ServerZonePayload
	for {
		select {
		case segments := <-c.sendQ:
			for _, seg := range segments {
				ipcData, ok := seg.Data.(packet.IpcData)
				require.True(t, ok)
				_, p, err := ipc.DecodeServerZone(ipcData.Envelope)
				require.NoError(t, err)
				out = append(out, p)
			}
		default:
			return out
		}
	}
}

func TestItemOperationMoveEmitsSlotUpdates(t *testing.T) {
	c, _, _ := newTestConnection(t)
	*c.player.Inventory.Container(inventory.ContainerInventory0).GetSlotMut(3) =
		inventory.Item{ID: 4551, Quantity: 1, StackSize: 1}

	c.handleItemOperation(&ipc.ItemOperation{
		ContextID: 0x10000000,
		Op:        inventory.OperationMove,
		Src:       ipc.ItemOperationTarget{Container: inventory.ContainerInventory0, Index: 3},
		Dst:       ipc.ItemOperationTarget{Container: inventory.ContainerArmoryBody, Index: 0},
	})

	sent := drainSent(t, c)
	// Two slot updates, each delimited by a start and a finish ContainerInfo.
	var items []*ipc.ItemInfo
	var delims []*ipc.ContainerInfo
	for _, p := range sent {
		switch v := p.(type) {
		case *ipc.ItemInfo:
			items = append(items, v)
		case *ipc.ContainerInfo:
			delims = append(delims, v)
		}
	}
	require.Len(t, items, 2)
	require.Len(t, delims, 4)
	assert.Equal(t, uint32(0), items[0].Quantity, "source slot emptied")
	assert.Equal(t, uint32(4551), items[1].CatalogID, "destination slot filled")
	assert.Equal(t, uint32(0x10000000), items[0].Context)

	assert.True(t, c.player.Inventory.Container(inventory.ContainerInventory0).GetSlot(3).IsEmpty())
}

func TestItemOperationInvalidMoveNacks(t *testing.T) {
	c, _, _ := newTestConnection(t)

	c.handleItemOperation(&ipc.ItemOperation{
		Op:  inventory.OperationMove,
		Src: ipc.ItemOperationTarget{Container: inventory.ContainerInventory0, Index: 0}, // empty
		Dst: ipc.ItemOperationTarget{Container: inventory.ContainerInventory0, Index: 1},
	})

	sent := drainSent(t, c)
	require.Len(t, sent, 1)
	_, isNack := sent[0].(*ipc.ZoneNackReply)
	assert.True(t, isNack)
}

func TestDiscardFeedsBuyBack(t *testing.T) {
	c, _, _ := newTestConnection(t)
	*c.player.Inventory.Container(inventory.ContainerInventory0).GetSlotMut(0) =
		inventory.Item{ID: 5333, Quantity: 12, StackSize: 99}

	c.handleItemOperation(&ipc.ItemOperation{
		Op:  inventory.OperationDiscard,
		Src: ipc.ItemOperationTarget{Container: inventory.ContainerInventory0, Index: 0},
	})

	require.Len(t, c.player.BuyBack, 1)
	assert.Equal(t, uint32(5333), c.player.BuyBack[0].ID)
	assert.True(t, c.player.Inventory.Container(inventory.ContainerInventory0).GetSlot(0).IsEmpty())
}

func TestChatRoutesThroughWorld(t *testing.T) {
	c, _, worldCh := newTestConnection(t)
	c.player.Position = common.Position{X: 7}

	c.handleChat(&ipc.SendChatMessage{Channel: ipc.ChannelSay, Message: "hello there"})

	msg := (<-worldCh).(world.Message)
	assert.Equal(t, ipc.ChannelSay, msg.Channel)
	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, "Tester", msg.SenderName)
	assert.Equal(t, float32(7), msg.Position.X)
}

func TestEmptyChatDropped(t *testing.T) {
	c, _, worldCh := newTestConnection(t)
	c.handleChat(&ipc.SendChatMessage{Channel: ipc.ChannelSay, Message: ""})
	select {
	case <-worldCh:
		t.Fatal("empty chat must not be routed")
	default:
	}
}

func TestTeleportSameZoneDeductsGilAndSnaps(t *testing.T) {
	c, _, worldCh := newTestConnection(t)
	c.player.Inventory.SetGil(1000)

	c.handleClientTrigger(&ipc.ClientTrigger{Trigger: ipc.TriggerTeleportQuery, Arg1: 8})

	assert.Equal(t, uint32(930), c.player.Inventory.Gil().Quantity)
	assert.Equal(t, PhaseZoneActive, c.Phase())
	assert.InDelta(t, 40.5, c.player.Position.X, 0.001)

	sent := drainSent(t, c)
	var sawSetPos bool
	for _, p := range sent {
		if _, ok := p.(*ipc.ActorSetPos); ok {
			sawSetPos = true
		}
	}
	assert.True(t, sawSetPos)

	// The world hears about the move.
	var sawMove bool
	for len(worldCh) > 0 {
		if _, ok := (<-worldCh).(world.ActorMoved); ok {
			sawMove = true
		}
	}
	assert.True(t, sawMove)
}

func TestTeleportWithoutGilRefused(t *testing.T) {
	c, _, _ := newTestConnection(t)
	c.player.Inventory.SetGil(10)

	c.handleClientTrigger(&ipc.ClientTrigger{Trigger: ipc.TriggerTeleportQuery, Arg1: 8})

	assert.Equal(t, uint32(10), c.player.Inventory.Gil().Quantity)
	assert.Equal(t, PhaseZoneActive, c.Phase())

	sent := drainSent(t, c)
	require.NotEmpty(t, sent)
	_, isNack := sent[0].(*ipc.ZoneNackReply)
	assert.True(t, isNack)
}

func TestActionInWrongPhaseNacks(t *testing.T) {
	c, _, _ := newTestConnection(t)
	c.setPhase(PhaseZoneEntering)

	c.dispatch(&ipc.ActionRequest{ActionID: 9})

	sent := drainSent(t, c)
	require.Len(t, sent, 1)
	_, isNack := sent[0].(*ipc.ZoneNackReply)
	assert.True(t, isNack, "actions before ZoneActive draw a nack, not a disconnect")
}

func TestPlayerRowRoundTrip(t *testing.T) {
	p := &Player{
		ContentID: 77,
		ActorID:   0x10000002,
		AccountID: 1,
		Name:      "Round Tripper",
		ClassJob:  3,
		Levels:    map[uint8]uint16{3: 42},
		Exp:       map[uint8]uint32{3: 1234},
		HP:        950,
		MaxHP:     950,
		MP:        100,
		MaxMP:     100,
		ZoneID:    182,
		Position:  common.Position{X: 1, Y: 2, Z: 3},
		Rotation:  1.5,
		Inventory: inventory.New(),
		Unlocks:   common.NewBitmask(unlockBitmaskBytes),
	}
	p.Inventory.SetGil(5000)
	*p.Inventory.Container(inventory.ContainerInventory0).GetSlotMut(4) =
		inventory.Item{ID: 5333, Quantity: 7, StackSize: 99}
	p.Unlocks.Set(17)
	p.Quests = []ipc.ActiveQuest{{ID: 9, Sequence: 2}}

	row := p.toRow()
	loaded, err := loadPlayer(row)
	require.NoError(t, err)

	assert.Equal(t, p.Name, loaded.Name)
	assert.Equal(t, p.ClassJob, loaded.ClassJob)
	assert.Equal(t, uint16(42), loaded.Levels[3])
	assert.Equal(t, uint32(5000), loaded.Inventory.Gil().Quantity)
	got := loaded.Inventory.Container(inventory.ContainerInventory0).GetSlot(4)
	assert.Equal(t, uint32(5333), got.ID)
	assert.Equal(t, uint32(7), got.Quantity)
	assert.True(t, loaded.Unlocks.Contains(17))
	require.Len(t, loaded.Quests, 1)
	assert.Equal(t, uint16(9), loaded.Quests[0].ID)
	assert.Equal(t, p.Position, loaded.Position)
}

func TestSpawnPayloadReflectsState(t *testing.T) {
	c, _, _ := newTestConnection(t)
	c.player.Effects.Add(50, 0, 30, c.player.ActorID)

	spawn := c.player.spawnPayload()
	assert.Equal(t, "Tester", spawn.Common.Name)
	assert.Equal(t, uint32(100), spawn.Common.HPCurr)
	assert.Equal(t, uint8(10), spawn.Common.Level)
	assert.Equal(t, uint16(50), spawn.Common.Effects[0].EffectID)
	assert.Equal(t, ipc.CharacterModeNormal, spawn.Common.Mode)
}
