package zone

import (
	"encoding/json"
	"fmt"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/persist"
	"github.com/xivgo/server/internal/world"
)

// Player is the authoritative in-memory state of one logged-in character.
// Owned by its connection goroutine; the world only ever sees snapshots.
type Player struct {
	ContentID uint64
	ActorID   common.ObjectId
	AccountID uint32
	Name      string
	CharaMake string

	ClassJob uint8
	Levels   map[uint8]uint16
	Exp      map[uint8]uint32
	HP       uint32
	MaxHP    uint32
	MP       uint32
	MaxMP    uint32

	ZoneID   uint16
	Position common.Position
	Rotation float32

	Inventory *inventory.Inventory
	Unlocks   common.Bitmask
	Quests    []ipc.ActiveQuest
	Effects   world.StatusEffects

	// BuyBack holds stacks discarded from the inventory, kept for repurchase.
	BuyBack []inventory.Item

	// TeleportQuery buffers the pending aetheryte while the client confirms.
	TeleportQuery uint32
}

const unlockBitmaskBytes = 64

// persistedSlot is the JSON shape of one occupied inventory slot.
type persistedSlot struct {
	Container uint16 `json:"container"`
	Slot      int    `json:"slot"`
	ID        uint32 `json:"id"`
	Quantity  uint32 `json:"quantity"`
	Condition uint16 `json:"condition"`
	GlamourID uint32 `json:"glamour_id,omitempty"`
	StackSize uint32 `json:"stack_size"`
}

// persistedQuest is the JSON shape of one active quest.
type persistedQuest struct {
	ID       uint16 `json:"id"`
	Sequence uint8  `json:"sequence"`
	Flags    uint8  `json:"flags"`
}

// loadPlayer materializes a Player from its persisted row.
func loadPlayer(row persist.CharacterRow) (*Player, error) {
	p := &Player{
		ContentID: row.ContentID,
		ActorID:   common.ObjectId(row.ActorID),
		AccountID: row.ServiceAccountID,
		Name:      row.Name,
		CharaMake: row.CharaMake,
		ClassJob:  row.ClassJob,
		Levels:    row.Levels,
		Exp:       row.Exp,
		HP:        row.HP,
		MaxHP:     maxu32(row.HP, 100),
		MP:        row.MP,
		MaxMP:     maxu32(row.MP, 100),
		ZoneID:    row.ZoneID,
		Position:  common.Position{X: row.PosX, Y: row.PosY, Z: row.PosZ},
		Rotation:  row.Rotation,
		Inventory: inventory.New(),
		Unlocks:   common.NewBitmask(unlockBitmaskBytes),
	}
	if p.Levels == nil {
		p.Levels = map[uint8]uint16{p.ClassJob: 1}
	}
	if p.Exp == nil {
		p.Exp = map[uint8]uint32{}
	}
	copy(p.Unlocks, row.Unlocks)

	if len(row.InventoryJSON) > 0 {
		var slots []persistedSlot
		if err := json.Unmarshal(row.InventoryJSON, &slots); err != nil {
			return nil, fmt.Errorf("character %d inventory: %w", row.ContentID, err)
		}
		for _, s := range slots {
			storage := p.Inventory.Container(inventory.ContainerType(s.Container))
			if storage == nil {
				continue
			}
			slot := storage.GetSlotMut(s.Slot)
			if slot == nil {
				continue
			}
			*slot = inventory.Item{
				ID:        s.ID,
				Quantity:  s.Quantity,
				Condition: s.Condition,
				GlamourID: s.GlamourID,
				StackSize: s.StackSize,
			}
		}
	}
	p.Inventory.SetGil(row.Gil)

	if len(row.QuestsJSON) > 0 {
		var quests []persistedQuest
		if err := json.Unmarshal(row.QuestsJSON, &quests); err != nil {
			return nil, fmt.Errorf("character %d quests: %w", row.ContentID, err)
		}
		for _, q := range quests {
			p.Quests = append(p.Quests, ipc.ActiveQuest{ID: q.ID, Sequence: q.Sequence, Flags: q.Flags})
		}
	}
	return p, nil
}

// toRow flattens the player back into its persisted shape.
func (p *Player) toRow() persist.CharacterRow {
	var slots []persistedSlot
	p.Inventory.Each(func(c inventory.ContainerType, s *inventory.Storage) {
		if c == inventory.ContainerCurrency {
			return // gil is a dedicated column
		}
		for i := 0; i < s.MaxSlots(); i++ {
			item := s.GetSlot(i)
			if item.IsEmpty() {
				continue
			}
			slots = append(slots, persistedSlot{
				Container: uint16(c),
				Slot:      i,
				ID:        item.ID,
				Quantity:  item.Quantity,
				Condition: item.Condition,
				GlamourID: item.GlamourID,
				StackSize: item.StackSize,
			})
		}
	})
	invJSON, _ := json.Marshal(slots)

	var quests []persistedQuest
	for _, q := range p.Quests {
		quests = append(quests, persistedQuest{ID: q.ID, Sequence: q.Sequence, Flags: q.Flags})
	}
	questsJSON, _ := json.Marshal(quests)

	return persist.CharacterRow{
		ContentID:        p.ContentID,
		ActorID:          uint32(p.ActorID),
		ServiceAccountID: p.AccountID,
		Name:             p.Name,
		CharaMake:        p.CharaMake,
		ZoneID:           p.ZoneID,
		PosX:             p.Position.X,
		PosY:             p.Position.Y,
		PosZ:             p.Position.Z,
		Rotation:         p.Rotation,
		ClassJob:         p.ClassJob,
		Levels:           p.Levels,
		Exp:              p.Exp,
		HP:               p.HP,
		MP:               p.MP,
		Gil:              p.Inventory.Gil().Quantity,
		InventoryJSON:    invJSON,
		Unlocks:          p.Unlocks,
		QuestsJSON:       questsJSON,
	}
}

// level returns the current class-job level.
func (p *Player) level() uint16 {
	if lv, ok := p.Levels[p.ClassJob]; ok {
		return lv
	}
	return 1
}

// spawnPayload builds the player's spawn chunk as observers should see it.
func (p *Player) spawnPayload() ipc.PlayerSpawn {
	var spawn ipc.PlayerSpawn
	spawn.AccountID = p.AccountID
	spawn.ContentID = p.ContentID
	c := &spawn.Common
	c.HPMax = p.MaxHP
	c.HPCurr = p.HP
	c.MPMax = uint16(p.MaxMP)
	c.MPCurr = uint16(p.MP)
	c.Level = uint8(p.level())
	c.ClassJob = p.ClassJob
	c.Mode = ipc.CharacterModeNormal
	c.Position = p.Position
	c.Rotation = p.Rotation
	c.Name = p.Name
	for i, e := range p.Effects.Data() {
		if i >= ipc.MaxDisplayedStatusEffects {
			break
		}
		c.Effects[i] = e
	}
	return spawn
}

func maxu32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
