package zone

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/persist"
	"github.com/xivgo/server/internal/scripting"
	"github.com/xivgo/server/internal/world"
)

// handleGameLogin authenticates the lobby hand-off, loads the character and
// pushes the zone-entry burst.
func (c *Connection) handleGameLogin(p *ipc.ZoneGameLogin) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	row, err := c.deps.DB.GetByContentID(ctx, p.ContentID)
	if err != nil {
		if errors.Is(err, persist.ErrCharacterNotFound) {
			c.nack(100, "unknown character")
		} else {
			c.log.Error("角色載入失敗", zap.Uint64("content_id", p.ContentID), zap.Error(err))
			c.nack(101, "database error")
		}
		c.Close()
		return
	}

	player, err := loadPlayer(row)
	if err != nil {
		c.log.Error("角色資料損壞", zap.Uint64("content_id", p.ContentID), zap.Error(err))
		c.nack(102, "corrupt character data")
		c.Close()
		return
	}
	c.player = player
	c.log = c.log.With(zap.String("character", player.Name))

	// Register with the world before any broadcast can reference us.
	c.deps.World <- world.NewClient{Handle: world.ClientHandle{
		ID:        c.id,
		ActorID:   player.ActorID,
		ContentID: player.ContentID,
		Send:      c.fromWorld,
	}}

	c.setPhase(PhaseZoneEntering)
	c.log.Info("玩家登入", zap.Uint16("zone", player.ZoneID))

	c.enterZone(entryInitialLogin)
}

// zoneEntryFlags selects the InitZone flag set.
type zoneEntryFlags int

const (
	entryInitialLogin zoneEntryFlags = iota
	entryTeleport
)

// enterZone pushes InitZone plus the full state burst for the player's
// current zone.
func (c *Connection) enterZone(kind zoneEntryFlags) {
	p := c.player
	weather, ok := c.deps.GameData.Weather(p.ZoneID)
	if !ok {
		weather = 1
	}

	flags := ipc.InitZoneFlagNone
	if kind == entryInitialLogin {
		flags |= ipc.InitZoneFlagInitialLogin
	}

	c.sendIpc(&ipc.InitZone{
		ServerID:        c.deps.Config.World.ServerID,
		TerritoryType:   p.ZoneID,
		WeatherID:       weather,
		Flags:           flags,
		ObfuscationMode: c.deps.Config.World.ObfuscationMode,
		Position:        p.Position,
	})

	c.sendPlayerStats()
	c.sendFullInventory()
	c.sendQuestLists()
	c.sendStatusEffectList()
	c.sendClassInfo()
}

// handleFinishLoading spawns the player into the instance once the client
// has the zone streamed in.
func (c *Connection) handleFinishLoading() {
	p := c.player

	// The client addresses itself as spawn index 0.
	self := p.spawnPayload()
	self.Common.SpawnIndex = 0
	c.sendIpcTo(&self, p.ActorID, p.ActorID)

	c.sendIpc(&ipc.WeatherChange{WeatherID: c.currentWeather(), TransitionTime: 5.0})

	c.deps.World <- world.ZoneLoaded{ID: c.id, ZoneID: p.ZoneID, Spawn: p.spawnPayload()}
	c.setPhase(PhaseZoneActive)

	// Zone-in animation.
	c.sendIpc(&ipc.ActorControlSelf{Category: ipc.ActorControlZoneIn, Param1: 1})

	c.runEnterTerritoryScript()
}

func (c *Connection) currentWeather() uint16 {
	if w, ok := c.deps.GameData.Weather(c.player.ZoneID); ok {
		return w
	}
	return 1
}

// runEnterTerritoryScript fires the zone's entry hook, if it has one.
func (c *Connection) runEnterTerritoryScript() {
	zoneInfo, ok := c.deps.GameData.Zone(c.player.ZoneID)
	if !ok || zoneInfo.EnterScript == "" {
		return
	}
	eventID := uint32(zoneInfo.ID) | 0x1000_0000
	if !c.deps.Engine.HasEvent(eventID) {
		c.deps.Engine.LoadEvent(eventID, zoneInfo.EnterScript)
	}

	lp := c.luaPlayer()
	c.deps.Engine.OnEnterTerritory(eventID, lp, &scripting.LuaZone{
		ID:        zoneInfo.ID,
		Name:      zoneInfo.Name,
		WeatherID: c.currentWeather(),
	})
	c.applyScriptResults(lp)
}

func (c *Connection) sendPlayerStats() {
	var stats ipc.PlayerStats
	stats.Stats[0] = uint32(c.player.level())
	stats.Stats[1] = c.player.MaxHP
	stats.Stats[2] = c.player.MaxMP
	c.sendIpc(&stats)
}

func (c *Connection) sendClassInfo() {
	p := c.player
	c.sendIpc(&ipc.UpdateClassInfo{
		ClassID:      p.ClassJob,
		CurrentLevel: p.level(),
		ClassLevel:   p.level(),
		SyncedLevel:  p.level(),
		CurrentExp:   p.Exp[p.ClassJob],
	})
}

func (c *Connection) sendQuestLists() {
	var list ipc.QuestActiveList
	for i, q := range c.player.Quests {
		if i >= ipc.MaxActiveQuests {
			break
		}
		list.Quests[i] = q
	}
	c.sendIpc(&list)
}

// sendFullInventory streams every container in canonical order, delimited
// by ContainerInfo pairs.
func (c *Connection) sendFullInventory() {
	const contextID = 0

	c.player.Inventory.Each(func(ct inventory.ContainerType, s *inventory.Storage) {
		c.sendIpc(&ipc.ContainerInfo{
			Context:       contextID,
			NumItems:      uint32(s.NumItems()),
			Container:     uint32(ct),
			StartOrFinish: 0,
		})
		for slot := 0; slot < s.MaxSlots(); slot++ {
			item := s.GetSlot(slot)
			if item.IsEmpty() {
				continue
			}
			if ct == inventory.ContainerCurrency {
				c.sendIpc(&ipc.CurrencyInfo{
					Context:   contextID,
					Container: ct,
					Slot:      uint16(slot),
					Quantity:  item.Quantity,
					CatalogID: item.ID,
				})
				continue
			}
			c.sendIpc(&ipc.ItemInfo{
				Context:   contextID,
				Container: ct,
				Slot:      uint16(slot),
				Quantity:  item.Quantity,
				CatalogID: item.ID,
				Condition: item.Condition,
				GlamourID: item.GlamourID,
			})
		}
		c.sendIpc(&ipc.ContainerInfo{
			Context:       contextID,
			NumItems:      uint32(s.NumItems()),
			Container:     uint32(ct),
			StartOrFinish: 1,
		})
	})
}
