package zone

import (
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/world"
)

// handleClientTrigger routes the small enumerated client events.
func (c *Connection) handleClientTrigger(p *ipc.ClientTrigger) {
	switch p.Trigger {
	case ipc.TriggerTeleportQuery:
		c.handleTeleportQuery(p.Arg1)
	case ipc.TriggerChangePose:
		// Poses replicate to observers verbatim.
		c.deps.World <- world.BroadcastControl{FromID: c.id, ActorID: c.actorID(), Data: ipc.ActorControl{
			Category: ipc.ActorControlCategory(0x12F),
			Param1:   p.Arg1,
			Param2:   p.Arg2,
		}}
	case ipc.TriggerEmote:
		c.deps.World <- world.BroadcastControl{FromID: c.id, ActorID: c.actorID(), Data: ipc.ActorControl{
			Category: ipc.ActorControlCategory(0x1F4),
			Param1:   p.Arg1,
			Param2:   p.Arg2,
		}}
	case ipc.TriggerFinishZoning:
		if c.Phase() == PhaseTeleporting {
			c.setPhase(PhaseZoneActive)
		}
	default:
		c.log.Debug("未處理的 client trigger", zap.Uint32("trigger", uint32(p.Trigger)))
	}
}

// handleTeleportQuery records the pending aetheryte and starts the teleport
// once the cost clears.
func (c *Connection) handleTeleportQuery(aetheryteID uint32) {
	anchor, ok := c.deps.GameData.Aetheryte(aetheryteID)
	if !ok {
		c.nack(10, "unknown aetheryte")
		return
	}
	c.player.TeleportQuery = aetheryteID
	c.setPhase(PhaseTeleporting)

	// Deduct the gil cost; insufficient funds cancel the teleport.
	gil := c.player.Inventory.Gil()
	if gil.Quantity < anchor.Cost {
		c.nack(11, "not enough gil")
		c.setPhase(PhaseZoneActive)
		c.player.TeleportQuery = 0
		return
	}
	c.player.Inventory.SetGil(gil.Quantity - anchor.Cost)
	c.sendIpc(&ipc.CurrencyInfo{
		Container: inventory.ContainerCurrency,
		Quantity:  c.player.Inventory.Gil().Quantity,
		CatalogID: 1,
	})

	c.sendIpc(&ipc.ActorControlSelf{Category: ipc.ActorControlTeleportStart, Param1: aetheryteID})

	if anchor.ZoneID == c.player.ZoneID {
		// Same zone: a positional snap is enough.
		c.player.Position = anchor.Position()
		c.player.Rotation = anchor.Rotation
		c.sendIpc(&ipc.ActorSetPos{
			Rotation: anchor.Rotation,
			Position: anchor.Position(),
		})
		c.deps.World <- world.ActorMoved{
			FromID:   c.id,
			ActorID:  c.actorID(),
			Position: anchor.Position(),
			Rotation: anchor.Rotation,
		}
		c.setPhase(PhaseZoneActive)
		c.player.TeleportQuery = 0
		return
	}

	// Cross-zone: leave the instance and replay zone entry.
	c.sendIpc(&ipc.PrepareZoning{TargetZone: anchor.ZoneID, FadeOut: 1, FadeOutTime: 1})
	c.deps.World <- world.ChangeTerritory{ID: c.id, ZoneID: anchor.ZoneID, Position: anchor.Position()}

	c.player.ZoneID = anchor.ZoneID
	c.player.Position = anchor.Position()
	c.player.Rotation = anchor.Rotation
	c.player.TeleportQuery = 0
	c.flushPlayer()

	c.setPhase(PhaseZoneEntering)
	c.enterZone(entryTeleport)
}

// handleChat normalizes and routes one chat line through the world.
func (c *Connection) handleChat(p *ipc.SendChatMessage) {
	text := norm.NFC.String(p.Message)
	if text == "" {
		return
	}
	c.deps.World <- world.Message{
		FromID:     c.id,
		FromActor:  c.actorID(),
		ZoneID:     c.player.ZoneID,
		Position:   c.player.Position,
		Channel:    p.Channel,
		SenderName: c.player.Name,
		Text:       text,
	}
}

// handleUpdatePosition applies the client's positional report and fans it
// out through the world.
func (c *Connection) handleUpdatePosition(p *ipc.UpdatePosition) {
	c.player.Position = p.Position
	c.player.Rotation = p.Rotation
	c.deps.World <- world.ActorMoved{
		FromID:   c.id,
		ActorID:  c.actorID(),
		Position: p.Position,
		Rotation: p.Rotation,
	}
}

// handleLogOut flushes state and winds the session down.
func (c *Connection) handleLogOut() {
	c.setPhase(PhaseLogout)
	c.sendIpc(&ipc.PrepareZoning{FadeOut: 1, FadeOutTime: 1})
	c.sendIpc(&ipc.ActorControlSelf{Category: ipc.ActorControlLogOut})
	if c.player != nil {
		c.flushPlayer()
	}
	c.Close()
}
