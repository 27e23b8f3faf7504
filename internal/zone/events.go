package zone

import (
	"go.uber.org/zap"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/scripting"
	"github.com/xivgo/server/internal/world"
)

// activeEvent tracks the one scripted event a connection may be inside.
type activeEvent struct {
	id     uint32
	target common.ObjectTypeId
}

// luaPlayer builds the script facade for the current player.
func (c *Connection) luaPlayer() *scripting.LuaPlayer {
	return &scripting.LuaPlayer{
		ActorID: c.actorID(),
		Name:    c.player.Name,
	}
}

// applyScriptResults drains everything a hook queued: outbound payloads in
// order, then scripted effects, warps and event completions.
func (c *Connection) applyScriptResults(lp *scripting.LuaPlayer) {
	for _, payload := range lp.Drain() {
		c.sendIpc(payload)
	}

	for _, e := range lp.GainedEffects {
		c.player.Effects.Add(e.EffectID, e.Param, e.Duration, c.actorID())
		c.deps.World <- world.GainEffect{
			FromID:   c.id,
			ActorID:  c.actorID(),
			EffectID: e.EffectID,
			Param:    e.Param,
			Duration: e.Duration,
		}
	}
	if c.player.Effects.IsDirty() {
		c.sendStatusEffectList()
		c.player.Effects.ResetDirty()
	}

	for _, id := range lp.FinishedEvents {
		if c.event != nil && c.event.id == id {
			c.event = nil
		}
	}

	if w := lp.Warp; w != nil {
		if w.ZoneID != 0 && w.ZoneID != c.player.ZoneID {
			c.scriptChangeTerritory(w)
		} else {
			c.player.Position = w.Position
			c.player.Rotation = w.Rotation
			c.sendIpc(&ipc.ActorSetPos{Rotation: w.Rotation, Position: w.Position})
			c.deps.World <- world.ActorMoved{
				FromID:   c.id,
				ActorID:  c.actorID(),
				Position: w.Position,
				Rotation: w.Rotation,
			}
		}
	}
}

func (c *Connection) scriptChangeTerritory(w *scripting.ScriptWarp) {
	c.sendIpc(&ipc.PrepareZoning{TargetZone: w.ZoneID, FadeOut: 1, FadeOutTime: 1})
	c.deps.World <- world.ChangeTerritory{ID: c.id, ZoneID: w.ZoneID, Position: w.Position}
	c.player.ZoneID = w.ZoneID
	c.player.Position = w.Position
	c.flushPlayer()
	c.setPhase(PhaseZoneEntering)
	c.event = nil
	c.enterZone(entryTeleport)
}

// handleStartTalkEvent opens a talk event against an NPC or object and runs
// its onTalk hook.
func (c *Connection) handleStartTalkEvent(p *ipc.StartTalkEvent) {
	if c.event != nil {
		c.log.Debug("事件進行中，忽略新事件", zap.Uint32("event", c.event.id))
		return
	}
	eventID := p.EventID
	if !c.deps.Engine.HasEvent(eventID) {
		c.deps.Engine.LoadEvent(eventID, scripting.EventScriptPath(eventID))
	}
	if !c.deps.Engine.HasEvent(eventID) {
		// Missing script: tell the client the talk went nowhere.
		c.sendIpc(&ipc.EventFinish{EventID: eventID, Unk1: 1})
		c.sendIpc(&ipc.ServerChatMessage{Message: "This NPC has nothing to say."})
		return
	}

	c.event = &activeEvent{id: eventID, target: p.Target}
	c.sendIpc(&ipc.EventStart{
		Target:    p.Target,
		EventID:   eventID,
		EventType: 1,
	})

	lp := c.luaPlayer()
	c.deps.Engine.OnTalk(eventID, uint64(uint32(p.Target.ObjectId)), lp)
	c.applyScriptResults(lp)
}

// handleEventReturn feeds a scene's return values into the script.
func (c *Connection) handleEventReturn(p *ipc.EventReturnHandler) {
	if c.event == nil {
		c.log.Debug("無進行中事件的 EventReturn", zap.Uint32("handler", p.HandlerID))
		return
	}
	results := p.Results[:]
	if int(p.NumResults) < len(results) {
		results = results[:p.NumResults]
	}

	lp := c.luaPlayer()
	if p.Finished != 0 {
		c.deps.Engine.OnSceneFinished(c.event.id, p.Scene, lp)
	}
	c.deps.Engine.OnReturn(c.event.id, p.Scene, results, lp)
	c.applyScriptResults(lp)

	// A script that queued nothing ends the event; the client would
	// otherwise be stuck inside the dialogue state machine.
	if c.event != nil && len(lp.GainedEffects) == 0 && lp.Warp == nil && !c.eventStillRunning(lp) {
		c.sendIpc(&ipc.EventFinish{EventID: c.event.id, Unk1: 1})
		c.event = nil
	}
}

// eventStillRunning reports whether the hook queued another scene.
func (c *Connection) eventStillRunning(lp *scripting.LuaPlayer) bool {
	// Drain was already called; scenes queued by the hook were sent. The
	// event stays open only when the script explicitly played a scene and
	// did not finish the event.
	for _, id := range lp.FinishedEvents {
		if c.event != nil && id == c.event.id {
			return false
		}
	}
	return lp.PlayedScene
}

// handleEventYield feeds a mid-scene yield into the script.
func (c *Connection) handleEventYield(p *ipc.EventYieldHandler) {
	if c.event == nil {
		return
	}
	results := p.Results
	if int(p.NumResults) < len(results) {
		results = results[:p.NumResults]
	}

	lp := c.luaPlayer()
	c.deps.Engine.OnYield(c.event.id, p.Scene, p.YieldID, results, lp)
	c.applyScriptResults(lp)
}
