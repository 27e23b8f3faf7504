package zone

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/scripting"
	"github.com/xivgo/server/internal/world"
)

// handleActionRequest validates the target, runs the scripted effect
// builder and reports the result with up to eight effect slots.
func (c *Connection) handleActionRequest(p *ipc.ActionRequest) {
	target := common.ObjectId(uint32(p.Target))

	// The world validates the target against the instance; a dangling id
	// comes back as a cooldown-reset instead of an ActionResult.
	c.deps.World <- world.ActionRequest{
		FromID:    c.id,
		ActorID:   c.actorID(),
		Target:    target,
		ActionID:  p.ActionID,
		RequestID: p.RequestID,
	}

	effects := c.deps.Engine.CalcActionEffects(scripting.ActionContext{
		ActionID:    p.ActionID,
		CasterLevel: int(c.player.level()),
	})

	result := &ipc.ActionResult{
		MainTarget:     p.Target,
		ActionID:       p.ActionID,
		GlobalSequence: uint32(p.RequestID),
		AnimationLock:  0.6,
		ActionAnimID:   uint16(p.ActionID),
		EffectCount:    uint8(len(effects)),
		TargetID:       p.Target,
	}
	for i, e := range effects {
		if i >= ipc.MaxActionEffects {
			break
		}
		result.Effects[i] = e
	}
	c.sendIpc(result)
}
