package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/xivgo/server/internal/ipc"
)

// ActionContext is the pre-packed input of one action execution.
type ActionContext struct {
	ActionID    uint32
	CasterLevel int
	TargetHP    int
	TargetLevel int
}

// CalcActionEffects calls the Lua calc_action_effects function and returns
// up to eight effect slots. A missing or failing script yields a single
// plain-damage slot so actions stay functional without scripts.
func (e *Engine) CalcActionEffects(ctx ActionContext) []ipc.ActionEffect {
	e.mu.Lock()
	defer e.mu.Unlock()

	fallback := []ipc.ActionEffect{{Type: 3, Value: 10}}

	fn := e.vm.GetGlobal("calc_action_effects")
	if fn == lua.LNil {
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("action_id", lua.LNumber(ctx.ActionID))
	t.RawSetString("caster_level", lua.LNumber(ctx.CasterLevel))
	t.RawSetString("target_hp", lua.LNumber(ctx.TargetHP))
	t.RawSetString("target_level", lua.LNumber(ctx.TargetLevel))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_action_effects error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_action_effects returned non-table")
		return fallback
	}

	var effects []ipc.ActionEffect
	rt.ForEach(func(_, v lua.LValue) {
		et, ok := v.(*lua.LTable)
		if !ok || len(effects) >= ipc.MaxActionEffects {
			return
		}
		effects = append(effects, ipc.ActionEffect{
			Type:       uint8(lua.LVAsNumber(et.RawGetString("type"))),
			Param0:     uint8(lua.LVAsNumber(et.RawGetString("param0"))),
			Value:      uint16(lua.LVAsNumber(et.RawGetString("value"))),
			Flags:      uint8(lua.LVAsNumber(et.RawGetString("flags"))),
			Multiplier: uint8(lua.LVAsNumber(et.RawGetString("multiplier"))),
		})
	})
	if len(effects) == 0 {
		return fallback
	}
	return effects
}
