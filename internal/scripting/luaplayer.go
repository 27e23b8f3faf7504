package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
)

// LuaPlayer is the mutable facade scripts act on. Hook calls queue outbound
// payloads here; the zone connection drains the queue after each hook
// returns and sends everything in order.
type LuaPlayer struct {
	ActorID common.ObjectId
	Name    string

	// Queued holds the payloads a hook produced, in emission order.
	Queued []ipc.ServerZonePayload

	// Effects added by scripts: applied by the connection to the player's
	// status table after the hook returns.
	GainedEffects []GainedEffect
	// FinishedEvents lists event ids the script closed.
	FinishedEvents []uint32
	// PlayedScene is set when the hook queued at least one scene, keeping
	// the event open for the client's next return.
	PlayedScene bool
	// Warp is set when the script moved the player.
	Warp *ScriptWarp
}

// GainedEffect is one scripted status-effect application.
type GainedEffect struct {
	EffectID uint16
	Param    uint16
	Duration float32
}

// ScriptWarp is a scripted position change.
type ScriptWarp struct {
	ZoneID   uint16
	Position common.Position
	Rotation float32
}

func (p *LuaPlayer) queue(payload ipc.ServerZonePayload) {
	p.Queued = append(p.Queued, payload)
}

// toLua builds the table of methods exposed to scripts. A fresh table per
// call keeps the VM free of dangling pointers into finished hooks.
func (p *LuaPlayer) toLua(vm *lua.LState) *lua.LTable {
	t := vm.NewTable()
	t.RawSetString("actor_id", lua.LNumber(p.ActorID))
	t.RawSetString("name", lua.LString(p.Name))

	t.RawSetString("send_message", vm.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(2)
		p.queue(&ipc.ServerChatMessage{Message: msg})
		return 0
	}))

	t.RawSetString("play_scene", vm.NewFunction(func(L *lua.LState) int {
		eventID := uint32(L.CheckNumber(2))
		sceneNum := uint16(L.CheckNumber(3))
		flags := uint32(L.CheckNumber(4))
		params := numbersFrom(L.OptTable(5, L.NewTable()))

		scene, ok := ipc.PackageScene(
			common.ObjectTypeId{ObjectId: p.ActorID},
			eventID, sceneNum, flags, params,
		)
		if !ok {
			L.RaiseError("play_scene: %d params exceed the 255 cap", len(params))
			return 0
		}
		p.queue(scene)
		p.PlayedScene = true
		return 0
	}))

	t.RawSetString("finish_event", vm.NewFunction(func(L *lua.LState) int {
		eventID := uint32(L.CheckNumber(2))
		p.queue(&ipc.EventFinish{EventID: eventID, Unk1: 1})
		p.FinishedEvents = append(p.FinishedEvents, eventID)
		return 0
	}))

	t.RawSetString("give_status_effect", vm.NewFunction(func(L *lua.LState) int {
		p.GainedEffects = append(p.GainedEffects, GainedEffect{
			EffectID: uint16(L.CheckNumber(2)),
			Param:    uint16(L.OptNumber(3, 0)),
			Duration: float32(L.OptNumber(4, 0)),
		})
		return 0
	}))

	t.RawSetString("set_position", vm.NewFunction(func(L *lua.LState) int {
		p.Warp = &ScriptWarp{
			Position: common.Position{
				X: float32(L.CheckNumber(2)),
				Y: float32(L.CheckNumber(3)),
				Z: float32(L.CheckNumber(4)),
			},
			Rotation: float32(L.OptNumber(5, 0)),
		}
		return 0
	}))

	t.RawSetString("change_territory", vm.NewFunction(func(L *lua.LState) int {
		p.Warp = &ScriptWarp{
			ZoneID: uint16(L.CheckNumber(2)),
			Position: common.Position{
				X: float32(L.OptNumber(3, 0)),
				Y: float32(L.OptNumber(4, 0)),
				Z: float32(L.OptNumber(5, 0)),
			},
		}
		return 0
	}))

	return t
}

func numbersFrom(t *lua.LTable) []uint32 {
	var out []uint32
	t.ForEach(func(_, v lua.LValue) {
		if n, ok := v.(lua.LNumber); ok {
			out = append(out, uint32(n))
		}
	})
	return out
}

// Drain returns and clears the queued payloads.
func (p *LuaPlayer) Drain() []ipc.ServerZonePayload {
	out := p.Queued
	p.Queued = nil
	return out
}

// LuaZone is the immutable zone facade handed to hooks.
type LuaZone struct {
	ID        uint16
	Name      string
	WeatherID uint16
}

func (z *LuaZone) toLua(vm *lua.LState) *lua.LTable {
	t := vm.NewTable()
	t.RawSetString("id", lua.LNumber(z.ID))
	t.RawSetString("name", lua.LString(z.Name))
	t.RawSetString("weather_id", lua.LNumber(z.WeatherID))
	return t
}
