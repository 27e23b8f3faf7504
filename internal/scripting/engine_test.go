package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/ipc"
)

func writeScript(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, dir, "core/util.lua", "function clamp(v, lo, hi) return v end\n")
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, dir
}

func TestOnTalkQueuesScene(t *testing.T) {
	e, dir := newTestEngine(t)
	writeScript(t, dir, "events/100.lua", `
return {
  onTalk = function(target, player)
    player:play_scene(EVENT_ID, 0, 0, {7, 11})
  end,
}
`)
	e.LoadEvent(100, "events/100.lua")
	require.True(t, e.HasEvent(100))

	lp := &LuaPlayer{ActorID: 0x1000, Name: "Tester"}
	e.OnTalk(100, 0x2000, lp)

	require.True(t, lp.PlayedScene)
	queued := lp.Drain()
	require.Len(t, queued, 1)
	scene, ok := queued[0].(*ipc.EventScene)
	require.True(t, ok)
	assert.Equal(t, uint32(100), scene.EventID)
	assert.Equal(t, uint8(2), scene.ParamCount)
	assert.Equal(t, 2, scene.Bracket())
}

func TestOnReturnFinishesEvent(t *testing.T) {
	e, dir := newTestEngine(t)
	writeScript(t, dir, "events/101.lua", `
return {
  onReturn = function(scene, results, player)
    player:send_message("scene " .. scene .. " done, got " .. #results .. " results")
    player:finish_event(EVENT_ID)
  end,
}
`)
	e.LoadEvent(101, "events/101.lua")

	lp := &LuaPlayer{}
	e.OnReturn(101, 3, []uint32{1, 2, 3}, lp)

	assert.Equal(t, []uint32{101}, lp.FinishedEvents)
	queued := lp.Drain()
	require.Len(t, queued, 2)
	msg := queued[0].(*ipc.ServerChatMessage)
	assert.Equal(t, "scene 3 done, got 3 results", msg.Message)
	_, isFinish := queued[1].(*ipc.EventFinish)
	assert.True(t, isFinish)
}

func TestScriptEffectsAndWarp(t *testing.T) {
	e, dir := newTestEngine(t)
	writeScript(t, dir, "events/102.lua", `
return {
  onTalk = function(target, player)
    player:give_status_effect(50, 0, 30.0)
    player:change_territory(132, 1.0, 2.0, 3.0)
  end,
}
`)
	e.LoadEvent(102, "events/102.lua")

	lp := &LuaPlayer{}
	e.OnTalk(102, 0, lp)

	require.Len(t, lp.GainedEffects, 1)
	assert.Equal(t, uint16(50), lp.GainedEffects[0].EffectID)
	assert.Equal(t, float32(30.0), lp.GainedEffects[0].Duration)

	require.NotNil(t, lp.Warp)
	assert.Equal(t, uint16(132), lp.Warp.ZoneID)
	assert.Equal(t, float32(2.0), lp.Warp.Position.Y)
}

func TestBrokenScriptIsLoggedNotFatal(t *testing.T) {
	e, dir := newTestEngine(t)
	writeScript(t, dir, "events/103.lua", `
return {
  onTalk = function(target, player)
    error("script bug")
  end,
}
`)
	e.LoadEvent(103, "events/103.lua")

	lp := &LuaPlayer{}
	e.OnTalk(103, 0, lp) // must not panic or propagate
	assert.Empty(t, lp.Drain())
}

func TestMissingScriptHasNoHooks(t *testing.T) {
	e, _ := newTestEngine(t)
	e.LoadEvent(999, "events/999.lua")
	assert.False(t, e.HasEvent(999))

	// Calling hooks on an unloaded event is a no-op.
	lp := &LuaPlayer{}
	e.OnTalk(999, 0, lp)
	assert.Empty(t, lp.Drain())
}

func TestCalcActionEffectsFallback(t *testing.T) {
	e, _ := newTestEngine(t)
	effects := e.CalcActionEffects(ActionContext{ActionID: 9, CasterLevel: 10})
	require.Len(t, effects, 1)
	assert.NotZero(t, effects[0].Value)
}

func TestCalcActionEffectsScripted(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core/combat.lua", `
function calc_action_effects(ctx)
  return {
    { type = 3, value = 100 + ctx.caster_level, flags = 0, multiplier = 1 },
    { type = 27, value = 5 },
  }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	effects := e.CalcActionEffects(ActionContext{CasterLevel: 10})
	require.Len(t, effects, 2)
	assert.Equal(t, uint16(110), effects[0].Value)
	assert.Equal(t, uint8(27), effects[1].Type)
}

func TestReloadKeepsEventBindings(t *testing.T) {
	e, dir := newTestEngine(t)
	writeScript(t, dir, "events/200.lua", `
return { onTalk = function(target, player) player:send_message("v1") end }
`)
	e.LoadEvent(200, "events/200.lua")
	require.True(t, e.HasEvent(200))

	require.NoError(t, e.Reload())
	assert.True(t, e.HasEvent(200))

	lp := &LuaPlayer{}
	e.OnTalk(200, 0, lp)
	require.Len(t, lp.Drain(), 1)
}