package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for event scripts. The VM is shared
// across zone connections and guarded by a mutex; a hook call runs to
// completion before the lock is released. Scripts must not block on
// channels — doing so is a script bug.
type Engine struct {
	mu         sync.Mutex
	vm         *lua.LState
	log        *zap.Logger
	scriptsDir string

	// events maps an event id to its hook table (the value returned by the
	// event's script chunk).
	events map[uint32]*lua.LTable
}

// NewEngine creates a Lua engine and loads the core scripts from the given
// directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := &Engine{log: log, scriptsDir: scriptsDir}
	if err := e.boot(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) boot() error {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e.vm = vm
	e.events = make(map[uint32]*lua.LTable)

	if err := e.loadDir(filepath.Join(e.scriptsDir, "core")); err != nil {
		vm.Close()
		return fmt.Errorf("load core scripts: %w", err)
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadEvent binds an event id to its script file (relative to the scripts
// directory). The chunk must return a table of hook functions. A missing or
// broken script is logged and the event simply has no hooks.
func (e *Engine) LoadEvent(eventID uint32, relPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadEventLocked(eventID, relPath)
}

func (e *Engine) loadEventLocked(eventID uint32, relPath string) {
	path := filepath.Join(e.scriptsDir, relPath)
	top := e.vm.GetTop()
	if err := e.vm.DoFile(path); err != nil {
		e.log.Warn("事件腳本載入失敗", zap.Uint32("event", eventID), zap.Error(err))
		return
	}
	ret := lua.LValue(lua.LNil)
	if e.vm.GetTop() > top {
		ret = e.vm.Get(-1)
		e.vm.SetTop(top)
	}
	hooks, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Warn("事件腳本未回傳 hook 表", zap.Uint32("event", eventID), zap.String("file", path))
		return
	}
	hooks.RawSetString("EVENT_ID", lua.LNumber(eventID))
	e.events[eventID] = hooks
}

// HasEvent reports whether hooks are loaded for the event.
func (e *Engine) HasEvent(eventID uint32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.events[eventID]
	return ok
}

// Reload tears the VM down and boots a fresh one, re-binding every known
// event script.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.events
	e.vm.Close()
	if err := e.boot(); err != nil {
		return err
	}
	for id := range old {
		// Event paths follow the id-derived convention, see EventScriptPath.
		e.loadEventLocked(id, EventScriptPath(id))
	}
	return nil
}

// EventScriptPath maps an event id to its conventional script location.
func EventScriptPath(eventID uint32) string {
	return filepath.Join("events", fmt.Sprintf("%d.lua", eventID))
}

// call invokes one hook function with args, logging instead of propagating
// failures. The caller holds the mutex.
func (e *Engine) call(eventID uint32, hook string, args ...lua.LValue) {
	hooks, ok := e.events[eventID]
	if !ok {
		return
	}
	fn := hooks.RawGetString(hook)
	if fn == lua.LNil {
		return
	}
	// Scripts address themselves through the EVENT_ID global; rebind it for
	// the duration of the call since the VM is shared across events.
	e.vm.SetGlobal("EVENT_ID", lua.LNumber(eventID))
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		e.log.Warn("事件腳本執行錯誤",
			zap.Uint32("event", eventID),
			zap.String("hook", hook),
			zap.Error(err),
		)
	}
}

// OnEnterTerritory fires when the player finishes loading into a zone.
func (e *Engine) OnEnterTerritory(eventID uint32, player *LuaPlayer, zone *LuaZone) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.call(eventID, "onEnterTerritory", player.toLua(e.vm), zone.toLua(e.vm))
}

// OnTalk fires when the player talks to an NPC or interacts with an object.
func (e *Engine) OnTalk(eventID uint32, target uint64, player *LuaPlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.call(eventID, "onTalk", lua.LNumber(target), player.toLua(e.vm))
}

// OnReturn fires when the client reports a scene's return values.
func (e *Engine) OnReturn(eventID uint32, scene uint16, results []uint32, player *LuaPlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.call(eventID, "onReturn", lua.LNumber(scene), resultsTable(e.vm, results), player.toLua(e.vm))
}

// OnYield fires when a running scene yields back to the server.
func (e *Engine) OnYield(eventID uint32, scene uint16, yieldID uint8, results []uint32, player *LuaPlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.call(eventID, "onYield",
		lua.LNumber(scene), lua.LNumber(yieldID), resultsTable(e.vm, results), player.toLua(e.vm))
}

// OnSceneFinished fires when the client finishes a scene without results.
func (e *Engine) OnSceneFinished(eventID uint32, scene uint16, player *LuaPlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.call(eventID, "onSceneFinished", player.toLua(e.vm), lua.LNumber(scene))
}

func resultsTable(vm *lua.LState, results []uint32) *lua.LTable {
	t := vm.NewTable()
	for i, v := range results {
		t.RawSetInt(i+1, lua.LNumber(v))
	}
	return t
}

// Close releases the VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
