package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// GlobalScope is the reserved scope for scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no VM exists for the requested scope.
const GlobalScope = "__global__"

type vm struct {
	L      *lua.LState
	cancel func()
	limit  int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
// Scopes are named after room templates; rooms carved without a template use
// the global scope.
//
// Manager is safe for concurrent use. Calls into one scope are serialized.
type Manager struct {
	mu     sync.Mutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// Load creates a sandboxed VM for scope, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope VM replaces any previous one; returns error on Lua
// load failure.
func (m *Manager) Load(scope, scriptDir string, instLimit int) error {
	if scope == "" {
		return fmt.Errorf("scripting: scope must not be empty")
	}
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal creates the global VM used as the CallHook fallback.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

// LoadTree loads root's own *.lua files as the global scope and every
// immediate subdirectory as a scope named after it.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns the scopes loaded, global first, then subdirectories
// in lexicographic order.
func (m *Manager) LoadTree(root string, instLimit int) ([]string, error) {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return nil, err
	}
	scopes := []string{GlobalScope}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.Load(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
			return nil, err
		}
		scopes = append(scopes, e.Name())
	}
	return scopes, nil
}

// LoadString creates a VM for scope from a single chunk of Lua source.
//
// Postcondition: the scope VM replaces any previous one; returns error on Lua
// load failure.
func (m *Manager) LoadString(scope, src string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	if err := L.DoString(src); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading source for %q: %w", scope, err)
	}
	m.install(scope, &vm{L: L, cancel: cancel, limit: instLimit})
	return nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel()
		cancel = rearm(L, instLimit)
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.install(key, &vm{L: L, cancel: cancel, limit: instLimit})
	return nil
}

func (m *Manager) install(key string, v *vm) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[key]; ok {
		old.cancel()
		old.L.Close()
	}
	m.states[key] = v
}

// HasHook reports whether hook is defined in scope or the global fallback.
func (m *Manager) HasHook(scope, hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.lookup(scope)
	return v != nil && v.L.GetGlobal(hook) != lua.LNil
}

func (m *Manager) lookup(scope string) *vm {
	if v, ok := m.states[scope]; ok {
		return v
	}
	return m.states[GlobalScope]
}

// CallHook calls the named Lua global function in scope's VM. If the scope has
// no VM, the global VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
// Every call starts with a full instruction budget.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.lookup(scope)
	if v == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	v.cancel()
	v.cancel = rearm(v.L, v.limit)

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM. Later CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.states {
		v.cancel()
		v.L.Close()
		delete(m.states, key)
	}
}
