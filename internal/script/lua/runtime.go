package lua

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	lua "github.com/yuin/gopher-lua"
)

// scriptKind tells spell definitions from aura definitions.
type scriptKind uint8

const (
	spellKind scriptKind = iota
	auraKind
)

func (k scriptKind) String() string {
	if k == auraKind {
		return "aura"
	}
	return "spell"
}

// definition is one spell_script or aura_script call.
type definition struct {
	name string
	kind scriptKind
	file string

	register *lua.LFunction
	load     *lua.LFunction
	unload   *lua.LFunction
	validate *lua.LFunction
}

// Runtime owns the Lua state that script files run in and the
// definitions they made. It is not safe for concurrent use.
type Runtime struct {
	state *State
	log   *logging.Logger

	defs []*definition
	seen map[string]string
	file string
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	log     *logging.Logger
	timeout time.Duration
}

// WithLogger sets the logger used by print and s:log.
func WithLogger(log *logging.Logger) Option {
	return func(c *runtimeConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCallTimeout bounds each call into Lua.
func WithCallTimeout(d time.Duration) Option {
	return func(c *runtimeConfig) {
		c.timeout = d
	}
}

// NewRuntime creates a runtime with the script API installed.
func NewRuntime(opts ...Option) *Runtime {
	cfg := runtimeConfig{log: logging.NewNull(), timeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	rt := &Runtime{
		state: NewState(WithStateCallTimeout(cfg.timeout)),
		log:   cfg.log.WithComponent("lua"),
		seen:  make(map[string]string),
	}
	L := rt.state.L
	installPrint(L, rt.log)
	installConstants(L)
	registerSpellType(L)
	registerAuraType(L)
	L.SetGlobal("spell_script", L.NewFunction(rt.define(spellKind)))
	L.SetGlobal("aura_script", L.NewFunction(rt.define(auraKind)))
	return rt
}

// installConstants exposes effect indexes, handle modes, remove modes and
// cast results as globals.
func installConstants(L *lua.LState) {
	L.SetGlobal("EFFECT_ALL", lua.LNumber(hook.EffectAll))
	L.SetGlobal("EFFECT_FIRST_FOUND", lua.LNumber(hook.EffectFirstFound))

	modes := L.NewTable()
	modes.RawSetString("default", lua.LNumber(combat.ModeDefault))
	modes.RawSetString("real", lua.LNumber(combat.ModeReal))
	modes.RawSetString("send_for_client", lua.LNumber(combat.ModeSendForClient))
	modes.RawSetString("change_amount", lua.LNumber(combat.ModeChangeAmount))
	modes.RawSetString("reapply", lua.LNumber(combat.ModeReapply))
	modes.RawSetString("stat", lua.LNumber(combat.ModeStat))
	L.SetGlobal("MODE", modes)

	removes := L.NewTable()
	for m := combat.RemoveNone; m <= combat.RemoveByDeath; m++ {
		removes.RawSetString(strings.ReplaceAll(m.String(), "-", "_"), lua.LNumber(m))
	}
	L.SetGlobal("REMOVE", removes)

	L.SetGlobal("CAST_OK", lua.LNumber(combat.CastOK))
	L.SetGlobal("CAST_FAILED", lua.LNumber(combat.CastFailedUnknown))
	L.SetGlobal("CAST_FAILED_BAD_TARGETS", lua.LNumber(combat.CastFailedBadTargets))
	L.SetGlobal("CAST_FAILED_NO_POWER", lua.LNumber(combat.CastFailedNoPower))
	L.SetGlobal("CAST_FAILED_NOT_READY", lua.LNumber(combat.CastFailedNotReady))
	L.SetGlobal("CAST_FAILED_OUT_OF_RANGE", lua.LNumber(combat.CastFailedOutOfRange))
	L.SetGlobal("CAST_FAILED_CUSTOM_ERROR", lua.LNumber(combat.CastFailedCustomError))
}

func (rt *Runtime) define(kind scriptKind) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		tbl := L.CheckTable(2)
		if name == "" {
			L.ArgError(1, "script name is empty")
		}
		def := &definition{
			name:     name,
			kind:     kind,
			file:     rt.file,
			register: functionField(L, tbl, "register"),
			load:     functionField(L, tbl, "load"),
			unload:   functionField(L, tbl, "unload"),
			validate: functionField(L, tbl, "validate"),
		}
		if def.register == nil {
			L.ArgError(2, "register function required")
		}
		key := kind.String() + ":" + name
		if prev, ok := rt.seen[key]; ok {
			L.RaiseError("%s script %q already defined in %s", kind, name, prev)
		}
		rt.seen[key] = rt.file
		rt.defs = append(rt.defs, def)
		return 0
	}
}

func functionField(L *lua.LState, tbl *lua.LTable, name string) *lua.LFunction {
	v := tbl.RawGetString(name)
	if v == lua.LNil {
		return nil
	}
	fn, ok := v.(*lua.LFunction)
	if !ok {
		L.ArgError(2, name+" must be a function")
	}
	return fn
}

// Exec runs a compiled script file.
func (rt *Runtime) Exec(path string, proto *lua.FunctionProto) error {
	rt.file = path
	defer func() { rt.file = "" }()
	if err := rt.state.Run(proto); err != nil {
		return fmt.Errorf("%s: %w: %w", path, ErrInvalidDefinition, err)
	}
	return nil
}

// ExecString runs source as if it were the file name.
func (rt *Runtime) ExecString(name, source string) error {
	rt.file = name
	defer func() { rt.file = "" }()
	if err := rt.state.DoString(source); err != nil {
		return fmt.Errorf("%s: %w: %w", name, ErrInvalidDefinition, err)
	}
	return nil
}

// Names returns the defined script names in definition order, prefixed by
// their kind.
func (rt *Runtime) Names() []string {
	names := make([]string, 0, len(rt.defs))
	for _, def := range rt.defs {
		names = append(names, def.kind.String()+":"+def.name)
	}
	return names
}

// Bind registers a factory in cat for every definition.
func (rt *Runtime) Bind(cat *catalog.Catalog) error {
	var errs []error
	for _, def := range rt.defs {
		def := def
		var err error
		switch def.kind {
		case spellKind:
			err = cat.RegisterSpellScript(def.name, func() script.SpellScripter { return rt.newSpellScript(def) })
		case auraKind:
			err = cat.RegisterAuraScript(def.name, func() script.AuraScripter { return rt.newAuraScript(def) })
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", def.file, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the Lua state.
func (rt *Runtime) Close() error {
	return rt.state.Close()
}

// call runs fn and panics with the Lua error. Script callbacks run inside
// the dispatcher, which turns the panic into a fault.
func (rt *Runtime) call(def *definition, fn *lua.LFunction, nret int, args ...lua.LValue) []lua.LValue {
	res, err := rt.state.Call(fn, nret, args...)
	if err != nil {
		panic(fmt.Errorf("lua %s script %q: %w", def.kind, def.name, err))
	}
	for len(res) < nret {
		res = append(res, lua.LNil)
	}
	return res
}

// decide runs an optional boolean callback.
func (rt *Runtime) decide(def *definition, fn *lua.LFunction, fallback bool, args ...lua.LValue) bool {
	if fn == nil {
		return fallback
	}
	return truthy(rt.call(def, fn, 1, args...)[0])
}

func (rt *Runtime) userdata(v any, typeName string) *lua.LUserData {
	L := rt.state.L
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(typeName))
	return ud
}
