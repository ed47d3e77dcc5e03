package script

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/script/lifecycle"
	"github.com/dshills/spellhook/internal/spell"
)

// Env is what an instance needs from its surroundings.
type Env struct {
	Log    *logging.Logger
	Spells spell.Lookup
	Faults *FaultReporter
}

// Script is implemented by every spell and aura script. Authors get all
// methods except Register by embedding SpellScript or AuraScript.
type Script interface {
	// Register attaches the script's hooks. It is called once per instance.
	Register()

	// Validate reports whether the script can serve the spell. It is called
	// once at startup on a throwaway instance.
	Validate(info *spell.Info) bool

	// Load is called once the instance is attached to its cast or aura.
	// Returning false discards the instance.
	Load() bool

	// Unload is called once before the instance is discarded.
	Unload()

	scriptBase() *base
}

// base is the state shared by spell and aura scripts.
type base struct {
	name    string
	spellID uint32
	id      uuid.UUID
	env     Env
	log     *logging.Logger
	info    *spell.Info

	machine lifecycle.Machine
	hooks   *hook.Registry
	frames  lifecycle.Stack

	regErr        error
	faults        int
	lastPrevented bool
}

func (b *base) scriptBase() *base { return b }

// Validate accepts every spell.
func (b *base) Validate(*spell.Info) bool { return true }

// Load succeeds.
func (b *base) Load() bool { return true }

// Unload does nothing.
func (b *base) Unload() {}

// Name returns the script name.
func (b *base) Name() string { return b.name }

// ScriptSpellID returns the id of the spell the script is attached to.
func (b *base) ScriptSpellID() uint32 { return b.spellID }

// InstanceID returns the unique id of this instance.
func (b *base) InstanceID() uuid.UUID { return b.id }

// State returns the lifecycle state of the instance.
func (b *base) State() lifecycle.State { return b.machine.State() }

// Hooks returns the hook registry of the instance.
func (b *base) Hooks() *hook.Registry { return b.hooks }

// FrameDepth returns the number of hooks currently being dispatched.
func (b *base) FrameDepth() int { return b.frames.Depth() }

// ValidateSpellInfo reports whether every id is a defined spell. Missing
// ids are all logged.
func (b *base) ValidateSpellInfo(ids ...uint32) bool {
	return spell.ValidateIDs(b.env.Spells, b.log, ids...)
}

// Logger returns the instance logger.
func (b *base) Logger() *logging.Logger { return b.log }

func (b *base) fault(op, format string, args ...any) {
	b.faults++
	b.env.Faults.Report(Fault{
		Script:   b.name,
		SpellID:  b.spellID,
		Instance: b.id.String(),
		Hook:     b.frames.Current(),
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
	})
}

// inHook reports whether the current hook satisfies pred, reporting a fault
// when it does not.
func (b *base) inHook(op string, pred func(hook.Kind) bool) bool {
	if b.frames.InHook(pred) {
		return true
	}
	b.fault(op, "not available in %s", b.frames.Current())
	return false
}

func (b *base) add(kind hook.Kind, filter hook.Filter, mode combat.HandleMode, ok bool, fn invoker) {
	binding := hook.Binding{Filter: filter, Mode: mode}
	if ok {
		binding.Fn = fn
	}
	if err := b.hooks.Register(kind, binding); err != nil {
		b.fault("register", "%v", err)
		if b.machine.State() < lifecycle.StateLoaded && b.regErr == nil {
			b.regErr = err
		}
	}
}

// Init prepares s as a fresh instance of the named script for spellID.
func Init(s Script, name string, spellID uint32, env Env) {
	if env.Log == nil {
		env.Log = logging.NewNull()
	}
	if env.Faults == nil {
		env.Faults = NewFaultReporter(env.Log, DefaultFaultRate, DefaultFaultBurst)
	}

	b := s.scriptBase()
	b.name = name
	b.spellID = spellID
	b.id = uuid.New()
	b.env = env
	b.hooks = hook.NewRegistry(&b.machine)
	b.log = env.Log.WithComponent("script").WithFields(map[string]any{
		"script":   name,
		"spell":    spellID,
		"instance": b.id.String(),
	})
	if env.Spells != nil {
		b.info = env.Spells.Get(spellID)
	}
}

// RegisterScript runs the script's Register. Any invalid registration
// destroys the instance.
func RegisterScript(s Script) error {
	b := s.scriptBase()
	if err := b.machine.BeginRegister(); err != nil {
		return err
	}
	if !b.safeCall("Register", s.Register) && b.regErr == nil {
		b.regErr = fmt.Errorf("%w: panic in Register", ErrRegisterFailed)
	}
	if b.regErr != nil {
		b.machine.Fail()
		return fmt.Errorf("%s: %w", b.name, b.regErr)
	}
	return b.machine.FinishRegister()
}

// LoadSpell attaches s to cast and runs its Load. It returns false when
// the instance was discarded.
func LoadSpell(s SpellScripter, cast combat.Cast) bool {
	ss := s.spellScript()
	ss.cast = cast
	var info *spell.Info
	if cast != nil {
		info = cast.SpellInfo()
	}
	return load(s, info)
}

// LoadAura attaches s to aura and runs its Load. It returns false when the
// instance was discarded.
func LoadAura(s AuraScripter, aura combat.Aura) bool {
	as := s.auraScript()
	as.aura = aura
	var info *spell.Info
	if aura != nil {
		info = aura.SpellInfo()
	}
	return load(s, info)
}

func load(s Script, info *spell.Info) bool {
	b := s.scriptBase()
	if info != nil {
		b.info = info
	}
	if b.regErr != nil {
		b.log.Warn("not loading: %v", b.regErr)
		b.machine.Fail()
		return false
	}
	if err := b.machine.Load(); err != nil {
		b.fault("load", "%v", err)
		b.machine.Fail()
		return false
	}
	b.hooks.Resolve(b.info)

	loaded := false
	if !b.safeCall("Load", func() { loaded = s.Load() }) || !loaded {
		b.log.Debug("load failed, instance discarded")
		b.machine.Fail()
		return false
	}
	return true
}

// UnloadScript runs the script's Unload and destroys the instance.
// Instances that never loaded are destroyed without calling Unload.
func UnloadScript(s Script) {
	b := s.scriptBase()
	if err := b.machine.BeginUnload(); err != nil {
		b.machine.Fail()
		return
	}
	b.safeCall("Unload", s.Unload)
	_ = b.machine.FinishUnload()
}

// safeCall runs fn, converting a panic into a fault. It reports whether fn
// returned normally.
func (b *base) safeCall(op string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.fault(op, "panic: %v", r)
			ok = false
		}
	}()
	fn()
	return true
}
