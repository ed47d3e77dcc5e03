package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

// SpellScripter is a Script attached to casts.
type SpellScripter interface {
	Script

	// InitHit, IsEffectPrevented and IsDefaultEffectPrevented expose the
	// per-target prevention flags to the engine.
	InitHit()
	IsEffectPrevented(slot int) bool
	IsDefaultEffectPrevented(slot int) bool

	spellScript() *SpellScript
}

// SpellScript is embedded by spell scripts.
type SpellScript struct {
	base

	cast combat.Cast

	hitPreventEffect        spell.Mask
	hitPreventDefaultEffect spell.Mask
}

func (s *SpellScript) spellScript() *SpellScript { return s }

func effectFilter(idx hook.EffectIndex, effect spell.EffectType) hook.Filter {
	return hook.Filter{Index: idx, Constraint: hook.EffectName(effect)}
}

func targetFilter(idx hook.EffectIndex, target spell.Target, area, dest bool) hook.Filter {
	return hook.Filter{Index: idx, Constraint: hook.TargetType(target, area, dest)}
}

// BeforeCast registers fn to run before the cast is checked.
func (s *SpellScript) BeforeCast(fn CastHandler) {
	s.add(hook.BeforeCast, hook.Filter{}, 0, fn != nil, func(*call) { fn() })
}

// OnCheckCast registers fn to vote on the cast. The first failing result
// of all check callbacks is used.
func (s *SpellScript) OnCheckCast(fn CheckCastHandler) {
	s.add(hook.CheckCast, hook.Filter{}, 0, fn != nil, func(c *call) { c.castResult(fn()) })
}

// OnObjectAreaTargetSelect registers fn for the area targets of the slots
// using target.
func (s *SpellScript) OnObjectAreaTargetSelect(fn ObjectAreaTargetSelectHandler, idx hook.EffectIndex, target spell.Target) {
	s.add(hook.ObjectAreaTargetSelect, targetFilter(idx, target, true, false), 0, fn != nil,
		func(c *call) { fn(c.ev.Targets) })
}

// OnObjectTargetSelect registers fn for the single target of the slots
// using target.
func (s *SpellScript) OnObjectTargetSelect(fn ObjectTargetSelectHandler, idx hook.EffectIndex, target spell.Target) {
	s.add(hook.ObjectTargetSelect, targetFilter(idx, target, false, false), 0, fn != nil,
		func(c *call) { fn(c.ev.Object) })
}

// OnDestinationTargetSelect registers fn for the destination of the slots
// using target.
func (s *SpellScript) OnDestinationTargetSelect(fn DestinationTargetSelectHandler, idx hook.EffectIndex, target spell.Target) {
	s.add(hook.DestinationTargetSelect, targetFilter(idx, target, false, true), 0, fn != nil,
		func(c *call) { fn(c.ev.Dest) })
}

// OnCast registers fn to run once the cast has passed its checks.
func (s *SpellScript) OnCast(fn CastHandler) {
	s.add(hook.OnCast, hook.Filter{}, 0, fn != nil, func(*call) { fn() })
}

// AfterCast registers fn to run after the cast.
func (s *SpellScript) AfterCast(fn CastHandler) {
	s.add(hook.AfterCast, hook.Filter{}, 0, fn != nil, func(*call) { fn() })
}

func (s *SpellScript) onEffect(kind hook.Kind, fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.add(kind, effectFilter(idx, effect), 0, fn != nil, func(c *call) { fn(c.slot) })
}

// OnEffectLaunch registers fn to run when an effect is launched.
func (s *SpellScript) OnEffectLaunch(fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.onEffect(hook.EffectLaunch, fn, idx, effect)
}

// OnEffectLaunchTarget registers fn to run when an effect is launched at
// each target.
func (s *SpellScript) OnEffectLaunchTarget(fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.onEffect(hook.EffectLaunchTarget, fn, idx, effect)
}

// OnEffectHit registers fn to run when an effect hits its destination.
func (s *SpellScript) OnEffectHit(fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.onEffect(hook.EffectHit, fn, idx, effect)
}

// OnEffectHitTarget registers fn to run when an effect hits each target.
func (s *SpellScript) OnEffectHitTarget(fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.onEffect(hook.EffectHitTarget, fn, idx, effect)
}

// OnEffectSuccessfulDispel registers fn to run after a dispel effect
// removed something.
func (s *SpellScript) OnEffectSuccessfulDispel(fn EffectHandler, idx hook.EffectIndex, effect spell.EffectType) {
	s.onEffect(hook.EffectSuccessfulDispel, fn, idx, effect)
}

// OnCalcResistAbsorb registers fn to adjust resisted and absorbed damage.
func (s *SpellScript) OnCalcResistAbsorb(fn ResistAbsorbHandler) {
	s.add(hook.CalcResistAbsorb, hook.Filter{}, 0, fn != nil,
		func(c *call) { fn(c.ev.Damage, c.ev.Resist, c.ev.Absorb) })
}

// BeforeHit registers fn to run before each target is hit.
func (s *SpellScript) BeforeHit(fn BeforeHitHandler) {
	s.add(hook.BeforeHit, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Miss) })
}

// OnHit registers fn to run when each target is hit.
func (s *SpellScript) OnHit(fn HitHandler) {
	s.add(hook.Hit, hook.Filter{}, 0, fn != nil, func(*call) { fn() })
}

// AfterHit registers fn to run after each target was hit.
func (s *SpellScript) AfterHit(fn HitHandler) {
	s.add(hook.AfterHit, hook.Filter{}, 0, fn != nil, func(*call) { fn() })
}
