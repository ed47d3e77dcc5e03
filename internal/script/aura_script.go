package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

// AuraScripter is a Script attached to auras.
type AuraScripter interface {
	Script
	auraScript() *AuraScript
}

// AuraScript is embedded by aura scripts.
type AuraScript struct {
	base

	aura combat.Aura
}

func (s *AuraScript) auraScript() *AuraScript { return s }

func (s *AuraScript) effect(slot int) *combat.AuraEffect {
	if s.aura == nil {
		return nil
	}
	return s.aura.Effect(slot)
}

func auraFilter(idx hook.EffectIndex, aura spell.AuraType) hook.Filter {
	return hook.Filter{Index: idx, Constraint: hook.AuraName(aura)}
}

// DoCheckAreaTarget registers fn to decide which units an area aura applies to.
func (s *AuraScript) DoCheckAreaTarget(fn CheckAreaTargetHandler) {
	s.add(hook.CheckAreaTarget, hook.Filter{}, 0, fn != nil, func(c *call) { c.vote(fn(c.ev.Target)) })
}

// OnDispel registers fn to run before the aura is dispelled.
func (s *AuraScript) OnDispel(fn DispelHandler) {
	s.add(hook.Dispel, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Dispel) })
}

// AfterDispel registers fn to run after the aura was dispelled.
func (s *AuraScript) AfterDispel(fn DispelHandler) {
	s.add(hook.AfterDispel, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Dispel) })
}

func (s *AuraScript) onApply(kind hook.Kind, fn EffectApplyHandler, idx hook.EffectIndex, aura spell.AuraType, mode combat.HandleMode) {
	s.add(kind, auraFilter(idx, aura), mode, fn != nil, func(c *call) { fn(c.eff, c.ev.Mode) })
}

// OnEffectApply registers fn to run when an effect is applied in one of the
// given modes. The default application can be prevented.
func (s *AuraScript) OnEffectApply(fn EffectApplyHandler, idx hook.EffectIndex, aura spell.AuraType, mode combat.HandleMode) {
	s.onApply(hook.EffectApply, fn, idx, aura, mode)
}

// AfterEffectApply registers fn to run after an effect was applied.
func (s *AuraScript) AfterEffectApply(fn EffectApplyHandler, idx hook.EffectIndex, aura spell.AuraType, mode combat.HandleMode) {
	s.onApply(hook.EffectAfterApply, fn, idx, aura, mode)
}

// OnEffectRemove registers fn to run when an effect is removed. The
// default removal handling can be prevented.
func (s *AuraScript) OnEffectRemove(fn EffectApplyHandler, idx hook.EffectIndex, aura spell.AuraType, mode combat.HandleMode) {
	s.onApply(hook.EffectRemove, fn, idx, aura, mode)
}

// AfterEffectRemove registers fn to run after an effect was removed.
func (s *AuraScript) AfterEffectRemove(fn EffectApplyHandler, idx hook.EffectIndex, aura spell.AuraType, mode combat.HandleMode) {
	s.onApply(hook.EffectAfterRemove, fn, idx, aura, mode)
}

// OnEffectPeriodic registers fn to run on each tick of a periodic effect.
func (s *AuraScript) OnEffectPeriodic(fn EffectPeriodicHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectPeriodic, auraFilter(idx, aura), 0, fn != nil, func(c *call) { fn(c.eff) })
}

// OnEffectUpdatePeriodic registers fn to run after each tick.
func (s *AuraScript) OnEffectUpdatePeriodic(fn EffectPeriodicHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectUpdatePeriodic, auraFilter(idx, aura), 0, fn != nil, func(c *call) { fn(c.eff) })
}

// DoEffectCalcAmount registers fn to compute the amount of an effect.
func (s *AuraScript) DoEffectCalcAmount(fn EffectCalcAmountHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectCalcAmount, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.Amount, c.ev.CanRecalculate) })
}

// DoEffectCalcPeriodic registers fn to compute the periodic data of an effect.
func (s *AuraScript) DoEffectCalcPeriodic(fn EffectCalcPeriodicHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectCalcPeriodic, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.Periodic, c.ev.Amplitude) })
}

// DoEffectCalcSpellMod registers fn to build the spell modifier of an effect.
func (s *AuraScript) DoEffectCalcSpellMod(fn EffectCalcSpellModHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectCalcSpellMod, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.SpellMod) })
}

func (s *AuraScript) onAbsorb(kind hook.Kind, fn EffectAbsorbHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(kind, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.Damage, c.ev.AbsorbAmount) })
}

// OnEffectAbsorb registers fn to run when a school absorb effect soaks
// damage. The default absorption can be prevented.
func (s *AuraScript) OnEffectAbsorb(fn EffectAbsorbHandler, idx hook.EffectIndex) {
	s.onAbsorb(hook.EffectAbsorb, fn, idx, spell.AuraSchoolAbsorb)
}

// AfterEffectAbsorb registers fn to run after a school absorb effect
// soaked damage.
func (s *AuraScript) AfterEffectAbsorb(fn EffectAbsorbHandler, idx hook.EffectIndex) {
	s.onAbsorb(hook.EffectAfterAbsorb, fn, idx, spell.AuraSchoolAbsorb)
}

// OnEffectManaShield registers fn to run when a mana shield soaks damage.
func (s *AuraScript) OnEffectManaShield(fn EffectAbsorbHandler, idx hook.EffectIndex) {
	s.onAbsorb(hook.EffectManaShield, fn, idx, spell.AuraManaShield)
}

// AfterEffectManaShield registers fn to run after a mana shield soaked damage.
func (s *AuraScript) AfterEffectManaShield(fn EffectAbsorbHandler, idx hook.EffectIndex) {
	s.onAbsorb(hook.EffectAfterManaShield, fn, idx, spell.AuraManaShield)
}

// OnEffectSplit registers fn to run when a split damage effect redirects
// damage.
func (s *AuraScript) OnEffectSplit(fn EffectAbsorbHandler, idx hook.EffectIndex) {
	s.onAbsorb(hook.EffectSplit, fn, idx, spell.AuraSplitDamagePct)
}

// DoCheckProc registers fn to decide whether the aura procs.
func (s *AuraScript) DoCheckProc(fn CheckProcHandler) {
	s.add(hook.CheckProc, hook.Filter{}, 0, fn != nil, func(c *call) { c.vote(fn(c.ev.Proc)) })
}

// DoCheckEffectProc registers fn to decide whether an effect procs.
func (s *AuraScript) DoCheckEffectProc(fn CheckEffectProcHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.CheckEffectProc, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { c.vote(fn(c.eff, c.ev.Proc)) })
}

// DoPrepareProc registers fn to run before the aura procs. The default
// charge handling can be prevented.
func (s *AuraScript) DoPrepareProc(fn ProcHandler) {
	s.add(hook.PrepareProc, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Proc) })
}

// OnProc registers fn to run when the aura procs.
func (s *AuraScript) OnProc(fn ProcHandler) {
	s.add(hook.Proc, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Proc) })
}

// AfterProc registers fn to run after the aura procced.
func (s *AuraScript) AfterProc(fn ProcHandler) {
	s.add(hook.AfterProc, hook.Filter{}, 0, fn != nil, func(c *call) { fn(c.ev.Proc) })
}

// OnEffectProc registers fn to run when an effect procs. The default proc
// handling of the effect can be prevented.
func (s *AuraScript) OnEffectProc(fn EffectProcHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectProc, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.Proc) })
}

// AfterEffectProc registers fn to run after an effect procced.
func (s *AuraScript) AfterEffectProc(fn EffectProcHandler, idx hook.EffectIndex, aura spell.AuraType) {
	s.add(hook.EffectAfterProc, auraFilter(idx, aura), 0, fn != nil,
		func(c *call) { fn(c.eff, c.ev.Proc) })
}
