package script

import "github.com/dshills/spellhook/internal/combat"

// Spell script callbacks.
type (
	// CastHandler runs at BeforeCast, OnCast and AfterCast.
	CastHandler func()

	// CheckCastHandler decides whether the cast may proceed.
	CheckCastHandler func() combat.CastResult

	// EffectHandler runs for one effect slot.
	EffectHandler func(slot int)

	// BeforeHitHandler runs before a target is hit with its miss outcome.
	BeforeHitHandler func(miss combat.MissInfo)

	// HitHandler runs at Hit and AfterHit.
	HitHandler func()

	// ResistAbsorbHandler may adjust the resisted and absorbed parts of a hit.
	ResistAbsorbHandler func(dmg *combat.DamageInfo, resist *uint32, absorb *int32)

	// ObjectAreaTargetSelectHandler may edit the targets selected for an area.
	ObjectAreaTargetSelectHandler func(targets *[]combat.ObjectID)

	// ObjectTargetSelectHandler may replace the selected target.
	ObjectTargetSelectHandler func(target *combat.ObjectID)

	// DestinationTargetSelectHandler may move the selected destination.
	DestinationTargetSelectHandler func(dest *combat.Position)
)

// Aura script callbacks.
type (
	// CheckAreaTargetHandler decides whether an area aura may apply to target.
	CheckAreaTargetHandler func(target combat.ObjectID) bool

	// DispelHandler runs at Dispel and AfterDispel.
	DispelHandler func(info *combat.DispelInfo)

	// EffectApplyHandler runs when an effect is applied or removed.
	EffectApplyHandler func(eff *combat.AuraEffect, mode combat.HandleMode)

	// EffectPeriodicHandler runs on a periodic tick and on periodic updates.
	EffectPeriodicHandler func(eff *combat.AuraEffect)

	// EffectCalcAmountHandler may change the amount of an effect.
	EffectCalcAmountHandler func(eff *combat.AuraEffect, amount *int32, canBeRecalculated *bool)

	// EffectCalcPeriodicHandler may change whether and how often an effect ticks.
	EffectCalcPeriodicHandler func(eff *combat.AuraEffect, isPeriodic *bool, amplitude *int32)

	// EffectCalcSpellModHandler may set up the spell modifier of an effect.
	EffectCalcSpellModHandler func(eff *combat.AuraEffect, mod **combat.SpellModifier)

	// EffectAbsorbHandler may change how much of a damage event an effect
	// absorbs, mana shields, or splits.
	EffectAbsorbHandler func(eff *combat.AuraEffect, dmg *combat.DamageInfo, amount *uint32)

	// CheckProcHandler decides whether the aura procs on an event.
	CheckProcHandler func(info *combat.ProcEventInfo) bool

	// CheckEffectProcHandler decides whether one effect procs on an event.
	CheckEffectProcHandler func(eff *combat.AuraEffect, info *combat.ProcEventInfo) bool

	// ProcHandler runs at PrepareProc, Proc and AfterProc.
	ProcHandler func(info *combat.ProcEventInfo)

	// EffectProcHandler runs when one effect procs.
	EffectProcHandler func(eff *combat.AuraEffect, info *combat.ProcEventInfo)
)
