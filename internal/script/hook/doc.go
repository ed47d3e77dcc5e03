// Package hook provides the per-script hook registry and the effect/target
// filter that decides which registered callbacks apply to an effect slot.
//
// # Hook Kinds
//
// Every extension point in the cast and aura lifecycle has a Kind. Spell kinds
// run while a cast is processed; aura kinds run while an aura is applied,
// ticks, procs, or is removed. Kinds that operate on individual effect slots
// report PerEffect() == true and their bindings carry a Filter.
//
// # Ordering
//
// The order in which the effect engine visits kinds is part of the contract:
//
//	CastOrder:         BeforeCast, CheckCast, ObjectAreaTargetSelect,
//	                   ObjectTargetSelect, DestinationTargetSelect, OnCast,
//	                   AfterCast, EffectLaunch, EffectLaunchTarget,
//	                   CalcResistAbsorb, EffectHit, BeforeHit,
//	                   EffectHitTarget, Hit, AfterHit
//	AuraApplyOrder:    EffectApply, EffectAfterApply
//	AuraPeriodicOrder: EffectPeriodic, EffectUpdatePeriodic
//	AuraProcOrder:     CheckProc, CheckEffectProc, PrepareProc, Proc,
//	                   EffectProc, EffectAfterProc, AfterProc
//
// Within one kind, bindings run in registration order.
//
// # Filters
//
// A Filter pairs a slot constraint (a specific slot, EffectFirstFound, or
// EffectAll) with a type constraint (effect type, aura type, or implicit
// target). Empty effect slots never match, whatever the constraint says.
// The matching slots for a spell are computed once by Registry.Resolve and
// cached on each Entry.
//
// # Thread Safety
//
// A Registry belongs to one script instance and is only touched from the
// goroutine driving the world update, so it does no locking.
package hook
