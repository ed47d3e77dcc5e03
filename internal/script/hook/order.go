package hook

// CastOrder is the order in which a cast visits spell hook kinds.
var CastOrder = []Kind{
	BeforeCast,
	CheckCast,
	ObjectAreaTargetSelect,
	ObjectTargetSelect,
	DestinationTargetSelect,
	OnCast,
	AfterCast,
	EffectLaunch,
	EffectLaunchTarget,
	CalcResistAbsorb,
	EffectHit,
	BeforeHit,
	EffectHitTarget,
	EffectSuccessfulDispel,
	Hit,
	AfterHit,
}

// AuraCalcOrder is the order of the amount calculation hooks run when an
// aura effect is created or recalculated.
var AuraCalcOrder = []Kind{EffectCalcAmount, EffectCalcPeriodic, EffectCalcSpellMod}

// AuraApplyOrder is the order of hooks run when an aura is applied to a target.
var AuraApplyOrder = []Kind{EffectApply, EffectAfterApply}

// AuraRemoveOrder is the order of hooks run when an aura is removed from a target.
var AuraRemoveOrder = []Kind{EffectRemove, EffectAfterRemove}

// AuraPeriodicOrder is the order of hooks run on a periodic tick.
var AuraPeriodicOrder = []Kind{EffectPeriodic, EffectUpdatePeriodic}

// AuraAbsorbOrder is the order of hooks run when an absorb aura soaks damage.
var AuraAbsorbOrder = []Kind{EffectAbsorb, EffectAfterAbsorb}

// AuraManaShieldOrder is the order of hooks run when a mana shield soaks damage.
var AuraManaShieldOrder = []Kind{EffectManaShield, EffectAfterManaShield}

// AuraProcOrder is the order of hooks run when an aura procs. Aura-level
// checks run before effect-level checks, and aura-level procs before
// effect-level procs.
var AuraProcOrder = []Kind{
	CheckProc,
	CheckEffectProc,
	PrepareProc,
	Proc,
	EffectProc,
	EffectAfterProc,
	AfterProc,
}

// AuraDispelOrder is the order of hooks run when an aura is dispelled.
// Removal hooks triggered by the dispel nest between the two.
var AuraDispelOrder = []Kind{Dispel, AfterDispel}

// Position returns the index of kind in order, or -1.
func Position(order []Kind, kind Kind) int {
	for i, k := range order {
		if k == kind {
			return i
		}
	}
	return -1
}

// Before reports whether a is visited before b in order. Kinds missing from
// order are never before anything.
func Before(order []Kind, a, b Kind) bool {
	pa, pb := Position(order, a), Position(order, b)
	return pa >= 0 && pb >= 0 && pa < pb
}
