package hook

// Kind identifies a hook.
type Kind uint8

// Spell hook kinds.
const (
	KindNone Kind = iota
	BeforeCast
	CheckCast
	ObjectAreaTargetSelect
	ObjectTargetSelect
	DestinationTargetSelect
	OnCast
	AfterCast
	EffectLaunch
	EffectLaunchTarget
	CalcResistAbsorb
	EffectHit
	BeforeHit
	EffectHitTarget
	EffectSuccessfulDispel
	Hit
	AfterHit

	spellKindEnd
)

// Aura hook kinds.
const (
	CheckAreaTarget Kind = iota + spellKindEnd
	Dispel
	AfterDispel
	EffectApply
	EffectAfterApply
	EffectRemove
	EffectAfterRemove
	EffectPeriodic
	EffectUpdatePeriodic
	EffectCalcAmount
	EffectCalcPeriodic
	EffectCalcSpellMod
	EffectAbsorb
	EffectAfterAbsorb
	EffectManaShield
	EffectAfterManaShield
	EffectSplit
	CheckProc
	CheckEffectProc
	PrepareProc
	Proc
	EffectProc
	EffectAfterProc
	AfterProc

	kindEnd
)

var kindNames = [...]string{
	KindNone:                "none",
	BeforeCast:              "before-cast",
	CheckCast:               "check-cast",
	ObjectAreaTargetSelect:  "object-area-target-select",
	ObjectTargetSelect:      "object-target-select",
	DestinationTargetSelect: "destination-target-select",
	OnCast:                  "on-cast",
	AfterCast:               "after-cast",
	EffectLaunch:            "effect-launch",
	EffectLaunchTarget:      "effect-launch-target",
	CalcResistAbsorb:        "calc-resist-absorb",
	EffectHit:               "effect-hit",
	BeforeHit:               "before-hit",
	EffectHitTarget:         "effect-hit-target",
	EffectSuccessfulDispel:  "effect-successful-dispel",
	Hit:                     "hit",
	AfterHit:                "after-hit",
	CheckAreaTarget:         "check-area-target",
	Dispel:                  "dispel",
	AfterDispel:             "after-dispel",
	EffectApply:             "effect-apply",
	EffectAfterApply:        "effect-after-apply",
	EffectRemove:            "effect-remove",
	EffectAfterRemove:       "effect-after-remove",
	EffectPeriodic:          "effect-periodic",
	EffectUpdatePeriodic:    "effect-update-periodic",
	EffectCalcAmount:        "effect-calc-amount",
	EffectCalcPeriodic:      "effect-calc-periodic",
	EffectCalcSpellMod:      "effect-calc-spellmod",
	EffectAbsorb:            "effect-absorb",
	EffectAfterAbsorb:       "effect-after-absorb",
	EffectManaShield:        "effect-manashield",
	EffectAfterManaShield:   "effect-after-manashield",
	EffectSplit:             "effect-split",
	CheckProc:               "check-proc",
	CheckEffectProc:         "check-effect-proc",
	PrepareProc:             "prepare-proc",
	Proc:                    "proc",
	EffectProc:              "effect-proc",
	EffectAfterProc:         "effect-after-proc",
	AfterProc:               "after-proc",
}

// String returns the hook name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k names a hook.
func (k Kind) Valid() bool {
	return k.IsSpell() || k.IsAura()
}

// IsSpell reports whether k runs during a spell cast.
func (k Kind) IsSpell() bool {
	return k > KindNone && k < spellKindEnd
}

// IsAura reports whether k runs during aura handling.
func (k Kind) IsAura() bool {
	return k >= CheckAreaTarget && k < kindEnd
}

// PerEffect reports whether k is dispatched per effect slot and its
// bindings carry a Filter.
func (k Kind) PerEffect() bool {
	switch k {
	case ObjectAreaTargetSelect, ObjectTargetSelect, DestinationTargetSelect,
		EffectLaunch, EffectLaunchTarget, EffectHit, EffectHitTarget, EffectSuccessfulDispel,
		EffectApply, EffectAfterApply, EffectRemove, EffectAfterRemove,
		EffectPeriodic, EffectUpdatePeriodic,
		EffectCalcAmount, EffectCalcPeriodic, EffectCalcSpellMod,
		EffectAbsorb, EffectAfterAbsorb, EffectManaShield, EffectAfterManaShield, EffectSplit,
		CheckEffectProc, EffectProc, EffectAfterProc:
		return true
	}
	return false
}

// IsTargetSelect reports whether k is one of the target selection hooks.
func (k Kind) IsTargetSelect() bool {
	return k == ObjectAreaTargetSelect || k == ObjectTargetSelect || k == DestinationTargetSelect
}

// IsCheckCast reports whether k is the cast check hook.
func (k Kind) IsCheckCast() bool {
	return k == CheckCast
}

// IsEffectHook reports whether k runs around a spell effect handler, where
// the effect value of the current slot is available.
func (k Kind) IsEffectHook() bool {
	return k >= EffectLaunch && k <= EffectSuccessfulDispel && k != CalcResistAbsorb && k != BeforeHit
}

// IsHitPhase reports whether k runs while the spell hits its destination or
// targets.
func (k Kind) IsHitPhase() bool {
	switch k {
	case EffectHit, BeforeHit, EffectHitTarget, EffectSuccessfulDispel, Hit, AfterHit:
		return true
	}
	return false
}

// HasHitTarget reports whether a single hit target is being processed
// during k.
func (k Kind) HasHitTarget() bool {
	switch k {
	case EffectLaunchTarget, EffectHitTarget, EffectSuccessfulDispel, BeforeHit, Hit, AfterHit:
		return true
	}
	return false
}

// CanModifyHit reports whether hit damage and healing may still be changed
// during k. After the hit they have already been applied.
func (k Kind) CanModifyHit() bool {
	switch k {
	case EffectLaunchTarget, EffectHitTarget, EffectSuccessfulDispel, BeforeHit, Hit:
		return true
	}
	return false
}

// HasApplication reports whether an aura application (and therefore an aura
// target) is available during k.
func (k Kind) HasApplication() bool {
	switch k {
	case EffectApply, EffectAfterApply, EffectRemove, EffectAfterRemove,
		EffectPeriodic, EffectAbsorb, EffectAfterAbsorb, EffectManaShield,
		EffectAfterManaShield, EffectSplit,
		CheckProc, CheckEffectProc, PrepareProc, Proc, EffectProc, EffectAfterProc, AfterProc:
		return true
	}
	return false
}

// CanPreventDefault reports whether the default engine action that follows
// k can be suppressed by a callback.
func (k Kind) CanPreventDefault() bool {
	switch k {
	case EffectApply, EffectRemove, EffectPeriodic, EffectAbsorb, EffectManaShield,
		EffectSplit, PrepareProc, Proc, EffectProc:
		return true
	}
	return false
}

// IsCheck reports whether callbacks of k vote on an outcome; the votes are
// combined with logical AND.
func (k Kind) IsCheck() bool {
	return k == CheckAreaTarget || k == CheckProc || k == CheckEffectProc
}

// SpellKinds returns every spell hook kind in declaration order.
func SpellKinds() []Kind {
	kinds := make([]Kind, 0, int(spellKindEnd)-1)
	for k := KindNone + 1; k < spellKindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// AuraKinds returns every aura hook kind in declaration order.
func AuraKinds() []Kind {
	kinds := make([]Kind, 0, int(kindEnd-CheckAreaTarget))
	for k := CheckAreaTarget; k < kindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
