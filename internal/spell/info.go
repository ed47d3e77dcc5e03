package spell

// EffectInfo is one effect slot of a spell definition.
type EffectInfo struct {
	Effect       EffectType
	Aura         AuraType
	TargetA      Target
	TargetB      Target
	BasePoints   int32
	TriggerSpell uint32
	AmplitudeMs  int32
}

// IsEmpty reports whether the slot is unused.
func (e EffectInfo) IsEmpty() bool {
	return e.Effect == EffectNone
}

// HasTarget reports whether either implicit target equals t.
func (e EffectInfo) HasTarget(t Target) bool {
	return t != TargetNone && (e.TargetA == t || e.TargetB == t)
}

// Info is a static spell definition.
type Info struct {
	ID          uint32
	Name        string
	Effects     []EffectInfo
	DurationMs  int32
	MaxStack    uint8
	ProcCharges uint8
	Passive     bool
}

// Effect returns the effect in slot. Slots past the defined effects, and
// out of range slots, return an empty EffectInfo.
func (i *Info) Effect(slot int) EffectInfo {
	if i == nil || slot < 0 || slot >= len(i.Effects) {
		return EffectInfo{}
	}
	return i.Effects[slot]
}

// EffectCount returns the number of defined effect slots, including empty
// slots that precede a used one.
func (i *Info) EffectCount() int {
	if i == nil {
		return 0
	}
	return len(i.Effects)
}

// UsedSlots returns the mask of non-empty effect slots.
func (i *Info) UsedSlots() Mask {
	var m Mask
	for slot := 0; slot < i.EffectCount(); slot++ {
		if !i.Effects[slot].IsEmpty() {
			m = m.Set(slot)
		}
	}
	return m
}

// HasEffect reports whether any slot has effect type e.
func (i *Info) HasEffect(e EffectType) bool {
	for _, eff := range i.effects() {
		if eff.Effect == e {
			return true
		}
	}
	return false
}

// HasAura reports whether any slot applies aura type a.
func (i *Info) HasAura(a AuraType) bool {
	for _, eff := range i.effects() {
		if eff.Effect.AppliesAura() && eff.Aura == a {
			return true
		}
	}
	return false
}

// AppliesAura reports whether any slot applies an aura.
func (i *Info) AppliesAura() bool {
	for _, eff := range i.effects() {
		if eff.Effect.AppliesAura() {
			return true
		}
	}
	return false
}

// IsPermanent reports whether auras of this spell never expire on their own.
func (i *Info) IsPermanent() bool {
	return i != nil && i.DurationMs < 0
}

func (i *Info) effects() []EffectInfo {
	if i == nil {
		return nil
	}
	return i.Effects
}
