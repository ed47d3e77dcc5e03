package spell

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// EffectType identifies what a spell effect slot does.
type EffectType uint16

// Effect types. Values follow the client data so raw numbers from existing
// data sets load unchanged.
const (
	EffectNone               EffectType = 0
	EffectInstaKill          EffectType = 1
	EffectSchoolDamage       EffectType = 2
	EffectDummy              EffectType = 3
	EffectTeleportUnits      EffectType = 5
	EffectApplyAura          EffectType = 6
	EffectPowerDrain         EffectType = 8
	EffectHealthLeech        EffectType = 9
	EffectHeal               EffectType = 10
	EffectSummon             EffectType = 28
	EffectEnergize           EffectType = 30
	EffectWeaponPctDamage    EffectType = 31
	EffectApplyAreaAuraParty EffectType = 35
	EffectLearnSpell         EffectType = 36
	EffectDispel             EffectType = 38
	EffectTriggerSpell       EffectType = 64
	EffectApplyAreaAuraRaid  EffectType = 65
	EffectScriptEffect       EffectType = 77
	EffectKnockBack          EffectType = 98
	EffectHealPct            EffectType = 136

	// EffectAny matches every effect type except EffectNone.
	EffectAny EffectType = math.MaxUint16
)

var effectNames = map[EffectType]string{
	EffectNone:               "None",
	EffectInstaKill:          "InstaKill",
	EffectSchoolDamage:       "SchoolDamage",
	EffectDummy:              "Dummy",
	EffectTeleportUnits:      "TeleportUnits",
	EffectApplyAura:          "ApplyAura",
	EffectPowerDrain:         "PowerDrain",
	EffectHealthLeech:        "HealthLeech",
	EffectHeal:               "Heal",
	EffectSummon:             "Summon",
	EffectEnergize:           "Energize",
	EffectWeaponPctDamage:    "WeaponPctDamage",
	EffectApplyAreaAuraParty: "ApplyAreaAuraParty",
	EffectLearnSpell:         "LearnSpell",
	EffectDispel:             "Dispel",
	EffectTriggerSpell:       "TriggerSpell",
	EffectApplyAreaAuraRaid:  "ApplyAreaAuraRaid",
	EffectScriptEffect:       "ScriptEffect",
	EffectKnockBack:          "KnockBack",
	EffectHealPct:            "HealPct",
	EffectAny:                "Any",
}

// String returns the effect name, or its number for unnamed values.
func (e EffectType) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return strconv.Itoa(int(e))
}

// AppliesAura reports whether the effect places an aura on its targets.
func (e EffectType) AppliesAura() bool {
	switch e {
	case EffectApplyAura, EffectApplyAreaAuraParty, EffectApplyAreaAuraRaid:
		return true
	}
	return false
}

// ParseEffectType parses an effect type name (case-insensitive) or number.
func ParseEffectType(s string) (EffectType, error) {
	v, err := parseEnum(s, effectNames)
	if err != nil {
		return EffectNone, fmt.Errorf("effect type: %w", err)
	}
	return v, nil
}

// AuraType identifies the aura an ApplyAura effect creates.
type AuraType uint16

// Aura types.
const (
	AuraNone                 AuraType = 0
	AuraPeriodicDamage       AuraType = 3
	AuraDummy                AuraType = 4
	AuraModConfuse           AuraType = 5
	AuraPeriodicHeal         AuraType = 8
	AuraModStun              AuraType = 12
	AuraModDamageDone        AuraType = 13
	AuraPeriodicTriggerSpell AuraType = 23
	AuraPeriodicEnergize     AuraType = 24
	AuraModRoot              AuraType = 26
	AuraModIncreaseSpeed     AuraType = 31
	AuraProcTriggerSpell     AuraType = 42
	AuraSchoolAbsorb         AuraType = 69
	AuraManaShield           AuraType = 97
	AuraAddFlatModifier      AuraType = 107
	AuraAddPctModifier       AuraType = 108
	AuraSplitDamagePct       AuraType = 234

	// AuraAny matches every aura type except AuraNone.
	AuraAny AuraType = math.MaxUint16
)

var auraNames = map[AuraType]string{
	AuraNone:                 "None",
	AuraPeriodicDamage:       "PeriodicDamage",
	AuraDummy:                "Dummy",
	AuraModConfuse:           "ModConfuse",
	AuraPeriodicHeal:         "PeriodicHeal",
	AuraModStun:              "ModStun",
	AuraModDamageDone:        "ModDamageDone",
	AuraPeriodicTriggerSpell: "PeriodicTriggerSpell",
	AuraPeriodicEnergize:     "PeriodicEnergize",
	AuraModRoot:              "ModRoot",
	AuraModIncreaseSpeed:     "ModIncreaseSpeed",
	AuraProcTriggerSpell:     "ProcTriggerSpell",
	AuraSchoolAbsorb:         "SchoolAbsorb",
	AuraManaShield:           "ManaShield",
	AuraAddFlatModifier:      "AddFlatModifier",
	AuraAddPctModifier:       "AddPctModifier",
	AuraSplitDamagePct:       "SplitDamagePct",
	AuraAny:                  "Any",
}

// String returns the aura name, or its number for unnamed values.
func (a AuraType) String() string {
	if name, ok := auraNames[a]; ok {
		return name
	}
	return strconv.Itoa(int(a))
}

// IsPeriodic reports whether the aura ticks on an amplitude.
func (a AuraType) IsPeriodic() bool {
	switch a {
	case AuraPeriodicDamage, AuraPeriodicHeal, AuraPeriodicTriggerSpell, AuraPeriodicEnergize:
		return true
	}
	return false
}

// ParseAuraType parses an aura type name (case-insensitive) or number.
func ParseAuraType(s string) (AuraType, error) {
	v, err := parseEnum(s, auraNames)
	if err != nil {
		return AuraNone, fmt.Errorf("aura type: %w", err)
	}
	return v, nil
}

// parseEnum resolves s against names, accepting raw numbers as well.
func parseEnum[T ~uint16](s string, names map[T]string) (T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return T(n), nil
	}
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q (known: %s)", s, strings.Join(sortedNames(names), ", "))
}

func sortedNames[T ~uint16](names map[T]string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
