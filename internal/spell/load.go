package spell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a spell data file.
type Document struct {
	Spells []SpellDocument `yaml:"spells" json:"spells" jsonschema:"required,description=Spell definitions"`
}

// SpellDocument is one spell definition as authored.
type SpellDocument struct {
	ID          uint32           `yaml:"id" json:"id" jsonschema:"required,minimum=1,description=Unique spell id"`
	Name        string           `yaml:"name" json:"name,omitempty" jsonschema:"description=Display name"`
	DurationMs  int32            `yaml:"duration_ms" json:"duration_ms,omitempty" jsonschema:"description=Aura duration in milliseconds; negative means permanent"`
	MaxStack    uint8            `yaml:"max_stack" json:"max_stack,omitempty" jsonschema:"description=Maximum aura stack amount"`
	ProcCharges uint8            `yaml:"proc_charges" json:"proc_charges,omitempty" jsonschema:"description=Charges consumed by procs"`
	Passive     bool             `yaml:"passive" json:"passive,omitempty" jsonschema:"description=Passive auras are hidden and survive death"`
	Effects     []EffectDocument `yaml:"effects" json:"effects,omitempty" jsonschema:"maxItems=8,description=Effect slots in order"`
}

// EffectDocument is one effect slot as authored. Enum fields take a name or number.
type EffectDocument struct {
	Effect       string `yaml:"effect" json:"effect,omitempty" jsonschema:"description=Effect type name or number; empty marks an unused slot"`
	Aura         string `yaml:"aura" json:"aura,omitempty" jsonschema:"description=Aura type name or number for aura effects"`
	TargetA      string `yaml:"target_a" json:"target_a,omitempty" jsonschema:"description=First implicit target"`
	TargetB      string `yaml:"target_b" json:"target_b,omitempty" jsonschema:"description=Second implicit target"`
	BasePoints   int32  `yaml:"base_points" json:"base_points,omitempty" jsonschema:"description=Base effect value"`
	TriggerSpell uint32 `yaml:"trigger_spell" json:"trigger_spell,omitempty" jsonschema:"description=Spell triggered by this effect"`
	AmplitudeMs  int32  `yaml:"amplitude_ms" json:"amplitude_ms,omitempty" jsonschema:"minimum=0,description=Periodic amplitude in milliseconds"`
}

// LoadFile reads a spell data file into a new store.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spell data %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadYAML reads spell data from r into a new store.
func LoadYAML(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading spell data: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (*Store, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	store := NewStore()
	for _, sd := range doc.Spells {
		info, err := sd.toInfo()
		if err != nil {
			return nil, &ParseError{Path: source, Spell: sd.ID, Message: err.Error(), Err: err}
		}
		if err := store.Add(info); err != nil {
			return nil, &ParseError{Path: source, Spell: sd.ID, Message: err.Error(), Err: err}
		}
	}
	return store, nil
}

func (sd SpellDocument) toInfo() (*Info, error) {
	if sd.ID == 0 {
		return nil, ErrInvalidSpellID
	}
	if len(sd.Effects) > MaxEffects {
		return nil, fmt.Errorf("%w (%d > %d)", ErrTooManyEffects, len(sd.Effects), MaxEffects)
	}

	info := &Info{
		ID:          sd.ID,
		Name:        sd.Name,
		DurationMs:  sd.DurationMs,
		MaxStack:    sd.MaxStack,
		ProcCharges: sd.ProcCharges,
		Passive:     sd.Passive,
		Effects:     make([]EffectInfo, len(sd.Effects)),
	}
	for slot, ed := range sd.Effects {
		eff, err := ed.toEffectInfo()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", slot, err)
		}
		info.Effects[slot] = eff
	}
	return info, nil
}

func (ed EffectDocument) toEffectInfo() (EffectInfo, error) {
	var (
		eff EffectInfo
		err error
	)
	if eff.Effect, err = ParseEffectType(ed.Effect); err != nil {
		return eff, err
	}
	if eff.Aura, err = ParseAuraType(ed.Aura); err != nil {
		return eff, err
	}
	if eff.TargetA, err = ParseTarget(ed.TargetA); err != nil {
		return eff, err
	}
	if eff.TargetB, err = ParseTarget(ed.TargetB); err != nil {
		return eff, err
	}
	if eff.Effect == EffectAny || eff.Aura == AuraAny {
		return eff, fmt.Errorf("wildcard types are not valid in definitions")
	}
	if eff.Aura != AuraNone && !eff.Effect.AppliesAura() {
		return eff, fmt.Errorf("aura %s set on non-aura effect %s", eff.Aura, eff.Effect)
	}
	eff.BasePoints = ed.BasePoints
	eff.TriggerSpell = ed.TriggerSpell
	eff.AmplitudeMs = ed.AmplitudeMs
	return eff, nil
}
