package spell_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/spell"
)

const fireballYAML = `
spells:
  - id: 133
    name: Fireball
    duration_ms: 8000
    effects:
      - effect: SchoolDamage
        target_a: UnitTargetEnemy
        base_points: 888
      - effect: ApplyAura
        aura: PeriodicDamage
        target_a: UnitTargetEnemy
        base_points: 29
        amplitude_ms: 2000
  - id: 2
    name: Numeric
    effects:
      - effect: 3
      - {}
      - effect: heal
        target_a: 1
`

func TestMask(t *testing.T) {
	m := spell.MaskOf(0, 2, 9, -1)
	if !m.Has(0) || m.Has(1) || !m.Has(2) {
		t.Errorf("unexpected mask %s", m)
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 slots, got %d", m.Count())
	}
	if m.Lowest() != 0 {
		t.Errorf("expected lowest 0, got %d", m.Lowest())
	}
	if got := m.String(); got != "{0,2}" {
		t.Errorf("String() = %q", got)
	}
	if spell.Mask(0).Lowest() != -1 {
		t.Error("empty mask should have no lowest slot")
	}
	if spell.AllSlots.Count() != spell.MaxEffects {
		t.Errorf("AllSlots should cover %d slots", spell.MaxEffects)
	}
}

func TestParseEnums(t *testing.T) {
	e, err := spell.ParseEffectType("schooldamage")
	if err != nil || e != spell.EffectSchoolDamage {
		t.Errorf("ParseEffectType = %v, %v", e, err)
	}
	a, err := spell.ParseAuraType("69")
	if err != nil || a != spell.AuraSchoolAbsorb {
		t.Errorf("ParseAuraType = %v, %v", a, err)
	}
	if _, err := spell.ParseTarget("NoSuchTarget"); err == nil {
		t.Error("expected error for unknown target")
	}
	if spell.EffectType(999).String() != "999" {
		t.Error("unnamed effect should print its number")
	}
}

func TestTargetCategories(t *testing.T) {
	tests := []struct {
		target             spell.Target
		area, object, dest bool
	}{
		{spell.TargetUnitTargetEnemy, false, true, false},
		{spell.TargetUnitSrcAreaEnemy, true, false, false},
		{spell.TargetUnitNearbyEnemy, true, true, false},
		{spell.TargetUnitConeEnemy, true, false, false},
		{spell.TargetDestCaster, false, false, true},
		{spell.TargetSrcCaster, false, false, false},
		{spell.TargetUnitChannelTarget, false, true, false},
	}

	for _, tt := range tests {
		if got := tt.target.SelectsArea(); got != tt.area {
			t.Errorf("%s.SelectsArea() = %v", tt.target, got)
		}
		if got := tt.target.SelectsObject(); got != tt.object {
			t.Errorf("%s.SelectsObject() = %v", tt.target, got)
		}
		if got := tt.target.SelectsDest(); got != tt.dest {
			t.Errorf("%s.SelectsDest() = %v", tt.target, got)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	store, err := spell.LoadYAML(strings.NewReader(fireballYAML))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 spells, got %d", store.Len())
	}

	fb := store.Get(133)
	if fb == nil || fb.Name != "Fireball" {
		t.Fatalf("fireball not loaded: %+v", fb)
	}
	if fb.Effect(1).Aura != spell.AuraPeriodicDamage {
		t.Errorf("slot 1 aura = %s", fb.Effect(1).Aura)
	}
	if !fb.Effect(5).IsEmpty() {
		t.Error("undefined slot should be empty")
	}
	if !fb.AppliesAura() || !fb.HasAura(spell.AuraPeriodicDamage) {
		t.Error("fireball should apply a periodic damage aura")
	}

	num := store.Get(2)
	if num.Effect(0).Effect != spell.EffectDummy {
		t.Errorf("numeric effect = %s", num.Effect(0).Effect)
	}
	if got := num.UsedSlots(); got != spell.MaskOf(0, 2) {
		t.Errorf("UsedSlots = %s", got)
	}
	if num.Effect(2).TargetA != spell.TargetUnitCaster {
		t.Errorf("target = %s", num.Effect(2).TargetA)
	}

	if got := store.IDs(); len(got) != 2 || got[0] != 2 || got[1] != 133 {
		t.Errorf("IDs() = %v", got)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"duplicate", "spells:\n  - id: 1\n  - id: 1\n", spell.ErrDuplicateSpell},
		{"zero id", "spells:\n  - name: x\n", spell.ErrInvalidSpellID},
		{"too many", "spells:\n  - id: 1\n    effects: [{}, {}, {}, {}, {}, {}, {}, {}, {}]\n", spell.ErrTooManyEffects},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := spell.LoadYAML(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var pe *spell.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected ParseError, got %T", err)
			}
		})
	}

	if _, err := spell.LoadYAML(strings.NewReader("spells:\n  - id: 1\n    bogus: 2\n")); err == nil {
		t.Error("expected unknown field to be rejected")
	}
	if _, err := spell.LoadYAML(strings.NewReader("spells:\n  - id: 1\n    effects:\n      - effect: SchoolDamage\n        aura: Dummy\n")); err == nil {
		t.Error("expected aura on non-aura effect to be rejected")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.yaml")
	if err := os.WriteFile(path, []byte(fireballYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := spell.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !store.Exists(133) {
		t.Error("expected spell 133")
	}

	if _, err := spell.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateIDsReportsEveryMissingID(t *testing.T) {
	store, err := spell.LoadYAML(strings.NewReader(fireballYAML))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})

	if !store.ValidateIDs(log, 133, 2) {
		t.Error("expected all ids valid")
	}
	if store.ValidateIDs(log, 7, 133, 8) {
		t.Error("expected validation failure")
	}

	out := buf.String()
	if !strings.Contains(out, "spell 7 does not exist") || !strings.Contains(out, "spell 8 does not exist") {
		t.Errorf("every missing id should be reported, got %q", out)
	}
	if got := store.MissingIDs(7, 133, 8); len(got) != 2 {
		t.Errorf("MissingIDs = %v", got)
	}
}

func TestSchema(t *testing.T) {
	schema := spell.Schema()
	if schema == nil || schema.Title != "Spell Definitions" {
		t.Fatalf("unexpected schema %+v", schema)
	}
}
