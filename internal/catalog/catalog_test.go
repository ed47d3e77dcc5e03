package catalog_test

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/script/lifecycle"
	"github.com/dshills/spellhook/internal/spell"
)

type damageScript struct {
	script.SpellScript
}

func (s *damageScript) Register() {
	s.OnEffectHitTarget(func(int) {}, hook.Slot(0), spell.EffectSchoolDamage)
}

type slotFiveScript struct {
	script.SpellScript
}

func (s *slotFiveScript) Register() {
	s.OnEffectHit(func(int) {}, hook.Slot(5), spell.EffectAny)
	s.OnHit(func() {})
}

type rejectingScript struct {
	script.SpellScript
}

func (s *rejectingScript) Register()                 {}
func (s *rejectingScript) Validate(*spell.Info) bool { return false }

type dotAura struct {
	script.AuraScript
}

func (s *dotAura) Register() {
	s.OnEffectPeriodic(func(*combat.AuraEffect) {}, hook.EffectAll, spell.AuraPeriodicDamage)
}

func testSpells(t *testing.T) *spell.Store {
	t.Helper()
	store, err := spell.LoadYAML(strings.NewReader(`
spells:
  - id: 133
    name: Fireball
    duration_ms: 8000
    effects:
      - effect: SchoolDamage
        target_a: UnitTargetEnemy
        base_points: 50
      - effect: ApplyAura
        aura: PeriodicDamage
        target_a: UnitTargetEnemy
        base_points: 5
        amplitude_ms: 2000
  - id: 2
    name: Heal
    effects:
      - effect: Heal
        target_a: UnitTargetAlly
        base_points: 30
`))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	return store
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.RegisterSpellScript("spell_fireball", func() script.SpellScripter { return &damageScript{} }))
	must(c.RegisterSpellScript("spell_slot_five", func() script.SpellScripter { return &slotFiveScript{} }))
	must(c.RegisterSpellScript("spell_rejecting", func() script.SpellScripter { return &rejectingScript{} }))
	must(c.RegisterAuraScript("aura_dot", func() script.AuraScripter { return &dotAura{} }))
	return c
}

const bindingsYAML = `
bindings:
  - spell: 133
    script: spell_fireball
  - spell: 133
    script: spell_slot_five
  - spell: 999
    script: spell_fireball
  - spell: 133
    script: spell_missing
  - spell: 133
    script: spell_rejecting
  - spell: 2
    script: aura_dot
  - spell: 133
    script: aura_dot
`

// TestRegisterDuplicate verifies duplicate names are rejected per kind.
func TestRegisterDuplicate(t *testing.T) {
	c := testCatalog(t)
	err := c.RegisterSpellScript("spell_fireball", func() script.SpellScripter { return &damageScript{} })
	if !errors.Is(err, catalog.ErrDuplicateScript) {
		t.Errorf("expected ErrDuplicateScript, got %v", err)
	}
	if err := c.RegisterAuraScript("spell_fireball", func() script.AuraScripter { return &dotAura{} }); err != nil {
		t.Errorf("a spell and an aura script may share a name: %v", err)
	}
	if err := c.RegisterSpellScript("", nil); !errors.Is(err, catalog.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if err := c.RegisterSpellScript("x", nil); !errors.Is(err, catalog.ErrNilFactory) {
		t.Errorf("expected ErrNilFactory, got %v", err)
	}
	names := c.Names()
	if len(names) != 4 || names[0] != "aura_dot" {
		t.Errorf("unexpected names %v", names)
	}
}

// TestLoadBindings verifies bindings files are decoded strictly.
func TestLoadBindings(t *testing.T) {
	bindings, err := catalog.LoadBindings(strings.NewReader(bindingsYAML))
	if err != nil {
		t.Fatalf("LoadBindings: %v", err)
	}
	if len(bindings) != 7 {
		t.Fatalf("expected 7 bindings, got %d", len(bindings))
	}
	if bindings[0].Spell != 133 || bindings[0].Script != "spell_fireball" {
		t.Errorf("unexpected first binding %+v", bindings[0])
	}

	_, err = catalog.LoadBindings(strings.NewReader("bindings:\n  - spell: 1\n    script: x\n    extra: 1\n"))
	var perr *catalog.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected ParseError for unknown field, got %v", err)
	}

	_, err = catalog.LoadBindings(strings.NewReader("bindings:\n  - spell: 1\n    script: ' '\n"))
	if !errors.Is(err, catalog.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

// TestLoadValidatesBindings verifies every failure is reported and skipped.
func TestLoadValidatesBindings(t *testing.T) {
	c := testCatalog(t)
	bindings, err := catalog.LoadBindings(strings.NewReader(bindingsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Load(testSpells(t), bindings); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reports := c.Reports()
	if len(reports) != 7 {
		t.Fatalf("expected 7 reports, got %d", len(reports))
	}
	wantValid := []bool{true, true, false, false, false, false, true}
	for i, r := range reports {
		if r.Valid != wantValid[i] {
			t.Errorf("report %d (%s on %d): expected valid=%v, got %v (%s)", i, r.Script, r.SpellID, wantValid[i], r.Valid, r.Reason)
		}
	}
	if len(reports[1].Unmatched) != 1 {
		t.Errorf("expected the slot 5 binding to be reported, got %v", reports[1].Unmatched)
	}

	active := c.Active(133)
	want := []string{"spell_fireball", "spell_slot_five", "aura_dot"}
	if len(active) != len(want) {
		t.Fatalf("expected %v, got %v", want, active)
	}
	for i := range want {
		if active[i] != want[i] {
			t.Errorf("active %d: expected %s, got %s", i, want[i], active[i])
		}
	}
	if len(c.Active(999)) != 0 || len(c.Active(2)) != 0 {
		t.Error("failed bindings should not be active")
	}

	if err := c.Load(testSpells(t), bindings); !errors.Is(err, catalog.ErrAlreadyLoaded) {
		t.Errorf("expected ErrAlreadyLoaded, got %v", err)
	}
}

// TestInstances verifies fresh registered instances are created per call.
func TestInstances(t *testing.T) {
	c := testCatalog(t)
	bindings, _ := catalog.LoadBindings(strings.NewReader(bindingsYAML))
	if err := c.Load(testSpells(t), bindings); err != nil {
		t.Fatal(err)
	}

	first := c.SpellScripts(133)
	second := c.SpellScripts(133)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 spell scripts, got %d and %d", len(first), len(second))
	}
	if first[0] == second[0] {
		t.Error("expected distinct instances per call")
	}
	if _, ok := first[0].(*damageScript); !ok {
		t.Errorf("expected binding order, got %T first", first[0])
	}
	for _, s := range first {
		if st := s.(interface{ State() lifecycle.State }).State(); st != lifecycle.StateRegistered {
			t.Errorf("expected registered instance, got %s", st)
		}
	}

	auras := c.AuraScripts(133)
	if len(auras) != 1 {
		t.Errorf("expected 1 aura script, got %d", len(auras))
	}
	if len(c.SpellScripts(2)) != 0 {
		t.Error("expected no scripts for spell 2")
	}
}

// TestReportsConcurrentReads verifies reports can be read from many goroutines.
func TestReportsConcurrentReads(t *testing.T) {
	c := testCatalog(t)
	bindings, _ := catalog.LoadBindings(strings.NewReader(bindingsYAML))
	if err := c.Load(testSpells(t), bindings); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if len(c.Reports()) != 7 || len(c.Active(133)) != 3 {
					t.Error("inconsistent read")
					return
				}
			}
		}()
	}
	wg.Wait()
}

// TestSchema verifies the bindings schema requires spell and script.
func TestSchema(t *testing.T) {
	schema := catalog.Schema()
	if schema == nil || schema.Title != "Script Bindings" {
		t.Fatalf("unexpected schema %+v", schema)
	}
	if !slices.Contains(schema.Required, "bindings") {
		t.Errorf("Required = %v, want bindings", schema.Required)
	}
}
