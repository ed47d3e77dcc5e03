package lua

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/sim"
	"github.com/dshills/spellhook/internal/spell"
	glua "github.com/yuin/gopher-lua"
)

const (
	caster combat.ObjectID = 1
	victim combat.ObjectID = 2
)

func fireball() *spell.Info {
	return &spell.Info{
		ID:         133,
		Name:       "Fireball",
		DurationMs: 8000,
		Effects: []spell.EffectInfo{
			{Effect: spell.EffectSchoolDamage, TargetA: spell.TargetUnitTargetEnemy, BasePoints: 50},
			{Effect: spell.EffectApplyAura, Aura: spell.AuraPeriodicDamage, TargetA: spell.TargetUnitTargetEnemy, BasePoints: 5, AmplitudeMs: 2000},
		},
	}
}

// engineFor runs source, binds every script it defines to spell 133 and
// returns an engine with a caster and a victim at 100 health.
func engineFor(t *testing.T, source string) (*sim.Engine, *catalog.Catalog) {
	t.Helper()
	rt := NewRuntime()
	t.Cleanup(func() { _ = rt.Close() })
	if err := rt.ExecString("test.lua", source); err != nil {
		t.Fatalf("ExecString: %v", err)
	}
	cat := catalog.New()
	if err := rt.Bind(cat); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	store := spell.NewStore()
	if err := store.Add(fireball()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	var bindings []catalog.Binding
	for _, name := range cat.Names() {
		bindings = append(bindings, catalog.Binding{Spell: 133, Script: name})
	}
	if err := cat.Load(store, bindings); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := sim.New(store, cat)
	e.AddUnit(sim.Unit{ID: caster, Health: 100})
	e.AddUnit(sim.Unit{ID: victim, Health: 100})
	return e, cat
}

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()
	if top := s.L.GetTop(); top != 0 {
		t.Fatalf("stack top = %d after NewState, want 0", top)
	}

	if err := s.DoString(`function add(a, b) return a + b end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	fn, ok := s.L.GetGlobal("add").(*glua.LFunction)
	if !ok {
		t.Fatal("add is not a function")
	}
	res, err := s.Call(fn, 1, glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(res) != 1 || res[0] != glua.LNumber(5) {
		t.Errorf("Call() = %v, want [5]", res)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Call(fn, 1, glua.LNumber(i), glua.LNumber(1)); err != nil {
			t.Fatalf("Call() error = %v", err)
		}
	}
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack top = %d after Call, want 0", top)
	}
}

func TestStateSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	code := `assert(os == nil and io == nil and debug == nil)
assert(dofile == nil and loadfile == nil and load == nil and require == nil)
assert(string.upper("x") == "X" and math.max(1, 2) == 2 and table.concat({"a", "b"}) == "ab")`
	if err := s.DoString(code); err != nil {
		t.Errorf("sandbox check failed: %v", err)
	}
}

func TestStateCallTimeout(t *testing.T) {
	s := NewState(WithStateCallTimeout(20 * time.Millisecond))
	defer s.Close()

	if err := s.DoString(`while true do end`); err == nil {
		t.Error("DoString() of an endless loop returned nil")
	}
	if err := s.DoString(`x = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestRuntimeCallTimeout(t *testing.T) {
	rt := NewRuntime(WithCallTimeout(20 * time.Millisecond))
	defer rt.Close()

	if rt.state.timeout != 20*time.Millisecond {
		t.Errorf("state timeout = %v, want 20ms", rt.state.timeout)
	}
	if err := rt.ExecString("spin.lua", `while true do end`); err == nil {
		t.Error("ExecString() of an endless loop returned nil")
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
}

func TestRuntimeDefinitions(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	err := rt.ExecString("a.lua", `
spell_script("smite", { register = function(s) end })
aura_script("smite", { register = function(s) end })
`)
	if err != nil {
		t.Fatalf("ExecString() error = %v", err)
	}
	want := []string{"spell:smite", "aura:smite"}
	if got := rt.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	tests := []struct {
		name   string
		source string
	}{
		{"duplicate", `spell_script("smite", { register = function(s) end })`},
		{"no register", `spell_script("bare", {})`},
		{"register not a function", `aura_script("odd", { register = 1 })`},
		{"empty name", `spell_script("", { register = function(s) end })`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := rt.ExecString("b.lua", tt.source)
			if !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("ExecString() error = %v, want ErrInvalidDefinition", err)
			}
		})
	}
}

func TestLuaSpellScript(t *testing.T) {
	e, _ := engineFor(t, `
spell_script("empower", {
  register = function(s)
    local casts = 0
    s:before_cast(function() casts = casts + 1 end)
    s:on_hit(function(self) self:set_hit_damage(self:hit_damage() * 2 + casts) end)
  end,
})
`)
	out, err := e.Cast(133, caster, victim)
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if out.Damage != 101 {
		t.Errorf("Damage = %d, want 101", out.Damage)
	}
}

func TestLuaCheckCast(t *testing.T) {
	e, _ := engineFor(t, `
spell_script("tired", {
  register = function(s)
    s:on_check_cast(function() return CAST_FAILED_NO_POWER end)
  end,
})
`)
	out, err := e.Cast(133, caster, victim)
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if out.Result != combat.CastFailedNoPower {
		t.Errorf("Result = %v, want %v", out.Result, combat.CastFailedNoPower)
	}
}

func TestLuaTargetSelect(t *testing.T) {
	e, _ := engineFor(t, `
spell_script("backfire", {
  register = function(s)
    s:on_object_target_select(function(self, id) return self:caster() end, 0, "UnitTargetEnemy")
  end,
})
`)
	if _, err := e.Cast(133, caster, victim); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if h := e.Unit(caster).Health; h != 50 {
		t.Errorf("caster health = %d, want 50", h)
	}
	if h := e.Unit(victim).Health; h != 100 {
		t.Errorf("victim health = %d, want 100", h)
	}
}

func TestLuaAuraScript(t *testing.T) {
	e, _ := engineFor(t, `
aura_script("searing", {
  register = function(s)
    s:do_effect_calc_amount(function(self, slot, amount) return amount * 3 end, 1, "PeriodicDamage")
    s:on_effect_remove(function(self, slot, mode)
      assert(self:target() == 2)
    end)
  end,
})
`)
	if _, err := e.Cast(133, caster, victim); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	e.Tick(2000)
	if h := e.Unit(victim).Health; h != 35 {
		t.Errorf("health = %d, want 35", h)
	}
	e.Tick(6000)
	faults := 0
	for _, entry := range e.Trace().Entries() {
		faults += entry.Faults
	}
	if faults != 0 {
		t.Errorf("faults = %d, want 0\n%s", faults, e.Trace())
	}
}

func TestLuaErrorBecomesFault(t *testing.T) {
	e, cat := engineFor(t, `
spell_script("broken", {
  register = function(s)
    s:on_hit(function() error("boom") end)
  end,
})
`)
	out, err := e.Cast(133, caster, victim)
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if out.Damage != 50 {
		t.Errorf("Damage = %d, want 50", out.Damage)
	}
	if n := cat.FaultReporter().Total(); n != 1 {
		t.Errorf("faults = %d, want 1", n)
	}
}

func TestLuaValidate(t *testing.T) {
	_, cat := engineFor(t, `
spell_script("picky", {
  register = function(s) end,
  validate = function(s, id) return id ~= 133 end,
})
`)
	reports := cat.Reports()
	if len(reports) != 1 || reports[0].Valid {
		t.Fatalf("Reports() = %+v, want one invalid report", reports)
	}
	if !strings.Contains(reports[0].Reason, "rejected") {
		t.Errorf("Reason = %q", reports[0].Reason)
	}
}

func TestLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"spells/a.lua":        {Data: []byte(`spell_script("a", { register = function(s) end })`)},
		"spells/nested/b.lua": {Data: []byte(`aura_script("b", { register = function(s) end })`)},
		"broken.lua":          {Data: []byte(`spell_script("c", {`)},
		"README.md":           {Data: []byte(`# scripts`)},
	}
	rt := NewRuntime()
	defer rt.Close()

	res, err := NewLoader(fsys, WithWorkers(2)).Load(rt)
	if err == nil {
		t.Fatal("Load() error = nil, want compile error")
	}
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Path != "broken.lua" {
		t.Errorf("Load() error = %v, want CompileError for broken.lua", err)
	}
	wantFiles := []string{"broken.lua", "spells/a.lua", "spells/nested/b.lua"}
	if !slices.Equal(res.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", res.Files, wantFiles)
	}
	if !slices.Equal(res.Failed, []string{"broken.lua"}) {
		t.Errorf("Failed = %v", res.Failed)
	}
	if want := []string{"spell:a", "aura:b"}; !slices.Equal(res.Scripts, want) {
		t.Errorf("Scripts = %v, want %v", res.Scripts, want)
	}
}

func TestLoaderPattern(t *testing.T) {
	fsys := fstest.MapFS{
		"spells/a.lua":        {Data: []byte(`x = 1`)},
		"spells/nested/b.lua": {Data: []byte(`x = 2`)},
	}
	files, err := NewLoader(fsys, WithPattern("spells/*.lua")).Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if !slices.Equal(files, []string{"spells/a.lua"}) {
		t.Errorf("Discover() = %v", files)
	}
}
