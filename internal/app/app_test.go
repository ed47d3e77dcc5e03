package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/spellhook/internal/app"
	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/config"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/sim"
)

const spellsYAML = `spells:
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
`

const bindingsYAML = `bindings:
  - spell: 133
    script: empower
  - spell: 133
    script: nobody
`

const empowerLua = `spell_script("empower", {
  register = function(s)
    s:on_hit(function(self) self:set_hit_damage(self:hit_damage() * 2) end)
  end,
})
`

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testConfig lays out a data directory and returns a config pointing at it.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Data.Spells = filepath.Join(dir, "spells.yaml")
	cfg.Data.Bindings = filepath.Join(dir, "bindings.yaml")
	cfg.Scripts.Dir = filepath.Join(dir, "scripts")
	write(t, cfg.Data.Spells, spellsYAML)
	write(t, cfg.Data.Bindings, bindingsYAML)
	write(t, filepath.Join(cfg.Scripts.Dir, "mage", "empower.lua"), empowerLua)
	return cfg
}

func load(t *testing.T, a *app.Application) *app.Snapshot {
	t.Helper()
	snap, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { snap.Close() })
	return snap
}

// TestLoad verifies a snapshot carries spells, scripts and reports.
func TestLoad(t *testing.T) {
	snap := load(t, app.New(testConfig(t)))

	if snap.Spells.Len() != 1 {
		t.Errorf("Spells.Len() = %d, want 1", snap.Spells.Len())
	}
	if !slices.Equal(snap.Scripts.Scripts, []string{"spell:empower"}) {
		t.Errorf("Scripts = %v", snap.Scripts.Scripts)
	}
	if snap.ScriptErrors != nil {
		t.Errorf("ScriptErrors = %v", snap.ScriptErrors)
	}
	if n := len(snap.Reports()); n != 2 {
		t.Fatalf("len(Reports()) = %d, want 2", n)
	}
	if snap.Valid() != 1 {
		t.Errorf("Valid() = %d, want 1", snap.Valid())
	}
	if !slices.Equal(snap.Catalog.Active(133), []string{"empower"}) {
		t.Errorf("Active(133) = %v", snap.Catalog.Active(133))
	}
}

// TestShippedData verifies the sample data in the repository loads cleanly.
func TestShippedData(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Spells = filepath.Join("..", "..", "data", "spells.yaml")
	cfg.Data.Bindings = filepath.Join("..", "..", "data", "bindings.yaml")
	cfg.Scripts.Dir = filepath.Join("..", "..", "data", "scripts")
	snap := load(t, app.New(cfg))

	if snap.ScriptErrors != nil {
		t.Fatalf("ScriptErrors = %v", snap.ScriptErrors)
	}
	for _, r := range snap.Reports() {
		if !r.Valid {
			t.Errorf("%s on %d rejected: %s", r.Script, r.SpellID, r.Reason)
		}
		if len(r.Unmatched) > 0 {
			t.Errorf("%s on %d has unmatched bindings %v", r.Script, r.SpellID, r.Unmatched)
		}
	}
	if !slices.Contains(snap.Catalog.Active(133), "spell_mage_fireball") {
		t.Errorf("Active(133) = %v", snap.Catalog.Active(133))
	}
}

// TestLoadBrokenScript verifies a bad Lua file does not stop the load.
func TestLoadBrokenScript(t *testing.T) {
	cfg := testConfig(t)
	write(t, filepath.Join(cfg.Scripts.Dir, "broken.lua"), `spell_script("x", {`)

	snap := load(t, app.New(cfg))
	if snap.ScriptErrors == nil {
		t.Error("ScriptErrors = nil, want compile error")
	}
	if !slices.Equal(snap.Scripts.Failed, []string{"broken.lua"}) {
		t.Errorf("Failed = %v", snap.Scripts.Failed)
	}
	if snap.Valid() != 1 {
		t.Errorf("Valid() = %d, want 1", snap.Valid())
	}
}

// TestLoadWithoutScriptsDir verifies a missing scripts directory is not fatal.
func TestLoadWithoutScriptsDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripts.Dir = filepath.Join(t.TempDir(), "absent")

	snap := load(t, app.New(cfg))
	if snap.Valid() != 0 {
		t.Errorf("Valid() = %d, want 0", snap.Valid())
	}
}

// TestLoadMissingSpells verifies missing spell data is an InitError.
func TestLoadMissingSpells(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Spells = filepath.Join(t.TempDir(), "none.yaml")

	_, err := app.New(cfg).Load()
	var ie *app.InitError
	if !errors.As(err, &ie) || ie.Component != "spell data" {
		t.Errorf("Load() error = %v, want spell data InitError", err)
	}
}

type markerScript struct {
	script.SpellScript
	hits *atomic.Int32
}

func (s *markerScript) Register() {
	s.OnHit(func() { s.hits.Add(1) })
}

// TestGoScripts verifies Go-authored scripts join the catalog beside Lua ones.
func TestGoScripts(t *testing.T) {
	cfg := testConfig(t)
	write(t, cfg.Data.Bindings, bindingsYAML+"  - spell: 133\n    script: marker\n")

	var hits atomic.Int32
	a := app.New(cfg, app.WithScripts(func(c *catalog.Catalog) error {
		return c.RegisterSpellScript("marker", func() script.SpellScripter {
			return &markerScript{hits: &hits}
		})
	}))
	snap := load(t, a)
	if snap.Valid() != 2 {
		t.Fatalf("Valid() = %d, want 2", snap.Valid())
	}
	if _, err := snap.Cast(app.CastRequest{Spell: 133}); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

// TestCast verifies a cast runs the bound scripts and ticks auras.
func TestCast(t *testing.T) {
	snap := load(t, app.New(testConfig(t)))

	res, err := snap.Cast(app.CastRequest{Spell: 133, TickMs: 2000})
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if res.Outcome.Damage != 100 {
		t.Errorf("Damage = %d, want 100", res.Outcome.Damage)
	}
	if res.Target.Health != 895 {
		t.Errorf("target health = %d, want 895", res.Target.Health)
	}
	if res.Auras != 1 {
		t.Errorf("Auras = %d, want 1", res.Auras)
	}
	if res.Trace.Len() == 0 {
		t.Error("trace is empty")
	}

	if _, err := snap.Cast(app.CastRequest{Spell: 999}); !errors.Is(err, sim.ErrUnknownSpell) {
		t.Errorf("Cast(999) error = %v, want ErrUnknownSpell", err)
	}
}

// TestCastClosed verifies a closed snapshot refuses casts.
func TestCastClosed(t *testing.T) {
	snap, err := app.New(testConfig(t)).Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := snap.Cast(app.CastRequest{Spell: 133}); !errors.Is(err, app.ErrClosed) {
		t.Errorf("Cast() error = %v, want ErrClosed", err)
	}
}

// TestWatchReloads verifies a script change produces a new snapshot.
func TestWatchReloads(t *testing.T) {
	cfg := testConfig(t)
	a := app.New(cfg)
	first, err := a.Load()
	if err != nil {
		t.Fatal(err)
	}
	w, err := a.NewWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	type reload struct {
		valid int
		err   error
	}
	reloads := make(chan reload, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *app.Snapshot, 1)
	go func() {
		done <- a.Watch(ctx, w, first, func(_ []string, snap *app.Snapshot, err error) {
			r := reload{err: err}
			if snap != nil {
				r.valid = snap.Valid()
			}
			reloads <- r
		})
	}()

	write(t, filepath.Join(cfg.Scripts.Dir, "nobody.lua"), `spell_script("nobody", { register = function(s) end })`)

	select {
	case r := <-reloads:
		if r.err != nil || r.valid != 2 {
			t.Errorf("reload = %+v, want 2 valid bindings", r)
		}
	case <-time.After(3 * time.Second):
		t.Error("no reload after script change")
	}

	cancel()
	last := <-done
	if last == first {
		t.Error("Watch returned the first snapshot after a reload")
	}
	last.Close()
}
