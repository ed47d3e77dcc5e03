package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/spell"
)

// SpellFactory creates an uninitialized spell script.
type SpellFactory func() script.SpellScripter

// AuraFactory creates an uninitialized aura script.
type AuraFactory func() script.AuraScripter

// Catalog holds script factories and, once loaded, the validated
// spell-to-script associations.
type Catalog struct {
	mu sync.RWMutex

	log    *logging.Logger
	faults *script.FaultReporter

	spellFactories map[string]SpellFactory
	auraFactories  map[string]AuraFactory

	loaded      bool
	spells      spell.Lookup
	activeSpell map[uint32][]string
	activeAura  map[uint32][]string
	reports     []script.Report
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFaultReporter sets the fault reporter shared by every instance.
func WithFaultReporter(r *script.FaultReporter) Option {
	return func(c *Catalog) {
		c.faults = r
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		log:            logging.NewNull(),
		spellFactories: make(map[string]SpellFactory),
		auraFactories:  make(map[string]AuraFactory),
		activeSpell:    make(map[uint32][]string),
		activeAura:     make(map[uint32][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("catalog")
	if c.faults == nil {
		c.faults = script.NewFaultReporter(c.log, script.DefaultFaultRate, script.DefaultFaultBurst)
	}
	return c
}

// RegisterSpellScript registers a spell script factory under name.
func (c *Catalog) RegisterSpellScript(name string, f SpellFactory) error {
	if err := checkFactory(name, f == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.spellFactories[name]; ok {
		return fmt.Errorf("%w: spell script %q", ErrDuplicateScript, name)
	}
	c.spellFactories[name] = f
	return nil
}

// RegisterAuraScript registers an aura script factory under name. A name
// may have both a spell and an aura factory.
func (c *Catalog) RegisterAuraScript(name string, f AuraFactory) error {
	if err := checkFactory(name, f == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.auraFactories[name]; ok {
		return fmt.Errorf("%w: aura script %q", ErrDuplicateScript, name)
	}
	c.auraFactories[name] = f
	return nil
}

func checkFactory(name string, isNil bool) error {
	if name == "" {
		return ErrEmptyName
	}
	if isNil {
		return fmt.Errorf("%w: %q", ErrNilFactory, name)
	}
	return nil
}

// Names returns every registered script name, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(c.spellFactories)+len(c.auraFactories))
	for name := range c.spellFactories {
		seen[name] = true
	}
	for name := range c.auraFactories {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FaultReporter returns the reporter shared by every instance.
func (c *Catalog) FaultReporter() *script.FaultReporter {
	return c.faults
}

func (c *Catalog) env() script.Env {
	return script.Env{Log: c.log, Spells: c.spells, Faults: c.faults}
}

// Load validates bindings against spells and activates those that pass.
// Binding failures are reported, never returned; Load only fails when
// called twice.
func (c *Catalog) Load(spells spell.Lookup, bindings []Binding) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return ErrAlreadyLoaded
	}
	c.loaded = true
	if spells == nil {
		spells = spell.NewStore()
	}
	c.spells = spells

	ids := make([]uint32, 0, len(bindings))
	for _, b := range bindings {
		ids = append(ids, b.Spell)
	}
	if !spell.ValidateIDs(spells, c.log, ids...) {
		c.log.Warn("bindings reference undefined spells; those bindings are skipped")
	}

	for _, b := range bindings {
		c.reports = append(c.reports, c.validate(b)...)
	}

	valid := 0
	for _, r := range c.reports {
		if r.Valid {
			valid++
		}
	}
	c.log.Info("validated %d script bindings: %d active, %d rejected", len(c.reports), valid, len(c.reports)-valid)
	return nil
}

// validate checks one binding and activates each kind of script that
// passes. It must be called with c.mu held.
func (c *Catalog) validate(b Binding) []script.Report {
	log := c.log.WithFields(map[string]any{"script": b.Script, "spell": b.Spell})
	info := c.spells.Get(b.Spell)
	sf, hasSpell := c.spellFactories[b.Script]
	af, hasAura := c.auraFactories[b.Script]

	switch {
	case info == nil:
		return []script.Report{{Script: b.Script, SpellID: b.Spell, Reason: script.ErrUnknownSpell.Error()}}
	case !hasSpell && !hasAura:
		log.Error("script is not registered")
		return []script.Report{{Script: b.Script, SpellID: b.Spell, Reason: ErrUnknownScript.Error()}}
	}

	var reports []script.Report
	if hasSpell {
		r := c.check(sf(), b, info)
		if r.Valid {
			c.activeSpell[b.Spell] = append(c.activeSpell[b.Spell], b.Script)
		}
		reports = append(reports, r)
	}
	if hasAura {
		if !info.AppliesAura() {
			log.Error("aura script bound to a spell without aura effects")
			reports = append(reports, script.Report{Script: b.Script, SpellID: b.Spell, Reason: "spell applies no aura"})
		} else {
			r := c.check(af(), b, info)
			if r.Valid {
				c.activeAura[b.Spell] = append(c.activeAura[b.Spell], b.Script)
			}
			reports = append(reports, r)
		}
	}
	return reports
}

// check validates a throwaway instance.
func (c *Catalog) check(s script.Script, b Binding, info *spell.Info) script.Report {
	if s == nil {
		c.log.Error("factory for %s returned nil", b.Script)
		return script.Report{Script: b.Script, SpellID: b.Spell, Reason: ErrNilFactory.Error()}
	}
	script.Init(s, b.Script, b.Spell, c.env())
	if err := script.RegisterScript(s); err != nil {
		c.log.Error("registering %s for spell %d: %v", b.Script, b.Spell, err)
		return script.Report{Script: b.Script, SpellID: b.Spell, Reason: err.Error()}
	}
	r := script.Validate(s, info)
	script.UnloadScript(s)
	return r
}

// Reports returns the validation reports in binding order.
func (c *Catalog) Reports() []script.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]script.Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Active returns the names of the scripts attached to spellID, spell
// scripts first, each in binding order.
func (c *Catalog) Active(spellID uint32) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := append([]string(nil), c.activeSpell[spellID]...)
	return append(names, c.activeAura[spellID]...)
}

// SpellScripts creates registered instances of the spell scripts attached
// to spellID, in binding order. Instances whose registration fails are
// logged and left out.
func (c *Catalog) SpellScripts(spellID uint32) []script.SpellScripter {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []script.SpellScripter
	for _, name := range c.activeSpell[spellID] {
		s := c.spellFactories[name]()
		if c.instantiate(s, name, spellID) {
			out = append(out, s)
		}
	}
	return out
}

// AuraScripts creates registered instances of the aura scripts attached to
// spellID, in binding order.
func (c *Catalog) AuraScripts(spellID uint32) []script.AuraScripter {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []script.AuraScripter
	for _, name := range c.activeAura[spellID] {
		s := c.auraFactories[name]()
		if c.instantiate(s, name, spellID) {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) instantiate(s script.Script, name string, spellID uint32) bool {
	if s == nil {
		c.log.Error("factory for %s returned nil", name)
		return false
	}
	script.Init(s, name, spellID, c.env())
	if err := script.RegisterScript(s); err != nil {
		c.log.Error("registering %s for spell %d: %v", name, spellID, err)
		return false
	}
	return true
}
