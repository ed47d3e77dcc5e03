// Package app wires the spellhook components together: it loads spell
// data, bindings and Lua scripts into an immutable Snapshot, reloads it
// when files change, and runs casts against the reference engine.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/config"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/lua"
	"github.com/dshills/spellhook/internal/spell"
)

// Application builds snapshots from a configuration.
type Application struct {
	cfg *config.Config
	log *logging.Logger

	// register installs Go-authored scripts into every new catalog.
	register []func(*catalog.Catalog) error
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the application logger.
func WithLogger(log *logging.Logger) Option {
	return func(a *Application) {
		if log != nil {
			a.log = log
		}
	}
}

// WithScripts adds a function that registers Go-authored scripts.
func WithScripts(register func(*catalog.Catalog) error) Option {
	return func(a *Application) {
		a.register = append(a.register, register)
	}
}

// New creates an application for cfg.
func New(cfg *config.Config, opts ...Option) *Application {
	a := &Application{cfg: cfg, log: logging.NewNull()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Snapshot is one complete, validated load. Its catalog is read-only;
// a reload produces a new Snapshot.
type Snapshot struct {
	Spells  *spell.Store
	Catalog *catalog.Catalog
	Scripts *lua.LoadResult

	// ScriptErrors joins the Lua files that failed to compile or run.
	ScriptErrors error
	LoadedAt     time.Time
	Elapsed      time.Duration

	runtime *lua.Runtime
	log     *logging.Logger
}

// Reports returns the binding validation reports.
func (s *Snapshot) Reports() []script.Report {
	return s.Catalog.Reports()
}

// Valid counts the reports that passed validation.
func (s *Snapshot) Valid() int {
	n := 0
	for _, r := range s.Reports() {
		if r.Valid {
			n++
		}
	}
	return n
}

// Close releases the Lua runtime. Casts on a closed snapshot fail.
func (s *Snapshot) Close() error {
	if s.runtime == nil {
		return nil
	}
	rt := s.runtime
	s.runtime = nil
	return rt.Close()
}

// Load builds a snapshot. Spell data and bindings are required; a failing
// Lua file is recorded in ScriptErrors and the rest still load.
func (a *Application) Load() (*Snapshot, error) {
	start := time.Now()

	spells, err := spell.LoadFile(a.cfg.Data.Spells)
	if err != nil {
		return nil, &InitError{Component: "spell data", Err: err}
	}

	var bindings []catalog.Binding
	if a.cfg.Data.Bindings != "" {
		bindings, err = catalog.LoadBindingsFile(a.cfg.Data.Bindings)
		if err != nil {
			return nil, &InitError{Component: "bindings", Err: err}
		}
	}

	faults := script.NewFaultReporter(a.log, a.cfg.Faults.Rate, a.cfg.Faults.Burst)
	cat := catalog.New(catalog.WithLogger(a.log), catalog.WithFaultReporter(faults))
	for _, register := range a.register {
		if err := register(cat); err != nil {
			return nil, &InitError{Component: "go scripts", Err: err}
		}
	}

	rt := lua.NewRuntime(lua.WithLogger(a.log), lua.WithCallTimeout(a.cfg.Scripts.CallTimeout.Std()))
	snap := &Snapshot{Spells: spells, Catalog: cat, runtime: rt, log: a.log}

	res, scriptErr := a.loadScripts(rt)
	snap.Scripts = res
	snap.ScriptErrors = scriptErr
	if scriptErr != nil {
		a.log.Warn("script errors: %v", scriptErr)
	}
	if err := rt.Bind(cat); err != nil {
		rt.Close()
		return nil, &InitError{Component: "lua scripts", Err: err}
	}

	if err := cat.Load(spells, bindings); err != nil {
		rt.Close()
		return nil, &InitError{Component: "catalog", Err: err}
	}

	snap.LoadedAt = time.Now()
	snap.Elapsed = snap.LoadedAt.Sub(start)
	a.log.Info("loaded %d spells and %d bindings in %v", spells.Len(), len(bindings), snap.Elapsed)
	return snap, nil
}

func (a *Application) loadScripts(rt *lua.Runtime) (*lua.LoadResult, error) {
	dir := a.cfg.Scripts.Dir
	if dir == "" {
		return &lua.LoadResult{}, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.log.Warn("%v: %s", ErrNoScriptsDir, dir)
			return &lua.LoadResult{}, nil
		}
		return &lua.LoadResult{}, err
	}
	if !info.IsDir() {
		return &lua.LoadResult{}, fmt.Errorf("%w: %s is not a directory", ErrNoScriptsDir, dir)
	}

	loader := lua.NewLoader(os.DirFS(dir),
		lua.WithPattern(a.cfg.Scripts.Pattern),
		lua.WithWorkers(a.cfg.Scripts.Workers),
		lua.WithLoaderLogger(a.log),
	)
	res, err := loader.Load(rt)
	if res == nil {
		res = &lua.LoadResult{}
	}
	return res, err
}
