package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/spellhook/internal/app"
	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/spell"
	"github.com/dshills/spellhook/internal/watch"
	"github.com/invopop/jsonschema"
)

// errRejected is returned by validate -strict when anything failed.
var errRejected = errors.New("validation failed")

func newFlagSet(env *cmdEnv, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("spellhook "+name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

func runValidate(env *cmdEnv, args []string) error {
	fs := newFlagSet(env, "validate")
	strict := fs.Bool("strict", false, "Exit non-zero when a binding is rejected or a script fails to load")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	snap, err := env.app().Load()
	if err != nil {
		return err
	}
	defer snap.Close()

	fmt.Fprint(env.stdout, renderReport(snap))
	if *strict && (snap.ScriptErrors != nil || snap.Valid() != len(snap.Reports())) {
		return errRejected
	}
	return nil
}

func runSchema(env *cmdEnv, args []string) error {
	fs := newFlagSet(env, "schema")
	kind := fs.String("kind", "spells", "Schema to print: spells or bindings")
	out := fs.String("out", "", "Write the schema to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var schema *jsonschema.Schema
	switch *kind {
	case "spells":
		schema = spell.Schema()
	case "bindings":
		schema = catalog.Schema()
	default:
		fmt.Fprintf(env.stderr, "Error: unknown schema kind %q\n", *kind)
		return errUsage
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')
	if *out == "" {
		_, err = env.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

func runCast(env *cmdEnv, args []string) error {
	fs := newFlagSet(env, "cast")
	spellID := fs.Uint("spell", 0, "Spell id to cast (required)")
	target := fs.Uint64("target", 2, "Target unit id; 1 is the caster")
	health := fs.Int64("health", 1000, "Starting health of both units")
	tick := fs.Duration("tick", 0, "Advance auras by this long after the cast")
	showTrace := fs.Bool("trace", true, "Print every hook dispatch")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *spellID == 0 {
		fmt.Fprintln(env.stderr, "Error: -spell is required")
		fs.Usage()
		return errUsage
	}

	snap, err := env.app().Load()
	if err != nil {
		return err
	}
	defer snap.Close()

	res, err := snap.Cast(app.CastRequest{
		Spell:  uint32(*spellID),
		Caster: 1,
		Target: combat.ObjectID(*target),
		Health: *health,
		TickMs: int32(tick.Milliseconds()),
	})
	if err != nil {
		return err
	}
	fmt.Fprint(env.stdout, renderCast(res, *showTrace))
	return nil
}

func runWatch(env *cmdEnv, args []string) error {
	fs := newFlagSet(env, "watch")
	delay := fs.Duration("delay", watch.DefaultDelay, "Quiet period before revalidating")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a := env.app()
	snap, err := a.Load()
	if err != nil {
		return err
	}
	fmt.Fprint(env.stdout, renderReport(snap))

	w, err := a.NewWatcher(*delay)
	if err != nil {
		snap.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reloads := 0
	last := a.Watch(ctx, w, snap, func(changed []string, next *app.Snapshot, err error) {
		reloads++
		fmt.Fprint(env.stdout, renderReload(reloads, changed, time.Now()))
		if err != nil {
			fmt.Fprintf(env.stdout, "%s\n\n", errorStyle.Render(err.Error()))
			return
		}
		fmt.Fprint(env.stdout, renderReport(next))
	})
	return last.Close()
}
