package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/dshills/spellhook/internal/watch"
)

// NewWatcher creates a watcher over the spell data, the bindings and the
// scripts directory.
func (a *Application) NewWatcher(delay time.Duration) (*watch.Watcher, error) {
	w, err := watch.New(
		watch.WithDelay(delay),
		watch.WithPatterns(a.cfg.Scripts.Pattern),
		watch.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	for _, f := range []string{a.cfg.Data.Spells, a.cfg.Data.Bindings} {
		if f == "" {
			continue
		}
		if err := w.AddFile(f); err != nil {
			w.Close()
			return nil, &InitError{Component: "watcher", Err: err}
		}
	}
	if dir := a.cfg.Scripts.Dir; dir != "" {
		if err := w.AddTree(dir); err != nil && !errors.Is(err, watch.ErrPathNotExist) {
			w.Close()
			return nil, &InitError{Component: "watcher", Err: err}
		}
	}
	return w, nil
}

// Watch reloads a snapshot for every batch w delivers until ctx is done.
// onReload sees each attempt. A failed reload keeps the current snapshot;
// a successful one replaces and closes it. Watch closes w and returns the
// snapshot in use when it stops; the caller owns that snapshot.
func (a *Application) Watch(ctx context.Context, w *watch.Watcher, current *Snapshot, onReload func(changed []string, snap *Snapshot, err error)) *Snapshot {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return current
		case b, ok := <-w.Batches():
			if !ok {
				return current
			}
			changed := make([]string, len(b.Paths))
			for i, p := range b.Paths {
				changed[i] = filepath.Base(p)
			}
			a.log.Info("reloading after changes to %v", changed)

			snap, err := a.Load()
			if err == nil {
				if current != nil {
					current.Close()
				}
				current = snap
			}
			if onReload != nil {
				onReload(b.Paths, snap, err)
			}
		}
	}
}
