package watch

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

const waitFor = 3 * time.Second

func nextBatch(t *testing.T, w *Watcher) Batch {
	t.Helper()
	select {
	case b, ok := <-w.Batches():
		if !ok {
			t.Fatal("Batches closed")
		}
		return b
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for a batch")
	}
	return Batch{}
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{OpWrite, "WRITE"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpRemove | OpRename, "REMOVE|RENAME"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	out := make(chan Batch, 4)
	d := newDebouncer(20*time.Millisecond, func(b Batch) { out <- b })
	defer d.stop()

	d.add("b.lua", OpCreate)
	d.add("a.lua", OpWrite)
	d.add("b.lua", OpWrite)

	select {
	case b := <-out:
		if !slices.Equal(b.Paths, []string{"a.lua", "b.lua"}) {
			t.Errorf("Paths = %v", b.Paths)
		}
		if b.Ops["b.lua"] != OpCreate|OpWrite {
			t.Errorf("Ops[b.lua] = %v, want CREATE|WRITE", b.Ops["b.lua"])
		}
	case <-time.After(waitFor):
		t.Fatal("no batch delivered")
	}
	if n := d.pendingCount(); n != 0 {
		t.Errorf("pendingCount() = %d after delivery", n)
	}
}

func TestDebouncerStop(t *testing.T) {
	out := make(chan Batch, 1)
	d := newDebouncer(10*time.Millisecond, func(b Batch) { out <- b })
	d.add("a.lua", OpWrite)
	d.stop()
	d.add("b.lua", OpWrite)

	select {
	case b := <-out:
		t.Errorf("batch %v delivered after stop", b.Paths)
	case <-time.After(50 * time.Millisecond):
	}
	if n := d.pendingCount(); n != 0 {
		t.Errorf("pendingCount() = %d after stop", n)
	}
}

func TestWatcherTree(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithDelay(20*time.Millisecond), WithPatterns("**/*.lua"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.AddTree(dir); err != nil {
		t.Fatalf("AddTree() error = %v", err)
	}
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "fire.lua"), "x = 1")

	b := nextBatch(t, w)
	if got := baseNames(b.Paths); !slices.Equal(got, []string{"fire.lua"}) {
		t.Errorf("Paths = %v, want [fire.lua]", got)
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithDelay(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()
	if err := w.AddTree(dir); err != nil {
		t.Fatalf("AddTree() error = %v", err)
	}

	sub := filepath.Join(dir, "mage")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(waitFor)
	for !slices.Contains(w.WatchedDirs(), sub) {
		if time.Now().After(deadline) {
			t.Fatalf("WatchedDirs() = %v, want %s", w.WatchedDirs(), sub)
		}
		time.Sleep(5 * time.Millisecond)
	}

	writeFile(t, filepath.Join(sub, "frost.lua"), "x = 1")
	b := nextBatch(t, w)
	if !slices.Contains(baseNames(b.Paths), "frost.lua") {
		t.Errorf("Paths = %v, want frost.lua", b.Paths)
	}
}

func TestWatcherFile(t *testing.T) {
	dir := t.TempDir()
	spells := filepath.Join(dir, "spells.yaml")
	writeFile(t, spells, "spells: []")

	w, err := New(WithDelay(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()
	if err := w.AddFile(spells); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.yaml"), "x")
	writeFile(t, spells, "spells: [] # edited")

	b := nextBatch(t, w)
	if got := baseNames(b.Paths); !slices.Equal(got, []string{"spells.yaml"}) {
		t.Errorf("Paths = %v, want [spells.yaml]", got)
	}
}

func TestWatcherErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bindings.yaml")
	writeFile(t, file, "bindings: []")

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.AddFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("AddFile(missing) error = %v, want ErrPathNotExist", err)
	}
	if err := w.AddFile(file); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	if err := w.AddFile(file); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("AddFile(again) error = %v, want ErrAlreadyWatching", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.AddTree(dir); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("AddTree() after Close error = %v, want ErrWatcherClosed", err)
	}
	if _, ok := <-w.Batches(); ok {
		t.Error("Batches not closed after Close")
	}
}
