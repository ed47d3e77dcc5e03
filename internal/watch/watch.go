// Package watch reports changes to spell data, bindings and script files.
//
// Changes are debounced: a burst of writes, such as an editor saving
// several files, is delivered as one Batch once the tree has been quiet
// for the configured delay.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// DefaultDelay is the quiet period before a batch is delivered.
const DefaultDelay = 200 * time.Millisecond

// Op is a set of file system operations.
type Op uint32

const (
	// OpCreate indicates a file or directory was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

func (op Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "CREATE"}, {OpWrite, "WRITE"}, {OpRemove, "REMOVE"}, {OpRename, "RENAME"}} {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Batch is the set of paths that changed during one burst.
type Batch struct {
	// Paths are the changed files, sorted.
	Paths []string
	// Ops combines the operations seen for each path, by path.
	Ops map[string]Op
}

// Watcher watches files and directory trees.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	log      *logging.Logger
	patterns []string
	dirs     map[string]bool
	files    map[string]bool

	deb      *debouncer
	batches  chan Batch
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.deb.delay = d
		}
	}
}

// WithPatterns restricts events inside watched trees to paths matching
// one of the doublestar patterns, relative to the tree root. Explicitly
// watched files always pass.
func WithPatterns(patterns ...string) Option {
	return func(w *Watcher) {
		w.patterns = append(w.patterns, patterns...)
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(log *logging.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a watcher. Batches are delivered on Batches until Close.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		log:     logging.NewNull(),
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		batches: make(chan Batch, 16),
		closeCh: make(chan struct{}),
	}
	w.deb = newDebouncer(DefaultDelay, w.deliver)
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("watch")

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// AddFile watches a single file. Its directory is watched so that editors
// replacing the file by rename are still seen.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}
	if err := w.watchDir(filepath.Dir(abs), false); err != nil {
		return err
	}
	w.files[abs] = true
	return nil
}

// AddTree watches root and every directory below it. Directories created
// later are added as they appear.
func (w *Watcher) AddTree(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}
	if !info.IsDir() {
		return w.AddFile(abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watchDir(p, true)
	})
}

// watchDir must be called with w.mu held.
func (w *Watcher) watchDir(dir string, tree bool) error {
	if tracked, ok := w.dirs[dir]; ok {
		w.dirs[dir] = tracked || tree
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = tree
	return nil
}

// Batches returns the channel of debounced changes. It is closed by Close.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// WatchedDirs returns the directories registered with fsnotify, sorted.
func (w *Watcher) WatchedDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Close stops the watcher and closes Batches.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.deb.stop()
	w.closedWg.Wait()
	close(w.batches)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	if op.Has(OpCreate) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.dirs[filepath.Dir(path)] && !w.closed {
				if err := w.watchDir(path, true); err != nil {
					w.log.Warn("watching new directory %s: %v", path, err)
				}
			}
			w.mu.Unlock()
			return
		}
	}

	if !w.wants(path) {
		return
	}
	w.log.Debug("%s %s", op, path)
	w.deb.add(path, op)
}

// wants reports whether a change to path should be delivered.
func (w *Watcher) wants(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[path] {
		return true
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if tree := w.dirs[dir]; tree {
			return w.matches(dir, path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
	}
}

// matches checks path against the patterns relative to the tree root
// that contains it. It must be called with w.mu held.
func (w *Watcher) matches(dir, path string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	root := dir
	for parent := filepath.Dir(root); w.dirs[parent]; parent = filepath.Dir(root) {
		root = parent
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) deliver(b Batch) {
	select {
	case w.batches <- b:
	case <-w.closeCh:
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
