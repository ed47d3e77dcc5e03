package lua

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/remeh/sizedwaitgroup"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// DefaultPattern matches every Lua file below the scripts directory.
const DefaultPattern = "**/*.lua"

// Loader discovers and compiles script files and runs them in a Runtime.
type Loader struct {
	fsys    fs.FS
	pattern string
	workers int
	log     *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPattern sets the doublestar pattern used to find script files.
func WithPattern(pattern string) LoaderOption {
	return func(l *Loader) {
		if pattern != "" {
			l.pattern = pattern
		}
	}
}

// WithWorkers bounds how many files compile at once.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLoaderLogger sets the loader's logger.
func WithLoaderLogger(log *logging.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:    fsys,
		pattern: DefaultPattern,
		workers: runtime.NumCPU(),
		log:     logging.NewNull(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discover returns the matching files in lexical order.
func (l *Loader) Discover() ([]string, error) {
	files, err := doublestar.Glob(l.fsys, l.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover %q: %w", l.pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// Compile parses and compiles files concurrently. Entries for files that
// failed are nil, and their errors are joined.
func (l *Loader) Compile(files []string) ([]*lua.FunctionProto, error) {
	protos := make([]*lua.FunctionProto, len(files))
	errs := make([]error, len(files))

	wg := sizedwaitgroup.New(l.workers)
	for i, file := range files {
		i, file := i, file
		wg.Add()
		go func() {
			defer wg.Done()
			protos[i], errs[i] = l.compile(file)
		}()
	}
	wg.Wait()
	return protos, errors.Join(errs...)
}

func (l *Loader) compile(file string) (*lua.FunctionProto, error) {
	src, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, &CompileError{Path: file, Err: err}
	}
	chunk, err := parse.Parse(bytes.NewReader(src), file)
	if err != nil {
		return nil, &CompileError{Path: file, Err: err}
	}
	proto, err := lua.Compile(chunk, file)
	if err != nil {
		return nil, &CompileError{Path: file, Err: err}
	}
	return proto, nil
}

// LoadResult lists what a Load found.
type LoadResult struct {
	Files   []string
	Failed  []string
	Scripts []string
}

// Load discovers, compiles and runs every script file in rt. Files run
// one at a time in lexical order; a file that fails does not stop the
// rest. The returned error joins every failure.
func (l *Loader) Load(rt *Runtime) (*LoadResult, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}
	res := &LoadResult{Files: files}
	protos, compileErr := l.Compile(files)
	errs := []error{compileErr}
	for i, proto := range protos {
		if proto == nil {
			res.Failed = append(res.Failed, files[i])
			continue
		}
		if err := rt.Exec(files[i], proto); err != nil {
			res.Failed = append(res.Failed, files[i])
			errs = append(errs, err)
		}
	}
	res.Scripts = rt.Names()
	l.log.Info("loaded %d script files (%d failed), %d scripts", len(files), len(res.Failed), len(res.Scripts))
	return res, errors.Join(errs...)
}
