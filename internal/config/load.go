package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/spellhook/internal/config/loader"
)

// Source records where the settings of a loaded Config came from.
type Source struct {
	// File is the config file path, empty when no file was read.
	File string
	// Env lists the section.key paths set from the environment.
	Env []string
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
	overrides map[string]any
}

// WithFS reads the config file from fsys instead of the OS.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithOverride sets path (section.key) above every other layer.
func WithOverride(path string, value any) Option {
	return func(o *options) {
		section, key, ok := strings.Cut(path, ".")
		if !ok || section == "" || key == "" {
			return
		}
		o.overrides = loader.DeepMerge(o.overrides, map[string]any{section: map[string]any{key: value}})
	}
}

// Load resolves the configuration from the defaults, the file at path (a
// missing file is not an error), the environment, and overrides, then
// validates it. An empty path means DefaultPath.
func Load(path string, opts ...Option) (*Config, Source, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	var src Source

	found, err := loader.NewTOMLLoaderWithFS(o.fs, path).Decode(cfg)
	if err != nil {
		return nil, src, err
	}
	if found {
		src.File = path
	}

	env := loader.NewEnvLoader(o.envPrefix).Load()
	for section, v := range env {
		if keys, ok := v.(map[string]any); ok {
			for key := range keys {
				src.Env = append(src.Env, section+"."+key)
			}
		}
	}
	sort.Strings(src.Env)
	layered := loader.DeepMerge(env, o.overrides)
	if err := loader.DecodeMap("environment", layered, cfg); err != nil {
		return nil, src, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, src, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, src, nil
}
