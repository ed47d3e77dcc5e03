package config_test

import (
	"errors"
	"slices"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/spellhook/internal/config"
	"github.com/dshills/spellhook/internal/config/loader"
)

const testPrefix = "SPELLHOOKTEST_"

func load(t *testing.T, content string, opts ...config.Option) (*config.Config, config.Source, error) {
	t.Helper()
	fsys := fstest.MapFS{}
	if content != "" {
		fsys["spellhook.toml"] = &fstest.MapFile{Data: []byte(content)}
	}
	opts = append([]config.Option{config.WithFS(fsys), config.WithEnvPrefix(testPrefix)}, opts...)
	return config.Load("spellhook.toml", opts...)
}

// TestLoadDefaults verifies a missing file yields the defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, src, err := load(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *config.Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if src.File != "" {
		t.Errorf("Source.File = %q, want empty", src.File)
	}
}

// TestLoadFile verifies file settings override the defaults.
func TestLoadFile(t *testing.T) {
	cfg, src, err := load(t, `
[logging]
level = "debug"

[scripts]
dir = "lua"
workers = 2
call_timeout = "1s"
watch = true

[faults]
rate = 0.5
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.File != "spellhook.toml" {
		t.Errorf("Source.File = %q", src.File)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Scripts.Dir != "lua" || cfg.Scripts.Workers != 2 || !cfg.Scripts.Watch {
		t.Errorf("Scripts = %+v", cfg.Scripts)
	}
	if cfg.Scripts.CallTimeout.Std() != time.Second {
		t.Errorf("CallTimeout = %v, want 1s", cfg.Scripts.CallTimeout.Std())
	}
	if cfg.Scripts.Pattern != "**/*.lua" {
		t.Errorf("Pattern = %q, want default kept", cfg.Scripts.Pattern)
	}
	if cfg.Faults.Rate != 0.5 || cfg.Faults.Burst != 5 {
		t.Errorf("Faults = %+v", cfg.Faults)
	}
}

// TestLoadUnknownKey verifies unknown settings are rejected with a location.
func TestLoadUnknownKey(t *testing.T) {
	_, _, err := load(t, "[scripts]\nbogus = 1\n")
	var pe *loader.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
}

// TestLoadEnv verifies environment variables override the file.
func TestLoadEnv(t *testing.T) {
	t.Setenv(testPrefix+"SCRIPTS_WORKERS", "3")
	t.Setenv(testPrefix+"SCRIPTS_CALL_TIMEOUT", "75ms")

	cfg, src, err := load(t, "[scripts]\nworkers = 2\n")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scripts.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Scripts.Workers)
	}
	if cfg.Scripts.CallTimeout.Std() != 75*time.Millisecond {
		t.Errorf("CallTimeout = %v, want 75ms", cfg.Scripts.CallTimeout.Std())
	}
	want := []string{"scripts.call_timeout", "scripts.workers"}
	if !slices.Equal(src.Env, want) {
		t.Errorf("Source.Env = %v, want %v", src.Env, want)
	}
}

// TestLoadUnknownEnv verifies a prefixed variable naming no setting fails.
func TestLoadUnknownEnv(t *testing.T) {
	t.Setenv(testPrefix+"SCRIPTS_COLOUR", "red")
	if _, _, err := load(t, ""); err == nil {
		t.Error("Load() error = nil, want unknown setting error")
	}
}

// TestLoadOverride verifies overrides win over the environment.
func TestLoadOverride(t *testing.T) {
	t.Setenv(testPrefix+"SCRIPTS_WORKERS", "3")

	cfg, _, err := load(t, "", config.WithOverride("scripts.workers", 7), config.WithOverride("logging.level", "warn"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scripts.Workers != 7 {
		t.Errorf("Workers = %d, want 7", cfg.Scripts.Workers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

// TestLoadInvalid verifies values are validated after layering.
func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"level", "[logging]\nlevel = \"loud\"\n"},
		{"workers", "[scripts]\nworkers = -1\n"},
		{"pattern", "[scripts]\npattern = \"[\"\n"},
		{"faults", "[faults]\nburst = -2\n"},
		{"spells", "[data]\nspells = \"\"\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := load(t, tt.content)
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// TestLoadBadDuration verifies an unparsable duration is a load error.
func TestLoadBadDuration(t *testing.T) {
	if _, _, err := load(t, "[scripts]\ncall_timeout = \"soon\"\n"); err == nil {
		t.Error("Load() error = nil, want duration error")
	}
}

// TestDurationText verifies Duration round trips through text.
func TestDurationText(t *testing.T) {
	var d config.Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("Std() = %v, want 1m30s", d.Std())
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q", text)
	}
}
