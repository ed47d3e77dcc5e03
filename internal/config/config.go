package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dshills/spellhook/internal/logging"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "spellhook.toml"

// Config is the complete spellhook configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Data    DataConfig    `toml:"data"`
	Scripts ScriptsConfig `toml:"scripts"`
	Faults  FaultsConfig  `toml:"faults"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

// DataConfig names the spell data and bindings files.
type DataConfig struct {
	Spells   string `toml:"spells"`
	Bindings string `toml:"bindings"`
}

// ScriptsConfig configures Lua script discovery and execution.
type ScriptsConfig struct {
	Dir         string   `toml:"dir"`
	Pattern     string   `toml:"pattern"`
	Workers     int      `toml:"workers"`
	CallTimeout Duration `toml:"call_timeout"`
	Watch       bool     `toml:"watch"`
}

// FaultsConfig limits how often faults of one script and hook are logged.
type FaultsConfig struct {
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Prefix: "spellhook"},
		Data: DataConfig{
			Spells:   filepath.Join("data", "spells.yaml"),
			Bindings: filepath.Join("data", "bindings.yaml"),
		},
		Scripts: ScriptsConfig{
			Dir:         filepath.Join("data", "scripts"),
			Pattern:     "**/*.lua",
			CallTimeout: Duration(250 * time.Millisecond),
		},
		Faults: FaultsConfig{Rate: 1, Burst: 5},
	}
}

// Validate checks every setting and reports the first bad one.
func (c *Config) Validate() error {
	switch {
	case !logging.ValidLevel(c.Logging.Level):
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	case c.Data.Spells == "":
		return fmt.Errorf("%w: data.spells is empty", ErrInvalidConfig)
	case !doublestar.ValidatePattern(c.Scripts.Pattern):
		return fmt.Errorf("%w: scripts.pattern %q", ErrInvalidConfig, c.Scripts.Pattern)
	case c.Scripts.Workers < 0:
		return fmt.Errorf("%w: scripts.workers must not be negative", ErrInvalidConfig)
	case c.Scripts.CallTimeout < 0:
		return fmt.Errorf("%w: scripts.call_timeout must not be negative", ErrInvalidConfig)
	case c.Faults.Rate < 0 || c.Faults.Burst < 0:
		return fmt.Errorf("%w: faults.rate and faults.burst must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Logger builds the logger the logging section describes, writing to
// stderr.
func (c *Config) Logger() *logging.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(c.Logging.Level),
		Output: os.Stderr,
		Prefix: c.Logging.Prefix,
	})
}
