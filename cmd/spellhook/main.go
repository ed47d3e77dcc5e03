// Package main is the entry point for the spellhook tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/spellhook/internal/app"
	"github.com/dshills/spellhook/internal/config"
	"github.com/dshills/spellhook/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks a command line mistake; usage has already been printed.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// command is one spellhook subcommand.
type command struct {
	name    string
	summary string
	run     func(env *cmdEnv, args []string) error
}

var commands = []command{
	{"validate", "Load spell data, bindings and scripts and report validation results", runValidate},
	{"schema", "Print the JSON schema of the spell data or bindings file", runSchema},
	{"cast", "Cast a spell on the reference engine and print the hook trace", runCast},
	{"watch", "Revalidate whenever spell data, bindings or scripts change", runWatch},
}

// cmdEnv is what every command needs.
type cmdEnv struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	log    *logging.Logger
}

func (e *cmdEnv) app() *app.Application {
	return app.New(e.cfg, app.WithLogger(e.log))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("spellhook", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		logLevel    string
		scriptsDir  string
		showVersion bool
	)
	fs.StringVar(&configPath, "config", "", "Path to configuration file (default "+config.DefaultPath+")")
	fs.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&scriptsDir, "scripts", "", "Lua scripts directory")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "spellhook %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	name, rest := "validate", fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
		usage(fs, stderr)
		return 2
	}

	var overrides []config.Option
	if logLevel != "" {
		overrides = append(overrides, config.WithOverride("logging.level", logLevel))
	}
	if scriptsDir != "" {
		overrides = append(overrides, config.WithOverride("scripts.dir", scriptsDir))
	}
	cfg, src, err := config.Load(configPath, overrides...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Output: stderr,
		Prefix: cfg.Logging.Prefix,
	})
	if src.File != "" {
		log.Debug("config: %s", src.File)
	}
	if len(src.Env) > 0 {
		log.Debug("config from environment: %v", src.Env)
	}

	env := &cmdEnv{stdout: stdout, stderr: stderr, cfg: cfg, log: log}
	if err := cmd.run(env, rest); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "spellhook - spell and aura script framework\n\n")
	fmt.Fprintf(w, "Usage: spellhook [options] [command] [command options]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  spellhook                         Validate using spellhook.toml\n")
	fmt.Fprintf(w, "  spellhook cast -spell 133         Cast Fireball and print the trace\n")
	fmt.Fprintf(w, "  spellhook schema -kind bindings   Print the bindings schema\n")
	fmt.Fprintf(w, "  spellhook -scripts lua watch      Revalidate on every change\n")
}
