package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐┌┬┐┌─┐┬─┐
  ├┬┘├┤ ├─┤│   │ │ │├┬┘
  ┴└─└─┘┴ ┴└─┘ ┴ └─┘┴└─
`

// colorOutput is false when stdout is not a terminal.
var colorOutput = true

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	jsonLogs   bool
}

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		colorOutput = false
		errors.DisableColors()
	}

	var flags globalFlags
	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "A hooks-based UI reconciliation engine",
		Long: `Reactor keeps a tree of mounted components in sync with a
renderer backend.

Components are plain Go functions that use hooks for local
state and effects. Reactor diffs each render against the mounted
tree and applies the minimal set of changes through the renderer.

  • Positional and keyed child reconciliation
  • Batched state updates, one render per component per commit
  • Effects with dependency gating and cleanup on unmount
  • Devtools server with tree snapshots and an event stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: reactor.json or reactor.yaml in the project root)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonLogs, "json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(
		demoCmd(&flags),
		serveCmd(&flags),
		snapshotCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration named by --config, or the project's
// configuration, falling back to defaults when there is none.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.Code(err) == "RE100" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.jsonLogs {
		cfg.Log.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg. Logs go to stderr so they
// never mix with command output.
func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

func paint(code, text string) string {
	if !colorOutput {
		return text
	}
	return code + text + "\033[0m"
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}
