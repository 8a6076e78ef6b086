package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
	"github.com/homeyscriptkit/hsk/internal/logging"
	"github.com/homeyscriptkit/hsk/internal/tracing"
	"github.com/homeyscriptkit/hsk/internal/tui"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	settings *core.Config // effective settings after env and flags
	session  core.SessionConfig
	logger   *slog.Logger
	store    *workspace.Store
	term     *tui.Terminal
	clients  core.ClientFactory

	verbose  bool
	jsonOut  bool
	shutdown tracing.ShutdownFunc
}

// app is filled in by the root command before any subcommand runs.
var app = &deps{}

// newDeps loads the configuration, applies HSK_* variables and then flags
// (highest precedence), and sets up logging and tracing.
func newDeps(cmd *cobra.Command) (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	jsonOut, _ := flags.GetBool("json")

	level := cfg.LogLevel
	if flags.Changed("log-level") {
		level, _ = flags.GetString("log-level")
	}
	if _, err := logging.ParseLevel(level); err != nil {
		return nil, err
	}
	if verbose && !flags.Changed("log-level") && cfg.LogLevel == "" {
		level = "info"
	}
	logger := logging.Setup(level, os.Stderr)

	d := &deps{
		config:   config,
		settings: cfg,
		session:  cfg.Session(),
		logger:   logger,
		store:    workspace.New(),
		term:     tui.NewTerminal(os.Stdin, os.Stderr),
		clients:  core.NewClientFactory(logger, homey.WithLogger(logger)),
		verbose:  verbose,
		jsonOut:  jsonOut,
	}

	if traceOn, _ := flags.GetBool("trace"); traceOn {
		shutdown, err := tracing.Init("hsk", Version, os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("initializing tracing: %w", err)
		}
		d.shutdown = shutdown
	}
	return d, nil
}

func applyFlags(cmd *cobra.Command, cfg *core.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("ip") {
		cfg.IP, _ = flags.GetString("ip")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("https") {
		cfg.HTTPS, _ = flags.GetBool("https")
	}
}

func (d *deps) close(ctx context.Context) error {
	if d.shutdown == nil {
		return nil
	}
	return d.shutdown(ctx)
}

func (d *deps) orchestrator(client core.ScriptClient) *core.Orchestrator {
	return core.NewOrchestrator(client, d.store, d.logger)
}

func (d *deps) runtime() core.Runtime {
	return core.Runtime{
		Session:  d.session,
		Clients:  d.clients,
		Prompter: d.term,
	}
}
