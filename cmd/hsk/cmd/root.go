package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/homeyscriptkit/hsk/internal/logging"
	"github.com/homeyscriptkit/hsk/internal/tui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hsk",
	Short: "Sync HomeyScripts between your project and a Homey hub",
	Long: `hsk keeps HomeyScripts in sync between a local project and a Homey hub.

List, push, pull, back up and restore scripts over the hub's local API.

An API key and the hub address are required. Pass --api-key and --ip, set
HSK_API_KEY and HSK_IP, or configure them in .hsk.json. Flags take
precedence over the environment, which takes precedence over config files.

To create an API key, see:
https://support.homey.app/hc/en-us/articles/8178797067292-Getting-started-with-API-Keys`,
	Example: `  hsk sync --dir ./scripts
  hsk pull --dir ./my-scripts
  hsk list --api-key your-api-key --ip 192.168.1.100`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		app = d
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.close(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// Skip config loading so version works anywhere.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hsk %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "API key for Homey authentication")
	flags.String("ip", "", "Homey IP address")
	flags.String("host", "", "Full hub base URL (overrides --ip)")
	flags.BoolP("https", "s", false, "Use HTTPS instead of HTTP to connect to Homey")
	flags.Bool("verbose", false, "Show detailed error information")
	flags.StringP("dir", "d", "", "Directory for script operations")
	flags.BoolP("yes", "y", false, "Skip confirmation prompts")
	flags.Bool("json", false, "Print results as JSON")
	flags.String("log-level", "", "Log level ("+strings.Join(logging.Levels, ", ")+")")
	flags.Bool("trace", false, "Write OpenTelemetry spans to stderr")

	// Accept the camelCase spelling used in older docs.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "apiKey" {
			name = "api-key"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		tui.RenderError(os.Stderr, err, app.verbose || verboseRequested())
	}
	return err
}

// verboseRequested covers errors raised before deps were built.
func verboseRequested() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" || arg == "--verbose=true" {
			return true
		}
	}
	return false
}
