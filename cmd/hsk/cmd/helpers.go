package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/tui"
)

// Flags never exposed to handlers or confirmation messages.
var secretFlags = map[string]bool{"api-key": true}

// explicitFlags returns the flags set on the command line.
func explicitFlags(cmd *cobra.Command) core.Flags {
	flags := core.Flags{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if secretFlags[f.Name] {
			return
		}
		if f.Value.Type() == "bool" {
			b, err := strconv.ParseBool(f.Value.String())
			if err == nil {
				flags[f.Name] = b
				return
			}
		}
		flags[f.Name] = f.Value.String()
	})
	return flags
}

// runCommand runs c. Flags default to the ones set on the command line.
func runCommand[T any](cmd *cobra.Command, c *core.Command[T], event core.Event) (T, error) {
	if event.Flags == nil {
		event.Flags = explicitFlags(cmd)
	}
	return c.Run(cmd.Context(), event, app.runtime())
}

// withSpinner runs h under a spinner. The spinner starts after any
// confirmation prompt has been answered.
func withSpinner[T any](title string, h core.Handler[T]) core.Handler[T] {
	return func(ctx context.Context, client core.ScriptClient, event core.Event) (T, error) {
		return tui.RunWithSpinner(ctx, app.term, title, func(ctx context.Context) (T, error) {
			return h(ctx, client, event)
		})
	}
}

// printResults writes a batch outcome. Failed items are reported, not
// turned into an error: the process still exits 0.
func printResults(cmd *cobra.Command, res core.Normalized) error {
	out := cmd.OutOrStdout()
	if app.jsonOut {
		return tui.RenderJSON(out, res)
	}
	tui.RenderResults(out, res)
	return nil
}

// dirFromArgs lets a positional directory override --dir.
func dirFromArgs(event *core.Event) {
	if len(event.Args) > 0 && event.Args[0] != "" {
		event.Flags["dir"] = event.Args[0]
	}
}
