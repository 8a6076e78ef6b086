package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/homeyscriptkit/hsk/internal/tui"
)

var listCommand = core.NewCommand(core.CommandConfig{},
	withSpinner("Fetching HomeyScripts...", func(ctx context.Context, client core.ScriptClient, _ core.Event) ([]homey.Script, error) {
		return app.orchestrator(client).List(ctx)
	}),
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all remote HomeyScripts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scripts, err := runCommand(cmd, listCommand, core.Event{Args: args})
		if err != nil {
			return err
		}
		if app.jsonOut {
			if scripts == nil {
				scripts = []homey.Script{}
			}
			return tui.RenderJSON(cmd.OutOrStdout(), scripts)
		}
		tui.RenderScriptsTable(cmd.OutOrStdout(), scripts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
