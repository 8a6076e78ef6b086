package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
)

var backupCommand = core.NewCommand(core.CommandConfig{
	Defaults: core.Flags{"dir": workspace.DefaultBackupDir},
}, withSpinner("Backing up HomeyScripts...", func(ctx context.Context, client core.ScriptClient, event core.Event) (core.Normalized, error) {
	var id string
	if len(event.Args) > 0 {
		id = event.Args[0]
	}
	return app.orchestrator(client).Backup(ctx, event.Flags.GetString("dir"), id)
}))

var backupCmd = &cobra.Command{
	Use:   "backup [script-id]",
	Short: "Back up scripts as JSON files",
	Long: `Write the full record of every remote script to <dir>/<name>.json.

The directory defaults to "backup". Pass a script ID to back up only that
script.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runCommand(cmd, backupCommand, core.Event{Args: args})
		if err != nil {
			return err
		}
		return printResults(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
