package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
)

var restoreCommand = core.NewCommand(core.CommandConfig{
	Confirm: &core.ConfirmConfig{
		Message: "This will delete all remote HomeyScripts. Are you sure?",
		Default: false,
	},
	Defaults: core.Flags{"dir": workspace.DefaultRestoreDir},
}, withSpinner("Restoring HomeyScripts...", func(ctx context.Context, client core.ScriptClient, event core.Event) (core.Normalized, error) {
	return app.orchestrator(client).Restore(ctx, event.Flags.GetString("dir"), event.Flags.GetString("script"))
}))

var restoreCmd = &cobra.Command{
	Use:   "restore [dir]",
	Short: "Restore scripts from backup files",
	Long: `Recreate scripts from the JSON backups in <dir> (default "backup").

Without --script every remote script is deleted first and every backup is
restored. With --script only that backup is restored; existing scripts are
left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := core.Event{Flags: explicitFlags(cmd), Args: args}
		dirFromArgs(&event)

		res, err := runCommand(cmd, restoreCommand, event)
		if err != nil {
			return err
		}
		return printResults(cmd, res)
	},
}

func init() {
	restoreCmd.Flags().String("script", "", "Restore only this backup (name with or without .json)")
	rootCmd.AddCommand(restoreCmd)
}
