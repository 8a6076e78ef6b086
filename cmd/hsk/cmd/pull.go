package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
)

var pullCommand = core.NewCommand(core.CommandConfig{
	Confirm: &core.ConfirmConfig{
		Message: "This may overwrite the contents of existing HomeyScripts in the '{event.flags.dir}' directory. Are you sure you want to continue?",
		Default: false,
	},
	Defaults: core.Flags{"dir": workspace.DefaultPullDir},
}, withSpinner("Pulling HomeyScripts...", func(ctx context.Context, client core.ScriptClient, event core.Event) (core.Normalized, error) {
	return app.orchestrator(client).Pull(ctx, event.Flags.GetString("dir"))
}))

var pullCmd = &cobra.Command{
	Use:   "pull [dir]",
	Short: "Pull all remote scripts and save them locally",
	Long: `Pull every script from the hub into <dir>/<name>/index.js.

The directory defaults to "packages". Existing files are overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := core.Event{Flags: explicitFlags(cmd), Args: args}
		dirFromArgs(&event)

		res, err := runCommand(cmd, pullCommand, event)
		if err != nil {
			return err
		}
		return printResults(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
