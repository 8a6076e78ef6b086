package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
)

var syncCommand = core.NewCommand(core.CommandConfig{
	Confirm: &core.ConfirmConfig{
		Message: "This may overwrite the contents of existing HomeyScripts. Are you sure you want to continue?",
		Default: false,
	},
	Defaults: core.Flags{"dir": workspace.DefaultPushDir},
}, withSpinner("Pushing HomeyScripts...", func(ctx context.Context, client core.ScriptClient, event core.Event) (core.Normalized, error) {
	opts := core.PushOptions{Dir: event.Flags.GetString("dir")}
	if len(event.Args) > 0 {
		opts.Name = event.Args[0]
	}
	return app.orchestrator(client).Push(ctx, opts)
}))

var syncCmd = &cobra.Command{
	Use:     "sync [script]",
	Aliases: []string{"push"},
	Short:   "Push bundled scripts to the hub",
	Long: `Push the bundled scripts in --dir (default "dist") to the hub.

Every homeyscript.<name>.min.js file becomes the script <name>. A script
with the same name on the hub is updated; otherwise a new one is created.
Pass a script name to push only homeyscript.<name>.min.js.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runCommand(cmd, syncCommand, core.Event{Args: args})
		if err != nil {
			return err
		}
		return printResults(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
