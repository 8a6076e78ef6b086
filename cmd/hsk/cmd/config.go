package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and edit the project configuration",
	Long: `Read and edit .hsk.json in the current directory.

Valid keys: ` + strings.Join(core.ConfigKeys(), ", ") + `.
"get" shows the effective value after merging ~/.hsk/config.json, the
project file and ${VAR} expansion; "set" and "unset" edit .hsk.json only.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := app.config.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in .hsk.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.config.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], app.config.ProjectPath())
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a key from .hsk.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.config.Unset(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], app.config.ProjectPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .hsk.json from the current settings",
	Long: `Write .hsk.json from the effective settings: flags, HSK_* variables and
~/.hsk/config.json. Fails when the project already has a config file.`,
	Example: `  hsk config init --ip 192.168.1.100 --api-key your-api-key`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := app.config.Init(app.settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file locations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "global:  %s\nproject: %s\n", app.config.GlobalPath(), app.config.ProjectPath())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configGetCmd, configSetCmd, configUnsetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
