package cmd

import (
	"context"
	"io"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/homeyscriptkit/hsk/internal/tui"
)

var showCommand = core.NewCommand(core.CommandConfig{},
	withSpinner("Fetching HomeyScript...", func(ctx context.Context, client core.ScriptClient, event core.Event) (homey.Script, error) {
		return app.orchestrator(client).Show(ctx, event.Args[0])
	}),
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the code of a remote script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := runCommand(cmd, showCommand, core.Event{Args: args})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if app.jsonOut {
			return tui.RenderJSON(out, s)
		}
		styled, width := terminalInfo(out)
		return tui.RenderCode(out, s, styled, width)
	},
}

// terminalInfo reports whether w is a terminal and its width.
func terminalInfo(w io.Writer) (bool, int) {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(f.Fd()) {
		return false, 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return true, 0
	}
	return true, width
}

func init() {
	rootCmd.AddCommand(showCmd)
}
