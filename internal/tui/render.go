package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/homeyscriptkit/hsk/internal/core"
	"github.com/homeyscriptkit/hsk/internal/core/homey"
)

const (
	maxNameWidth = 40
	unknownLabel = "Unknown"
)

// RenderResults prints the outcome of a batch: a SUCCESSFUL group, then a
// FAILED group, each item as "name (ACTION) (id)". Groups without items are
// left out.
func RenderResults(w io.Writer, n core.Normalized) {
	if n.Empty() {
		fmt.Fprintln(w, mutedStyle.Render("Nothing to do."))
		return
	}
	if len(n.Results) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No scripts processed."))
		return
	}

	var blocks []string
	if ok := n.Fulfilled(); len(ok) > 0 {
		lines := []string{successBadgeStyle.Render(fmt.Sprintf("%d SUCCESSFUL", len(ok)))}
		for _, f := range ok {
			lines = append(lines, resultLine(f.Script, f.Action, ""))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if failed := n.Rejected(); len(failed) > 0 {
		lines := []string{failureBadgeStyle.Render(fmt.Sprintf("%d FAILED", len(failed)))}
		for _, r := range failed {
			reason := ""
			if r.Reason != nil {
				reason = r.Reason.Error()
			}
			lines = append(lines, resultLine(r.Script, r.Action, reason))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
}

func resultLine(s homey.Script, action core.Action, reason string) string {
	name := orUnknown(s.Name)
	act := string(action)
	if act == "" {
		act = "UNKNOWN"
	}
	line := fmt.Sprintf("• %s (%s) %s", name, act, mutedStyle.Render("("+orUnknown(s.ID)+")"))
	if reason != "" {
		line += "\n    " + errorStyle.UnsetBold().Render(reason)
	}
	return itemStyle.Render(line)
}

// RenderScriptsTable prints scripts as a Name / Version / Last Executed / ID
// table.
func RenderScriptsTable(w io.Writer, scripts []homey.Script) {
	if len(scripts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No HomeyScripts found."))
		return
	}

	rows := make([][]string, 0, len(scripts))
	for _, s := range scripts {
		rows = append(rows, []string{
			ansi.Truncate(s.Name, maxNameWidth, "…"),
			s.Version.String(),
			FormatLastExecuted(s.LastExecuted),
			s.ID,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("Name", "Version", "Last Executed", "ID").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// FormatLastExecuted renders a hub timestamp in local time, "Never" when
// the script has not run. Unparseable values are shown as is.
func FormatLastExecuted(value string) string {
	if value == "" {
		return "Never"
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

// RenderError prints err. In verbose mode the cause chain and any hints
// attached to an HTTP failure follow the message.
func RenderError(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}
	if errors.Is(err, core.ErrCancelled) {
		fmt.Fprintln(w, warningStyle.Render(err.Error()))
		return
	}

	fmt.Fprintln(w, errorStyle.Render("Error:")+" "+err.Error())
	if !verbose {
		return
	}

	for _, cause := range core.Causes(err) {
		fmt.Fprintln(w, mutedStyle.Render("  caused by: ")+cause.Error())
	}
	if httpErr, ok := homey.IsHTTPError(err); ok {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %s %s → %s", httpErr.Method, httpErr.URL, httpErr.Kind)))
		for _, hint := range httpErr.Hints {
			fmt.Fprintln(w, hintStyle.Render("  hint: "+hint))
		}
	}
}

// RenderCode prints a script's code as a highlighted JavaScript block.
// Styling is dropped when the output is not a terminal.
func RenderCode(w io.Writer, s homey.Script, styled bool, width int) error {
	style := "notty"
	if styled {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	md := fmt.Sprintf("# %s\n\n```js\n%s\n```\n", s.Label(), strings.TrimRight(s.Code, "\n"))
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering code: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// RenderJSON prints v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
