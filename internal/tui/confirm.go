package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// ErrNotInteractive is returned by Confirm when there is no terminal to ask on.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal: pass --yes to continue")

// Terminal is where prompts and progress are shown.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// NewTerminal wraps in and out. Prompts and spinners are enabled only when
// both are terminals.
func NewTerminal(in, out *os.File) *Terminal {
	return &Terminal{
		In:          in,
		Out:         out,
		Interactive: term.IsTerminal(in.Fd()) && term.IsTerminal(out.Fd()),
	}
}

// Confirm asks a yes/no question. Enter picks the focused button; focus
// starts on Yes when defaultYes is set.
func (t *Terminal) Confirm(ctx context.Context, message string, defaultYes bool) (bool, error) {
	if t == nil || !t.Interactive {
		return false, ErrNotInteractive
	}

	p := tea.NewProgram(newConfirmModel(message, defaultYes),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.answer, nil
}

// confirmModel is a single yes/no question. It quits as soon as the user
// answers; esc and ctrl+c answer no.
type confirmModel struct {
	message  string
	focusYes bool
	answered bool
	answer   bool
}

func newConfirmModel(message string, defaultYes bool) confirmModel {
	return confirmModel{message: message, focusYes: defaultYes}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.answered {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, promptKeys.Yes):
		return m.respond(true)
	case key.Matches(keyMsg, promptKeys.No), key.Matches(keyMsg, promptKeys.Cancel):
		return m.respond(false)
	case key.Matches(keyMsg, promptKeys.Enter):
		return m.respond(m.focusYes)
	case key.Matches(keyMsg, promptKeys.Toggle):
		m.focusYes = !m.focusYes
	}
	return m, nil
}

func (m confirmModel) respond(yes bool) (tea.Model, tea.Cmd) {
	m.answered = true
	m.answer = yes
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answered {
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return m.message + " " + mutedStyle.Render(answer) + "\n"
	}

	question := lipgloss.NewStyle().
		Width(48).
		Align(lipgloss.Center).
		Render(m.message)

	yesBtn, noBtn := dialogButtonStyle.Render("Yes"), dialogActiveButtonStyle.Render("No")
	if m.focusYes {
		yesBtn, noBtn = dialogActiveButtonStyle.Render("Yes"), dialogButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	help := mutedStyle.Render("y/n · ←/→ switch · enter select · esc cancel")
	return dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, question, "", buttons, "", help)) + "\n"
}
