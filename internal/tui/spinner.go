package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// taskDoneMsg stops the spinner once the wrapped function returns.
type taskDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(title string) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd { return m.spinner.Tick }

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// RunWithSpinner runs fn while a spinner labelled title is shown. Without an
// interactive terminal fn simply runs.
func RunWithSpinner[T any](ctx context.Context, t *Terminal, title string, fn func(context.Context) (T, error)) (T, error) {
	if t == nil || !t.Interactive {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(title),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(t.Out),
	)

	var (
		result T
		err    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err = fn(ctx)
		p.Send(taskDoneMsg{})
	}()

	if _, runErr := p.Run(); runErr != nil {
		// Interrupted: stop the work and wait for it to unwind.
		cancel()
	}
	<-done
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return result, err
}
