package tui

import "github.com/charmbracelet/bubbles/key"

// promptKeyMap holds the bindings of the confirmation prompt.
type promptKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Enter  key.Binding
	Cancel key.Binding
	Toggle key.Binding
}

var promptKeys = promptKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "no"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c", "q"),
		key.WithHelp("esc", "cancel"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab", "shift+tab"),
		key.WithHelp("←/→", "switch"),
	),
}
