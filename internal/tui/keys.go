package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Stop     key.Binding
	Restart  key.Binding
	Next     key.Binding
	Explored key.Binding
	Help     key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Wall   key.Binding
	Start  key.Binding
	Goal   key.Binding
	Clear  key.Binding
	Grow   key.Binding
	Shrink key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Stop, k.Restart, k.Next, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Stop, k.Restart, k.Next},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Wall, k.Start, k.Goal},
		{k.Clear, k.Grow, k.Shrink},
		{k.Explored, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n", "next strategy"),
	),
	Explored: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle explored"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),

	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "cursor up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "cursor down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "cursor left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "cursor right"),
	),
	Wall: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "toggle wall"),
	),
	Start: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "move start"),
	),
	Goal: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "move goal"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear walls"),
	),
	Grow: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "grow grid"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "shrink grid"),
	),
}
