package cli

import "github.com/charmbracelet/bubbles/key"

// chartKeyMap lists the chart editor bindings. It implements help.KeyMap.
type chartKeyMap struct {
	Up, Down, Left, Right key.Binding

	Grab   key.Binding
	Cancel key.Binding
	Mode   key.Binding
	Undo   key.Binding
	Redo   key.Binding

	Search     key.Binding
	Category   key.Binding
	NextResult key.Binding
	PrevResult key.Binding

	PanUp, PanDown, PanLeft, PanRight key.Binding
	Center                            key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultChartKeys() chartKeyMap {
	return chartKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "parent")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "child")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),

		Grab:   key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "pick up/drop")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "swap/move")),
		Undo:   key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),

		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Category:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "offices/positions")),
		NextResult: key.NewBinding(key.WithKeys("n"), key.WithHelp("n/N", "next/prev hit")),
		PrevResult: key.NewBinding(key.WithKeys("N")),

		PanUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("HJKL", "pan")),
		PanDown:  key.NewBinding(key.WithKeys("J", "shift+down")),
		PanLeft:  key.NewBinding(key.WithKeys("H", "shift+left")),
		PanRight: key.NewBinding(key.WithKeys("L", "shift+right")),
		Center:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k chartKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Mode, k.Undo, k.Redo, k.Search, k.Help, k.Quit}
}

func (k chartKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Cancel, k.Mode, k.Undo, k.Redo},
		{k.Search, k.Category, k.NextResult, k.PanUp, k.Center},
		{k.Help, k.Quit},
	}
}

// dragHelp lists the bindings shown while an office is picked up.
func (k chartKeyMap) dragHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up"), key.WithHelp("←↑↓→", "move")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "drop")),
		k.Cancel,
	}
}
