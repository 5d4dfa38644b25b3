package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Reset    key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Sectors  key.Binding
	Generate key.Binding
	Save     key.Binding
	Labels   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		PanUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "pan down")),
		PanLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "pan right")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next sector")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous sector")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Sectors:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "find sector")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate row")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Labels:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle numbers")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.ZoomIn, k.ZoomOut, k.Generate, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Next, k.Prev, k.Sectors, k.Back, k.Labels},
		{k.Generate, k.Save, k.Reload, k.Quit},
	}
}
