package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	sources key.Binding
	bulk    key.Binding
	reload  key.Binding
	toggle  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply rune")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		sources: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "source")),
		bulk:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply items")),
		reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		toggle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "hide/show")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.sources, k.bulk, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.sources, k.bulk, k.reload},
		{k.toggle, k.back, k.quit},
	}
}
