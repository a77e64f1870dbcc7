package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	nextKind key.Binding
	prevKind key.Binding
	login    key.Binding
	logout   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextKind: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next type")),
		prevKind: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev type")),
		login:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log in")),
		logout:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "log out")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// apply enables only the bindings the current [Controls] allow.
func (k *keyMap) apply(c Controls) {
	k.login.SetEnabled(c.LoginEnabled)
	k.logout.SetEnabled(c.LogoutEnabled)
	k.enter.SetEnabled(c.SearchEnabled)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.nextKind, k.login, k.logout, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.nextKind, k.prevKind},
		{k.login, k.logout, k.quit},
	}
}
