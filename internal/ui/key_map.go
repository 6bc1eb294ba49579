package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	home     key.Binding
	login    key.Binding
	profile  key.Binding
	logout   key.Binding
	refresh  key.Binding
	sidebar  key.Binding
	userMenu key.Binding
	dismiss  key.Binding
	up       key.Binding
	down     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		home:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		login:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sign in")),
		profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		sidebar:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		userMenu: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "account")),
		dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close toast")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.home, k.login, k.profile, k.logout},
		{k.sidebar, k.userMenu, k.refresh, k.dismiss},
		{k.up, k.down, k.quit},
	}
}

// formKeyMap defines the bindings of the auth form, where letters are text input.
type formKeyMap struct {
	next         key.Binding
	prev         key.Binding
	submit       key.Binding
	showPassword key.Binding
	showConfirm  key.Binding
	switchPage   key.Binding
	back         key.Binding
	quit         key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		next:         key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:         key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
		submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		showPassword: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "show password")),
		showConfirm:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "show confirmation")),
		switchPage:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "switch login/register")),
		back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
		quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
