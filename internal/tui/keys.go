package tui

import "github.com/charmbracelet/bubbles/key"

// keyBindings defines application-wide key bindings.
type keyBindings struct {
	Search   key.Binding
	Phrase   key.Binding
	Open     key.Binding
	Back     key.Binding
	NextTab  key.Binding
	CloseTab key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// newKeyBindings creates a new key binding set.
func newKeyBindings() keyBindings {
	return keyBindings{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Phrase: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "phrase mode"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help overlay.
func (k keyBindings) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.Back, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help overlay.
func (k keyBindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Phrase, k.Open, k.Back},
		{k.NextTab, k.CloseTab, k.Help, k.Quit},
	}
}
