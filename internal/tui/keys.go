package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Screens
	Home       key.Binding
	Discover   key.Binding
	Search     key.Binding
	Favorites  key.Binding
	Categories key.Binding
	Browse     key.Binding
	History    key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Filter      key.Binding
	Detail      key.Binding
	Favorite    key.Binding
	Vote        key.Binding
	Categorize  key.Binding
	New         key.Binding
	Rename      key.Binding
	Delete      key.Binding
	Refresh     key.Binding
	CycleBrowse key.Binding

	// Playback
	TogglePlay key.Binding
	Stop       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play/select"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Discover: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "discover"),
		),
		Search: key.NewBinding(
			key.WithKeys("3", "/"),
			key.WithHelp("3 or /", "search"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "favorites"),
		),
		Categories: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "categories"),
		),
		Browse: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "browse"),
		),
		History: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "history"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter list"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "station detail"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle favorite"),
		),
		Vote: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vote"),
		),
		Categorize: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to category"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new category"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete/remove"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		CycleBrowse: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "countries/languages/tags"),
		),

		TogglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
