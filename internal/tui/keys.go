package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/cj3636/linediff/internal/config"
)

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Stats       key.Binding
	SideBySide  key.Binding
	Syntax      key.Binding
	LineNumbers key.Binding
	Down        key.Binding
	Up          key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Focus       key.Binding
	Reload      key.Binding
}

func newKeyMap(kb config.Keybindings) keyMap {
	bind := func(action, desc string) key.Binding {
		keys := kb[action]
		if len(keys) == 0 {
			keys = config.DefaultKeybindings()[action]
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
	}

	return keyMap{
		Quit:        bind("quit", "quit"),
		Help:        bind("toggle_help", "help"),
		Stats:       bind("toggle_stats", "stats"),
		SideBySide:  bind("toggle_side_by_side", "side-by-side"),
		Syntax:      bind("toggle_syntax", "colors"),
		LineNumbers: bind("toggle_line_numbers", "line numbers"),
		Down:        bind("scroll_down", "down"),
		Up:          bind("scroll_up", "up"),
		PageDown:    bind("page_down", "half page down"),
		PageUp:      bind("page_up", "half page up"),
		Top:         bind("go_top", "top"),
		Bottom:      bind("go_bottom", "bottom"),
		Focus:       bind("go_focus", "back to line"),
		Reload:      bind("reload", "re-resolve"),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.SideBySide, k.Reload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.PageDown, k.PageUp},
		{k.Top, k.Bottom, k.Focus},
		{k.SideBySide, k.Syntax, k.LineNumbers, k.Stats},
		{k.Reload, k.Help, k.Quit},
	}
}
