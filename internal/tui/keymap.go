package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the overlay keybindings.
type KeyMap struct {
	// Toggle opens and closes the panel.
	Toggle key.Binding

	// Close hides the panel.
	Close key.Binding

	// Quit exits the program.
	Quit key.Binding

	// Up and Down move focus between results, wrapping through the input.
	Up   key.Binding
	Down key.Binding

	// FocusInput moves focus back to the query input.
	FocusInput key.Binding

	// Activate opens the focused result.
	Activate key.Binding
}

// DefaultKeyMap returns the default keybindings with the given toggle
// shortcut. An empty toggle uses ctrl+k.
func DefaultKeyMap(toggle string) KeyMap {
	toggle = strings.TrimSpace(toggle)
	if toggle == "" {
		toggle = "ctrl+k"
	}
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(toggle),
			key.WithHelp(toggle, "open/close"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "focus search"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Activate, k.FocusInput, k.Close}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Close, k.Quit},
		{k.Up, k.Down, k.FocusInput, k.Activate},
	}
}

var keyDetails = map[string]string{
	"open/close":   "Show or hide the search panel.",
	"close":        "Hide the panel. When it is already hidden, `q` or `esc` quits.",
	"quit":         "Exit immediately.",
	"previous":     "Move to the previous result. From the first result, focus returns to the input; from the input, it jumps to the last result.",
	"next":         "Move to the next result. From the last result, focus returns to the input.",
	"focus search": "Focus the query input when a result is focused. Typed normally while the input has focus.",
	"open":         "On the input, jump to the first result and open it. On a result, open that result.",
}

// Markdown returns the keyboard reference as a Markdown table.
func (k KeyMap) Markdown() string {
	var b strings.Builder
	b.WriteString("# Keyboard reference\n\n")
	b.WriteString("| Key | Action | Details |\n")
	b.WriteString("|-----|--------|---------|\n")
	for _, group := range k.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", h.Key, h.Desc, keyDetails[h.Desc])
		}
	}
	b.WriteString("\nMatched text is highlighted in every result. Headings and inline text show their page underneath.\n")
	return b.String()
}
