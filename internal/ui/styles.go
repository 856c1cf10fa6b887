package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (optional, configurable): section headers, links, matched text
// - Muted (gray): Secondary info, subtitles, URLs
// - No colored success/error/warning - use unicode symbols only

const mutedColor = "#6C7086"

var (
	themeMu     sync.RWMutex
	accentColor string

	// Accent style for links, section names and highlights
	Accent = lipgloss.NewStyle()

	// Muted style for secondary info, hints, subtitles
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Bold(true)

	// Match marks the part of a result that matched the query
	Match = lipgloss.NewStyle().Bold(true).Underline(true)

	// Selected marks the focused row in the overlay
	Selected = lipgloss.NewStyle().Reverse(true)
)

// ConfigureTheme applies an accent color from config. Empty, "none", "off"
// and "default" (or anything unparseable) disable the accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)

	themeMu.Lock()
	defer themeMu.Unlock()

	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		Match = lipgloss.NewStyle().Bold(true).Underline(true)
		return
	}

	accentColor = color
	fg := lipgloss.Color(color)
	Accent = lipgloss.NewStyle().Foreground(fg)
	AccentBold = lipgloss.NewStyle().Foreground(fg).Bold(true)
	Match = lipgloss.NewStyle().Foreground(fg).Bold(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return accentColor, accentColor != ""
}

func normalizeAccentColor(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
