package ui

import (
	"fmt"
	"strings"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return SymbolSuccess + " " + msg
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return SymbolError + " " + msg
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return SymbolWarning + " " + msg
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Info returns an info message with info symbol
func Info(msg string) string {
	return SymbolInfo + " " + msg
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// SectionHeader renders a result section name with its entry count.
func SectionHeader(name string, n int) string {
	if strings.TrimSpace(name) == "" {
		name = "Other"
	}
	return AccentBold.Render(name) + " " + Muted.Render(Count(n, "result", "results"))
}

// Link returns an accent-styled URL
func Link(url string) string {
	return Accent.Render(url)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a count badge like "(3 results)"
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// Highlight renders text with every case-insensitive occurrence of query
// styled as a match. Offsets are computed on runes so multi-byte text is
// never split.
func Highlight(text, query string) string {
	if query == "" {
		return text
	}
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	needle := []rune(strings.ToLower(query))
	if len(lower) != len(runes) || len(needle) == 0 {
		// Case folding changed the length; fall back to plain text.
		return text
	}

	var b strings.Builder
	start := 0
	for i := 0; i+len(needle) <= len(lower); {
		if !hasRunePrefix(lower[i:], needle) {
			i++
			continue
		}
		b.WriteString(string(runes[start:i]))
		b.WriteString(Match.Render(string(runes[i : i+len(needle)])))
		i += len(needle)
		start = i
	}
	b.WriteString(string(runes[start:]))
	return b.String()
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}
