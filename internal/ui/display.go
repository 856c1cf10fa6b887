package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal, e.g. when results
// are piped into another command.
const DefaultTermWidth = 120

// DisplayContext is the width budget for rendering results or help text.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext measures stdout.
func NewDisplayContext() *DisplayContext {
	return measure(os.Stdout)
}

func measure(f *os.File) *DisplayContext {
	fd := f.Fd()
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if !d.IsTTY {
		return d
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// NewDisplayContextWithWidth renders as if to a terminal width columns wide.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

// AvailableWidth is what remains after leftMargin columns. Never negative.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	return max(d.TermWidth-leftMargin, 0)
}
