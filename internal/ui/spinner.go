package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message while the index loads.
// It writes to stderr so stdout stays clean for piped and JSON output.
type Spinner struct {
	message string
	frames  []string
	out     io.Writer
	animate bool
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner on stderr.
func NewSpinner(message string) *Spinner {
	return NewSpinnerTo(os.Stderr, message)
}

// NewSpinnerTo creates a spinner writing to w. It only animates when w is a
// terminal.
func NewSpinnerTo(w io.Writer, message string) *Spinner {
	animate := false
	if f, ok := w.(*os.File); ok {
		animate = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Spinner{
		message: message,
		frames:  defaultFrames,
		out:     w,
		animate: animate,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation. Off a terminal it does nothing.
func (s *Spinner) Start() {
	if !s.animate {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(s.frames[frame%len(s.frames)]), s.message)
			}
		}
	}()
}

// Stop stops the spinner and clears its line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}
