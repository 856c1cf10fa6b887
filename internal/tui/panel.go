package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

// Options configures a Panel.
type Options struct {
	// Query pre-fills the input.
	Query string

	// ToggleKey opens and closes the panel. Empty means ctrl+k.
	ToggleKey string

	// Link maps an entry to the URL shown under it. Nil shows entry.URL.
	Link func(*model.Entry) string
}

type indexLoadedMsg struct{ err error }

type resultsMsg struct {
	seq      int
	sections []model.Section
	err      error
}

// Panel is the Bubble Tea model for the overlay. It implements Presenter.
type Panel struct {
	ctx        context.Context
	searcher   Searcher
	dispatcher *Dispatcher
	keys       KeyMap
	help       help.Model
	input      textinput.Model
	link       func(*model.Entry) string

	open    bool
	loading bool
	loadErr error

	sections []model.Section
	flat     []*model.Entry
	focus    int
	seq      int
	chosen   *model.Entry

	width  int
	height int
}

// NewPanel creates an open panel backed by s.
func NewPanel(ctx context.Context, s Searcher, opts Options) *Panel {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Search the docs"
	input.SetValue(opts.Query)
	input.Focus()

	link := opts.Link
	if link == nil {
		link = func(e *model.Entry) string { return e.URL }
	}

	p := &Panel{
		ctx:      ctx,
		searcher: s,
		keys:     DefaultKeyMap(opts.ToggleKey),
		help:     help.New(),
		input:    input,
		link:     link,
		open:     true,
		loading:  true,
		focus:    inputFocus,
		width:    80,
		height:   24,
	}
	p.dispatcher = NewDispatcher(s, p)
	return p
}

// Run shows the panel full screen and returns the activated entry, or nil
// when the user quits without choosing.
func Run(ctx context.Context, s Searcher, opts Options) (*model.Entry, error) {
	p := NewPanel(ctx, s, opts)
	prog := tea.NewProgram(p, tea.WithAltScreen(), tea.WithContext(ctx))
	m, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("search panel: %w", err)
	}
	return m.(*Panel).Chosen(), nil
}

// IsTTY returns true when stdin is connected to a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Chosen returns the activated entry, if any.
func (p *Panel) Chosen() *model.Entry { return p.chosen }

// Render implements Presenter.
func (p *Panel) Render(sections []model.Section) {
	p.sections = sections
	p.flat = p.flat[:0]
	for _, s := range sections {
		p.flat = append(p.flat, s.Entries...)
	}
	if p.focus >= len(p.flat) {
		p.setFocus(inputFocus)
	}
}

// Open implements Presenter.
func (p *Panel) Open() {
	p.open = true
	p.setFocus(inputFocus)
}

// Close implements Presenter.
func (p *Panel) Close() {
	p.open = false
	p.setFocus(inputFocus)
	p.input.Blur()
}

// IsOpen implements Presenter.
func (p *Panel) IsOpen() bool { return p.open }

func (p *Panel) setFocus(focus int) {
	p.focus = focus
	if focus == inputFocus && p.open {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// --- Bubbletea model implementation ---

func (p *Panel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.loadCmd())
}

func (p *Panel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := p.searcher.LoadIndex(p.ctx)
		return indexLoadedMsg{err: err}
	}
}

// searchCmd runs the current query off the update loop. Results for an older
// query are dropped when they arrive after a newer one was dispatched.
func (p *Panel) searchCmd() tea.Cmd {
	if p.loading {
		return nil
	}
	p.seq++
	seq, query := p.seq, p.input.Value()
	return func() tea.Msg {
		sections, err := p.dispatcher.Query(p.ctx, query)
		return resultsMsg{seq: seq, sections: sections, err: err}
	}
}

func (p *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		return p, nil

	case indexLoadedMsg:
		p.loading = false
		p.loadErr = msg.err
		if msg.err != nil {
			// The next keystroke retries the load.
			return p, nil
		}
		return p, p.searchCmd()

	case resultsMsg:
		if msg.seq == p.seq {
			p.loadErr = msg.err
			p.dispatcher.Show(msg.sections)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Panel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Quit):
		return p, tea.Quit

	case key.Matches(msg, p.keys.Toggle):
		if p.dispatcher.Toggle() {
			return p, textinput.Blink
		}
		return p, nil
	}

	if !p.open {
		switch msg.String() {
		case "q", "esc":
			return p, tea.Quit
		}
		return p, nil
	}

	switch {
	case key.Matches(msg, p.keys.Close):
		p.dispatcher.Dismiss()
		return p, nil

	case key.Matches(msg, p.keys.Down):
		p.setFocus(nextFocus(p.focus, len(p.flat)))
		return p, nil

	case key.Matches(msg, p.keys.Up):
		p.setFocus(prevFocus(p.focus, len(p.flat)))
		return p, nil

	case key.Matches(msg, p.keys.FocusInput) && p.focus != inputFocus:
		p.setFocus(inputFocus)
		return p, nil

	case key.Matches(msg, p.keys.Activate):
		if p.focus == inputFocus {
			if len(p.flat) == 0 {
				return p, nil
			}
			p.setFocus(0)
		}
		p.chosen = p.flat[p.focus]
		return p, tea.Quit
	}

	if p.focus != inputFocus {
		return p, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() == before {
		return p, cmd
	}
	return p, tea.Batch(cmd, p.searchCmd())
}

func (p *Panel) View() string {
	if !p.open {
		toggle := p.keys.Toggle.Help().Key
		return "\n  " + ui.Hint(fmt.Sprintf("Press %s to search · q to quit", toggle)) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + p.input.View() + "\n\n")

	switch {
	case p.loading:
		b.WriteString("  " + ui.Hint("Loading search index…") + "\n")
	case p.loadErr != nil:
		b.WriteString("  " + ui.Warning("Search index unavailable: "+p.loadErr.Error()) + "\n")
	case len(p.flat) == 0 && p.input.Value() != "":
		b.WriteString("  " + ui.Hint(fmt.Sprintf("No results for %q", p.input.Value())) + "\n")
	default:
		b.WriteString(p.viewResults())
	}

	b.WriteString("\n  " + p.help.View(p.keys) + "\n")
	return b.String()
}

func (p *Panel) viewResults() string {
	query := p.input.Value()
	var lines []string
	focusLine := 0
	n := 0

	for i, section := range p.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "  "+ui.SectionHeader(section.Name, len(section.Entries)))
		for _, e := range section.Entries {
			focused := n == p.focus
			if focused {
				focusLine = len(lines)
			}
			lines = append(lines, p.renderEntry(e, query, focused))
			n++
		}
	}

	return strings.Join(visibleWindow(lines, focusLine, p.height-6), "\n") + "\n"
}

func (p *Panel) renderEntry(e *model.Entry, query string, focused bool) string {
	pointer := "  "
	text := ui.Highlight(e.Text, query)
	if focused {
		pointer = ui.Accent.Render("› ")
		text = ui.Selected.Render(e.Text)
	}

	line := "  " + pointer + ui.Muted.Render(e.Kind.Icon()) + " " + text
	if sub := e.Subtitle(); sub != "" {
		line += "  " + ui.Muted.Render(sub)
	}
	if focused {
		line += "  " + ui.Link(p.link(e))
	}
	return line
}

// visibleWindow returns at most height lines, keeping focus in view.
func visibleWindow(lines []string, focus, height int) []string {
	if height < 3 {
		height = 3
	}
	if len(lines) <= height {
		return lines
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
