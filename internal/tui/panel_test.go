package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/search"
	"github.com/aidanlsb/quicksearch/internal/siteindex"
)

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// loadedPanel returns a panel whose index has loaded and whose initial
// results have been rendered.
func loadedPanel(t *testing.T, entries []*model.Entry, opts Options) *Panel {
	t.Helper()
	p := NewPanel(context.Background(), newSearcher(entries), opts)
	msg := p.loadCmd()()
	_, cmd := p.Update(msg)
	if cmd == nil {
		t.Fatal("expected a search after the index loaded")
	}
	p.Update(cmd())
	return p
}

// typeQuery types s into the input and applies the resulting search.
func typeQuery(p *Panel, s string) {
	p.Update(runes(s))
	p.Update(p.searchCmd()())
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPanelShowsPagesOnceLoaded(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})
	if len(p.flat) != 2 {
		t.Fatalf("empty query should list 2 pages, got %d", len(p.flat))
	}
	view := p.View()
	if !strings.Contains(view, "Guides") || !strings.Contains(view, "Reference") {
		t.Fatalf("view missing sections:\n%s", view)
	}
}

func TestPanelDefersSearchWhileLoading(t *testing.T) {
	t.Parallel()

	p := NewPanel(context.Background(), newSearcher(sampleEntries()), Options{})
	if !strings.Contains(p.View(), "Loading") {
		t.Fatalf("expected loading line:\n%s", p.View())
	}

	p.Update(runes("conf"))
	if p.searchCmd() != nil {
		t.Fatal("search should wait for the index")
	}

	_, cmd := p.Update(p.loadCmd()())
	p.Update(cmd())
	if len(p.flat) != 1 || p.flat[0].Text != "Configuration" {
		t.Fatalf("deferred query results = %v", p.flat)
	}
}

func TestPanelShowsLoadError(t *testing.T) {
	t.Parallel()

	store := siteindex.NewStore(siteindex.LoaderFunc(func(context.Context) (*siteindex.FetchResult, error) {
		return nil, errors.New("connection refused")
	}))
	p := NewPanel(context.Background(), search.New(store, search.DefaultOptions()), Options{})
	p.Update(p.loadCmd()())

	if !strings.Contains(p.View(), "connection refused") {
		t.Fatalf("expected load error in view:\n%s", p.View())
	}
}

func TestPanelClearsLoadErrorAfterRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	store := siteindex.NewStore(siteindex.LoaderFunc(func(context.Context) (*siteindex.FetchResult, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return &siteindex.FetchResult{Entries: sampleEntries()}, nil
	}))
	p := NewPanel(context.Background(), search.New(store, search.DefaultOptions()), Options{})

	if _, cmd := p.Update(p.loadCmd()()); cmd != nil {
		t.Fatal("a failed load should not dispatch a search")
	}
	if !strings.Contains(p.View(), "unavailable") {
		t.Fatalf("expected load error in view:\n%s", p.View())
	}

	typeQuery(p, "install")
	view := p.View()
	if strings.Contains(view, "unavailable") {
		t.Fatalf("load error still shown after a successful retry:\n%s", view)
	}
	if len(p.flat) != 2 || !strings.Contains(view, "Guides") {
		t.Fatalf("retry results = %v", p.flat)
	}
}

func TestPanelArrowKeysWrapThroughInput(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})
	typeQuery(p, "install")
	if len(p.flat) != 2 {
		t.Fatalf("got %d results, want 2", len(p.flat))
	}

	steps := []struct {
		key  tea.KeyType
		want int
	}{
		{tea.KeyDown, 0},
		{tea.KeyDown, 1},
		{tea.KeyDown, inputFocus},
		{tea.KeyUp, 1},
		{tea.KeyUp, 0},
		{tea.KeyUp, inputFocus},
	}
	for i, step := range steps {
		p.Update(keyMsg(step.key))
		if p.focus != step.want {
			t.Fatalf("step %d: focus = %d, want %d", i, p.focus, step.want)
		}
		if p.input.Focused() != (step.want == inputFocus) {
			t.Fatalf("step %d: input focused = %v", i, p.input.Focused())
		}
	}
}

func TestPanelSlashFocusesInput(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})
	p.Update(keyMsg(tea.KeyDown))
	if p.focus != 0 {
		t.Fatalf("focus = %d, want 0", p.focus)
	}

	p.Update(runes("/"))
	if p.focus != inputFocus || p.input.Value() != "" {
		t.Fatalf("slash on a result: focus=%d value=%q, want input focused and empty", p.focus, p.input.Value())
	}

	p.Update(runes("/"))
	if p.input.Value() != "/" {
		t.Fatalf("slash on the input should be typed, value = %q", p.input.Value())
	}
}

func TestPanelEnterOnInputActivatesFirstResult(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	p := loadedPanel(t, entries, Options{})
	typeQuery(p, "install")

	_, cmd := p.Update(keyMsg(tea.KeyEnter))
	if !isQuit(cmd) {
		t.Fatal("activation should quit the program")
	}
	if p.Chosen() != entries[0] || p.focus != 0 {
		t.Fatalf("chosen = %v focus = %d, want first result", p.Chosen(), p.focus)
	}
}

func TestPanelEnterOnResultActivatesIt(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	p := loadedPanel(t, entries, Options{})
	typeQuery(p, "install")
	p.Update(keyMsg(tea.KeyUp))

	_, cmd := p.Update(keyMsg(tea.KeyEnter))
	if !isQuit(cmd) || p.Chosen() != entries[1] {
		t.Fatalf("chosen = %v, want %q", p.Chosen(), entries[1].Text)
	}
}

func TestPanelEnterWithoutResultsDoesNothing(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})
	typeQuery(p, "qqqqqq")

	_, cmd := p.Update(keyMsg(tea.KeyEnter))
	if isQuit(cmd) || p.Chosen() != nil {
		t.Fatal("enter with no results should not activate anything")
	}
	if !strings.Contains(p.View(), "No results") {
		t.Fatalf("expected no-results line:\n%s", p.View())
	}
}

func TestPanelToggleAndClose(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{ToggleKey: "ctrl+k"})

	p.Update(keyMsg(tea.KeyEsc))
	if p.IsOpen() {
		t.Fatal("esc should close the panel")
	}
	if !strings.Contains(p.View(), "ctrl+k") {
		t.Fatalf("closed view should mention the toggle key:\n%s", p.View())
	}

	p.Update(keyMsg(tea.KeyCtrlK))
	if !p.IsOpen() || !p.input.Focused() {
		t.Fatal("toggle should reopen the panel with the input focused")
	}

	p.Update(keyMsg(tea.KeyCtrlK))
	if p.IsOpen() {
		t.Fatal("toggle should close an open panel")
	}

	_, cmd := p.Update(runes("q"))
	if !isQuit(cmd) {
		t.Fatal("q on a closed panel should quit")
	}
}

func TestPanelTypingQDoesNotQuitWhenOpen(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})
	p.Update(runes("q"))
	if p.input.Value() != "q" || !p.IsOpen() {
		t.Fatalf("q should be typed into the open panel, value = %q", p.input.Value())
	}
}

func TestPanelDropsStaleResults(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{})

	p.Update(runes("conf"))
	stale := p.searchCmd()
	typeQuery(p, "x")
	current := len(p.flat)

	p.Update(stale())
	if p.input.Value() != "confx" {
		t.Fatalf("value = %q, want confx", p.input.Value())
	}
	if len(p.flat) != current {
		t.Fatalf("stale results replaced current ones: %d entries, want %d", len(p.flat), current)
	}
}

func TestPanelInitialQuery(t *testing.T) {
	t.Parallel()

	p := loadedPanel(t, sampleEntries(), Options{Query: "config"})
	if len(p.flat) != 1 || p.flat[0].Text != "Configuration" {
		t.Fatalf("initial query results = %v", p.flat)
	}
}
