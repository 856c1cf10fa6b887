// Package tui is the interactive quick search overlay.
//
// The search core knows nothing about rendering. A Dispatcher turns user
// commands into calls on the searcher and hands grouped results to a
// Presenter, which owns visibility and focus.
package tui

import (
	"context"

	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/search"
)

// Presenter shows grouped results and manages panel visibility.
type Presenter interface {
	Render(sections []model.Section)
	Open()
	Close()
	IsOpen() bool
}

// Searcher is the part of *search.Searcher the overlay needs.
type Searcher interface {
	Search(ctx context.Context, query string) []*model.Entry
	LoadIndex(ctx context.Context) ([]*model.Entry, error)
}

// Dispatcher routes overlay commands to the searcher and presenter.
type Dispatcher struct {
	searcher  Searcher
	presenter Presenter
}

// NewDispatcher wires a searcher to a presenter.
func NewDispatcher(s Searcher, p Presenter) *Dispatcher {
	return &Dispatcher{searcher: s, presenter: p}
}

// Query loads the index if needed, runs query and groups the matches. It
// does not touch the presenter, so it is safe to call off the UI loop.
// A non-nil error means the index could not be loaded.
func (d *Dispatcher) Query(ctx context.Context, query string) ([]model.Section, error) {
	if _, err := d.searcher.LoadIndex(ctx); err != nil {
		return nil, err
	}
	return search.Group(d.searcher.Search(ctx, query)), nil
}

// Show hands grouped results to the presenter.
func (d *Dispatcher) Show(sections []model.Section) {
	d.presenter.Render(sections)
}

// Toggle flips panel visibility and reports whether it is now open.
func (d *Dispatcher) Toggle() bool {
	if d.presenter.IsOpen() {
		d.presenter.Close()
	} else {
		d.presenter.Open()
	}
	return d.presenter.IsOpen()
}

// Dismiss closes the panel if it is open.
func (d *Dispatcher) Dismiss() {
	if d.presenter.IsOpen() {
		d.presenter.Close()
	}
}
