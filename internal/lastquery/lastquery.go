// Package lastquery remembers the most recent query and the results it produced.
//
// The matcher uses it to narrow the candidate pool while a user keeps typing:
// when the new query extends the previous one, only the previous results can
// still match. The session lives in memory only and holds a single pair.
package lastquery

import (
	"strings"
	"sync"

	"github.com/aidanlsb/quicksearch/internal/model"
)

// Session holds the last (query, results) pair. The zero value is ready to use.
type Session struct {
	mu      sync.RWMutex
	query   string
	results []model.Match
	set     bool
}

// Set overwrites the remembered pair. The results slice is copied.
func (s *Session) Set(query string, results []model.Match) {
	copied := make([]model.Match, len(results))
	copy(copied, results)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.results = copied
	s.set = true
}

// Get returns the remembered pair. ok is false if nothing has been stored
// since creation or the last Clear.
func (s *Session) Get() (query string, results []model.Match, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query, s.results, s.set
}

// Refines reports whether query narrows the remembered one: the remembered
// query is non-empty and query starts with it. Callers compare lower-cased
// queries.
func (s *Session) Refines(query string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refines(query)
}

func (s *Session) refines(query string) bool {
	return s.set && s.query != "" && strings.HasPrefix(query, s.query)
}

// Pool returns the entries of the remembered results if query refines the
// remembered query.
func (s *Session) Pool(query string) ([]*model.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.refines(query) {
		return nil, false
	}
	return model.Entries(s.results), true
}

// Clear forgets the remembered pair.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.results = nil
	s.set = false
}
