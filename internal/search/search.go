// Package search matches queries against the site index and groups the
// results for display.
//
// A Searcher owns the three caches the pipeline relies on: the memoised
// index, the pairwise similarity scores and the last query/result pair.
// Matching is exact-substring first, n-gram similarity second.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aidanlsb/quicksearch/internal/lastquery"
	"github.com/aidanlsb/quicksearch/internal/logger"
	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/similarity"
)

// FuzzyOrder controls how fuzzy matches are sorted by score.
type FuzzyOrder int

const (
	// Ascending lists the least similar fuzzy match first. This is the
	// historical ordering of the overlay and remains the default.
	Ascending FuzzyOrder = iota
	// Descending lists the most similar fuzzy match first.
	Descending
)

func (o FuzzyOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseFuzzyOrder parses "ascending" or "descending". Empty means Ascending.
func ParseFuzzyOrder(s string) (FuzzyOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown fuzzy order %q (expected ascending or descending)", s)
	}
}

// IndexSource provides the full, immutable index. *siteindex.Store implements it.
type IndexSource interface {
	Index(ctx context.Context) ([]*model.Entry, error)
}

// Options configures a Searcher.
type Options struct {
	Similarity similarity.Options
	FuzzyOrder FuzzyOrder
}

// DefaultOptions returns the standard matcher configuration.
func DefaultOptions() Options {
	return Options{
		Similarity: similarity.DefaultOptions(),
		FuzzyOrder: Ascending,
	}
}

// Searcher runs queries against an index. It is safe for concurrent use;
// searches are serialised so the last-query cache stays coherent.
type Searcher struct {
	mu      sync.Mutex
	index   IndexSource
	scores  *similarity.Cache
	session *lastquery.Session
	order   FuzzyOrder
}

// New creates a Searcher with fresh caches.
func New(index IndexSource, opts Options) *Searcher {
	return &Searcher{
		index:   index,
		scores:  similarity.NewCache(opts.Similarity),
		session: &lastquery.Session{},
		order:   opts.FuzzyOrder,
	}
}

// LoadIndex returns the index, surfacing load errors. Search itself never
// returns them.
func (s *Searcher) LoadIndex(ctx context.Context) ([]*model.Entry, error) {
	return s.index.Index(ctx)
}

// Search returns the entries matching query, best class first.
func (s *Searcher) Search(ctx context.Context, query string) []*model.Entry {
	return model.Entries(s.SearchMatches(ctx, query))
}

// SearchMatches is Search with match class and score attached.
//
// An empty query lists every page in index order. Otherwise entries whose
// text contains the query (case-insensitive) come first in pool order,
// followed by entries with a non-zero similarity score sorted by score.
// When the query extends the previous one, only the previous results are
// considered.
//
// If the index cannot be loaded the result is empty; the failure is logged and
// the next call tries again.
func (s *Searcher) SearchMatches(ctx context.Context, query string) []model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Search")
	q := strings.ToLower(query)
	logger.Debug("Query: %q", q)

	if q == "" {
		entries, err := s.index.Index(ctx)
		if err != nil {
			return s.fail(err)
		}
		matches := pages(entries)
		logger.Debug("Empty query, listing %d pages", len(matches))
		s.session.Set(q, matches)
		return matches
	}

	pool, refined := s.session.Pool(q)
	if refined {
		logger.Debug("Refining previous results: pool of %d", len(pool))
	} else {
		entries, err := s.index.Index(ctx)
		if err != nil {
			return s.fail(err)
		}
		pool = entries
		logger.Debug("Searching full index: pool of %d", len(pool))
	}

	matches := s.rank(q, pool)
	s.session.Set(q, matches)
	return matches
}

func (s *Searcher) rank(q string, pool []*model.Entry) []model.Match {
	seen := make(map[*model.Entry]struct{}, len(pool))
	exact := make([]model.Match, 0)
	var fuzzy []model.Match

	for _, e := range pool {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}

		text := strings.ToLower(e.Text)
		if strings.Contains(text, q) {
			exact = append(exact, model.Match{Entry: e, Class: model.MatchExact})
			continue
		}
		if score := s.scores.Similarity(text, q); score > 0 {
			fuzzy = append(fuzzy, model.Match{Entry: e, Class: model.MatchFuzzy, Score: score})
		}
	}

	sort.SliceStable(fuzzy, func(i, j int) bool {
		if s.order == Descending {
			return fuzzy[i].Score > fuzzy[j].Score
		}
		return fuzzy[i].Score < fuzzy[j].Score
	})

	logger.Info("Matched %d exact, %d fuzzy (%s)", len(exact), len(fuzzy), s.order)
	return append(exact, fuzzy...)
}

func (s *Searcher) fail(err error) []model.Match {
	logger.Warn("Search unavailable: %v", err)
	s.session.Clear()
	return []model.Match{}
}

func pages(entries []*model.Entry) []model.Match {
	matches := make([]model.Match, 0)
	for _, e := range entries {
		if e.IsPage() {
			matches = append(matches, model.Match{Entry: e, Class: model.MatchExact})
		}
	}
	return matches
}

// Session exposes the last query/result pair.
func (s *Searcher) Session() *lastquery.Session { return s.session }

// Scores exposes the similarity cache.
func (s *Searcher) Scores() *similarity.Cache { return s.scores }
