// Package similarity scores how closely a query resembles a candidate string
// when the query is not a plain substring of it.
//
// Scoring follows the n-gram fuzzy set approach: both strings are reduced to
// padded character n-grams, candidates sharing grams with the query are ranked
// by cosine similarity, and the survivors are optionally re-scored by
// normalised Levenshtein similarity. Scores are in [0, 1].
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxRescored caps how many cosine candidates get the Levenshtein pass.
const maxRescored = 50

// Options tunes a Set.
type Options struct {
	// GramSizeLower and GramSizeUpper bound the n-gram sizes tried, largest first.
	GramSizeLower int
	GramSizeUpper int

	// UseLevenshtein re-scores cosine candidates by edit distance.
	UseLevenshtein bool

	// MinScore drops results scoring below it.
	MinScore float64
}

// DefaultOptions returns the standard fuzzy set tuning.
func DefaultOptions() Options {
	return Options{
		GramSizeLower:  2,
		GramSizeUpper:  3,
		UseLevenshtein: true,
		MinScore:       0.33,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.GramSizeLower < 1 {
		o.GramSizeLower = def.GramSizeLower
	}
	if o.GramSizeUpper < o.GramSizeLower {
		o.GramSizeUpper = o.GramSizeLower
	}
	if o.MinScore < 0 {
		o.MinScore = 0
	}
	return o
}

// Result is one scored value from a Set lookup.
type Result struct {
	Score float64
	Value string
}

type setItem struct {
	magnitude  float64
	normalized string
}

type gramRef struct {
	item  int
	count int
}

// Set is a collection of strings that can be searched by similarity.
// A Set is not safe for concurrent mutation.
type Set struct {
	opts      Options
	items     map[int][]setItem
	matchDict map[int]map[string][]gramRef
	exact     map[string]string
}

// NewSet creates an empty Set.
func NewSet(opts Options) *Set {
	opts = opts.normalized()
	s := &Set{
		opts:      opts,
		items:     make(map[int][]setItem),
		matchDict: make(map[int]map[string][]gramRef),
		exact:     make(map[string]string),
	}
	for size := opts.GramSizeLower; size <= opts.GramSizeUpper; size++ {
		s.matchDict[size] = make(map[string][]gramRef)
	}
	return s
}

// Add inserts value. It returns false if an equal value (ignoring case) is
// already present.
func (s *Set) Add(value string) bool {
	normalized := strings.ToLower(value)
	if _, ok := s.exact[normalized]; ok {
		return false
	}
	for size := s.opts.GramSizeLower; size <= s.opts.GramSizeUpper; size++ {
		s.addSize(value, normalized, size)
	}
	s.exact[normalized] = value
	return true
}

func (s *Set) addSize(value, normalized string, size int) {
	counts := gramCounts(value, size)
	index := len(s.items[size])

	var sumSquares float64
	for gram, count := range counts {
		sumSquares += float64(count * count)
		s.matchDict[size][gram] = append(s.matchDict[size][gram], gramRef{item: index, count: count})
	}

	s.items[size] = append(s.items[size], setItem{
		magnitude:  math.Sqrt(sumSquares),
		normalized: normalized,
	})
}

// Len returns the number of distinct values in the set.
func (s *Set) Len() int { return len(s.exact) }

// Get returns values similar to query, best first. It tries gram sizes from
// largest to smallest and returns the first non-empty result.
func (s *Set) Get(query string) []Result {
	for size := s.opts.GramSizeUpper; size >= s.opts.GramSizeLower; size-- {
		if results := s.getSize(query, size); len(results) > 0 {
			return results
		}
	}
	return nil
}

// Best returns the top score for query, or 0 when nothing qualifies.
func (s *Set) Best(query string) float64 {
	results := s.Get(query)
	if len(results) == 0 {
		return 0
	}
	return results[0].Score
}

func (s *Set) getSize(query string, size int) []Result {
	normalized := strings.ToLower(query)
	counts := gramCounts(query, size)
	items := s.items[size]

	dots := make(map[int]int)
	var sumSquares float64
	for gram, count := range counts {
		sumSquares += float64(count * count)
		for _, ref := range s.matchDict[size][gram] {
			dots[ref.item] += count * ref.count
		}
	}
	if len(dots) == 0 {
		return nil
	}

	queryMagnitude := math.Sqrt(sumSquares)
	scored := make([]Result, 0, len(dots))
	for index, dot := range dots {
		item := items[index]
		scored = append(scored, Result{
			Score: float64(dot) / (queryMagnitude * item.magnitude),
			Value: item.normalized,
		})
	}
	sortResults(scored)

	if s.opts.UseLevenshtein {
		if len(scored) > maxRescored {
			scored = scored[:maxRescored]
		}
		for i := range scored {
			scored[i].Score = editSimilarity(scored[i].Value, normalized)
		}
		sortResults(scored)
	}

	out := scored[:0]
	for _, r := range scored {
		if r.Score < s.opts.MinScore {
			continue
		}
		out = append(out, Result{Score: r.Score, Value: s.exact[r.Value]})
	}
	return out
}

// sortResults orders by score descending, then value, so ties are deterministic.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Value < results[j].Value
	})
}

// gramCounts splits value into padded n-grams of the given size.
func gramCounts(value string, size int) map[string]int {
	runes := []rune("-" + simplify(value) + "-")
	for len(runes) < size {
		runes = append(runes, '-')
	}

	counts := make(map[string]int)
	for i := 0; i+size <= len(runes); i++ {
		counts[string(runes[i:i+size])]++
	}
	return counts
}

// simplify lower-cases value and drops everything but letters, digits, commas
// and spaces.
func simplify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ',' || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
