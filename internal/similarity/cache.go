package similarity

import "sync"

type pairKey struct {
	candidate string
	query     string
}

// Cache memoises candidate/query similarity scores for the lifetime of the
// process. Keys are the exact strings given; callers normalise case themselves.
// There is no eviction: the key space is bounded by the index size times the
// number of distinct queries typed in a session.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	opts   Options
	scores map[pairKey]float64
}

// NewCache creates an empty cache that scores with opts.
func NewCache(opts Options) *Cache {
	return &Cache{
		opts:   opts.normalized(),
		scores: make(map[pairKey]float64),
	}
}

// Similarity returns the best score for query against a set trained on the
// single candidate string, or 0 when they share no grams or score below the
// threshold.
func (c *Cache) Similarity(candidate, query string) float64 {
	key := pairKey{candidate: candidate, query: query}

	c.mu.RLock()
	score, ok := c.scores[key]
	c.mu.RUnlock()
	if ok {
		return score
	}

	set := NewSet(c.opts)
	set.Add(candidate)
	score = set.Best(query)

	c.mu.Lock()
	c.scores[key] = score
	c.mu.Unlock()
	return score
}

// Len returns the number of memoised pairs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.scores)
}
