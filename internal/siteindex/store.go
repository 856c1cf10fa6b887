package siteindex

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aidanlsb/quicksearch/internal/logger"
	"github.com/aidanlsb/quicksearch/internal/model"
)

// Loader produces a decoded index.
type Loader interface {
	Load(ctx context.Context) (*FetchResult, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*FetchResult, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*FetchResult, error) { return f(ctx) }

// HTTPLoader returns a Loader that calls Fetch with opts.
func HTTPLoader(opts FetchOptions) Loader {
	return LoaderFunc(func(ctx context.Context) (*FetchResult, error) {
		return Fetch(ctx, opts)
	})
}

// StaticLoader returns a Loader that serves entries without any I/O.
func StaticLoader(entries []*model.Entry) Loader {
	return LoaderFunc(func(context.Context) (*FetchResult, error) {
		return &FetchResult{URL: "memory://", Entries: entries}, nil
	})
}

// Store memoises the index. The first successful load is kept for the life of
// the Store; failed loads are not cached, so a later call tries again.
//
// Callers that arrive while a load is in flight wait for that load and share
// its outcome, so at most one request is outstanding at a time. The context of
// the caller that started the load governs it.
type Store struct {
	loader Loader
	group  singleflight.Group

	mu     sync.RWMutex
	result *FetchResult
}

// NewStore creates a Store backed by loader.
func NewStore(loader Loader) *Store {
	return &Store{loader: loader}
}

// Index returns the memoised entries, loading them on first use.
// Errors are *FetchError.
func (s *Store) Index(ctx context.Context) ([]*model.Entry, error) {
	if result, ok := s.Result(); ok {
		return result.Entries, nil
	}

	v, err, shared := s.group.Do("index", func() (any, error) {
		if result, ok := s.Result(); ok {
			return result, nil
		}
		return s.load(ctx)
	})
	if shared {
		logger.Debug("Index load shared with an in-flight request")
	}
	if err != nil {
		return nil, err
	}
	return v.(*FetchResult).Entries, nil
}

func (s *Store) load(ctx context.Context) (*FetchResult, error) {
	logger.Section("Index Load")

	result, err := s.loader.Load(ctx)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{Err: err}
		}
		logger.Warn("Index load failed: %v", err)
		return nil, err
	}

	for _, issue := range result.Issues {
		logger.Warn("Dropped invalid index %s", issue)
	}
	logger.Info("Loaded %d entries from %s (%d dropped)", len(result.Entries), result.URL, len(result.Issues))

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	return result, nil
}

// Result returns the memoised load, if any.
func (s *Store) Result() (*FetchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.result != nil
}

// Loaded reports whether the index is in memory.
func (s *Store) Loaded() bool {
	_, ok := s.Result()
	return ok
}
