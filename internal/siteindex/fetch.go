// Package siteindex loads a static site's precomputed search index and keeps
// it in memory for the life of the process.
package siteindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/quicksearch/internal/model"
)

const (
	// DefaultIndexPath is where sites publish their search index. It is
	// relative, so a site served under a subpath finds its own index.
	DefaultIndexPath = "search-index.json"

	// DefaultTimeout bounds an index fetch when no timeout is configured.
	DefaultTimeout = 10 * time.Second

	maxIndexBytes = 64 << 20
)

// ErrEmptyBaseURL is returned when no site location is configured.
var ErrEmptyBaseURL = errors.New("site URL is required")

// FetchError reports that the index could not be retrieved or decoded.
// It is never retried automatically.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch index: %v", e.Err)
	}
	return fmt.Sprintf("fetch index %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Issue records an index entry that was dropped during decoding.
type Issue struct {
	// Position is the 0-based array index of the entry in the payload.
	Position int
	URL      string
	Err      error
}

func (i Issue) String() string {
	if i.URL != "" {
		return fmt.Sprintf("entry %d (%s): %v", i.Position, i.URL, i.Err)
	}
	return fmt.Sprintf("entry %d: %v", i.Position, i.Err)
}

// FetchOptions controls index retrieval.
type FetchOptions struct {
	// BaseURL is the site root: an http(s) URL, a file:// URL, or a local
	// directory holding a built site.
	BaseURL string

	// IndexPath is resolved against BaseURL. Defaults to DefaultIndexPath.
	IndexPath string

	HTTPClient *http.Client
	Timeout    time.Duration
	Now        func() time.Time
}

// FetchResult is a decoded index.
type FetchResult struct {
	URL       string
	Entries   []*model.Entry
	Issues    []Issue
	ByteCount int64
	FetchedAt time.Time
}

// Fetch downloads and decodes the index described by opts.
// Any failure is returned as a *FetchError.
func Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	target, client, err := resolve(opts)
	if err != nil {
		return nil, &FetchError{URL: strings.TrimSpace(opts.BaseURL), Err: err}
	}
	indexURL := target.String()

	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, &FetchError{URL: indexURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: indexURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: indexURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes+1))
	if err != nil {
		return nil, &FetchError{URL: indexURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > maxIndexBytes {
		return nil, &FetchError{URL: indexURL, Err: fmt.Errorf("index exceeds %d bytes", maxIndexBytes)}
	}

	entries, issues, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{URL: indexURL, Err: err}
	}

	return &FetchResult{
		URL:       indexURL,
		Entries:   entries,
		Issues:    issues,
		ByteCount: int64(len(data)),
		FetchedAt: nowFn(),
	}, nil
}

// Decode parses an index payload. The payload must be a JSON array; entries
// that fail to decode or validate are skipped and reported as issues.
func Decode(r io.Reader) ([]*model.Entry, []Issue, error) {
	dec := json.NewDecoder(r)
	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("payload is not a JSON array of entries: %w", err)
	}
	// null decodes into a nil slice without error.
	if raw == nil {
		return nil, nil, errors.New("payload is not a JSON array of entries: got null")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("payload is not a JSON array of entries: unexpected data after the array")
	}

	entries := make([]*model.Entry, 0, len(raw))
	var issues []Issue
	for i, item := range raw {
		var entry model.Entry
		if err := json.Unmarshal(item, &entry); err != nil {
			issues = append(issues, Issue{Position: i, Err: err})
			continue
		}
		if err := entry.Validate(); err != nil {
			issues = append(issues, Issue{Position: i, URL: entry.URL, Err: err})
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, issues, nil
}

// IndexURL returns the location Fetch would request for opts.
func IndexURL(opts FetchOptions) (string, error) {
	target, _, err := resolve(opts)
	if err != nil {
		return "", err
	}
	if target.Scheme == "file" {
		return "file://" + filepath.ToSlash(filepath.Join(localRoot(opts.BaseURL), target.Path)), nil
	}
	return target.String(), nil
}

// ResolveLink turns an entry URL into an absolute link on the site.
// Links that are already absolute are returned unchanged.
func ResolveLink(baseURL, link string) string {
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return link
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String()
}

func resolve(opts FetchOptions) (*url.URL, *http.Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		return nil, nil, ErrEmptyBaseURL
	}

	indexPath := strings.TrimSpace(opts.IndexPath)
	if indexPath == "" {
		indexPath = DefaultIndexPath
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse site URL: %w", err)
	}

	switch base.Scheme {
	case "http", "https":
		ref, err := url.Parse(indexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("parse index path: %w", err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: timeout}
		}
		return base.ResolveReference(ref), client, nil

	case "", "file":
		// A built site on disk: serve it through a file transport rooted at
		// the site directory.
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{
				Timeout:   timeout,
				Transport: http.NewFileTransport(http.Dir(localRoot(baseURL))),
			}
		}
		target := &url.URL{Scheme: "file", Path: "/" + strings.TrimLeft(filepath.ToSlash(indexPath), "/")}
		return target, client, nil

	default:
		return nil, nil, fmt.Errorf("unsupported site URL scheme %q", base.Scheme)
	}
}

func localRoot(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if u, err := url.Parse(baseURL); err == nil && u.Scheme == "file" {
		return filepath.FromSlash(u.Path)
	}
	return baseURL
}
