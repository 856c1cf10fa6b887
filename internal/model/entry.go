// Package model defines the records that flow through the quick search pipeline.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies an index entry. It decides the display icon and whether the
// entry is listed when the query is empty.
type Kind string

const (
	KindPage    Kind = "page"
	KindHeading Kind = "heading"
	KindInline  Kind = "inline"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindPage, KindHeading, KindInline}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindHeading, KindInline:
		return true
	}
	return false
}

// Icon returns the glyph shown next to an entry of this kind.
func (k Kind) Icon() string {
	switch k {
	case KindPage:
		return "▤"
	case KindHeading:
		return "#"
	case KindInline:
		return "¶"
	default:
		return "·"
	}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q (expected page, heading or inline)", s)
	}
	return k, nil
}

// Entry is a single searchable record from the site index.
// Entries are never mutated after the index is loaded; the pipeline passes them
// around by pointer and uses pointer identity to tell them apart.
type Entry struct {
	// URL is the link target, usually site-relative ("/guide/install#steps").
	URL string `json:"url"`

	// Kind is serialized as "type" to match the index file.
	Kind Kind `json:"type"`

	// Section is the display grouping key.
	Section string `json:"section"`

	// Page is the parent page title, shown as a subtitle for headings and inline text.
	Page string `json:"page,omitempty"`

	// Text is the literal matchable content.
	Text string `json:"text"`
}

// IsPage reports whether the entry is a whole page.
func (e *Entry) IsPage() bool { return e.Kind == KindPage }

// Subtitle returns the parent page title for non-page entries.
func (e *Entry) Subtitle() string {
	if e.IsPage() {
		return ""
	}
	return e.Page
}

// Validate checks the required fields of an entry.
func (e *Entry) Validate() error {
	switch {
	case strings.TrimSpace(e.URL) == "":
		return &SchemaError{Field: "url", Reason: "missing"}
	case e.Kind == "":
		return &SchemaError{Field: "type", Reason: "missing"}
	case !e.Kind.Valid():
		return &SchemaError{Field: "type", Reason: fmt.Sprintf("unknown value %q", e.Kind)}
	case e.Text == "":
		return &SchemaError{Field: "text", Reason: "missing"}
	}
	return nil
}

// SchemaError describes why an index entry was rejected.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// UnmarshalJSON accepts the kind name in any letter case.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("type must be a string: %w", err)
	}
	*k = Kind(strings.ToLower(strings.TrimSpace(s)))
	return nil
}
