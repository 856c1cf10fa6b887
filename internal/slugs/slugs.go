// Package slugs turns display names into stable, URL-safe identifiers.
//
// Section names in a site index are free text ("Getting Started", "API & SDKs").
// Commands refer to them by slug so users can type --section getting-started.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Section returns the slug for a section name.
// Names that slugify to nothing (punctuation only) fall back to a lower-cased,
// dash-joined form so every non-blank name still has an identifier.
func Section(name string) string {
	slugged := goslug.Make(name)
	if slugged != "" {
		return slugged
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// MatchSection reports whether a user-supplied filter selects the named section.
// The filter may be the exact name or its slug.
func MatchSection(name, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	if strings.EqualFold(name, filter) {
		return true
	}
	return Section(name) == Section(filter)
}
