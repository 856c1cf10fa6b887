package search

import (
	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/slugs"
)

// Group buckets entries by section in a single pass. Sections appear in the
// order they are first seen and keep their entries' relative order.
func Group(entries []*model.Entry) []model.Section {
	sections := make([]model.Section, 0)
	position := make(map[string]int)

	for _, e := range entries {
		i, ok := position[e.Section]
		if !ok {
			i = len(sections)
			position[e.Section] = i
			sections = append(sections, model.Section{Name: e.Section})
		}
		sections[i].Entries = append(sections[i].Entries, e)
	}
	return sections
}

// FilterSection keeps only the section selected by filter (a name or slug).
// An empty filter keeps everything.
func FilterSection(sections []model.Section, filter string) []model.Section {
	out := make([]model.Section, 0, len(sections))
	for _, s := range sections {
		if slugs.MatchSection(s.Name, filter) {
			out = append(out, s)
		}
	}
	return out
}

// FilterKinds keeps matches whose entry kind is listed. No kinds keeps all.
func FilterKinds(matches []model.Match, kinds []model.Kind) []model.Match {
	if len(kinds) == 0 {
		return matches
	}
	allowed := make(map[model.Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if allowed[m.Entry.Kind] {
			out = append(out, m)
		}
	}
	return out
}

// Limit truncates matches to at most n. n <= 0 means no limit.
func Limit(matches []model.Match, n int) []model.Match {
	if n <= 0 || len(matches) <= n {
		return matches
	}
	return matches[:n]
}
