package siteindex

import (
	"time"

	"github.com/aidanlsb/quicksearch/internal/model"
)

// SectionCount is the number of entries in one section.
type SectionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarises a loaded index.
type Stats struct {
	URL       string             `json:"url"`
	Total     int                `json:"total"`
	ByKind    map[model.Kind]int `json:"by_kind"`
	Sections  []SectionCount     `json:"sections"`
	Dropped   int                `json:"dropped"`
	Bytes     int64              `json:"bytes"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Summarize counts entries per kind and per section. Sections keep their
// first-seen index order.
func Summarize(result *FetchResult) Stats {
	stats := Stats{
		URL:       result.URL,
		Total:     len(result.Entries),
		ByKind:    make(map[model.Kind]int, len(model.Kinds)),
		Dropped:   len(result.Issues),
		Bytes:     result.ByteCount,
		FetchedAt: result.FetchedAt,
	}
	for _, k := range model.Kinds {
		stats.ByKind[k] = 0
	}

	position := make(map[string]int)
	for _, e := range result.Entries {
		stats.ByKind[e.Kind]++
		i, ok := position[e.Section]
		if !ok {
			i = len(stats.Sections)
			position[e.Section] = i
			stats.Sections = append(stats.Sections, SectionCount{Name: e.Section})
		}
		stats.Sections[i].Count++
	}
	return stats
}
