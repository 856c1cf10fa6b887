package model

// Section is one named bucket of grouped results.
type Section struct {
	Name    string
	Entries []*Entry
}

// Count returns the total number of entries across sections.
func Count(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Entries)
	}
	return n
}
