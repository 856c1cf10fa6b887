package model

import "fmt"

// MatchClass tells how an entry matched a query.
type MatchClass int

const (
	// MatchExact means the entry text contains the query (case-insensitive).
	MatchExact MatchClass = iota
	// MatchFuzzy means the entry only matched by n-gram similarity.
	MatchFuzzy
)

func (c MatchClass) String() string {
	switch c {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("MatchClass(%d)", int(c))
	}
}

// MarshalText renders the class by name in JSON output.
func (c MatchClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Match is an entry plus the class it matched in.
type Match struct {
	Entry *Entry
	Class MatchClass

	// Score is the fuzzy similarity in [0, 1]. It orders fuzzy matches and is
	// zero for exact ones.
	Score float64
}

// Entries strips match metadata, keeping order.
func Entries(matches []Match) []*Entry {
	out := make([]*Entry, len(matches))
	for i, m := range matches {
		out[i] = m.Entry
	}
	return out
}
