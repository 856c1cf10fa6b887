package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/search"
	"github.com/aidanlsb/quicksearch/internal/slugs"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

var (
	searchLimit   int
	searchSection string
	searchKinds   string
)

type resultJSON struct {
	Text    string  `json:"text"`
	Kind    string  `json:"kind"`
	Section string  `json:"section"`
	Page    string  `json:"page,omitempty"`
	URL     string  `json:"url"`
	Link    string  `json:"link"`
	Match   string  `json:"match"`
	Score   float64 `json:"score,omitempty"`
}

type sectionJSON struct {
	Name    string       `json:"name"`
	Slug    string       `json:"slug"`
	Results []resultJSON `json:"results"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the site index",
	Long: `Search the site's index and print matching pages, headings and text.

Entries whose text contains the query (ignoring case) are listed first, in index
order, followed by fuzzy matches. Results are grouped by site section.

Examples:
  qs search install
  qs search "config file" --section guides
  qs search auth --kind heading,inline --limit 5
  qs search install --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	// Whitespace is a literal query; only a truly empty one lists pages.
	if query == "" {
		return handleErrorMsg(ErrMissingArgument, "query is empty", "Use 'qs pages' to list every page")
	}
	return runMatches(cmd, query)
}

// runMatches drives both 'search' and 'pages': an empty query lists pages.
func runMatches(cmd *cobra.Command, query string) error {
	start := time.Now()
	ctx := commandContext(cmd)

	kinds, err := parseKinds(searchKinds)
	if err != nil {
		return handleError(ErrInvalidInput, err, "Valid kinds: page, heading, inline")
	}
	if searchLimit < 0 {
		return handleErrorMsg(ErrInvalidInput, "--limit must not be negative", "")
	}

	searcher, store := newSearcher()
	if err := loadIndex(ctx, searcher); err != nil {
		return err
	}
	warnings := droppedWarnings(store)

	if searchSection != "" {
		index, _ := searcher.LoadIndex(ctx)
		if len(search.FilterSection(search.Group(index), searchSection)) == 0 {
			return handleErrorWithDetails(ErrSectionNotFound,
				fmt.Sprintf("no section matches %q", searchSection),
				"Run 'qs index' to list sections",
				map[string]interface{}{"available": sectionSlugs(search.Group(index))})
		}
	}

	matches := searcher.SearchMatches(ctx, query)
	matches = search.FilterKinds(matches, kinds)
	matches = filterMatchSection(matches, searchSection)
	matches = search.Limit(matches, searchLimit)
	sections := search.Group(model.Entries(matches))

	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"query":    query,
			"sections": sectionsJSON(sections, matches),
		}, warnings, &Meta{Count: len(matches), QueryTimeMs: elapsed})
		return nil
	}

	warnDropped(warnings)

	if len(matches) == 0 {
		if query == "" {
			fmt.Println(ui.Hint("The index has no pages"))
		} else {
			fmt.Println(ui.Hint(fmt.Sprintf("No results for %q", query)))
		}
		return nil
	}

	fmt.Print(ui.NewResultsTable(ui.NewDisplayContext(), query, entryLink).Render(sections))
	fmt.Println(ui.Hint(fmt.Sprintf("%d %s in %dms", len(matches), pluralize("result", len(matches)), elapsed)))
	return nil
}

func filterMatchSection(matches []model.Match, filter string) []model.Match {
	if strings.TrimSpace(filter) == "" {
		return matches
	}
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if slugs.MatchSection(m.Entry.Section, filter) {
			out = append(out, m)
		}
	}
	return out
}

func sectionsJSON(sections []model.Section, matches []model.Match) []sectionJSON {
	byEntry := make(map[*model.Entry]model.Match, len(matches))
	for _, m := range matches {
		byEntry[m.Entry] = m
	}

	out := make([]sectionJSON, 0, len(sections))
	for _, s := range sections {
		results := make([]resultJSON, 0, len(s.Entries))
		for _, e := range s.Entries {
			m := byEntry[e]
			results = append(results, resultJSON{
				Text:    e.Text,
				Kind:    string(e.Kind),
				Section: e.Section,
				Page:    e.Page,
				URL:     e.URL,
				Link:    entryLink(e),
				Match:   m.Class.String(),
				Score:   m.Score,
			})
		}
		out = append(out, sectionJSON{Name: s.Name, Slug: slugs.Section(s.Name), Results: results})
	}
	return out
}

func sectionSlugs(sections []model.Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, slugs.Section(s.Name))
	}
	return out
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of results (0 = no limit)")
	searchCmd.Flags().StringVarP(&searchSection, "section", "s", "", "Only show results from this section (name or slug)")
	searchCmd.Flags().StringVarP(&searchKinds, "kind", "k", "", "Only show these kinds, comma-separated (page, heading, inline)")
	rootCmd.AddCommand(searchCmd)
}
