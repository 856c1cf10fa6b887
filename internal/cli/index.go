package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/siteindex"
	"github.com/aidanlsb/quicksearch/internal/slugs"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Fetch the site index and summarise it",
	Long: `Fetch the search index and report how many entries it holds per kind and
section. Entries that are missing required fields are skipped by search; they
are listed here as warnings.

Examples:
  qs index --site https://docs.example.com
  qs index --site ./public --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		searcher, store := newSearcher()
		if err := loadIndex(ctx, searcher); err != nil {
			return err
		}

		result, ok := store.Result()
		if !ok {
			return handleErrorMsg(ErrInternal, "index loaded but no fetch result recorded", "")
		}
		stats := siteindex.Summarize(result)

		warnings := droppedWarnings(store)

		if isJSONOutput() {
			outputSuccessWithWarnings(stats, warnings, &Meta{Count: stats.Total})
			return nil
		}

		fmt.Println(ui.Header("Index") + " " + ui.Link(stats.URL))
		fmt.Println(ui.Hint(fmt.Sprintf("%d entries, %s, fetched %s",
			stats.Total, formatBytes(stats.Bytes), stats.FetchedAt.Format("2006-01-02 15:04:05"))))
		fmt.Println()

		kinds := ui.NewTable(2)
		for _, k := range model.Kinds {
			kinds.AddRow(k.Icon()+" "+string(k), strconv.Itoa(stats.ByKind[k]))
		}
		fmt.Println(ui.Header("Kinds"))
		fmt.Print(kinds.Indent(2))
		fmt.Println()

		sections := ui.NewTable(3)
		for _, s := range stats.Sections {
			name := s.Name
			if name == "" {
				name = "(none)"
			}
			sections.AddRow(name, ui.Hint(slugs.Section(s.Name)), strconv.Itoa(s.Count))
		}
		fmt.Println(ui.Header("Sections"))
		fmt.Print(sections.Indent(2))

		if len(warnings) > 0 {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, ui.Warningf("%d %s skipped", stats.Dropped, pluralize("entry", stats.Dropped)))
			printWarnings(warnings)
		}
		return nil
	},
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
