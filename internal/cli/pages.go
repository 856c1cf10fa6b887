package cli

import (
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List every page in the index, grouped by section",
	Long: `List every page in the site index in index order, grouped by section.
This is what the search panel shows before anything is typed.

Examples:
  qs pages
  qs pages --section reference
  qs pages --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchKinds = ""
		return runMatches(cmd, "")
	},
}

func init() {
	pagesCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of pages (0 = no limit)")
	pagesCmd.Flags().StringVarP(&searchSection, "section", "s", "", "Only list pages from this section (name or slug)")
	rootCmd.AddCommand(pagesCmd)
}
