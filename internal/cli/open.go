package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/tui"
)

var openQuery string

var openCmd = &cobra.Command{
	Use:     "open",
	Aliases: []string{"ui"},
	Short:   "Open the interactive search panel",
	Long: `Open a full-screen search panel. Results update as you type.

Keys: ↑/↓ move between results, enter opens the focused result (or the first
one from the input), / returns to the input, esc hides the panel and the
toggle key (ctrl+k by default) shows it again. Run 'qs keys' for the full list.

The link of the chosen result is printed on exit, so it can be piped:
  qs open | xargs open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tui.IsTTY() {
			return handleErrorMsg(ErrNotInteractive, "the search panel needs an interactive terminal",
				"Use 'qs search <query>' for non-interactive output")
		}

		ctx := commandContext(cmd)
		searcher, store := newSearcher()
		if err := loadIndex(ctx, searcher); err != nil {
			return err
		}
		if !isJSONOutput() {
			warnDropped(droppedWarnings(store))
		}

		chosen, err := tui.Run(ctx, searcher, tui.Options{
			Query:     openQuery,
			ToggleKey: getConfig().ToggleKey(),
			Link:      entryLink,
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if chosen == nil {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"chosen": nil}, nil)
			}
			return nil
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"chosen": resultJSON{
					Text:    chosen.Text,
					Kind:    string(chosen.Kind),
					Section: chosen.Section,
					Page:    chosen.Page,
					URL:     chosen.URL,
					Link:    entryLink(chosen),
				},
			}, nil)
			return nil
		}
		fmt.Println(entryLink(chosen))
		return nil
	},
}

func init() {
	openCmd.Flags().StringVarP(&openQuery, "query", "q", "", "Start with this query")
	rootCmd.AddCommand(openCmd)
}
