package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/tui"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the search panel's keyboard reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keymap := tui.DefaultKeyMap(getConfig().ToggleKey())

		if isJSONOutput() {
			bindings := make([]map[string]string, 0)
			for _, group := range keymap.FullHelp() {
				for _, b := range group {
					h := b.Help()
					bindings = append(bindings, map[string]string{"key": h.Key, "action": h.Desc})
				}
			}
			outputSuccess(map[string]interface{}{"bindings": bindings}, &Meta{Count: len(bindings)})
			return nil
		}

		display := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(keymap.Markdown(), display.AvailableWidth(ui.MarkdownRenderMargin*2))
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
