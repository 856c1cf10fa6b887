package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/config"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the quicksearch config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.CreateDefault(configPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": path, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", path))
		} else {
			fmt.Println(ui.Info("Config already exists: " + path))
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the config file and the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, err := loadConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		_, statErr := os.Stat(path)
		exists := statErr == nil
		validateErr := loaded.Validate()

		if isJSONOutput() {
			data := map[string]interface{}{
				"config_path": path,
				"exists":      exists,
				"config":      loaded,
				"effective": map[string]interface{}{
					"timeout":     loaded.Timeout().String(),
					"similarity":  loaded.SimilarityOptions(),
					"fuzzy_order": loaded.SearchOptions().FuzzyOrder.String(),
					"toggle_key":  loaded.ToggleKey(),
				},
			}
			if validateErr != nil {
				data["error"] = validateErr.Error()
			}
			outputSuccess(data, nil)
			return nil
		}

		if !exists {
			fmt.Printf("Config file does not exist: %s\n", path)
			fmt.Println("Run 'qs config init' to create it.")
			return nil
		}

		fmt.Printf("config: %s\n\n", path)
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(loaded); err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(buf.String())

		if validateErr != nil {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, ui.Warning(validateErr.Error()))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (an empty value restores the default)",
	Long: `Set a single config value and save the file.

Keys:
  site.url, site.index_path, site.timeout
  search.min_score, search.levenshtein, search.gram_min, search.gram_max, search.fuzzy_order
  ui.accent, ui.code_theme, ui.toggle_key

Examples:
  qs config set site.url https://docs.example.com
  qs config set search.fuzzy_order descending
  qs config set ui.accent ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, err := loadConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if err := loaded.Set(args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := loaded.Validate(); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if err := config.SaveTo(path, loaded); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"key":         args[0],
				"value":       args[1],
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Set %s in %s", args[0], path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
