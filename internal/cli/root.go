// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/config"
	"github.com/aidanlsb/quicksearch/internal/logger"
	"github.com/aidanlsb/quicksearch/internal/model"
	"github.com/aidanlsb/quicksearch/internal/search"
	"github.com/aidanlsb/quicksearch/internal/siteindex"
	"github.com/aidanlsb/quicksearch/internal/ui"
)

var (
	// Global flags
	siteFlag      string
	indexPathFlag string
	timeoutFlag   time.Duration
	configPath    string
	verbose       bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qs",
	Short: "quicksearch - search a documentation site from the terminal",
	Long: `quicksearch searches the prebuilt search index of a static documentation site.

Results combine entries that contain your query with close fuzzy matches,
grouped by the section of the site they belong to. Use 'qs open' for an
interactive panel or 'qs search' for one-shot output.

The site is taken from --site or site.url in ~/.config/quicksearch/config.toml.
It may be an http(s) URL or a directory containing a built site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)

		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		// Config subcommands load the file themselves so they work on broken configs.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		return loadConfig()
	},
}

// Execute runs the CLI. Interrupts cancel in-flight index fetches.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&siteFlag, "site", "", "Site URL or local directory (overrides site.url)")
	rootCmd.PersistentFlags().StringVar(&indexPathFlag, "index-path", "", "Index location relative to the site URL (default search-index.json; a leading / is relative to the host)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Index fetch timeout (overrides site.timeout)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log index loading and ranking details to stderr")
}

// loadConfig reads the config file, applies flag overrides and validates the result.
func loadConfig() error {
	loaded, path, err := loadConfigWithPath()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Run 'qs config show' to inspect the file")
	}

	if v := strings.TrimSpace(siteFlag); v != "" {
		loaded.Site.URL = v
	}
	if v := strings.TrimSpace(indexPathFlag); v != "" {
		loaded.Site.IndexPath = v
	}
	if timeoutFlag > 0 {
		loaded.Site.Timeout = timeoutFlag.String()
	}

	if err := loaded.Validate(); err != nil {
		return handleError(ErrConfigInvalid, err, "Fix the value with 'qs config set <key> <value>'")
	}

	cfg = loaded
	resolvedConfigPath = path
	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)
	logger.Debug("Config: %s", path)
	return nil
}

func loadConfigWithPath() (*config.Config, string, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.Config{}, path, nil
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		return nil, path, err
	}
	return loaded, path, nil
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// newSearcher builds a searcher over the configured site.
func newSearcher() (*search.Searcher, *siteindex.Store) {
	c := getConfig()
	store := siteindex.NewStore(siteindex.HTTPLoader(c.FetchOptions()))
	return search.New(store, c.SearchOptions()), store
}

// loadIndex fetches the index up front so fetch errors reach the user
// instead of turning into empty results.
func loadIndex(ctx context.Context, s *search.Searcher) error {
	if strings.TrimSpace(getConfig().Site.URL) == "" {
		return handleErrorMsg(ErrMissingArgument, "no site configured",
			"Pass --site <url-or-dir> or run 'qs config set site.url <url>'")
	}

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Loading search index")
		spinner.Start()
	}
	_, err := s.LoadIndex(ctx)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return handleError(ErrIndexFetchFailed, err, "Check the site URL and that it publishes "+indexPathHint())
	}
	return nil
}

func indexPathHint() string {
	if p := strings.TrimSpace(getConfig().Site.IndexPath); p != "" {
		return p
	}
	return siteindex.DefaultIndexPath
}

// entryLink returns the absolute link for an entry on the configured site.
func entryLink(e *model.Entry) string {
	return siteindex.ResolveLink(getConfig().Site.URL, e.URL)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseKinds(raw string) ([]model.Kind, error) {
	var kinds []model.Kind
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := model.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// droppedWarnings lists the index entries that were skipped while loading.
func droppedWarnings(store *siteindex.Store) []Warning {
	result, ok := store.Result()
	if !ok {
		return nil
	}
	warnings := make([]Warning, 0, len(result.Issues))
	for _, issue := range result.Issues {
		warnings = append(warnings, Warning{
			Code:    WarnInvalidEntry,
			Message: issue.String(),
			Ref:     issue.URL,
		})
	}
	return warnings
}

// warnDropped prints a one-line count of skipped entries to stderr.
func warnDropped(warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, ui.Warningf("%d invalid index %s skipped (run 'qs index' for details)",
		len(warnings), pluralize("entry", len(warnings))))
}

func printWarnings(warnings []Warning) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
	}
}
