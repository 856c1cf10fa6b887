// Package config handles quicksearch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/quicksearch/internal/search"
	"github.com/aidanlsb/quicksearch/internal/siteindex"
	"github.com/aidanlsb/quicksearch/internal/similarity"
)

// DefaultToggleKey opens and closes the overlay.
const DefaultToggleKey = "ctrl+k"

// Config represents the quicksearch configuration file.
type Config struct {
	// Site locates the search index.
	Site SiteConfig `toml:"site" json:"site"`

	// Search tunes the fuzzy matcher.
	Search SearchConfig `toml:"search" json:"search"`

	// UI controls optional theming and key preferences.
	UI UIConfig `toml:"ui" json:"ui"`
}

// SiteConfig locates the published search index.
type SiteConfig struct {
	// URL is the site root. It may be http(s), file:// or a local directory.
	URL string `toml:"url" json:"url,omitempty"`

	// IndexPath is appended to URL. Defaults to search-index.json under the site URL; a leading slash makes it host-relative.
	IndexPath string `toml:"index_path" json:"index_path,omitempty"`

	// Timeout bounds the index fetch, as a Go duration ("10s").
	Timeout string `toml:"timeout" json:"timeout,omitempty"`
}

// SearchConfig tunes fuzzy matching. Zero values mean "use the default".
type SearchConfig struct {
	MinScore    *float64 `toml:"min_score" json:"min_score,omitempty"`
	Levenshtein *bool    `toml:"levenshtein" json:"levenshtein,omitempty"`
	GramMin     int      `toml:"gram_min" json:"gram_min,omitempty"`
	GramMax     int      `toml:"gram_max" json:"gram_max,omitempty"`

	// FuzzyOrder is "ascending" (default) or "descending".
	FuzzyOrder string `toml:"fuzzy_order" json:"fuzzy_order,omitempty"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent" json:"accent,omitempty"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme" json:"code_theme,omitempty"`

	// ToggleKey opens and closes the overlay. Defaults to ctrl+k.
	ToggleKey string `toml:"toggle_key" json:"toggle_key,omitempty"`
}

// Timeout returns the fetch timeout, or the default when unset or invalid.
// Validate reports invalid values.
func (c *Config) Timeout() time.Duration {
	if d, err := parseTimeout(c.Site.Timeout); err == nil && d > 0 {
		return d
	}
	return siteindex.DefaultTimeout
}

func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

// FetchOptions returns the index fetch settings.
func (c *Config) FetchOptions() siteindex.FetchOptions {
	return siteindex.FetchOptions{
		BaseURL:   strings.TrimSpace(c.Site.URL),
		IndexPath: strings.TrimSpace(c.Site.IndexPath),
		Timeout:   c.Timeout(),
	}
}

// IndexURL returns the absolute location of the search index.
func (c *Config) IndexURL() (string, error) {
	return siteindex.IndexURL(c.FetchOptions())
}

// SimilarityOptions returns the fuzzy scoring settings.
func (c *Config) SimilarityOptions() similarity.Options {
	opts := similarity.DefaultOptions()
	if c.Search.MinScore != nil {
		opts.MinScore = *c.Search.MinScore
	}
	if c.Search.Levenshtein != nil {
		opts.UseLevenshtein = *c.Search.Levenshtein
	}
	if c.Search.GramMin > 0 {
		opts.GramSizeLower = c.Search.GramMin
	}
	if c.Search.GramMax > 0 {
		opts.GramSizeUpper = c.Search.GramMax
	}
	return opts
}

// SearchOptions returns the matcher settings. An unknown fuzzy order falls
// back to ascending; Validate reports it.
func (c *Config) SearchOptions() search.Options {
	order, _ := search.ParseFuzzyOrder(c.Search.FuzzyOrder)
	return search.Options{
		Similarity: c.SimilarityOptions(),
		FuzzyOrder: order,
	}
}

// ToggleKey returns the overlay toggle shortcut.
func (c *Config) ToggleKey() string {
	if k := strings.TrimSpace(c.UI.ToggleKey); k != "" {
		return k
	}
	return DefaultToggleKey
}

// Validate checks values that cannot be applied as given.
func (c *Config) Validate() error {
	var problems []string

	if _, err := parseTimeout(c.Site.Timeout); err != nil {
		problems = append(problems, fmt.Sprintf("site.timeout %q: %v", c.Site.Timeout, err))
	}
	if u := strings.TrimSpace(c.Site.URL); u != "" {
		if _, err := c.IndexURL(); err != nil {
			problems = append(problems, fmt.Sprintf("site.url %q: %v", u, err))
		}
	}
	if s := c.Search.MinScore; s != nil && (*s < 0 || *s > 1) {
		problems = append(problems, fmt.Sprintf("search.min_score %v: must be between 0 and 1", *s))
	}
	if c.Search.GramMin < 0 || c.Search.GramMax < 0 {
		problems = append(problems, "search.gram_min and search.gram_max must not be negative")
	}
	opts := c.SimilarityOptions()
	if opts.GramSizeUpper < opts.GramSizeLower {
		problems = append(problems, fmt.Sprintf("search.gram_max %d is smaller than gram_min %d", opts.GramSizeUpper, opts.GramSizeLower))
	}
	if _, err := search.ParseFuzzyOrder(c.Search.FuzzyOrder); err != nil {
		problems = append(problems, "search.fuzzy_order: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Keys lists the settings accepted by Set, in file order.
var Keys = []string{
	"site.url",
	"site.index_path",
	"site.timeout",
	"search.min_score",
	"search.levenshtein",
	"search.gram_min",
	"search.gram_max",
	"search.fuzzy_order",
	"ui.accent",
	"ui.code_theme",
	"ui.toggle_key",
}

// Set assigns a single dotted key from its string form. An empty value clears
// the setting back to its default.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "site.url":
		c.Site.URL = value
	case "site.index_path":
		c.Site.IndexPath = value
	case "site.timeout":
		if _, err := parseTimeout(value); err != nil {
			return fmt.Errorf("site.timeout: %w", err)
		}
		c.Site.Timeout = value
	case "search.min_score":
		if value == "" {
			c.Search.MinScore = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("search.min_score: %w", err)
		}
		c.Search.MinScore = &f
	case "search.levenshtein":
		if value == "" {
			c.Search.Levenshtein = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("search.levenshtein: %w", err)
		}
		c.Search.Levenshtein = &b
	case "search.gram_min", "search.gram_max":
		n := 0
		if value != "" {
			var err error
			if n, err = strconv.Atoi(value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		if strings.HasSuffix(strings.ToLower(key), "min") {
			c.Search.GramMin = n
		} else {
			c.Search.GramMax = n
		}
	case "search.fuzzy_order":
		if _, err := search.ParseFuzzyOrder(value); err != nil {
			return err
		}
		c.Search.FuzzyOrder = value
	case "ui.accent":
		c.UI.Accent = value
	case "ui.code_theme":
		c.UI.CodeTheme = value
	case "ui.toggle_key":
		c.UI.ToggleKey = value
	default:
		return fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/quicksearch/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "quicksearch", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "quicksearch", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# quicksearch configuration

# Where the site's search index lives.
[site]
# url = "https://docs.example.com"
# index_path = "search-index.json"
# timeout = "10s"

# Fuzzy matching. Entries that contain the query are always listed first.
# [search]
# min_score = 0.33
# levenshtein = true
# gram_min = 2
# gram_max = 3
# fuzzy_order = "ascending"   # or "descending" to list closest matches first

# Optional UI accent color for headers/links in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
# toggle_key = "ctrl+k"
`

// CreateDefault creates a default config file at path if it doesn't exist.
// An empty path means DefaultPath.
func CreateDefault(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return path, true, nil
}
