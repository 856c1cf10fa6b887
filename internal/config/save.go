package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/quicksearch/internal/atomicfile"
)

type persistedConfig struct {
	Site   *persistedSiteSettings   `toml:"site,omitempty"`
	Search *persistedSearchSettings `toml:"search,omitempty"`
	UI     *persistedUISettings     `toml:"ui,omitempty"`
}

type persistedSiteSettings struct {
	URL       *string `toml:"url,omitempty"`
	IndexPath *string `toml:"index_path,omitempty"`
	Timeout   *string `toml:"timeout,omitempty"`
}

type persistedSearchSettings struct {
	MinScore    *float64 `toml:"min_score,omitempty"`
	Levenshtein *bool    `toml:"levenshtein,omitempty"`
	GramMin     *int     `toml:"gram_min,omitempty"`
	GramMax     *int     `toml:"gram_max,omitempty"`
	FuzzyOrder  *string  `toml:"fuzzy_order,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
	ToggleKey *string `toml:"toggle_key,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positivePtr(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// Save writes the config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the config to a specific path atomically. Unset values are
// omitted so defaults keep applying.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	var out persistedConfig

	site := persistedSiteSettings{
		URL:       nonEmptyPtr(cfg.Site.URL),
		IndexPath: nonEmptyPtr(cfg.Site.IndexPath),
		Timeout:   nonEmptyPtr(cfg.Site.Timeout),
	}
	if site != (persistedSiteSettings{}) {
		out.Site = &site
	}

	search := persistedSearchSettings{
		MinScore:    cfg.Search.MinScore,
		Levenshtein: cfg.Search.Levenshtein,
		GramMin:     positivePtr(cfg.Search.GramMin),
		GramMax:     positivePtr(cfg.Search.GramMax),
		FuzzyOrder:  nonEmptyPtr(cfg.Search.FuzzyOrder),
	}
	if search != (persistedSearchSettings{}) {
		out.Search = &search
	}

	ui := persistedUISettings{
		Accent:    nonEmptyPtr(cfg.UI.Accent),
		CodeTheme: nonEmptyPtr(cfg.UI.CodeTheme),
		ToggleKey: nonEmptyPtr(cfg.UI.ToggleKey),
	}
	if ui != (persistedUISettings{}) {
		out.UI = &ui
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
