package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/quicksearch/internal/config"
	"github.com/aidanlsb/quicksearch/internal/siteindex"
	"github.com/aidanlsb/quicksearch/internal/tui"
)

func TestIndexReportsStatsAndDroppedEntries(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "index", "--site", srv.URL, "--json")
	if err != nil {
		t.Fatalf("index returned error: %v", err)
	}
	resp := decodeResponse(t, out)
	if !resp.OK {
		t.Fatalf("expected ok, got %+v", resp.Error)
	}

	var stats siteindex.Stats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 4 || stats.Dropped != 1 {
		t.Errorf("total=%d dropped=%d, want 4 and 1", stats.Total, stats.Dropped)
	}
	if stats.ByKind["page"] != 2 || stats.ByKind["heading"] != 1 || stats.ByKind["inline"] != 1 {
		t.Errorf("by kind = %v", stats.ByKind)
	}
	if len(stats.Sections) != 2 || stats.Sections[0].Name != "Guides" {
		t.Errorf("sections = %+v", stats.Sections)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnInvalidEntry {
		t.Errorf("warnings = %+v, want one INVALID_ENTRY", resp.Warnings)
	}
}

func TestIndexTextOutput(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "index", "--site", srv.URL)
	if err != nil {
		t.Fatalf("index returned error: %v", err)
	}
	for _, want := range []string{"Kinds", "Sections", "Guides", "reference"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIndexFromLocalDirectory(t *testing.T) {
	resetCLIForTest(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "search-index.json"), []byte(testIndex), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "search", "configuration", "--site", dir, "--json")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	_, data := decodeSearch(t, out)
	if len(data.Sections) == 0 || data.Sections[0].Results[0].Text != "Configuration" {
		t.Fatalf("sections = %+v", data.Sections)
	}
	// Local sites have no base URL to resolve against.
	if data.Sections[0].Results[0].Link != "/ref/config" {
		t.Errorf("link = %q, want the site-relative URL", data.Sections[0].Results[0].Link)
	}
}

func TestSiteFromConfigFile(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	if err := config.SaveTo(configPath, &config.Config{Site: config.SiteConfig{URL: srv.URL}}); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "pages", "--json", "--config", configPath)
	if err != nil {
		t.Fatalf("pages returned error: %v", err)
	}
	if resp := decodeResponse(t, out); !resp.OK {
		t.Fatalf("expected ok, got %+v", resp.Error)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	resetCLIForTest(t)
	if err := os.WriteFile(configPath, []byte("[search]\nfuzzy_order = \"sideways\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _ := runCLI(t, "pages", "--json", "--config", configPath, "--site", "https://example.com")
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrConfigInvalid {
		t.Fatalf("response = %+v, want CONFIG_INVALID", resp)
	}
}

func TestConfigInitSetShow(t *testing.T) {
	resetCLIForTest(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCLI(t, "config", "init", "--config", path, "--json")
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, `"created": true`) {
		t.Fatalf("unexpected init output: %s", out)
	}

	if _, err := runCLI(t, "config", "set", "site.url", "https://docs.example.com", "--config", path, "--json"); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}
	if _, err := runCLI(t, "config", "set", "search.fuzzy_order", "descending", "--config", path, "--json"); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Site.URL != "https://docs.example.com" || loaded.Search.FuzzyOrder != "descending" {
		t.Fatalf("saved config = %+v", loaded)
	}

	out, err = runCLI(t, "config", "show", "--config", path, "--json")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	resp := decodeResponse(t, out)
	var data struct {
		Exists    bool `json:"exists"`
		Effective struct {
			FuzzyOrder string `json:"fuzzy_order"`
			ToggleKey  string `json:"toggle_key"`
		} `json:"effective"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !data.Exists || data.Effective.FuzzyOrder != "descending" || data.Effective.ToggleKey != "ctrl+k" {
		t.Fatalf("show data = %+v", data)
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	resetCLIForTest(t)

	out, _ := runCLI(t, "config", "set", "site.path", "/tmp", "--config", configPath, "--json")
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("response = %+v, want INVALID_INPUT", resp)
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Fatal("a rejected set should not write the config file")
	}
}

func TestKeysJSON(t *testing.T) {
	resetCLIForTest(t)

	out, err := runCLI(t, "keys", "--json")
	if err != nil {
		t.Fatalf("keys returned error: %v", err)
	}
	resp := decodeResponse(t, out)
	if resp.Meta == nil || resp.Meta.Count != 7 {
		t.Fatalf("meta = %+v, want 7 bindings", resp.Meta)
	}
	if !strings.Contains(string(resp.Data), "ctrl+k") {
		t.Errorf("bindings should include the toggle key: %s", resp.Data)
	}
}

func TestKeysMarkdown(t *testing.T) {
	resetCLIForTest(t)

	out, err := runCLI(t, "keys")
	if err != nil {
		t.Fatalf("keys returned error: %v", err)
	}
	if !strings.Contains(out, "Keyboard") || !strings.Contains(out, "esc") {
		t.Fatalf("unexpected keys output:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	resetCLIForTest(t)

	out, err := runCLI(t, "version", "--json")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	resp := decodeResponse(t, out)
	var info versionInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		t.Fatal(err)
	}
	if info.Version == "" || info.GOOS == "" || info.GOARCH == "" {
		t.Fatalf("version info = %+v", info)
	}
}

func TestOpenRequiresTerminal(t *testing.T) {
	if tui.IsTTY() {
		t.Skip("stdin is a terminal")
	}
	resetCLIForTest(t)

	out, _ := runCLI(t, "open", "--site", "https://example.com", "--json")
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrNotInteractive {
		t.Fatalf("response = %+v, want NOT_INTERACTIVE", resp)
	}
}
