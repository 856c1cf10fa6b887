package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type searchData struct {
	Query    string        `json:"query"`
	Sections []sectionJSON `json:"sections"`
}

func decodeSearch(t *testing.T, out string) (testResponse, searchData) {
	t.Helper()
	resp := decodeResponse(t, out)
	if !resp.OK {
		t.Fatalf("expected ok response, got error %+v", resp.Error)
	}
	var data searchData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	return resp, data
}

func TestSearchJSONGroupsExactMatches(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "search", "install", "--site", srv.URL, "--json")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	resp, data := decodeSearch(t, out)
	if data.Query != "install" {
		t.Errorf("query = %q", data.Query)
	}
	if len(data.Sections) != 1 || data.Sections[0].Name != "Guides" || data.Sections[0].Slug != "guides" {
		t.Fatalf("sections = %+v, want Guides only", data.Sections)
	}
	results := data.Sections[0].Results
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Text != "Installing the CLI" || results[1].Text != "Install Steps" {
		t.Errorf("results out of order: %+v", results)
	}
	if results[0].Match != "exact" || results[0].Link != srv.URL+"/guide/install" {
		t.Errorf("first result = %+v", results[0])
	}
	if resp.Meta == nil || resp.Meta.Count != 2 {
		t.Errorf("meta = %+v, want count 2", resp.Meta)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnInvalidEntry {
		t.Errorf("warnings = %+v, want the skipped entry reported", resp.Warnings)
	}
}

func TestSearchTextOutput(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, stderr, err := runCLIWithStderr(t, "search", "install", "--site", srv.URL)
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	for _, want := range []string{"Guides", "Install", "Steps", "2 results"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "1 invalid index entry skipped") {
		t.Errorf("stderr should count the skipped entry, got:\n%s", stderr)
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("skipped-entry warning belongs on stderr:\n%s", out)
	}
}

func TestSearchNoResults(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "search", "qqqqqq", "--site", srv.URL)
	if err != nil {
		t.Fatalf("no matches should not be an error: %v", err)
	}
	if !strings.Contains(out, "No results") {
		t.Fatalf("expected no-results hint, got:\n%s", out)
	}
}

func TestSearchWhitespaceQueryIsNotEmpty(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "search", "   ", "--site", srv.URL, "--json")
	if err != nil {
		t.Fatalf("whitespace query returned error: %v", err)
	}
	_, data := decodeSearch(t, out)
	if data.Query != "   " {
		t.Errorf("query = %q, want the whitespace kept", data.Query)
	}
	// No entry contains three spaces, and whitespace must not fall back to the page listing.
	if len(data.Sections) != 0 {
		t.Fatalf("sections = %+v, want no results", data.Sections)
	}
}

func TestSearchFilters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"kind", []string{"search", "install", "--kind", "heading"}, []string{"Install Steps"}},
		{"limit", []string{"search", "install", "-n", "1"}, []string{"Installing the CLI"}},
		{"section slug", []string{"search", "config", "--section", "reference"}, []string{"Configuration", "The config file lives in your home directory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCLIForTest(t)
			srv := newIndexServer(t)

			out, err := runCLI(t, append(tt.args, "--site", srv.URL, "--json")...)
			if err != nil {
				t.Fatalf("search returned error: %v", err)
			}
			_, data := decodeSearch(t, out)

			var got []string
			for _, s := range data.Sections {
				for _, r := range s.Results {
					got = append(got, r.Text)
				}
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("results = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchUnknownSection(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "search", "install", "--section", "blog", "--site", srv.URL, "--json")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v, want errSilent", err)
	}
	resp := decodeResponse(t, out)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrSectionNotFound {
		t.Fatalf("response = %+v, want SECTION_NOT_FOUND", resp)
	}
}

func TestSearchInvalidKind(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, _ := runCLI(t, "search", "install", "--kind", "video", "--site", srv.URL, "--json")
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("response = %+v, want INVALID_INPUT", resp)
	}
}

func TestSearchWithoutSite(t *testing.T) {
	resetCLIForTest(t)

	out, _ := runCLI(t, "search", "install", "--json")
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrMissingArgument {
		t.Fatalf("response = %+v, want MISSING_ARGUMENT", resp)
	}
}

func TestSearchFetchFailure(t *testing.T) {
	resetCLIForTest(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	out, err := runCLI(t, "search", "install", "--site", srv.URL, "--json")
	if err == nil {
		t.Fatal("expected a non-nil error so the process exits non-zero")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != ErrIndexFetchFailed {
		t.Fatalf("response = %+v, want INDEX_FETCH_FAILED", resp)
	}
	if !strings.Contains(resp.Error.Message, "404") {
		t.Errorf("message %q should mention the status", resp.Error.Message)
	}
}

func TestSearchTextModeReturnsError(t *testing.T) {
	resetCLIForTest(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := runCLI(t, "search", "install", "--site", srv.URL)
	if err == nil || errors.Is(err, errSilent) {
		t.Fatalf("err = %v, want the fetch error returned for printing", err)
	}
}

func TestPagesListsPagesInIndexOrder(t *testing.T) {
	resetCLIForTest(t)
	srv := newIndexServer(t)

	out, err := runCLI(t, "pages", "--site", srv.URL, "--json")
	if err != nil {
		t.Fatalf("pages returned error: %v", err)
	}
	_, data := decodeSearch(t, out)
	if len(data.Sections) != 2 {
		t.Fatalf("sections = %+v, want Guides and Reference", data.Sections)
	}
	if data.Sections[0].Results[0].Text != "Installing the CLI" || data.Sections[1].Results[0].Text != "Configuration" {
		t.Fatalf("pages out of order: %+v", data.Sections)
	}
	for _, s := range data.Sections {
		for _, r := range s.Results {
			if r.Kind != "page" {
				t.Errorf("pages listed a %s entry: %q", r.Kind, r.Text)
			}
		}
	}
}

func TestPluralize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word string
		n    int
		want string
	}{
		{"result", 1, "result"},
		{"result", 2, "results"},
		{"entry", 0, "entries"},
		{"entry", 1, "entry"},
	}
	for _, tt := range tests {
		if got := pluralize(tt.word, tt.n); got != tt.want {
			t.Errorf("pluralize(%q, %d) = %q, want %q", tt.word, tt.n, got, tt.want)
		}
	}
}
