package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var captureMu sync.Mutex

// captureOutput runs fn with stdout and stderr redirected to pipes and
// returns what was written to each.
func captureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	captureMu.Lock()
	defer captureMu.Unlock()

	origOut, origErr := os.Stdout, os.Stderr
	readOut, outW := pipe(t)
	readErr, errW := pipe(t)
	os.Stdout, os.Stderr = outW, errW

	fn()

	os.Stdout, os.Stderr = origOut, origErr
	_ = outW.Close()
	_ = errW.Close()
	return readOut(), readErr()
}

// pipe returns the write end of a pipe and a func that returns everything
// written to it once the write end is closed.
func pipe(t *testing.T) (func() string, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()
	return func() string { return <-outputCh }, w
}

const testIndex = `[
  {"url": "/guide/install", "type": "page", "section": "Guides", "text": "Installing the CLI"},
  {"url": "/guide/install#steps", "type": "heading", "section": "Guides", "page": "Installing the CLI", "text": "Install Steps"},
  {"url": "/ref/config", "type": "page", "section": "Reference", "text": "Configuration"},
  {"url": "/ref/config#file", "type": "inline", "section": "Reference", "page": "Configuration", "text": "The config file lives in your home directory"},
  {"url": "", "type": "page", "section": "Broken", "text": "Missing link"}
]`

// newIndexServer serves testIndex at the default index path.
func newIndexServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search-index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, testIndex)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// resetCLIForTest restores every flag and global to its default and points
// the config at a temp file so tests never read the user's config.
func resetCLIForTest(t *testing.T) {
	t.Helper()

	siteFlag = ""
	indexPathFlag = ""
	timeoutFlag = 0
	configPath = filepath.Join(t.TempDir(), "config.toml")
	verbose = false
	jsonOutput = false
	searchLimit = 0
	searchSection = ""
	searchKinds = ""
	openQuery = ""
	cfg = nil
	resolvedConfigPath = ""

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, c := range cmd.Commands() {
			walk(c)
		}
	}
	walk(rootCmd)

	t.Cleanup(func() {
		jsonOutput = false
		cfg = nil
	})
}

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIWithStderr(t, args...)
	return out, err
}

// runCLIWithStderr is runCLI that also returns what went to stderr.
func runCLIWithStderr(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	rootCmd.SetArgs(args)
	stdout, stderr = captureOutput(t, func() {
		err = rootCmd.ExecuteContext(context.Background())
	})
	return stdout, stderr, err
}

type testResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func decodeResponse(t *testing.T, out string) testResponse {
	t.Helper()
	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return resp
}
