package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quicksearch/internal/buildinfo"
)

type versionInfo struct {
	buildinfo.Info
	GOOS   string `json:"goos"`
	GOARCH string `json:"goarch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show quicksearch version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{Info: buildinfo.Get(), GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("qs %s\n", info.Version)
		if info.Commit != "" {
			fmt.Printf("commit: %s\n", info.Commit)
		}
		if info.Date != "" {
			fmt.Printf("date: %s\n", info.Date)
		}
		if info.GoVersion != "" {
			fmt.Printf("go: %s\n", info.GoVersion)
		}
		fmt.Printf("platform: %s/%s\n", info.GOOS, info.GOARCH)
		if info.Modified {
			fmt.Println("modified: true")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
