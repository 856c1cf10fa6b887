// Package main is the entry point for the qs CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/quicksearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
