// Package main is the entry point for the dpe-envelope CLI.
package main

import (
	"os"

	"dpe-envelope/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
