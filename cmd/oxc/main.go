// Package main provides the oxc command-line interface.
package main

import (
	"os"

	"github.com/huxxhu/oxc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
