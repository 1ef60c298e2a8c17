// Package main provides the leappack CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leappack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
