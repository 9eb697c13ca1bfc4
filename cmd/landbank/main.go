// Package main is the entry point for the landbank CLI.
package main

import (
	"os"

	"github.com/flispi/landbank/cmd/landbank/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
