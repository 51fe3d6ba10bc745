// Package main is the entry point for the dealgraph CLI.
package main

import (
	"os"

	"github.com/dealgraph/dealgraph/cmd/dealgraph/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
