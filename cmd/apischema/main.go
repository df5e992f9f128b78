package main

import (
	"os"

	"github.com/edfi-tools/apischema/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
