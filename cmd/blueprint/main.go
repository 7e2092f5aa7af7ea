package main

import (
	"os"

	"github.com/blueprint-gen/blueprint/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
