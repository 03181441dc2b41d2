package main

import (
	"fmt"
	"os"

	"github.com/yuchan1120/task-manager-cli/cmd/taskman/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
