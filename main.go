package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/parkrl/cmd"
)

// main entry point to all the commands
func main() {
	rootCommand := cmd.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
