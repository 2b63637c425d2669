// Command modelseal encrypts and authenticates machine-learning model artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/idelchi/modelseal/internal/commands"
)

// version is set at build time.
var version = "unknown - unofficial build"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)

		os.Exit(1)
	}
}
