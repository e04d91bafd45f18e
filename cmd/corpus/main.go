package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/cli"
)

// Set via -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
