package main

import (
	"os"

	"github.com/hookdex-labs/hookdex-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
