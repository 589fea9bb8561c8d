package main

import (
	"os"

	"github.com/socialmize/strategy-engine/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
