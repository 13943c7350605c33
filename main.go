package main

import (
	"os"

	"github.com/gonewx/zombiewash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
