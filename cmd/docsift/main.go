package main

import (
	"os"

	"github.com/stormlightlabs/docsift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
