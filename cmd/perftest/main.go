package main

import (
	"os"

	"github.com/slopjam/perftest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
