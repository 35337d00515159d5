// Package main is the entry point for the marketsync server.
package main

import (
	"os"

	"github.com/gradyserv/marketsync/cmd/marketsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
