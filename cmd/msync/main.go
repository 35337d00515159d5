// Package main is the entry point for the msync CLI client.
package main

import "github.com/gradyserv/marketsync/cmd/msync/cmd"

func main() {
	cmd.Execute()
}
