package main

import (
	"os"

	"github.com/errobs/clientkit/internal/cli"
	"github.com/errobs/clientkit/internal/logging"
)

// main is the entry point for the clientkit CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
