// Package main is the entry point for the snapline CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/snapline/internal/cli"
	"github.com/yaklabco/snapline/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// ErrProblemsFound is just a signal for the exit code; the
		// findings were already printed.
		if errors.Is(err, cli.ErrProblemsFound) {
			return cli.ExitCheckProblems
		}
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}

	return cli.ExitSuccess
}
