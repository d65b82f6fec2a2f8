// Package main provides the CLI entrypoint for beanser.
//
// beanser checks XML migration rules files before they ship:
//   - Validates the structure of the rules
//   - Loads Go packages to verify type and property names
//   - Suggests the names that were probably meant
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
	"go.uber.org/zap"
)

// Set with -ldflags at release time.
var (
	Version = "dev"
	Commit  = ""
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %s\n", err)
		return 1
	}

	defer func() { _ = logger.Sync() }()

	c := &cli.CLI{
		Name:     "beanser",
		Version:  Version,
		Args:     args,
		Commands: commands(ui, logger.Sugar()),
		HelpFunc: cli.BasicHelpFunc("beanser"),
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}

	return exitCode
}

func commands(ui cli.Ui, logger *zap.SugaredLogger) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"check": func() (cli.Command, error) {
			return &CheckCommand{Ui: ui, Logger: logger}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Version: Version, Commit: Commit, Ui: ui}, nil
		},
	}
}
