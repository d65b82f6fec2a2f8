package main

import (
	"fmt"

	"github.com/mitchellh/cli"
)

// VersionCommand prints the version.
type VersionCommand struct {
	Version string
	Commit  string
	Ui      cli.Ui
}

func (c *VersionCommand) Run(_ []string) int {
	if c.Commit == "" {
		c.Ui.Output("beanser " + c.Version)
		return 0
	}

	c.Ui.Output(fmt.Sprintf("beanser %s (git: %s)", c.Version, c.Commit))

	return 0
}

func (c *VersionCommand) Synopsis() string {
	return "Prints the beanser version"
}

func (c *VersionCommand) Help() string {
	return "Usage: beanser version"
}
