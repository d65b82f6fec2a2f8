package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/mitchellh/cli"
	"go.uber.org/zap"

	"beanser/deser"
	"beanser/diagnostic"
	"beanser/internal/analyze"
)

// CheckCommand validates a migration rules file, optionally against the
// beans of Go packages.
type CheckCommand struct {
	Ui     cli.Ui
	Logger *zap.SugaredLogger
	// Dir is where package patterns are resolved; empty means the current directory.
	Dir string
}

type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (c *CheckCommand) Help() string {
	helpText := `
Usage: beanser check -rules=<file> [options]

  Checks a migration rules file. Without packages only the structure of
  the file is validated. With packages, type names, redirect targets and
  the property names used by rename, defaults and split are looked up in
  the beans declared by those packages.

Options:

  -rules=<file>
    The YAML rules file to check. Required.

  -pkg=<pattern>
    A Go package pattern to load. May be repeated.

  -v
    Print the parsed rules and the loaded beans.
`

	return strings.TrimSpace(helpText)
}

func (c *CheckCommand) Synopsis() string {
	return "Checks a migration rules file"
}

func (c *CheckCommand) Run(args []string) int {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Error(c.Help()) }

	var (
		rulesPath string
		pkgs      stringsFlag
		verbose   bool
	)

	flags.StringVar(&rulesPath, "rules", "", "The rules file to check.")
	flags.Var(&pkgs, "pkg", "A package pattern to load.")
	flags.BoolVar(&verbose, "v", false, "Print the rules and the beans.")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}

		c.Ui.Error(fmt.Sprintf("Failed to parse args: %v", err))

		return 1
	}

	if rulesPath == "" {
		c.Ui.Error("A rules file is required (-rules)")
		return 1
	}

	rf, err := deser.LoadRules(rulesPath)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error loading rules: %s", err))
		return 1
	}

	c.Logger.Debugw("loaded rules", "path", rulesPath, "migrations", len(rf.Migrations))

	if verbose {
		c.Ui.Output(spew.Sdump(rf))
	}

	var res *diagnostic.Diagnostics

	if len(pkgs) == 0 {
		res = deser.Validate(rf)
	} else {
		c.Logger.Debugw("loading packages", "patterns", []string(pkgs))

		analyzer := analyze.NewAnalyzer()
		analyzer.Dir = c.Dir

		graph, err := analyzer.LoadPackages(pkgs...)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Error loading packages: %s", err))
			return 1
		}

		if verbose {
			c.printBeans(graph)
		}

		res = analyze.CheckRules(rf, graph)
	}

	for _, w := range res.Warnings {
		c.Ui.Warn("warning: " + w.String())
	}

	for _, e := range res.Errors {
		c.Ui.Error("error: " + e.String())
	}

	if !res.IsValid() {
		return 1
	}

	c.Ui.Output(fmt.Sprintf("%s: %d migrations OK", rulesPath, len(rf.Migrations)))

	return 0
}

func (c *CheckCommand) printBeans(graph *analyze.BeanGraph) {
	for _, name := range graph.Names() {
		bean, _ := graph.Lookup(name)

		c.Ui.Output(name)

		for _, p := range bean.Properties {
			c.Ui.Output(fmt.Sprintf("  %s %s", p.Name, p.TypeString()))
		}
	}
}
