package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "migrations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newCheck(t *testing.T) (*CheckCommand, *cli.MockUi) {
	t.Helper()

	ui := cli.NewMockUi()

	return &CheckCommand{Ui: ui, Logger: zaptest.NewLogger(t).Sugar()}, ui
}

func TestCheckCommand_ValidOnly(t *testing.T) {
	c, ui := newCheck(t)
	path := writeRules(t, `
migrations:
  - type: example.com/shapes.Circle
    rename: {rad: radius}
`)

	code := c.Run([]string{"-rules", path})
	assert.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "1 migrations OK")
}

func TestCheckCommand_InvalidRules(t *testing.T) {
	c, ui := newCheck(t)
	path := writeRules(t, `
migrations:
  - type: example.com/shapes.Circle
    pattern: "example.com/*"
`)

	assert.Equal(t, 1, c.Run([]string{"-rules", path}))
	assert.Contains(t, ui.ErrorWriter.String(), "ambiguous_subject")
}

func TestCheckCommand_AgainstPackages(t *testing.T) {
	c, ui := newCheck(t)
	path := writeRules(t, `
migrations:
  - type: example.com/legacy.Blob
    target: beanser/examples/shapes.Sqare
  - type: beanser/examples/shapes.Circle
    defaults: {color: red}
`)

	assert.Equal(t, 1, c.Run([]string{"-rules", path, "-pkg", "beanser/examples/shapes"}))

	errs := ui.ErrorWriter.String()
	assert.Contains(t, errs, "unknown_target")
	assert.Contains(t, errs, "did you mean beanser/examples/shapes.Square?")
	assert.Contains(t, errs, "did you mean colour?")
}

func TestCheckCommand_Verbose(t *testing.T) {
	c, ui := newCheck(t)
	path := writeRules(t, `
migrations:
  - type: beanser/examples/shapes.Circle
    rename: {rad: radius}
`)

	code := c.Run([]string{"-rules", path, "-pkg", "beanser/examples/shapes", "-v"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "Migrations:")
	assert.Contains(t, out, "beanser/examples/shapes.Circle\n  radius float64\n  colour string\n")
	assert.Contains(t, out, "1 migrations OK")
}

func TestCheckCommand_Usage(t *testing.T) {
	c, ui := newCheck(t)

	assert.Equal(t, 1, c.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "-rules")

	c, _ = newCheck(t)
	assert.Equal(t, 1, c.Run([]string{"-rules", filepath.Join(t.TempDir(), "missing.yaml")}))

	c, _ = newCheck(t)
	assert.Equal(t, 1, c.Run([]string{"-bogus"}))

	c, _ = newCheck(t)
	assert.Equal(t, 0, c.Run([]string{"-h"}))
}

func TestVersionCommand(t *testing.T) {
	ui := cli.NewMockUi()

	assert.Equal(t, 0, (&VersionCommand{Version: "1.2.0", Commit: "abc123", Ui: ui}).Run(nil))
	assert.Equal(t, "beanser 1.2.0 (git: abc123)\n", ui.OutputWriter.String())

	ui = cli.NewMockUi()
	assert.Equal(t, 0, (&VersionCommand{Version: "dev", Ui: ui}).Run(nil))
	assert.Equal(t, "beanser dev\n", ui.OutputWriter.String())
}

func TestCommands(t *testing.T) {
	cmds := commands(cli.NewMockUi(), zaptest.NewLogger(t).Sugar())

	for _, name := range []string{"check", "version"} {
		factory, ok := cmds[name]
		require.True(t, ok, name)

		cmd, err := factory()
		require.NoError(t, err)
		assert.NotEmpty(t, cmd.Synopsis())
		assert.NotEmpty(t, cmd.Help())
	}
}
