package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snapline/internal/cli"
)

func writeFixture(t *testing.T, dir, name string, ls ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(ls, "\n")+"\n"), 0644))
	return path
}

func fixtureTree(t *testing.T) (dir, recorded, pending string) {
	t.Helper()
	dir = t.TempDir()
	recorded = writeFixture(t, dir, "recorded_test.go",
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"), snapline.Matches(func() string {",
		"\t\treturn `",
		"\t\thi",
		"\t\t`",
		"\t}))",
		"}",
	)
	pending = writeFixture(t, dir, "pending_test.go",
		"package demo",
		"",
		"func TestFarewell(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), farewell())",
		"}",
	)
	return dir, recorded, pending
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	dir, recorded, pending := fixtureTree(t)

	out, err := execute(t, "list", dir)
	require.NoError(t, err)

	assert.Contains(t, out, recorded+":4")
	assert.Contains(t, out, pending+":4")
	assert.Contains(t, out, "[Matches]")
	assert.Contains(t, out, "(pending)")
	assert.Contains(t, out, "2 sites in 2 files")
}

func TestListPendingOnly(t *testing.T) {
	t.Parallel()

	dir, recorded, pending := fixtureTree(t)

	out, err := execute(t, "list", "--pending", dir)
	require.NoError(t, err)

	assert.Contains(t, out, pending)
	assert.NotContains(t, out, recorded+":4")
}

func TestCheckCommandClean(t *testing.T) {
	t.Parallel()

	dir, _, _ := fixtureTree(t)

	out, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 sites in 2 files")
}

func TestCheckCommandFindsProblems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "opaque_test.go",
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(), snapline.Matches(func() string {",
		"\t\treturn oops()",
		"\t}))",
		"}",
	)

	out, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrProblemsFound)
	assert.Contains(t, out, "not a single string literal")
}

func TestCheckStrictFailsOnDrift(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// The snapshot literal is hand-formatted without the frame, so a
	// re-record would rewrite it.
	writeFixture(t, dir, "drift_test.go",
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(), snapline.Matches(func() string {",
		"\t\treturn \"hi\"",
		"\t}))",
		"}",
	)

	_, err := execute(t, "check", dir)
	require.NoError(t, err)

	_, err = execute(t, "check", "--strict", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrProblemsFound)
}

func TestStripCommand(t *testing.T) {
	t.Parallel()

	dir, recorded, _ := fixtureTree(t)

	out, err := execute(t, "strip", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Stripped 1 snapshots across 1 files")

	content, err := os.ReadFile(recorded)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Matches")
	assert.Contains(t, string(content), "snapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"))")
}

func TestStripDryRun(t *testing.T) {
	t.Parallel()

	dir, recorded, _ := fixtureTree(t)
	before, err := os.ReadFile(recorded)
	require.NoError(t, err)

	out, err := execute(t, "strip", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Would strip 1 snapshots across 1 files")

	after, err := os.ReadFile(recorded)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestInitCommand(t *testing.T) {
	// Not parallel: chdir.

	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "init")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, ".snapline.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "label: Matches")

	// Refuses to overwrite without --force.
	_, err = execute(t, "init")
	require.Error(t, err)

	_, err = execute(t, "init", "--force")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	// The version command logs to stdout directly; executing it must not
	// error.
	_, err := execute(t, "version")
	require.NoError(t, err)
}
