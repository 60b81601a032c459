package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snapline/pkg/runner"
)

func write(t *testing.T, dir, name string, ls ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(ls, "\n")+"\n"), 0644))
	return path
}

const recordedFixture = "recorded_test.go"

func writeTree(t *testing.T, dir string) (recorded, pending string) {
	t.Helper()

	recorded = write(t, dir, recordedFixture,
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
	pending = write(t, dir, "pending_test.go",
		"package demo",
		"",
		"func TestFarewell(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), farewell())",
		"}",
	)

	// Non-test and non-Go files are ignored.
	write(t, dir, "helper.go", "package demo")
	write(t, dir, "notes.txt", "not go")

	return recorded, pending
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("finds test files only", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		recorded, pending := writeTree(t, dir)

		files, err := runner.Discover(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)
		assert.Equal(t, []string{pending, recorded}, files)
	})

	t.Run("skips vendored trees", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir)
		write(t, dir, filepath.Join("vendor", "dep", "dep_test.go"),
			"package dep",
		)

		files, err := runner.Discover(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)
		for _, f := range files {
			assert.NotContains(t, strings.TrimPrefix(f, dir), "vendor")
		}
	})

	t.Run("skips hidden and underscore directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir)
		write(t, dir, filepath.Join(".cache", "cached_test.go"), "package cached")
		write(t, dir, filepath.Join("_archive", "old_test.go"), "package old")

		files, err := runner.Discover(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("explicit file path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		recorded, _ := writeTree(t, dir)

		files, err := runner.Discover(context.Background(), runner.Options{Paths: []string{recorded}})
		require.NoError(t, err)
		assert.Equal(t, []string{recorded}, files)
	})

	t.Run("missing path is an error", func(t *testing.T) {
		t.Parallel()

		_, err := runner.Discover(context.Background(), runner.Options{
			Paths: []string{filepath.Join(t.TempDir(), "nope")},
		})
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runner.Discover(ctx, runner.Options{Paths: []string{t.TempDir()}})
		require.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("scans a tree", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		recorded, pending := writeTree(t, dir)

		result, err := runner.Run(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Stats.FilesDiscovered)
		assert.Equal(t, 2, result.Stats.FilesProcessed)
		assert.Equal(t, 2, result.Stats.Sites)
		assert.Equal(t, 1, result.Stats.Recorded)
		assert.Equal(t, 1, result.Stats.Pending)

		require.Len(t, result.Files, 2)
		assert.Equal(t, pending, result.Files[0].Path)
		assert.Equal(t, recorded, result.Files[1].Path)

		recordedSite := result.Files[1].Sites[0]
		assert.Equal(t, "AssertSnapshot", recordedSite.FunctionName)
		assert.Equal(t, 4, recordedSite.Line)
		require.Len(t, recordedSite.Slots, 1)

		slot := recordedSite.Slots[0]
		assert.Equal(t, "Matches", slot.Label)
		assert.Equal(t, 0, slot.Offset)
		assert.True(t, slot.Literal)
		assert.Equal(t, "hi", slot.Value)
		assert.True(t, slot.RoundTrips)
	})

	t.Run("reports parse failures per file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		write(t, dir, "broken_test.go", "package {{{")

		result, err := runner.Run(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)
		require.Len(t, result.Files, 1)
		assert.Error(t, result.Files[0].Err)
	})

	t.Run("non-literal closure body", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		write(t, dir, "opaque_test.go",
			"package demo",
			"",
			"func TestGreet(t *testing.T) {",
			"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(), snapline.Matches(func() string {",
			"\t\treturn oops()",
			"\t}))",
			"}",
		)

		result, err := runner.Run(context.Background(), runner.Options{Paths: []string{dir}})
		require.NoError(t, err)
		require.Len(t, result.Files, 1)
		require.Len(t, result.Files[0].Sites, 1)
		require.Len(t, result.Files[0].Sites[0].Slots, 1)
		assert.False(t, result.Files[0].Sites[0].Slots[0].Literal)
	})

	t.Run("custom assertion names", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		write(t, dir, "custom_test.go",
			"package demo",
			"",
			"func TestGreet(t *testing.T) {",
			"\tcheckOutput(t, cmd)",
			"}",
		)

		result, err := runner.Run(context.Background(), runner.Options{
			Paths:          []string{dir},
			AssertionNames: []string{"checkOutput"},
		})
		require.NoError(t, err)
		require.Len(t, result.Files, 1)
		require.Len(t, result.Files[0].Sites, 1)
		assert.Equal(t, "checkOutput", result.Files[0].Sites[0].FunctionName)
		assert.False(t, result.Files[0].Sites[0].Recorded())
	})
}
