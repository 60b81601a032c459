package record_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snapline/pkg/record"
	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/source"
)

func edit(actual string, line int) rewrite.Edit {
	return rewrite.Edit{
		Actual:       actual,
		Descriptor:   rewrite.DefaultDescriptor(),
		FunctionName: "AssertSnapshot",
		Line:         line,
	}
}

func writeFixture(t *testing.T, dir string, ls ...string) string {
	t.Helper()
	path := filepath.Join(dir, "greet_test.go")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(ls, "\n")+"\n"), 0644))
	return path
}

func TestBufferAppendAndLen(t *testing.T) {
	t.Parallel()

	buf := record.NewBuffer()
	assert.Equal(t, 0, buf.Len())

	buf.Append("a_test.go", edit("x", 1))
	buf.Append("a_test.go", edit("y", 2))
	buf.Append("b_test.go", edit("z", 3))

	assert.Equal(t, 3, buf.Len())
}

func TestFlushWritesRecordedSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir,
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"))",
		"}",
	)

	buf := record.NewBuffer()
	buf.Append(path, edit("hi", 4))

	results, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Written)
	assert.Equal(t, 1, results[0].Edits)
	assert.Zero(t, results[0].Unmatched)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "snapline.Matches(func() string {")
	assert.Contains(t, string(content), "\t\thi")

	// The rewritten file still parses.
	_, err = source.Parse(path, content)
	require.NoError(t, err)

	// The buffer is drained.
	assert.Equal(t, 0, buf.Len())
}

func TestFlushSkipsNoOpEdits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir,
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
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "hi"
	buf := record.NewBuffer()
	buf.Append(path, rewrite.Edit{
		Expected:     &expected,
		Actual:       "hi",
		WasRecording: true,
		Descriptor:   rewrite.DefaultDescriptor(),
		FunctionName: "AssertSnapshot",
		Line:         4,
	})

	results, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestFlushRecordThenRerunIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir,
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"))",
		"}",
	)

	// First run records.
	buf := record.NewBuffer()
	buf.Append(path, edit("hi", 4))
	_, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)

	recorded, err := os.ReadFile(path)
	require.NoError(t, err)

	// Second run: the assertion now finds the matching snapshot and, in
	// record mode, re-records the identical value. Nothing changes.
	expected := "hi"
	buf.Append(path, rewrite.Edit{
		Expected:     &expected,
		Actual:       "hi",
		WasRecording: true,
		Descriptor:   rewrite.DefaultDescriptor(),
		FunctionName: "AssertSnapshot",
		Line:         4,
	})
	results, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(recorded), string(after))
}

func TestFlushUnreadableFileIsFatal(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "gone_test.go")

	buf := record.NewBuffer()
	buf.Append(missing, edit("hi", 7))

	_, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.Error(t, err)

	var flushErr *record.FlushError
	require.ErrorAs(t, err, &flushErr)
	assert.Equal(t, missing, flushErr.Path)
	assert.Equal(t, 7, flushErr.Line)
}

func TestFlushPreservesFileOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "b_test.go")
	second := filepath.Join(dir, "a_test.go")
	for _, path := range []string{first, second} {
		require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
			"package demo",
			"",
			"func TestGreet(t *testing.T) {",
			"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"))",
			"}",
		}, "\n")+"\n"), 0644))
	}

	buf := record.NewBuffer()
	buf.Append(first, edit("one", 4))
	buf.Append(second, edit("two", 4))

	results, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)
	require.Len(t, results, 2)

	// First-recorded file flushes first, independent of path order.
	assert.Equal(t, first, results[0].Path)
	assert.Equal(t, second, results[1].Path)
}

func TestFlushReportsUnmatchedEdits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir,
		"package demo",
		"",
		"func TestGreet(t *testing.T) {",
		"\tsnapline.AssertSnapshot(t, snapline.Lines(), greet(\"world\"))",
		"}",
	)

	buf := record.NewBuffer()
	buf.Append(path, edit("hi", 40))

	results, err := buf.Flush(context.Background(), source.NewCache(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Written)
	assert.Equal(t, 1, results[0].Unmatched)
}
