// Package record holds the process-wide buffer of pending snapshot edits
// accumulated during a test run, and flushes them back into the test
// sources once the run is over.
package record

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/yaklabco/snapline/pkg/fsutil"
	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/source"
)

// Buffer maps file paths to the pending edits recorded against them.
// Appends happen from assertions; the flush drains everything at once.
// Both are safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	edits map[string][]rewrite.Edit
	order []string
}

// NewBuffer returns an empty recording buffer.
func NewBuffer() *Buffer {
	return &Buffer{edits: make(map[string][]rewrite.Edit)}
}

// Append records a pending edit for the file at path. Edits are kept in
// input order; duplicates are independent entries.
func (b *Buffer) Append(path string, e rewrite.Edit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.edits[path]; !ok {
		b.order = append(b.order, path)
	}
	b.edits[path] = append(b.edits[path], e)
}

// Len returns the total number of pending edits.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, edits := range b.edits {
		n += len(edits)
	}
	return n
}

// drain empties the buffer and returns its contents in first-recorded
// file order.
func (b *Buffer) drain() ([]string, map[string][]rewrite.Edit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	paths := b.order
	edits := b.edits
	b.order = nil
	b.edits = make(map[string][]rewrite.Edit)
	return paths, edits
}

// FlushError is a fatal flush failure, attributed to the file and the
// first pending edit's line so the user can find the recording that could
// not be applied.
type FlushError struct {
	Path string
	Line int
	Err  error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("%s:%d: flush snapshots: %v", e.Path, e.Line, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// FileResult summarizes the flush outcome for one file.
type FileResult struct {
	// Path is the rewritten file.
	Path string

	// Edits is the number of pending edits recorded against the file.
	Edits int

	// Written reports whether the file content changed and was written.
	Written bool

	// Unmatched is the number of edits whose call site was not found.
	Unmatched int
}

// Flush drains the buffer, rewrites every touched file through the parse
// cache, and atomically writes files whose content changed. An unreadable
// or unwritable source is fatal: recordings cannot be partially applied,
// so the first error aborts the flush.
func (b *Buffer) Flush(ctx context.Context, cache *source.Cache) ([]FileResult, error) {
	paths, edits := b.drain()

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		pending := edits[path]
		line := 0
		if len(pending) > 0 {
			line = pending[0].Line
		}

		f, err := cache.Get(path)
		if err != nil {
			return results, &FlushError{Path: path, Line: line, Err: err}
		}

		res, err := rewrite.Rewrite(f, pending)
		if err != nil {
			return results, &FlushError{Path: path, Line: line, Err: err}
		}

		written := false
		if res.Changed {
			mode := fsutil.DefaultFileMode
			if stat, err := os.Stat(path); err == nil {
				mode = stat.Mode()
			}
			if err := fsutil.WriteAtomic(ctx, path, res.Content, mode); err != nil {
				return results, &FlushError{Path: path, Line: line, Err: err}
			}
			written = true
		}

		results = append(results, FileResult{
			Path:      path,
			Edits:     len(pending),
			Written:   written,
			Unmatched: len(res.Unmatched),
		})
	}

	return results, nil
}
