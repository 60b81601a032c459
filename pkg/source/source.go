// Package source loads and parses Go test sources for snapshot rewriting.
// Files are parsed at most once per process and memoized, so every
// assertion and the final flush observe the source as it was when the run
// started.
package source

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sync"

	"github.com/yaklabco/snapline/pkg/fsutil"
)

// File is a parsed source file: the original bytes, the syntax tree, and
// the file set that maps token positions to (line, column) and byte
// offsets. A File is immutable once loaded.
type File struct {
	// Path is the path the file was loaded from.
	Path string

	// Content is the raw file content as read from disk.
	Content []byte

	// Fset resolves token.Pos values for the parsed tree.
	Fset *token.FileSet

	// Tree is the parsed file, including comments.
	Tree *ast.File
}

// Position resolves a token position to file, line and column.
func (f *File) Position(pos token.Pos) token.Position {
	return f.Fset.Position(pos)
}

// Offset returns the byte offset of pos within Content.
func (f *File) Offset(pos token.Pos) int {
	return f.Fset.Position(pos).Offset
}

// LineStart returns the byte offset of the first character of the 1-based
// line containing pos.
func (f *File) LineStart(pos token.Pos) int {
	tf := f.Fset.File(pos)
	return tf.Offset(tf.LineStart(f.Fset.Position(pos).Line))
}

// Parse parses content as the file at path. It is used directly by tests
// and by tooling that already holds the content in memory.
func Parse(path string, content []byte) (*File, error) {
	fset := token.NewFileSet()
	tree, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &File{Path: path, Content: content, Fset: fset, Tree: tree}, nil
}

// Cache memoizes parsed files by path for the duration of a test run.
// Get is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	files map[string]*File

	// readFile is swappable for tests.
	readFile func(string) ([]byte, error)
}

// NewCache returns an empty cache reading through readFile, or through
// fsutil.ReadFile when readFile is nil.
func NewCache(readFile func(string) ([]byte, error)) *Cache {
	return &Cache{
		files:    make(map[string]*File),
		readFile: readFile,
	}
}

// Get returns the parsed file for path, loading and parsing it on first
// use. Subsequent calls return the memoized File even if the on-disk file
// has changed since.
func (c *Cache) Get(path string) (*File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.files[path]; ok {
		return f, nil
	}

	content, err := c.read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, err := Parse(path, content)
	if err != nil {
		return nil, err
	}
	c.files[path] = f
	return f, nil
}

func (c *Cache) read(path string) ([]byte, error) {
	if c.readFile != nil {
		return c.readFile(path)
	}
	content, _, err := fsutil.ReadFile(context.Background(), path)
	return content, err
}
