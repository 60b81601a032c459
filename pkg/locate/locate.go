// Package locate resolves assertion call sites to the source line of their
// snapshot closure, so failure diagnostics point at the embedded snapshot
// rather than at the assertion itself.
package locate

import (
	"go/ast"

	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/source"
)

// Target identifies the call to resolve: the end position of the called
// expression, optionally narrowed by column and callee name.
type Target struct {
	// Line is the 1-based line of the called expression's end.
	Line int

	// Column optionally narrows the match; zero matches any column.
	Column int

	// FunctionName optionally narrows the match by callee base name.
	FunctionName string
}

// ClosureLine walks the parsed file and reports the starting line of the
// closure slot the descriptor addresses at the target call. The second
// result is false when no call matches or the slot does not hold a closure
// yet.
func ClosureLine(f *source.File, target Target, desc rewrite.Descriptor) (int, bool) {
	line := 0
	found := false

	ast.Inspect(f.Tree, func(n ast.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		pos := f.Position(call.Fun.End())
		if pos.Line != target.Line {
			return true
		}
		if target.Column != 0 && pos.Column != target.Column {
			return true
		}
		if target.FunctionName != "" && rewrite.CalleeName(call) != target.FunctionName {
			return true
		}

		if closure, ok := rewrite.ClosureAt(call, desc); ok {
			line = f.Position(closure.Fn.Pos()).Line
			found = true
		}
		// The call matched; its nested calls are not candidates.
		return false
	})

	return line, found
}
