// Package rewrite transforms parsed test sources so that embedded inline
// snapshots match freshly recorded values. Pending edits carry the state
// recorded during assertions; the rewriter locates each call site, resolves
// the target closure slot, and splices in a synthesized closure argument as
// a byte-range text edit.
package rewrite

import (
	"go/ast"
)

// DefaultLabel is the closure label used when a new snapshot closure must
// be appended to a call.
const DefaultLabel = "Matches"

// Descriptor tells the rewriter which trailing closure of an assertion call
// holds the inline snapshot.
type Descriptor struct {
	// Label is the wrapper name of the target closure, and the label used
	// when a new closure must be appended.
	Label string

	// Offset addresses the slot relative to the first trailing closure.
	Offset int
}

// DefaultDescriptor addresses the first trailing closure with the default
// label.
func DefaultDescriptor() Descriptor {
	return Descriptor{Label: DefaultLabel}
}

// Edit is one recorded intent to update a snapshot at a call site.
type Edit struct {
	// Expected is the snapshot text embedded in the source at assertion
	// time, or nil if the call carried no snapshot closure.
	Expected *string

	// Actual is the freshly produced snapshot text.
	Actual string

	// WasRecording reports whether the assertion ran in record mode.
	WasRecording bool

	// Descriptor identifies the target closure slot.
	Descriptor Descriptor

	// FunctionName is the called expression's base name, used to
	// disambiguate call sites and in failure messages.
	FunctionName string

	// Line and Column key the call site: the end position of the called
	// expression as reported by the file's token set. A zero Column
	// matches any column on the line.
	Line   int
	Column int
}

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// CalleeName returns the base name of a call's function expression: the
// identifier itself, or the selected name for package-qualified calls.
// Anonymous or computed callees yield an empty string.
func CalleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		return fn.Sel.Name
	default:
		return ""
	}
}

// calleeQualifier returns the package qualifier of a call's function
// expression ("snapline" for snapline.AssertSnapshot), or "" for
// unqualified calls.
func calleeQualifier(call *ast.CallExpr) string {
	if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
		if ident, ok := sel.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

// Closure describes one argument in a call's trailing-closure region: a
// bare function literal, or a labeled closure of the form Label(func() ...).
type Closure struct {
	// Label is the wrapper name, or "" for a bare function literal.
	Label string

	// Fn is the function literal carrying the snapshot body.
	Fn *ast.FuncLit

	// Arg is the whole argument expression (wrapper call or the literal).
	Arg ast.Expr
}

// AsClosure classifies an argument expression as a trailing closure.
func AsClosure(arg ast.Expr) (Closure, bool) {
	switch e := arg.(type) {
	case *ast.FuncLit:
		return Closure{Fn: e, Arg: arg}, true
	case *ast.CallExpr:
		if len(e.Args) != 1 {
			return Closure{}, false
		}
		fn, ok := e.Args[0].(*ast.FuncLit)
		if !ok {
			return Closure{}, false
		}
		name := CalleeName(e)
		if name == "" {
			return Closure{}, false
		}
		return Closure{Label: name, Fn: fn, Arg: arg}, true
	default:
		return Closure{}, false
	}
}

// FirstClosureOffset returns the index of the first argument of the
// maximal all-closure suffix of the call's argument list. When no suffix
// exists it equals the argument count.
func FirstClosureOffset(call *ast.CallExpr) int {
	first := len(call.Args)
	for i := len(call.Args) - 1; i >= 0; i-- {
		if _, ok := AsClosure(call.Args[i]); !ok {
			break
		}
		first = i
	}
	return first
}

// ClosureAt resolves a descriptor against a call and returns the closure
// occupying the addressed slot. The second result is false when the slot
// does not exist yet or does not hold a closure.
func ClosureAt(call *ast.CallExpr, desc Descriptor) (Closure, bool) {
	target := FirstClosureOffset(call) + desc.Offset
	if target < 0 || target >= len(call.Args) {
		return Closure{}, false
	}
	return AsClosure(call.Args[target])
}
