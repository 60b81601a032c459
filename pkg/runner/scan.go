package runner

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/source"
	"github.com/yaklabco/snapline/pkg/textutil"
)

// Slot describes one trailing closure of an assertion site.
type Slot struct {
	// Label is the wrapper name, or "" for a bare function literal.
	Label string

	// Offset is the slot index relative to the first trailing closure.
	Offset int

	// Line is the 1-based line the closure opens on.
	Line int

	// Literal reports whether the body is a single return of a string
	// literal, the only shape the engine records and rewrites.
	Literal bool

	// Value is the dedented snapshot text when Literal.
	Value string

	// RoundTrips reports whether re-synthesizing Value reproduces the
	// source literal byte for byte. False means a rewrite would reformat
	// the snapshot.
	RoundTrips bool
}

// Site is one inline snapshot assertion call found in a test file.
type Site struct {
	// Path is the file the site lives in.
	Path string

	// Line and Column locate the end of the called expression, the
	// rewriter's match key.
	Line   int
	Column int

	// FunctionName is the callee base name.
	FunctionName string

	// Slots are the site's trailing closures, in slot order. Empty for
	// sites whose snapshot has not been recorded yet.
	Slots []Slot
}

// Recorded reports whether the site carries at least one snapshot closure.
func (s Site) Recorded() bool {
	return len(s.Slots) > 0
}

// ScanFile walks a parsed file and collects the assertion sites whose
// callee base name is in names.
func ScanFile(f *source.File, names map[string]bool) []Site {
	var sites []Site
	indent := textutil.DetectIndent(f.Content)

	ast.Inspect(f.Tree, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := rewrite.CalleeName(call)
		if !names[name] {
			return true
		}

		pos := f.Position(call.Fun.End())
		site := Site{
			Path:         f.Path,
			Line:         pos.Line,
			Column:       pos.Column,
			FunctionName: name,
		}

		first := rewrite.FirstClosureOffset(call)
		leading := callLeading(f, call)
		for i := first; i < len(call.Args); i++ {
			closure, ok := rewrite.AsClosure(call.Args[i])
			if !ok {
				break
			}
			site.Slots = append(site.Slots, scanSlot(f, closure, i-first, leading, indent))
		}

		sites = append(sites, site)
		// Assertions do not nest inside each other's arguments.
		return false
	})

	return sites
}

func scanSlot(f *source.File, closure rewrite.Closure, offset int, leading, indent string) Slot {
	slot := Slot{
		Label:  closure.Label,
		Offset: offset,
		Line:   f.Position(closure.Fn.Pos()).Line,
	}

	lit, ok := returnedLiteral(closure.Fn)
	if !ok {
		return slot
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return slot
	}

	slot.Literal = true
	slot.Value = textutil.Dedent(raw)

	inner := leading + indent
	resynth := textutil.Quote(slot.Value, inner, textutil.FormFor(slot.Value))
	slot.RoundTrips = resynth == lit.Value

	return slot
}

// returnedLiteral extracts the string literal of a single-statement
// return-closure body.
func returnedLiteral(fn *ast.FuncLit) (*ast.BasicLit, bool) {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return nil, false
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil, false
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, false
	}
	return lit, true
}

// callLeading returns the whitespace prefix of the line the call starts
// on, mirroring what the rewriter would use when splicing.
func callLeading(f *source.File, call *ast.CallExpr) string {
	start := f.LineStart(call.Pos())
	end := f.Offset(call.Pos())
	for i := start; i < end; i++ {
		if c := f.Content[i]; c != ' ' && c != '\t' {
			return string(f.Content[start:i])
		}
	}
	return string(f.Content[start:end])
}
