package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"sort"

	"github.com/yaklabco/snapline/pkg/source"
	"github.com/yaklabco/snapline/pkg/textutil"
)

// ErrUnexpectedState indicates a descriptor inconsistent with the source:
// the addressed slot holds something the rewriter must not touch.
var ErrUnexpectedState = errors.New("snapshot closure in unexpected state")

// StateError carries the call site of an unexpected-state failure.
type StateError struct {
	Path         string
	Line         int
	FunctionName string
	Reason       string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.FunctionName, e.Reason)
}

func (e *StateError) Unwrap() error { return ErrUnexpectedState }

// Result is the outcome of rewriting one file.
type Result struct {
	// Content is the rewritten file content. Equal to the input when no
	// edit changed anything.
	Content []byte

	// Changed reports whether Content differs from the original bytes.
	Changed bool

	// Unmatched holds edits whose call site could not be located.
	Unmatched []Edit
}

// Rewrite applies pending edits to a parsed file and returns the rewritten
// content. Edits whose expected text already equals the actual text are
// dropped. The remaining edits are stably sorted by (line, closure offset)
// and consumed per call site in that order.
func Rewrite(f *source.File, edits []Edit) (*Result, error) {
	pending := make([]Edit, 0, len(edits))
	for _, e := range edits {
		// The source already matches; nothing to splice.
		if e.Expected != nil && *e.Expected == e.Actual {
			continue
		}
		pending = append(pending, e)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Line != pending[j].Line {
			return pending[i].Line < pending[j].Line
		}
		return pending[i].Descriptor.Offset < pending[j].Descriptor.Offset
	})

	indent := textutil.DetectIndent(f.Content)
	consumed := make([]bool, len(pending))

	var textEdits []TextEdit
	var stateErr error

	ast.Inspect(f.Tree, func(n ast.Node) bool {
		if stateErr != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		pos := f.Position(call.Fun.End())
		name := CalleeName(call)

		var mine []int
		for i, e := range pending {
			if consumed[i] || e.Line != pos.Line {
				continue
			}
			if e.Column != 0 && e.Column != pos.Column {
				continue
			}
			if e.FunctionName != "" && e.FunctionName != name {
				continue
			}
			mine = append(mine, i)
		}
		if len(mine) == 0 {
			return true
		}

		st := newSite(f, call, indent)
		for _, i := range mine {
			consumed[i] = true
			if err := st.apply(pending[i]); err != nil {
				stateErr = err
				return false
			}
		}
		textEdits = append(textEdits, st.textEdits()...)

		// The matched call's own arguments are handled; do not descend.
		return false
	})
	if stateErr != nil {
		return nil, stateErr
	}

	var unmatched []Edit
	for i, e := range pending {
		if !consumed[i] {
			unmatched = append(unmatched, e)
		}
	}

	prepared, err := PrepareTextEdits(textEdits, len(f.Content))
	if err != nil {
		return nil, fmt.Errorf("prepare edits for %s: %w", f.Path, err)
	}

	content := ApplyEdits(f.Content, prepared)
	return &Result{
		Content:   content,
		Changed:   !bytes.Equal(content, f.Content),
		Unmatched: unmatched,
	}, nil
}

// virtSlot is one entry of a call's virtual trailing-closure region while
// its edits are consumed. Real slots point at a source argument; synthetic
// slots hold rendered text anchored before a real argument or appended at
// the end of the call.
type virtSlot struct {
	arg       ast.Expr
	closure   Closure
	isClosure bool
	text      *string
	anchor    ast.Expr
}

// site accumulates the edits for one matched call.
type site struct {
	f         *source.File
	call      *ast.CallExpr
	leading   string
	indent    string
	qualifier string
	slots     []*virtSlot
}

func newSite(f *source.File, call *ast.CallExpr, indent string) *site {
	st := &site{
		f:         f,
		call:      call,
		leading:   leadingWhitespace(f, call),
		indent:    indent,
		qualifier: calleeQualifier(call),
	}
	for _, arg := range call.Args {
		sl := &virtSlot{arg: arg}
		sl.closure, sl.isClosure = AsClosure(arg)
		st.slots = append(st.slots, sl)
	}
	return st
}

// apply consumes one edit against the virtual slot list.
func (s *site) apply(e Edit) error {
	label := e.Descriptor.Label
	if label == "" {
		label = DefaultLabel
	}

	first := len(s.slots)
	for i := len(s.slots) - 1; i >= 0; i-- {
		if !s.slots[i].isClosure && s.slots[i].arg != nil {
			break
		}
		first = i
	}

	target := first + e.Descriptor.Offset
	switch {
	case target < 0:
		return s.stateError(e, "negative closure offset")

	case target < len(s.slots):
		sl := s.slots[target]
		if sl.arg == nil {
			// Slot synthesized by an earlier edit at the same key; later
			// recordings win.
			*sl.text = synthLabeled(e.Actual, s.leading, s.indent, s.qualifier, label)
			return nil
		}
		if !sl.isClosure {
			return s.stateError(e, "descriptor does not address a closure argument")
		}
		switch {
		case sl.closure.Label == "":
			if !e.WasRecording && sl.text == nil {
				return s.stateError(e, "existing snapshot closure outside record mode")
			}
			txt := synthFuncLit(e.Actual, s.leading, s.indent)
			sl.text = &txt
		case sl.closure.Label == label:
			if !e.WasRecording && sl.text == nil {
				// A foreign recording must not clobber a labeled snapshot
				// outside record mode.
				return nil
			}
			txt := synthFuncLit(e.Actual, s.leading, s.indent)
			sl.text = &txt
		default:
			// The slot holds a differently labeled closure: the target
			// closure goes in front of it.
			txt := synthLabeled(e.Actual, s.leading, s.indent, s.qualifier, label)
			ins := &virtSlot{isClosure: true, text: &txt, anchor: anchorOf(sl)}
			s.slots = append(s.slots[:target], append([]*virtSlot{ins}, s.slots[target:]...)...)
		}

	default:
		for len(s.slots) < target {
			pad := synthPad(s.qualifier, label)
			s.slots = append(s.slots, &virtSlot{isClosure: true, text: &pad})
		}
		txt := synthLabeled(e.Actual, s.leading, s.indent, s.qualifier, label)
		s.slots = append(s.slots, &virtSlot{isClosure: true, text: &txt})
	}
	return nil
}

func (s *site) stateError(e Edit, reason string) *StateError {
	return &StateError{
		Path:         s.f.Path,
		Line:         e.Line,
		FunctionName: e.FunctionName,
		Reason:       reason,
	}
}

// anchorOf returns the real argument a synthetic insertion sits in front
// of, or nil when the slot itself is appended at the end of the call.
func anchorOf(sl *virtSlot) ast.Expr {
	if sl.arg != nil {
		return sl.arg
	}
	return sl.anchor
}

// textEdits renders the site's accumulated changes as byte-range edits.
func (s *site) textEdits() []TextEdit {
	var out []TextEdit

	// Replacements of real closure bodies. The wrapper call of a labeled
	// closure stays; only the function literal is spliced.
	for _, sl := range s.slots {
		if sl.arg != nil && sl.text != nil {
			out = append(out, TextEdit{
				StartOffset: s.f.Offset(sl.closure.Fn.Pos()),
				EndOffset:   s.f.Offset(sl.closure.Fn.End()),
				NewText:     *sl.text,
			})
		}
	}

	// Synthetic slots inserted before an existing argument.
	for _, sl := range s.slots {
		if sl.arg == nil && sl.anchor != nil {
			out = append(out, TextEdit{
				StartOffset: s.f.Offset(sl.anchor.Pos()),
				EndOffset:   s.f.Offset(sl.anchor.Pos()),
				NewText:     *sl.text + ", ",
			})
		}
	}

	// Synthetic slots appended at the end of the argument list, in slot
	// order, separated from the preceding argument.
	var appended []string
	for _, sl := range s.slots {
		if sl.arg == nil && sl.anchor == nil {
			appended = append(appended, *sl.text)
		}
	}
	if len(appended) > 0 {
		joined := ""
		insertAt := s.f.Offset(s.call.Rparen)
		if n := len(s.call.Args); n > 0 {
			joined = ", "
			insertAt = s.f.Offset(s.call.Args[n-1].End())
		}
		for i, text := range appended {
			if i > 0 {
				joined += ", "
			}
			joined += text
		}
		out = append(out, TextEdit{StartOffset: insertAt, EndOffset: insertAt, NewText: joined})
	}

	return out
}

// leadingWhitespace returns the whitespace prefix of the source line the
// call starts on.
func leadingWhitespace(f *source.File, call *ast.CallExpr) string {
	start := f.LineStart(call.Pos())
	end := f.Offset(call.Pos())
	for i := start; i < end; i++ {
		if c := f.Content[i]; c != ' ' && c != '\t' {
			return string(f.Content[start:i])
		}
	}
	return string(f.Content[start:end])
}
