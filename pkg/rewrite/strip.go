package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"

	"github.com/yaklabco/snapline/pkg/source"
)

// Strip removes recorded snapshot closures from assertion calls so the
// next test run re-records them. names selects the assertion callees;
// labels selects which labeled closures are removed (bare function
// literals in the trailing-closure region are always removed). It returns
// the stripped content and the number of closures removed.
func Strip(f *source.File, names map[string]bool, labels map[string]bool) (*Result, int, error) {
	var textEdits []TextEdit
	stripped := 0

	ast.Inspect(f.Tree, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if !names[CalleeName(call)] {
			return true
		}

		for i := FirstClosureOffset(call); i < len(call.Args); i++ {
			closure, ok := AsClosure(call.Args[i])
			if !ok {
				break
			}
			if closure.Label != "" && !labels[closure.Label] {
				continue
			}
			if i == 0 {
				// A closure with nothing before it has no separator to
				// consume; assertion calls always lead with the test value.
				continue
			}
			textEdits = append(textEdits, TextEdit{
				StartOffset: f.Offset(call.Args[i-1].End()),
				EndOffset:   f.Offset(call.Args[i].End()),
			})
			stripped++
		}
		return false
	})

	prepared, err := PrepareTextEdits(textEdits, len(f.Content))
	if err != nil {
		return nil, 0, fmt.Errorf("prepare strip edits for %s: %w", f.Path, err)
	}

	content := ApplyEdits(f.Content, prepared)
	return &Result{
		Content: content,
		Changed: !bytes.Equal(content, f.Content),
	}, stripped, nil
}
