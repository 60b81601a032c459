package snapline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Strategy is the capability record an assertion uses to turn a value into
// snapshot text and to compare two snapshot texts. Custom strategies
// plug in domain-specific rendering; the engine treats the text as opaque.
type Strategy struct {
	// Snapshot renders a value to its snapshot text. The context carries
	// the test's cancellation; renderers doing I/O must honor it.
	Snapshot func(ctx context.Context, value any) (string, error)

	// Diff compares expected and actual snapshot text. It returns the
	// rendered difference and true when the texts disagree.
	Diff func(expected, actual string) (string, bool)
}

// Lines renders values with fmt.Sprint and compares them with go-cmp.
// It is the right strategy for strings and fmt.Stringer values.
func Lines() Strategy {
	return Strategy{
		Snapshot: func(_ context.Context, value any) (string, error) {
			return fmt.Sprint(value), nil
		},
		Diff: cmpDiff,
	}
}

// JSON renders values as indented JSON and compares the rendering with
// go-cmp. HTML escaping is off so snapshots stay readable.
func JSON() Strategy {
	return Strategy{
		Snapshot: func(_ context.Context, value any) (string, error) {
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(value); err != nil {
				return "", fmt.Errorf("encode json: %w", err)
			}
			// Encode appends a newline that is not part of the snapshot.
			return strings.TrimSuffix(buf.String(), "\n"), nil
		},
		Diff: cmpDiff,
	}
}

func cmpDiff(expected, actual string) (string, bool) {
	diff := cmp.Diff(expected, actual)
	return diff, diff != ""
}
