package snapline

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/yaklabco/snapline/pkg/locate"
	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/textutil"
)

// TestingT is the subset of *testing.T the assertions use.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Cleanup(func())
	Context() context.Context
}

// Descriptor addresses a snapshot closure slot of an assertion call. The
// zero Offset with label "Matches" is the primary snapshot slot.
type Descriptor = rewrite.Descriptor

// Closure is an inline snapshot argument: the label mirrors the wrapper
// name in the source, the offset addresses the trailing-closure slot, and
// the body returns the embedded snapshot text.
type Closure struct {
	Label  string
	Offset int
	Body   func() string
}

// Matches wraps the primary snapshot closure.
func Matches(body func() string) Closure {
	return Closure{Label: rewrite.DefaultLabel, Body: body}
}

// ErrorMessage wraps the secondary closure holding an error's snapshot in
// [AssertWithError] calls.
func ErrorMessage(body func() string) Closure {
	return Closure{Label: "ErrorMessage", Offset: 1, Body: body}
}

// Slot builds a closure for a custom label and slot offset, for assertion
// helpers that define their own snapshot slots.
func Slot(label string, offset int, body func() string) Closure {
	return Closure{Label: label, Offset: offset, Body: body}
}

// AssertSnapshot renders value through the strategy and compares it to the
// inline snapshot embedded at the call site. Without a [Matches] closure,
// or in record mode, the test fails and the snapshot is recorded; the
// source file is rewritten when the test binary exits through [Main].
func AssertSnapshot(t TestingT, as Strategy, value any, expected ...Closure) {
	t.Helper()

	site := callerSite("AssertSnapshot")
	desc := Descriptor{Label: defaultLabel()}

	var body func() string
	if len(expected) > 0 {
		body = expected[0].Body
		if expected[0].Label != "" {
			desc.Label = expected[0].Label
		}
		desc.Offset = expected[0].Offset
	}

	assertInline(t, as, value, desc, body, site)
}

// AssertWithError asserts two snapshot slots of one call: the value's
// snapshot in the primary slot and the error text in the ErrorMessage
// slot. A nil error snapshots as an empty string.
func AssertWithError(t TestingT, as Strategy, value any, err error, expected ...Closure) {
	t.Helper()

	site := callerSite("AssertWithError")

	var valueBody, errBody func() string
	for _, c := range expected {
		switch c.Offset {
		case 0:
			valueBody = c.Body
		case 1:
			errBody = c.Body
		}
	}

	assertInline(t, as, value, Descriptor{Label: defaultLabel()}, valueBody, site)

	// The error slot only participates when there is an error to record
	// or an embedded error snapshot to check.
	if err == nil && errBody == nil {
		return
	}
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	assertInline(t, Lines(), errText, Descriptor{Label: "ErrorMessage", Offset: 1}, errBody, site)
}

// AssertInline is the generalized entry point: it asserts one snapshot
// slot addressed by desc. body is nil when the source holds no snapshot
// yet. Assertion helpers built on top of it must pass their own exported
// name as functionName so the rewriter can find their call sites.
func AssertInline(t TestingT, as Strategy, value any, desc Descriptor, body func() string, functionName string) {
	t.Helper()

	site := callerSite(functionName)
	assertInline(t, as, value, desc, body, site)
}

// callSite identifies the assertion call in its source file.
type callSite struct {
	file string
	line int
	fn   string
}

// callerSite resolves the test author's call site. The runtime reports
// the line of the called expression, which is the rewriter's match key.
func callerSite(functionName string) callSite {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return callSite{fn: functionName}
	}
	return callSite{file: file, line: line, fn: functionName}
}

// assertInline is the core assertion: produce, compare or record.
func assertInline(t TestingT, as Strategy, value any, desc Descriptor, body func() string, site callSite) {
	t.Helper()

	recording := isRecording()
	ctx := t.Context()

	actual, err := as.Snapshot(ctx, value)
	if err != nil {
		if ctx.Err() != nil {
			// A cancelled assertion records nothing.
			t.Errorf("snapline: snapshot cancelled: %v", err)
			return
		}
		t.Errorf("snapline: produce snapshot: %v", err)
		return
	}

	var expected *string
	if body != nil {
		text := textutil.Dedent(body())
		expected = &text
	}

	if expected != nil && !recording {
		diff, differs := as.Diff(*expected, actual)
		if !differs {
			return
		}
		t.Errorf("snapline: snapshot differs at %s:%d (-expected +actual):\n%s\nRerun with SNAPLINE_RECORD=1 to re-record.",
			filepath.Base(site.file), failureLine(site, desc), diff)
		return
	}

	if site.file == "" {
		t.Errorf("snapline: cannot record a snapshot without a caller location")
		return
	}

	sharedBuffer().Append(site.file, rewrite.Edit{
		Expected:     expected,
		Actual:       actual,
		WasRecording: recording,
		Descriptor:   desc,
		FunctionName: site.fn,
		Line:         site.line,
	})
	markFlushPending()

	t.Errorf("snapline: automatically recorded a new snapshot at %s:%d; the source updates when the test binary exits through snapline.Main",
		filepath.Base(site.file), site.line)
}

// failureLine aims a mismatch report at the embedded snapshot closure.
// When the closure cannot be located the assertion line is used instead.
func failureLine(site callSite, desc Descriptor) int {
	f, err := sharedCache().Get(site.file)
	if err != nil {
		return site.line
	}
	target := locate.Target{Line: site.line, FunctionName: site.fn}
	if line, ok := locate.ClosureLine(f, target, desc); ok {
		return line
	}
	return site.line
}
