package rewrite

import (
	"strings"

	"github.com/yaklabco/snapline/pkg/textutil"
)

// synthFuncLit renders a bare single-statement closure returning the
// payload as a string literal. The opening brace carries no leading trivia;
// the return statement and literal body sit one indent level inside the
// call's leading whitespace, and the closing brace aligns with it.
func synthFuncLit(payload, leading, indent string) string {
	inner := leading + indent
	lit := textutil.Quote(payload, inner, textutil.FormFor(payload))

	var b strings.Builder
	b.WriteString("func() string {\n")
	b.WriteString(inner)
	b.WriteString("return ")
	b.WriteString(lit)
	b.WriteString("\n")
	b.WriteString(leading)
	b.WriteString("}")
	return b.String()
}

// synthLabeled renders a labeled closure argument: the wrapper call around
// a synthesized function literal, qualified with the call site's package
// alias when one is in scope.
func synthLabeled(payload, leading, indent, qualifier, label string) string {
	var b strings.Builder
	if qualifier != "" {
		b.WriteString(qualifier)
		b.WriteString(".")
	}
	b.WriteString(label)
	b.WriteString("(")
	b.WriteString(synthFuncLit(payload, leading, indent))
	b.WriteString(")")
	return b.String()
}

// synthPad renders a placeholder closure for a skipped slot, kept on one
// line since it carries no payload.
func synthPad(qualifier, label string) string {
	var b strings.Builder
	if qualifier != "" {
		b.WriteString(qualifier)
		b.WriteString(".")
	}
	b.WriteString(label)
	b.WriteString(`(func() string { return "" })`)
	return b.String()
}
