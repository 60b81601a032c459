// Package textutil provides the text transformations used when embedding
// snapshot payloads in Go source files: indentation framing for multi-line
// raw string literals, the inverse dedent applied when reading them back,
// and the choice of literal form for a given payload.
package textutil

import "strings"

// Indent prefixes every non-empty line of payload with prefix.
// Empty lines are left empty so that trailing whitespace is never
// introduced into the rewritten source.
func Indent(payload, prefix string) string {
	if payload == "" {
		return ""
	}

	lines := strings.Split(payload, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Frame wraps a payload into the value of a framed multi-line raw literal:
// a leading newline, each non-empty payload line prefixed with indent, and
// a trailing newline followed by indent so the closing backquote sits on
// its own line at the same indentation as the payload lines.
//
// Frame and Dedent are inverses for any payload that does not itself end
// in a newline followed by only whitespace.
func Frame(payload, indent string) string {
	return "\n" + Indent(payload, indent) + "\n" + indent
}

// Dedent strips the multi-line frame from a raw string literal's value and
// returns the embedded payload. A framed value starts with a newline and
// ends with a newline followed by the indentation of the closing delimiter;
// that indentation is removed from every line.
//
// Values that do not carry the frame (single-line snapshots, interpreted
// literals) are returned unchanged.
func Dedent(value string) string {
	if !strings.HasPrefix(value, "\n") {
		return value
	}

	lines := strings.Split(value[1:], "\n")
	if len(lines) < 2 {
		return value
	}

	// The final line holds only the closing delimiter's indentation.
	indent := lines[len(lines)-1]
	if strings.TrimSpace(indent) != "" {
		return value
	}

	lines = lines[:len(lines)-1]
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n")
}

// DetectIndent returns the prevailing one-level indentation of src: the
// leading whitespace of the first indented, non-blank line. Go sources are
// tab-indented, so a tab is returned when nothing is indented.
func DetectIndent(src []byte) string {
	for line := range strings.Lines(string(src)) {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed == "\n" {
			continue
		}
		if ws := line[:len(line)-len(trimmed)]; ws != "" {
			return ws
		}
	}
	return "\t"
}
