package textutil

import (
	"strconv"
	"strings"
)

// Form identifies the Go string literal syntax a payload is embedded with.
type Form int

const (
	// FormRaw is a backquoted raw string literal, framed across multiple
	// lines. Preferred whenever the payload permits it.
	FormRaw Form = iota

	// FormInterpreted is a double-quoted literal with escape sequences.
	// Used when the raw form cannot represent the payload.
	FormInterpreted
)

// FormFor returns the cheapest literal form that embeds payload without
// loss. Raw literals cannot contain backquotes, and the Go scanner discards
// carriage returns inside them, so either forces the interpreted form.
func FormFor(payload string) Form {
	if strings.ContainsAny(payload, "`\r") {
		return FormInterpreted
	}
	return FormRaw
}

// Quote renders payload as Go source text for the given form. For FormRaw
// the result is a framed multi-line literal using indent (see Frame); for
// FormInterpreted it is a single escaped literal on one line.
func Quote(payload, indent string, form Form) string {
	if form == FormInterpreted {
		return strconv.Quote(payload)
	}
	return "`" + Frame(payload, indent) + "`"
}
