package textutil_test

import (
	"testing"

	"github.com/yaklabco/snapline/pkg/textutil"
)

func TestIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		prefix  string
		want    string
	}{
		{
			name:    "empty payload",
			payload: "",
			prefix:  "\t",
			want:    "",
		},
		{
			name:    "single line",
			payload: "hello",
			prefix:  "\t",
			want:    "\thello",
		},
		{
			name:    "multiple lines",
			payload: "a\nb",
			prefix:  "  ",
			want:    "  a\n  b",
		},
		{
			name:    "empty lines stay empty",
			payload: "a\n\nb",
			prefix:  "\t",
			want:    "\ta\n\n\tb",
		},
		{
			name:    "trailing newline",
			payload: "a\n",
			prefix:  "\t",
			want:    "\ta\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textutil.Indent(tt.payload, tt.prefix); got != tt.want {
				t.Errorf("Indent(%q, %q) = %q, want %q", tt.payload, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestFrameDedentRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := []string{
		"hi",
		"hello\nworld",
		"a\n\nb",
		"  leading spaces kept",
		"trailing spaces kept  ",
		"unicode: héllo ☃",
		`"""` + "\n" + `\foo` + "\n" + `"""`,
	}

	for _, payload := range payloads {
		framed := textutil.Frame(payload, "\t\t")
		if got := textutil.Dedent(framed); got != payload {
			t.Errorf("Dedent(Frame(%q)) = %q, want original", payload, got)
		}
	}
}

func TestDedent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "single line unchanged",
			value: "hi",
			want:  "hi",
		},
		{
			name:  "framed value",
			value: "\n\thi\n\t",
			want:  "hi",
		},
		{
			name:  "framed with empty line",
			value: "\n\ta\n\n\tb\n\t",
			want:  "a\n\nb",
		},
		{
			name:  "no closing indent line",
			value: "\nhi",
			want:  "\nhi",
		},
		{
			name:  "last line not whitespace",
			value: "\na\nb",
			want:  "\na\nb",
		},
		{
			name:  "zero indent frame",
			value: "\nhi\n",
			want:  "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textutil.Dedent(tt.value); got != tt.want {
				t.Errorf("Dedent(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDetectIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "tab indented",
			src:  "package x\n\nfunc f() {\n\treturn\n}\n",
			want: "\t",
		},
		{
			name: "space indented",
			src:  "package x\n\nfunc f() {\n    return\n}\n",
			want: "    ",
		},
		{
			name: "nothing indented defaults to tab",
			src:  "package x\n",
			want: "\t",
		},
		{
			name: "blank lines skipped",
			src:  "package x\n\n   \n\tcode\n",
			want: "\t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textutil.DetectIndent([]byte(tt.src)); got != tt.want {
				t.Errorf("DetectIndent() = %q, want %q", got, tt.want)
			}
		})
	}
}
