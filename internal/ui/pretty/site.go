package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/snapline/pkg/runner"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// FormatSite renders one assertion site line for the list command:
//
//	path:line  Function  [Matches, ErrorMessage]
//
// Sites without a recorded snapshot are marked pending.
func (s *Styles) FormatSite(site runner.Site, width int) string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(s.FilePath.Render(site.Path))
	b.WriteString(s.Location.Render(fmt.Sprintf(":%d", site.Line)))
	b.WriteString("  ")
	b.WriteString(s.Function.Render(site.FunctionName))

	if !site.Recorded() {
		b.WriteString("  ")
		b.WriteString(s.Warning.Render("(pending)"))
		return truncate(b.String(), width)
	}

	labels := make([]string, 0, len(site.Slots))
	for _, slot := range site.Slots {
		label := slot.Label
		if label == "" {
			label = "func"
		}
		labels = append(labels, label)
	}
	b.WriteString("  ")
	b.WriteString(s.Label.Render("[" + strings.Join(labels, ", ") + "]"))

	return truncate(b.String(), width)
}

// FormatFinding renders one check finding, indented by two spaces:
//
//	path:line  severity  message
func (s *Styles) FormatFinding(path string, line int, severity, message string) string {
	sev := s.Warning.Render(severity)
	if severity == "error" {
		sev = s.Problem.Render(severity)
	}
	return fmt.Sprintf("  %s%s  %s  %s",
		s.FilePath.Render(path),
		s.Location.Render(fmt.Sprintf(":%d", line)),
		sev,
		s.Message.Render(message),
	)
}

// FormatSummary renders the aggregate line shown after list and check.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString(s.SummaryTitle.Render("Snapshots:"))
	b.WriteString(" ")
	b.WriteString(s.SummaryValue.Render(fmt.Sprintf("%d sites in %d files", stats.Sites, stats.FilesWithSites)))

	if stats.Pending > 0 {
		b.WriteString(s.Dim.Render(" · "))
		b.WriteString(s.Warning.Render(fmt.Sprintf("%d pending", stats.Pending)))
	}
	if stats.Recorded > 0 {
		b.WriteString(s.Dim.Render(" · "))
		b.WriteString(s.Success.Render(fmt.Sprintf("%d recorded", stats.Recorded)))
	}

	return b.String()
}

// Width returns the rendering width for w: the terminal width when w is a
// TTY, a fixed default otherwise.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// truncate cuts a rendered line to width runes, appending an ellipsis.
// Styled lines longer than the terminal stay readable instead of wrapping
// mid-escape.
func truncate(line string, width int) string {
	if width <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
