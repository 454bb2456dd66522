package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rtn/pkg/runner"
)

const summaryDividerWidth = 40

func count(n int, singular, pluralForm string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + pluralForm
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 defects, 1 broken link, 3 unformatted in 4 files (10 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := s.Dim.Render(fmt.Sprintf(" (%s checked)", count(stats.FilesProcessed, "file", "files")))

	var parts []string
	if stats.Defects > 0 {
		parts = append(parts, s.Error.Render(count(stats.Defects, "defect", "defects")))
	}
	if stats.BrokenLinks > 0 {
		parts = append(parts, s.Warning.Render(count(stats.BrokenLinks, "broken link", "broken links")))
	}
	if pending := stats.FilesUnformatted - stats.FilesModified; pending > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d unformatted", pending)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(count(stats.FilesErrored, "error", "errors")))
	}

	var msg string
	if len(parts) == 0 {
		msg = s.Success.Render("No issues found") + checked
	} else {
		msg = strings.Join(parts, ", ") + " in " + count(stats.FilesWithIssues+stats.FilesErrored, "file", "files") + checked
	}

	if stats.FilesModified > 0 {
		msg += ", " + s.Success.Render(count(stats.FilesModified, "file", "files")+" formatted")
	}
	return msg + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label+":", style(strconv.Itoa(value)))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesWithIssues > 0 {
		row("Files with issues", stats.FilesWithIssues, s.Failure.Render)
	}
	if stats.FilesModified > 0 {
		row("Files formatted", stats.FilesModified, s.Success.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", stats.FilesSkipped, s.Warning.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files errored", stats.FilesErrored, s.Failure.Render)
	}

	builder.WriteString("\n")
	row("Defects", stats.Defects, s.Error.Render)
	row("Links", stats.Links, s.SummaryValue.Render)
	row("Broken links", stats.BrokenLinks, s.Warning.Render)
	builder.WriteString("\n")

	switch {
	case stats.Defects > 0 || stats.BrokenLinks > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed"))
	case stats.FilesUnformatted > stats.FilesModified:
		builder.WriteString(s.Warning.Render("Check passed; some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
