package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/tree"
)

// tabWidth is the number of columns a tab is expanded to in source context.
const tabWidth = 4

const contextIndent = "        "

// FormatDefect formats a structural defect at pos of the file at path.
// line is the raw text of the defective row, or empty to omit context.
func (s *Styles) FormatDefect(path string, pos tree.Position, line string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), pos.Row+1, pos.Col+1)
	fmt.Fprintf(&builder, "  %s  %s  %s\n",
		location,
		s.Error.Render("defect"),
		s.Message.Render("connector has no rule; drawn as a gap"),
	)

	if line != "" {
		builder.WriteString(s.FormatSourceContext(line, min(pos.Col, len(line))))
	}
	return builder.String()
}

// FormatLink formats one DirNav link of the file at path. line is the content
// of the line holding the link, or empty to omit context.
func (s *Styles) FormatLink(path string, link dirnav.Link, line string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), link.Line+1, link.Start+1)
	if link.Valid {
		fmt.Fprintf(&builder, "  %s  %s  %s %s\n",
			location,
			s.Info.Render("link"),
			s.Link.Render(link.Address),
			s.Dim.Render(fmt.Sprintf("-> line %d", link.Target+1)),
		)
		return builder.String()
	}

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.Warning.Render("broken"),
		s.BrokenLink.Render(link.Address),
		s.Message.Render(link.Reason),
	)
	if line != "" {
		builder.WriteString(s.FormatSourceContext(line, link.Start))
	}
	return builder.String()
}

// FormatSourceContext formats the source line with a caret under the byte
// offset column. Tabs are expanded and wide runes take two cells.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(expandTabs(line)) + "\n")

	if column >= 0 && column <= len(line) {
		width := runewidth.StringWidth(expandTabs(line[:column]))
		builder.WriteString(contextIndent + strings.Repeat(" ", width) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
