package fix

import (
	"slices"
	"strings"

	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

// Normalization reasons reported on TextEdit.Reason.
const (
	ReasonGlyphs        = "glyphs"
	ReasonCRLF          = "crlf"
	ReasonTrailingSpace = "trailing-whitespace"
	ReasonTrailingLines = "trailing-blank-lines"
)

// Normalize returns the edits that turn document into canonical raw outline
// text:
//
//   - connector glyphs at line start, left by pasting a rendered diagram,
//     become indentation units;
//   - CRLF line endings become LF;
//   - whitespace after line content is removed;
//   - blank lines at the end of the document are removed.
//
// The edits are sorted and never overlap.
func Normalize(document string, unit rune) []TextEdit {
	if unit == 0 {
		unit = outline.DefaultUnit
	}

	var glyphs *tree.Glyphs
	if tree.HasGlyphs(document) {
		detected := tree.Detect(document)
		glyphs = &detected
	}

	lines := strings.Split(document, "\n")

	last := -1
	for i, line := range lines {
		if lineContent(line, glyphs, unit) != "" {
			last = i
		}
	}

	var edits []TextEdit
	offset := 0
	for i, line := range lines {
		if last >= 0 && i > last {
			break
		}
		edits = append(edits, normalizeLine(offset, line, glyphs, unit)...)
		offset += len(line) + 1
	}

	if last >= 0 && last < len(lines)-1 {
		end := outline.LineStart(lines, last) + len(lines[last])
		edits = append(edits, TextEdit{Start: end, End: len(document), Reason: ReasonTrailingLines})
	}

	return edits
}

// Format applies Normalize to document.
func Format(document string, unit rune) (string, []TextEdit) {
	edits := Normalize(document, unit)
	return Apply(document, edits), edits
}

func normalizeLine(offset int, line string, glyphs *tree.Glyphs, unit rune) []TextEdit {
	var edits []TextEdit

	body := line
	if strings.HasSuffix(body, "\r") {
		body = body[:len(body)-1]
		edits = append(edits, TextEdit{Start: offset + len(body), End: offset + len(line), Reason: ReasonCRLF})
	}

	prefix := 0
	if glyphs != nil {
		size, count := tree.LeadingGlyphs(body, *glyphs)
		if size > 0 {
			prefix = size
			edits = append(edits, TextEdit{
				Start:   offset,
				End:     offset + size,
				NewText: strings.Repeat(string(unit), count),
				Reason:  ReasonGlyphs,
			})
		}
	}

	rest := body[prefix:]
	if strings.TrimFunc(rest, func(r rune) bool { return isSpace(r, unit) }) == "" {
		return sortByStart(edits)
	}

	trimmed := strings.TrimRightFunc(rest, func(r rune) bool { return isSpace(r, unit) })
	if len(trimmed) < len(rest) {
		start := offset + prefix + len(trimmed)
		edits = append(edits, TextEdit{Start: start, End: offset + len(body), Reason: ReasonTrailingSpace})
	}

	return sortByStart(edits)
}

// lineContent returns the text of line without glyphs, units and spaces.
func lineContent(line string, glyphs *tree.Glyphs, unit rune) string {
	if glyphs != nil {
		size, _ := tree.LeadingGlyphs(line, *glyphs)
		line = line[size:]
	}
	return strings.TrimFunc(line, func(r rune) bool { return isSpace(r, unit) })
}

func isSpace(r, unit rune) bool {
	return r == unit || r == ' ' || r == '\t' || r == '\r' || string(r) == tree.Marker
}

func sortByStart(edits []TextEdit) []TextEdit {
	slices.SortFunc(edits, func(a, b TextEdit) int { return a.Start - b.Start })
	return edits
}
