package editbuffer

import (
	"strings"
	"unicode"

	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/fix"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

// Noop leaves the document unchanged. It still re-renders it.
func Noop() Edit {
	return func(Document) (Change, error) {
		return Change{}, nil
	}
}

// SetText replaces the whole document and collapses the caret at the same
// offset, clamped to the new text.
func SetText(text string) Edit {
	return func(doc Document) (Change, error) {
		replacement := normalizeNewlines(text)
		caret := Caret{Start: doc.Caret.Start, End: doc.Caret.Start}.clamp(len(replacement))
		return Change{
			Edits: []fix.TextEdit{fix.Replace(0, len(doc.Text), replacement)},
			Caret: &caret,
		}, nil
	}
}

// Select moves the selection without changing the text.
func Select(caret Caret) Edit {
	return func(Document) (Change, error) {
		return Change{Caret: &caret}, nil
	}
}

// InsertTab indents at the caret. A collapsed caret receives one unit only
// when nothing but indentation precedes it on its line and the line is not
// already deeper than the line above. The first line is never indented. A
// selection indents every line it touches under the same depth rule.
func InsertTab(unit rune) Edit {
	return func(doc Document) (Change, error) {
		if doc.Caret.Collapsed() {
			if !canIndent(doc.Text, doc.Caret.Start, unit) {
				return Change{}, nil
			}
			return Change{Edits: []fix.TextEdit{fix.Insert(doc.Caret.Start, string(unit))}}, nil
		}

		lines := strings.Split(doc.Text, "\n")
		first, last := selectedLines(doc.Text, doc.Caret)

		var edits []fix.TextEdit
		prevLevel := -1
		if first > 0 {
			prevLevel = outline.Level(lines[first-1], unit)
		}
		for i := first; i <= last; i++ {
			level := outline.Level(lines[i], unit)
			if level <= prevLevel {
				edits = append(edits, fix.Insert(outline.LineStart(lines, i), string(unit)))
				level++
			}
			prevLevel = level
		}
		return Change{Edits: edits}, nil
	}
}

// Outdent removes one leading unit from every line the caret touches.
func Outdent(unit rune) Edit {
	return func(doc Document) (Change, error) {
		lines := strings.Split(doc.Text, "\n")
		first, last := selectedLines(doc.Text, doc.Caret)
		size := len(string(unit))

		var edits []fix.TextEdit
		for i := first; i <= last; i++ {
			if outline.Level(lines[i], unit) > 0 {
				start := outline.LineStart(lines, i)
				edits = append(edits, fix.Delete(start, start+size))
			}
		}
		return Change{Edits: edits}, nil
	}
}

// InsertNewline breaks the line at a collapsed caret and indents the new line
// like the current one. It does nothing unless the text before the caret on
// its line and the following line, if there is one, both have content.
func InsertNewline(unit rune) Edit {
	return func(doc Document) (Change, error) {
		if !doc.Caret.Collapsed() {
			return Change{}, nil
		}

		before := linePrefix(doc.Text, doc.Caret.Start)
		if !hasContent(before) {
			return Change{}, nil
		}

		lines := strings.Split(doc.Text, "\n")
		if next := lineOf(doc.Text, doc.Caret.Start) + 1; next < len(lines) && !hasContent(lines[next]) {
			return Change{}, nil
		}

		indent := strings.Repeat(string(unit), strings.Count(before, string(unit)))
		return Change{Edits: []fix.TextEdit{fix.Insert(doc.Caret.Start, "\n"+indent)}}, nil
	}
}

// InsertText replaces the selection with text and places the caret after
// it. Rendered diagram text is turned back into indentation first.
func InsertText(text string, unit rune) Edit {
	return func(doc Document) (Change, error) {
		inserted := normalizeNewlines(text)
		if tree.HasGlyphs(inserted) {
			inserted = tree.UnformatAuto(inserted, unit)
		}

		end := doc.Caret.Start + len(inserted)
		caret := Caret{Start: end, End: end}
		return Change{
			Edits: []fix.TextEdit{fix.Replace(doc.Caret.Start, doc.Caret.End, inserted)},
			Caret: &caret,
		}, nil
	}
}

// Navigate selects the content of the line address resolves to from the
// caret line. A failed resolution is returned and moves nothing.
func Navigate(resolver dirnav.Resolver, address string) Edit {
	return func(doc Document) (Change, error) {
		lines := outline.Split(doc.Text)
		result, err := resolver.Resolve(lines, address, lineOf(doc.Text, doc.Caret.Start), false)
		if err != nil {
			return Change{}, err
		}
		caret := Caret{Start: result.Offset, End: result.Offset + result.ContentLen}
		return Change{Caret: &caret}, nil
	}
}

// canIndent applies the tab rule at offset.
func canIndent(text string, offset int, unit rune) bool {
	before := linePrefix(text, offset)
	if strings.Trim(before, string(unit)) != "" {
		return false
	}

	lines := strings.Split(text, "\n")
	line := lineOf(text, offset)
	prevLevel := -1
	if line > 0 {
		prevLevel = outline.Level(lines[line-1], unit)
	}
	return outline.Level(lines[line], unit) <= prevLevel
}

// selectedLines returns the first and last line indexes touched by caret.
func selectedLines(text string, caret Caret) (int, int) {
	first := lineOf(text, caret.Start)
	last := first
	if !caret.Collapsed() {
		last = lineOf(text, caret.End-1)
	}
	return first, max(first, last)
}

// linePrefix returns the text between the start of the line containing
// offset and offset.
func linePrefix(text string, offset int) string {
	offset = min(max(offset, 0), len(text))
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	return text[start:offset]
}

func hasContent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}
