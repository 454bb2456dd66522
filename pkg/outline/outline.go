// Package outline models a tab-indented plaintext document as a flat list of
// lines, each carrying an indentation level and its indentation-free content.
package outline

import "strings"

// DefaultUnit is the indentation unit used when none is configured.
const DefaultUnit = '\t'

// Entry is a single line of the outline.
type Entry struct {
	// Level is the number of contiguous indentation units at line start.
	Level int

	// Content is the line with every indentation unit removed.
	Content string
}

// IsBlank returns true if the entry carries no content.
func (e Entry) IsBlank() bool {
	return e.Content == ""
}

// Split breaks a document into raw lines on LF. A trailing CR is dropped from
// each line so CRLF documents behave like LF documents.
// The empty document yields a single empty line.
func Split(document string) []string {
	lines := strings.Split(document, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ToLines converts a document into outline entries.
func ToLines(document string, unit rune) []Entry {
	raw := Split(document)
	entries := make([]Entry, len(raw))
	for i, line := range raw {
		entries[i] = Entry{
			Level:   Level(line, unit),
			Content: Content(line, unit),
		}
	}
	return entries
}

// FromLines converts already split raw lines into outline entries.
func FromLines(lines []string, unit rune) []Entry {
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Entry{
			Level:   Level(line, unit),
			Content: Content(line, unit),
		}
	}
	return entries
}

// Level counts the contiguous indentation units at the start of line.
func Level(line string, unit rune) int {
	count := 0
	for _, r := range line {
		if r != unit {
			break
		}
		count++
	}
	return count
}

// Content removes every occurrence of unit from line, not only the leading run.
// Units typed after the content are deleted as well.
func Content(line string, unit rune) string {
	if !strings.ContainsRune(line, unit) {
		return line
	}
	return strings.ReplaceAll(line, string(unit), "")
}

// Levels returns the indentation level of each raw line.
func Levels(lines []string, unit rune) []int {
	levels := make([]int, len(lines))
	for i, line := range lines {
		levels[i] = Level(line, unit)
	}
	return levels
}

// LineStart returns the byte offset of line index within the document formed
// by joining lines with LF. Indexes past the end return the document length.
func LineStart(lines []string, index int) int {
	offset := 0
	for i := 0; i < index && i < len(lines); i++ {
		offset += len(lines[i]) + 1
	}
	if index >= len(lines) && offset > 0 {
		offset--
	}
	return offset
}

// Join reassembles entries into raw text using unit for indentation.
func Join(entries []Entry, unit rune) string {
	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for range entry.Level {
			sb.WriteRune(unit)
		}
		sb.WriteString(entry.Content)
	}
	return sb.String()
}
