package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// LineKind classifies a diff line.
type LineKind int

const (
	// LineContext is an unchanged line.
	LineContext LineKind = iota

	// LineAdded is present only in the new document.
	LineAdded

	// LineRemoved is present only in the old document.
	LineRemoved
)

// prefix returns the unified diff marker of the kind.
func (k LineKind) prefix() byte {
	switch k {
	case LineAdded:
		return '+'
	case LineRemoved:
		return '-'
	default:
		return ' '
	}
}

// DiffLine is one line of a hunk.
type DiffLine struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous region of changes with surrounding context. Line
// numbers are 1-based.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// Diff is a line-oriented unified diff between two documents.
type Diff struct {
	// Path names the file in the diff header.
	Path string

	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute diffs before and after line by line. It returns nil when both
// documents have the same lines.
func Compute(path, before, after string) *Diff {
	oldLines := splitLines(before)
	newLines := splitLines(after)

	ops := diffOps(oldLines, newLines)

	diff := &Diff{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case LineAdded:
			diff.Additions++
		case LineRemoved:
			diff.Deletions++
		}
	}
	if diff.Additions == 0 && diff.Deletions == 0 {
		return nil
	}

	diff.Hunks = groupHunks(ops)
	return diff
}

// HasChanges returns true if the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with file headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			sb.WriteByte(line.Kind.prefix())
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitLines splits text into lines. A final line terminator does not start
// an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// diffOps walks the longest common subsequence of a and b and emits one
// operation per line.
func diffOps(a, b []string) []DiffLine {
	// suffix[i][j] is the LCS length of a[i:] and b[j:].
	suffix := make([][]int, len(a)+1)
	for i := range suffix {
		suffix[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, DiffLine{Kind: LineContext, Text: a[i]})
			i++
			j++
		case suffix[i+1][j] >= suffix[i][j+1]:
			ops = append(ops, DiffLine{Kind: LineRemoved, Text: a[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: LineAdded, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, DiffLine{Kind: LineRemoved, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, DiffLine{Kind: LineAdded, Text: b[j]})
	}
	return ops
}

// groupHunks cuts ops into hunks. Changes separated by no more than twice
// the context size share a hunk.
func groupHunks(ops []DiffLine) []Hunk {
	var hunks []Hunk

	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		hunks = append(hunks, buildHunk(ops, max(start-contextLines, 0), min(end+contextLines, len(ops))))
	}

	for idx, op := range ops {
		if op.Kind == LineContext {
			continue
		}
		if start >= 0 && idx-end > contextLines*2 {
			flush()
			start = -1
		}
		if start < 0 {
			start = idx
		}
		end = idx + 1
	}
	flush()

	return hunks
}

func buildHunk(ops []DiffLine, from, to int) Hunk {
	hunk := Hunk{OldStart: 1, NewStart: 1}
	for _, op := range ops[:from] {
		if op.Kind != LineAdded {
			hunk.OldStart++
		}
		if op.Kind != LineRemoved {
			hunk.NewStart++
		}
	}

	hunk.Lines = ops[from:to]
	for _, op := range hunk.Lines {
		if op.Kind != LineAdded {
			hunk.OldCount++
		}
		if op.Kind != LineRemoved {
			hunk.NewCount++
		}
	}
	return hunk
}
