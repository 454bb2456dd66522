package fix

import "strings"

// Apply applies edits prepared with Prepare to document.
func Apply(document string, edits []TextEdit) string {
	if len(edits) == 0 {
		return document
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(len(document) + delta)

	cursor := 0
	for _, e := range edits {
		out.WriteString(document[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.WriteString(document[cursor:])

	return out.String()
}

// MapOffset moves a byte offset of the original document to the matching
// offset of the edited document. An offset inside a replaced range moves to
// the end of its replacement. Edits must be prepared with Prepare.
func MapOffset(offset int, edits []TextEdit) int {
	shift := 0
	for _, e := range edits {
		switch {
		case offset >= e.End:
			shift += e.Delta()
		case offset > e.Start:
			return e.Start + shift + len(e.NewText)
		default:
			return offset + shift
		}
	}
	return offset + shift
}
