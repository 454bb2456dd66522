// Package fix computes and applies byte-range edits to outline documents.
//
// Keystroke edits from an edit buffer and normalization edits from Normalize
// both go through Prepare and Apply, so an edit is validated against the
// document before any byte is changed.
package fix

// TextEdit replaces the bytes [Start, End) of a document with NewText.
type TextEdit struct {
	// Start is the byte index where the edit begins (inclusive).
	Start int `json:"start"`

	// End is the byte index where the edit ends (exclusive).
	End int `json:"end"`

	// NewText is the replacement text.
	NewText string `json:"newText"`

	// Reason names the normalization that produced the edit.
	Reason string `json:"reason,omitempty"`
}

// Replace returns an edit replacing [start, end) with text.
func Replace(start, end int, text string) TextEdit {
	return TextEdit{Start: start, End: end, NewText: text}
}

// Insert returns an edit inserting text at offset.
func Insert(offset int, text string) TextEdit {
	return Replace(offset, offset, text)
}

// Delete returns an edit removing [start, end).
func Delete(start, end int) TextEdit {
	return Replace(start, end, "")
}

// Delta returns the change in document length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.End - e.Start)
}
