package fix

import (
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the document.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Validate checks that every edit range lies within a document of length
// size.
func Validate(edits []TextEdit, size int) error {
	for _, edit := range edits {
		switch {
		case edit.Start < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.End < edit.Start:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.End > size:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds document length %d", edit.End, size),
			}
		}
	}
	return nil
}

// Prepare validates edits, sorts a copy of them by position and rejects
// overlapping ranges. Two insertions at the same offset keep their order.
func Prepare(edits []TextEdit, size int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := Validate(edits, size); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}

	return sorted, nil
}
