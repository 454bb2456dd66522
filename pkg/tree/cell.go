// Package tree converts an indentation outline into a UNIX tree style diagram.
//
// The pipeline has four stages, each a pure function over values:
//
//  1. outline.ToLines splits raw text into leveled entries.
//  2. Build expands every entry into a row of unresolved connector cells
//     followed by one terminal cell.
//  3. Classify resolves every connector cell into Line, Fork, Bend or Gap.
//  4. Render concatenates the glyph of each cell into diagram text.
//
// RenderText runs all stages as one unit.
package tree

import "fmt"

// Kind classifies a grid cell.
type Kind int

const (
	// OutOfBounds is returned by access for positions outside the grid.
	// It never appears inside a grid.
	OutOfBounds Kind = iota

	// Unresolved marks a connector cell that has not been classified yet.
	Unresolved

	// Data is a terminal cell holding line content.
	Data

	// Blank is a terminal cell for a line without content.
	Blank

	// Line is a vertical bar: an open ancestor branch passes this row.
	Line

	// Fork is a branch with more siblings below it.
	Fork

	// Bend is the closing corner of the last child at its level.
	Bend

	// Gap is blank space under an already closed branch.
	Gap
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case OutOfBounds:
		return "OutOfBounds"
	case Unresolved:
		return "Unresolved"
	case Data:
		return "Data"
	case Blank:
		return "Blank"
	case Line:
		return "Line"
	case Fork:
		return "Fork"
	case Bend:
		return "Bend"
	case Gap:
		return "Gap"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true for Data and Blank.
func (k Kind) IsTerminal() bool {
	return k == Data || k == Blank
}

// IsConnector returns true for the four resolved connector kinds.
func (k Kind) IsConnector() bool {
	switch k {
	case Line, Fork, Bend, Gap:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind := OutOfBounds; kind <= Gap; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown cell kind %q", text)
}

// Cell is one position of the grid.
type Cell struct {
	Kind Kind `json:"kind"`

	// Payload holds the content of a Data cell. It is empty otherwise.
	Payload string `json:"payload,omitempty"`
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
