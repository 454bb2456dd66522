package tree

import "github.com/yaklabco/rtn/pkg/outline"

// Grid is a ragged matrix of cells: one row per line, each row as wide as
// that line's level plus one.
type Grid struct {
	Rows [][]Cell `json:"rows"`

	// Defects lists connector cells that no classification rule resolved.
	// They are drawn as Gap.
	Defects []Position `json:"defects,omitempty"`
}

// Build expands entries into an unclassified grid. Each row holds Level
// Unresolved cells followed by exactly one terminal cell.
func Build(entries []outline.Entry) Grid {
	rows := make([][]Cell, len(entries))
	for i, entry := range entries {
		row := make([]Cell, entry.Level+1)
		for col := range entry.Level {
			row[col] = Cell{Kind: Unresolved}
		}
		if entry.Content == "" {
			row[entry.Level] = Cell{Kind: Blank}
		} else {
			row[entry.Level] = Cell{Kind: Data, Payload: entry.Content}
		}
		rows[i] = row
	}
	return Grid{Rows: rows}
}

// Access returns the kind of the cell at (row, col), or OutOfBounds if the
// row does not exist or is narrower than col+1 cells.
func (g Grid) Access(row, col int) Kind {
	if row < 0 || col < 0 || row >= len(g.Rows) {
		return OutOfBounds
	}
	if col >= len(g.Rows[row]) {
		return OutOfBounds
	}
	return g.Rows[row][col].Kind
}

// Continuation returns the connector a Blank cell at (row, col) carries: Line
// under Line or Fork, Gap under Gap or Bend. Blank cells above are followed
// upward. It returns Blank when nothing above carries on, and the kind of
// any cell that is not Blank.
func (g Grid) Continuation(row, col int) Kind {
	kind := g.Access(row, col)
	if kind != Blank {
		return kind
	}
	for above := row - 1; above >= 0; above-- {
		switch g.Access(above, col) {
		case Blank:
			continue
		case Line, Fork:
			return Line
		case Gap, Bend:
			return Gap
		default:
			return Blank
		}
	}
	return Blank
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	rows := make([][]Cell, len(g.Rows))
	for i, row := range g.Rows {
		rows[i] = append([]Cell(nil), row...)
	}
	var defects []Position
	if len(g.Defects) > 0 {
		defects = append(defects, g.Defects...)
	}
	return Grid{Rows: rows, Defects: defects}
}

// Kinds returns the kind matrix of the grid, convenient for comparisons.
func (g Grid) Kinds() [][]Kind {
	kinds := make([][]Kind, len(g.Rows))
	for i, row := range g.Rows {
		kinds[i] = make([]Kind, len(row))
		for j, cell := range row {
			kinds[i][j] = cell.Kind
		}
	}
	return kinds
}

// Level returns the level of row, which is its width minus one.
func (g Grid) Level(row int) int {
	if row < 0 || row >= len(g.Rows) {
		return -1
	}
	return len(g.Rows[row]) - 1
}
