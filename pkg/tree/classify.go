package tree

// Classify resolves every Unresolved connector cell of grid and returns the
// classified copy. The input grid is not modified.
//
// Cells are visited row-major. For each connector cell (r, c) the first
// matching rule wins:
//
//   - Data to the right: Bend if nothing continues below at this column, or if
//     the run below at this column ends no later than the run one level
//     deeper; Fork otherwise.
//   - Gap or Bend above: Gap.
//   - Line or Fork above: Line.
//
// A Blank cell above counts as the connector it continues, see Continuation.
// A cell no rule resolves is recorded in Defects and drawn as Gap.
func Classify(grid Grid) Grid {
	out := grid.Clone()
	out.Defects = nil

	for row := range out.Rows {
		for col := range out.Rows[row] {
			if out.Rows[row][col].Kind != Unresolved {
				continue
			}
			kind, ok := out.resolve(row, col)
			if !ok {
				out.Defects = append(out.Defects, Position{Row: row, Col: col})
				kind = Gap
			}
			out.Rows[row][col] = Cell{Kind: kind}
		}
	}

	return out
}

// resolve applies the classification rules to a single connector cell.
func (g Grid) resolve(row, col int) (Kind, bool) {
	if g.Access(row, col+1) == Data {
		if g.shouldBend(row, col) {
			return Bend, true
		}
		return Fork, true
	}

	switch g.Continuation(row-1, col) {
	case Gap, Bend:
		return Gap, true
	case Line, Fork:
		return Line, true
	default:
		return Unresolved, false
	}
}

// shouldBend decides between Bend and Fork for a connector whose right
// neighbor is Data.
func (g Grid) shouldBend(row, col int) bool {
	if stopsRun(g.Access(row+1, col)) {
		return true
	}
	return g.runLength(row, col) <= g.runLength(row, col+1)
}

// runLength counts the rows below row whose cell at col continues the run,
// stopping at the first Data or OutOfBounds cell.
func (g Grid) runLength(row, col int) int {
	distance := 0
	for next := row + 1; next < len(g.Rows); next++ {
		if stopsRun(g.Access(next, col)) {
			break
		}
		distance++
	}
	return distance
}

func stopsRun(kind Kind) bool {
	return kind == Data || kind == OutOfBounds
}
