package tree

import "strings"

// Render flattens a classified grid into diagram text. Rows are joined by LF
// without a trailing newline. A Blank cell draws the connector it continues
// from above, so open branches stay visible through empty lines.
func Render(grid Grid, glyphs Glyphs) string {
	var sb strings.Builder
	for i := range grid.Rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeRow(&sb, grid, i, glyphs)
	}
	return sb.String()
}

// RenderRow flattens row index row of grid.
func RenderRow(grid Grid, row int, glyphs Glyphs) string {
	var sb strings.Builder
	writeRow(&sb, grid, row, glyphs)
	return sb.String()
}

func writeRow(sb *strings.Builder, grid Grid, row int, glyphs Glyphs) {
	for col, cell := range grid.Rows[row] {
		switch cell.Kind {
		case Data:
			sb.WriteString(cell.Payload)
		case Blank:
			sb.WriteString(glyphs.ForBlank(grid.Continuation(row, col)))
		default:
			sb.WriteString(glyphs.For(cell.Kind))
		}
	}
}
