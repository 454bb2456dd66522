package pretty

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/rtn/pkg/dirnav"
)

// LinkRow is one row of a link table.
type LinkRow struct {
	Path string
	Link dirnav.Link
}

// Link table status column values.
const (
	statusValid  = "ok"
	statusBroken = "broken"
)

// FormatLinkTable formats links as a bordered table with one row per link.
// It returns the empty string for no rows.
func (s *Styles) FormatLinkTable(rows []LinkRow) string {
	if len(rows) == 0 {
		return ""
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		Headers("FILE", "LOC", "ADDRESS", "TARGET", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader.Inherit(cell)
			}
			if row < 0 || row >= len(rows) {
				return cell
			}
			link := rows[row].Link
			switch {
			case col == 2 && link.Valid:
				return s.Link.Inherit(cell)
			case col == 2, col == 4 && !link.Valid:
				return s.BrokenLink.Inherit(cell)
			default:
				return cell
			}
		})

	for _, row := range rows {
		target := "-"
		status := statusBroken
		if row.Link.Valid {
			target = strconv.Itoa(row.Link.Target + 1)
			status = statusValid
		}
		t.Row(
			row.Path,
			fmt.Sprintf("%d:%d", row.Link.Line+1, row.Link.Start+1),
			row.Link.Address,
			target,
			status,
		)
	}

	return t.String() + "\n"
}
