package chart

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal placement of a column's cells.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column. An empty Title leaves the title cell
// blank.
type Column struct {
	Title string
	Align Align
}

// Table lays rows out in columns joined by gap, sized by terminal cell width.
// The title row is emitted only when at least one column has a title, and
// trailing blanks are trimmed from every line.
func Table(cols []Column, rows [][]string, gap string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	titled := false
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.Title)
		titled = titled || c.Title != ""
	}
	for _, row := range rows {
		for i := range cols {
			if w := runewidth.StringWidth(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if titled {
		titles := make([]string, len(cols))
		for i, c := range cols {
			titles[i] = c.Title
		}
		lines = append(lines, layoutRow(cols, widths, titles, gap))
	}
	for _, row := range rows {
		lines = append(lines, layoutRow(cols, widths, row, gap))
	}
	return lines
}

func layoutRow(cols []Column, widths []int, row []string, gap string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		v := cell(row, i)
		pad := strings.Repeat(" ", max(widths[i]-runewidth.StringWidth(v), 0))
		if c.Align == AlignRight {
			parts[i] = pad + v
		} else {
			parts[i] = v + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, gap), " ")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
