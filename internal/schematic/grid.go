package schematic

import "strings"

// Position addresses a single cell of a Grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is an immutable matrix of schematic characters. Rows may differ in
// length; every lookup clamps against the width of the row being visited.
type Grid struct {
	rows [][]rune
}

// Parse builds a Grid with one row per line of text. A single trailing line
// break does not produce an extra empty row, and "\r\n" endings are accepted.
func Parse(text string) *Grid {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return &Grid{}
	}

	lines := strings.Split(text, "\n")
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
	}
	return &Grid{rows: rows}
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return len(g.rows)
}

// RowWidth returns the number of cells in the given row.
func (g *Grid) RowWidth(row int) int {
	return len(g.rows[row])
}

// Cell returns the character at (row, col). Coordinates must be in bounds.
func (g *Grid) Cell(row, col int) rune {
	return g.rows[row][col]
}

// Neighborhood visits every in-bounds cell within Chebyshev distance 1 of the
// horizontal span [colStart, colEnd] on row, span cells included, in row-major
// order. Rows are clamped to the grid and columns to each visited row's own
// width. Iteration stops as soon as fn returns false.
func (g *Grid) Neighborhood(row, colStart, colEnd int, fn func(Position) bool) {
	for r := max(row-1, 0); r <= min(row+1, g.Height()-1); r++ {
		last := min(colEnd+1, g.RowWidth(r)-1)
		for c := max(colStart-1, 0); c <= last; c++ {
			if !fn(Position{Row: r, Col: c}) {
				return
			}
		}
	}
}

// String renders the grid back to its textual form.
func (g *Grid) String() string {
	var b strings.Builder
	for i, row := range g.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
