package schematic

// Number is a maximal horizontal run of digits on one row. ColStart and
// ColEnd are inclusive.
type Number struct {
	Value    uint64 `json:"value"`
	Row      int    `json:"row"`
	ColStart int    `json:"col_start"`
	ColEnd   int    `json:"col_end"`
}

// ID is the spatial identity of the number. Two numbers may share a value but
// never a starting cell.
func (n Number) ID() Position {
	return Position{Row: n.Row, Col: n.ColStart}
}

// Len returns the number of digits in the run.
func (n Number) Len() int {
	return n.ColEnd - n.ColStart + 1
}

// Extract returns every digit run of g in row-major, left-to-right order.
// Values accumulate in base 10 and wrap on uint64 overflow.
func Extract(g *Grid) []Number {
	var numbers []Number
	for row := 0; row < g.Height(); row++ {
		width := g.RowWidth(row)
		for col := 0; col < width; col++ {
			if Classify(g.Cell(row, col)) != Digit {
				continue
			}
			if col > 0 && Classify(g.Cell(row, col-1)) == Digit {
				continue
			}

			n := Number{Row: row, ColStart: col}
			for col < width && Classify(g.Cell(row, col)) == Digit {
				n.Value = n.Value*10 + uint64(g.Cell(row, col)-'0')
				n.ColEnd = col
				col++
			}
			numbers = append(numbers, n)
		}
	}
	return numbers
}
