package schematic

import "slices"

// Index answers adjacency questions between numbers and cells. It is built
// once from the output of Extract and never mutated.
type Index struct {
	grid    *Grid
	numbers []Number
	// owner maps every digit cell to the position of its number in numbers.
	owner map[Position]int
}

// NewIndex builds an Index over g and the numbers extracted from it.
func NewIndex(g *Grid, numbers []Number) *Index {
	owner := make(map[Position]int)
	for i, n := range numbers {
		for col := n.ColStart; col <= n.ColEnd; col++ {
			owner[Position{Row: n.Row, Col: col}] = i
		}
	}
	return &Index{grid: g, numbers: numbers, owner: owner}
}

// Build extracts the numbers of g and indexes them.
func Build(g *Grid) *Index {
	return NewIndex(g, Extract(g))
}

// Grid returns the indexed grid.
func (x *Index) Grid() *Grid {
	return x.grid
}

// Numbers returns the indexed numbers in extraction order.
func (x *Index) Numbers() []Number {
	return x.numbers
}

// SymbolsAdjacentTo returns the positions of every symbol touching any digit
// of n, each once, in row-major order.
func (x *Index) SymbolsAdjacentTo(n Number) []Position {
	var out []Position
	x.grid.Neighborhood(n.Row, n.ColStart, n.ColEnd, func(p Position) bool {
		if Classify(x.grid.Cell(p.Row, p.Col)) == Symbol {
			out = append(out, p)
		}
		return true
	})
	return out
}

// HasAdjacentSymbol reports whether any symbol touches a digit of n.
func (x *Index) HasAdjacentSymbol(n Number) bool {
	found := false
	x.grid.Neighborhood(n.Row, n.ColStart, n.ColEnd, func(p Position) bool {
		found = Classify(x.grid.Cell(p.Row, p.Col)) == Symbol
		return !found
	})
	return found
}

// NumbersAdjacentTo returns the distinct numbers with at least one digit
// within Chebyshev distance 1 of (row, col). Numbers are deduplicated by ID,
// so a number touching the cell with several digits is returned once.
func (x *Index) NumbersAdjacentTo(row, col int) []Number {
	var out []Number
	x.grid.Neighborhood(row, col, col, func(p Position) bool {
		i, ok := x.owner[p]
		if !ok {
			return true
		}
		n := x.numbers[i]
		if !slices.ContainsFunc(out, func(o Number) bool { return o.ID() == n.ID() }) {
			out = append(out, n)
		}
		return true
	})
	return out
}
