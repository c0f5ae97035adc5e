package schematic

// Gear is a '*' cell touching exactly two distinct numbers.
type Gear struct {
	Position Position  `json:"position"`
	Parts    [2]Number `json:"parts"`
	Ratio    uint64    `json:"ratio"`
}

// Gears lists every gear of the indexed grid in row-major order.
func Gears(x *Index) []Gear {
	var gears []Gear
	g := x.grid
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.RowWidth(row); col++ {
			if !IsGear(g.Cell(row, col)) {
				continue
			}
			adjacent := x.NumbersAdjacentTo(row, col)
			if len(adjacent) != 2 {
				continue
			}
			gears = append(gears, Gear{
				Position: Position{Row: row, Col: col},
				Parts:    [2]Number{adjacent[0], adjacent[1]},
				Ratio:    adjacent[0].Value * adjacent[1].Value,
			})
		}
	}
	return gears
}

// GearRatioSum adds up the ratio of every gear. A '*' touching zero, one, or
// three or more numbers contributes nothing.
func GearRatioSum(x *Index) uint64 {
	var sum uint64
	for _, gear := range Gears(x) {
		sum += gear.Ratio
	}
	return sum
}

// GearRatioSumOf is GearRatioSum over a freshly built index.
func GearRatioSumOf(g *Grid, numbers []Number) uint64 {
	return GearRatioSum(NewIndex(g, numbers))
}
