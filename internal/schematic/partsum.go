package schematic

// PartSum adds up the value of every number touching at least one symbol.
func PartSum(x *Index) uint64 {
	var sum uint64
	for _, n := range x.numbers {
		if x.HasAdjacentSymbol(n) {
			sum += n.Value
		}
	}
	return sum
}

// PartNumbers returns the numbers that PartSum counts, in extraction order.
func PartNumbers(x *Index) []Number {
	var parts []Number
	for _, n := range x.numbers {
		if x.HasAdjacentSymbol(n) {
			parts = append(parts, n)
		}
	}
	return parts
}

// PartSumOf is PartSum over a freshly built index.
func PartSumOf(g *Grid, numbers []Number) uint64 {
	return PartSum(NewIndex(g, numbers))
}
