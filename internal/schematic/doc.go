// Package schematic implements the engine that reads an engine schematic: a
// grid of digits, filler cells ('.') and symbols. It extracts every horizontal
// digit run as a Number exactly once, indexes which cells each number covers,
// and answers two questions against that immutable snapshot: the sum of all
// part numbers (numbers touching any symbol) and the sum of gear ratios
// (products of the two numbers around each '*' that touches exactly two).
//
// Adjacency is the 8-connected Chebyshev-1 neighbourhood, evaluated over the
// whole span of a number. All neighbourhood clamping lives in
// Grid.Neighborhood; callers never index cells outside the grid.
//
// Grid, the extracted Numbers and Index are read-only once built, so the
// calculators can be run concurrently against the same Index.
package schematic
