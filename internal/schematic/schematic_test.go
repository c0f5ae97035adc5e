package schematic

import "strings"

// exampleSchematic is the reference schematic from the puzzle statement.
const exampleSchematic = `467..114..
...*......
..35..633.
......#...
617*......
.....+.58.
..592.....
......755.
...$.*....
.664.598..`

// lines joins rows with line breaks so grids in tests read top to bottom.
func lines(rows ...string) string {
	return strings.Join(rows, "\n")
}
