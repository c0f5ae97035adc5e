package schematic

// Kind classifies a single grid character.
type Kind int

const (
	Filler Kind = iota
	Digit
	Symbol
)

// FillerRune marks an empty cell.
const FillerRune = '.'

// GearRune marks a gear candidate.
const GearRune = '*'

func (k Kind) String() string {
	switch k {
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	default:
		return "filler"
	}
}

// Classify reports whether r is a digit, the filler character, or a symbol.
// Anything that is neither an ASCII digit nor '.' is a symbol.
func Classify(r rune) Kind {
	switch {
	case r >= '0' && r <= '9':
		return Digit
	case r == FillerRune:
		return Filler
	default:
		return Symbol
	}
}

// IsGear reports whether r is a gear candidate.
func IsGear(r rune) bool {
	return r == GearRune
}
