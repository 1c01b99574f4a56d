package domain

// Color identifies one of the four fixed Ludo players, in turn order.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow
)

const (
	// NumPlayers is the fixed player count; the engine supports no other.
	NumPlayers = 4
	// NumTokens is the fixed token count per player.
	NumTokens = 4

	// Bench is the sentinel position for a token not yet in play.
	Bench = -1
	// LoopSize is the number of cells on the shared track.
	LoopSize = 52
	// HomeStart is the first cell of a player's private home stretch.
	HomeStart = 52
	// FinalSquare is the terminal cell; a token here has completed the course.
	FinalSquare = 58
)

var colorNames = [NumPlayers]string{"red", "green", "blue", "yellow"}

func (c Color) String() string {
	if c < 0 || c >= NumPlayers {
		return "unknown"
	}
	return colorNames[c]
}

// Next returns the color after c in fixed round-robin order.
func (c Color) Next() Color {
	return (c + 1) % NumPlayers
}

// ColorByName resolves a color from its lowercase name.
func ColorByName(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}

// startSquares maps each color to the shared-loop cell where its tokens enter.
var startSquares = [NumPlayers]int{0, 13, 26, 39}

// homeEntry is the per-color window of shared-loop values that redirect a
// token into its home stretch. The windows are a fixed table, not derived
// from the start squares: red's window overlaps the valid loop range only at
// cell 51, so red enters its stretch from that single cell while the other
// colors have a six-cell window. The asymmetry is part of the ruleset.
var homeEntry = [NumPlayers]struct{ First, Last int }{
	{51, 56},
	{12, 17},
	{25, 30},
	{38, 43},
}

// StartSquare returns the shared-loop entry cell for a color.
func StartSquare(c Color) int { return startSquares[c] }

// IsStartSquare reports whether pos is any player's start square. Start
// squares are safe from capture.
func IsStartSquare(pos int) bool {
	for _, s := range startSquares {
		if pos == s {
			return true
		}
	}
	return false
}

// OnBench reports whether a token at pos has not yet entered play.
func OnBench(pos int) bool { return pos == Bench }

// OnLoop reports whether pos is a shared-loop cell. Only loop cells are
// capturable.
func OnLoop(pos int) bool { return pos >= 0 && pos < LoopSize }

// InHomeStretch reports whether pos is inside a private home stretch.
func InHomeStretch(pos int) bool { return pos >= HomeStart && pos < FinalSquare }

// Finished reports whether a token at pos has completed the course.
func Finished(pos int) bool { return pos == FinalSquare }

// ValidPosition reports whether pos lies in one of the three legal domains:
// the bench sentinel, the shared loop, or the home stretch including the
// terminal cell.
func ValidPosition(pos int) bool {
	return pos == Bench || (pos >= 0 && pos <= FinalSquare)
}
