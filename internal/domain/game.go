package domain

// Game holds the authoritative board and turn state for one Ludo match.
// It is mutated exclusively by ApplyTurn; all randomness (the dice roll)
// arrives as an explicit input, keeping transitions deterministic.
type Game struct {
	// Board maps color x token index to a position: Bench, a shared-loop
	// cell [0,51], a home-stretch cell [52,57] or FinalSquare. Token
	// indices carry no identity beyond their slot.
	Board [NumPlayers][NumTokens]int

	// Current is the color whose turn it is.
	Current Color
	// LastRoll is the most recent dice roll, 0 before the first roll.
	LastRoll int
	// Done flags every player once any single player finishes all four
	// tokens. The flags flip together.
	Done [NumPlayers]bool
	// Scores accumulates per-player rewards across the game.
	Scores [NumPlayers]int
}

// NewGame returns a freshly reset game: all tokens on the bench, red to
// move, no roll drawn yet.
func NewGame() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset re-initializes the game in place, discarding all prior state.
func (g *Game) Reset() {
	for p := 0; p < NumPlayers; p++ {
		for t := 0; t < NumTokens; t++ {
			g.Board[p][t] = Bench
		}
		g.Done[p] = false
		g.Scores[p] = 0
	}
	g.Current = Red
	g.LastRoll = 0
}

// Snapshot returns a copy of the board mapping. Arrays copy by value, so
// callers cannot mutate engine state through the snapshot.
func (g *Game) Snapshot() [NumPlayers][NumTokens]int {
	return g.Board
}

// Terminal reports whether the game has ended. Done flags are set for all
// players simultaneously, so checking one is checking all.
func (g *Game) Terminal() bool {
	return g.Done[0]
}

// BenchCount returns how many of a color's tokens are still on the bench.
func (g *Game) BenchCount(c Color) int {
	n := 0
	for t := 0; t < NumTokens; t++ {
		if g.Board[c][t] == Bench {
			n++
		}
	}
	return n
}

// ActionMask computes, for the given color and the last drawn roll, the
// legality of each of the five actions (index 0 = enter, 1..4 = move token).
// Entering requires a six and a bench token; a move requires the token to be
// on the board with its position at most FinalSquare minus the roll, so the
// advance cannot overshoot the terminal cell. The mask is advisory:
// ApplyTurn independently degrades illegal submissions to no-ops.
func (g *Game) ActionMask(c Color) [NumActions]bool {
	var mask [NumActions]bool
	if g.LastRoll == 6 && g.BenchCount(c) > 0 {
		mask[0] = true
	}
	for t := 0; t < NumTokens; t++ {
		pos := g.Board[c][t]
		if pos >= 0 && pos <= FinalSquare-g.LastRoll {
			mask[t+1] = true
		}
	}
	return mask
}

// LegalActions lists the actions the mask marks legal, in index order.
func (g *Game) LegalActions(c Color) []Action {
	mask := g.ActionMask(c)
	actions := make([]Action, 0, NumActions)
	for i, legal := range mask {
		if !legal {
			continue
		}
		a, err := ActionFromIndex(i)
		if err != nil {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}
