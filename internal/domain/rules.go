package domain

import (
	"errors"
	"fmt"
)

// Rewards granted by ApplyTurn.
const (
	// CaptureReward is earned for sending an opposing token to the bench.
	CaptureReward = 1
	// FinishReward is earned for landing a token on the terminal cell.
	FinishReward = 2
)

var (
	// ErrNotYourTurn reports an ApplyTurn call for a color other than the
	// current turn-holder. Acting out of turn is a caller contract
	// violation, never a silently accepted turn.
	ErrNotYourTurn = errors.New("not this player's turn")
	// ErrGameOver reports an ApplyTurn call after the game has ended.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidRoll reports a dice value outside [1,6].
	ErrInvalidRoll = errors.New("dice roll outside [1,6]")
	// ErrInvalidToken reports a move action naming a token index outside [0,3].
	ErrInvalidToken = errors.New("token index outside [0,3]")
)

// Capture identifies an opposing token sent back to the bench.
type Capture struct {
	Player Color
	Token  int
}

// TurnResult reports the outcome of one applied turn.
type TurnResult struct {
	// Reward is the acting player's immediate reward for this turn:
	// CaptureReward for a capture plus FinishReward for finishing a token.
	Reward int
	// Captured is the opposing token captured this turn, if any.
	Captured *Capture
	// Moved is the token index that entered or moved, or -1 for a no-op turn.
	Moved int
	// From and To are the moved token's positions before and after the turn.
	From, To int
	// Finished reports whether the moved token reached FinalSquare.
	Finished bool
	// Terminal reports whether this turn ended the game.
	Terminal bool
}

// ApplyTurn advances the game by one turn for color c choosing action a with
// dice roll roll. Illegal submissions (entering without a six or with no
// bench token, moving a token still on the bench) are not errors: they
// consume the turn as no-ops and play passes on. Errors are reserved for
// contract violations: acting out of turn, acting after the game ended, or
// malformed inputs.
func (g *Game) ApplyTurn(c Color, a Action, roll int) (TurnResult, error) {
	if g.Terminal() {
		return TurnResult{Moved: -1, Terminal: true}, ErrGameOver
	}
	if c != g.Current {
		return TurnResult{Moved: -1}, ErrNotYourTurn
	}
	if roll < 1 || roll > 6 {
		return TurnResult{Moved: -1}, ErrInvalidRoll
	}
	if a.Kind == ActionMove && (a.Token < 0 || a.Token >= NumTokens) {
		return TurnResult{Moved: -1}, ErrInvalidToken
	}

	g.LastRoll = roll
	res := TurnResult{Moved: -1, From: Bench, To: Bench}

	switch a.Kind {
	case ActionEnter:
		if roll == 6 {
			for t := 0; t < NumTokens; t++ {
				if g.Board[c][t] == Bench {
					g.Board[c][t] = startSquares[c]
					res.Moved = t
					res.To = startSquares[c]
					break
				}
			}
		}
	case ActionMove:
		pos := g.Board[c][a.Token]
		if pos != Bench {
			next := advance(pos, roll, c)
			if !ValidPosition(next) {
				panic(fmt.Sprintf("ludo: token advanced to invalid position %d (from %d, roll %d)", next, pos, roll))
			}
			g.Board[c][a.Token] = next
			res.Moved = a.Token
			res.From = pos
			res.To = next
			if captured := g.resolveCapture(c, next); captured != nil {
				res.Captured = captured
				res.Reward += CaptureReward
			}
			if next == FinalSquare {
				res.Finished = true
				res.Reward += FinishReward
			}
		}
	}

	g.Scores[c] += res.Reward

	if g.anyPlayerFinished() {
		for p := range g.Done {
			g.Done[p] = true
		}
		res.Terminal = true
		return res, nil
	}

	// Round-robin advance; done players are never skipped because the flags
	// only flip all at once, at which point the pointer stops moving.
	g.Current = g.Current.Next()
	return res, nil
}

// advance computes a token's new position from pos by roll steps for color c.
// Three domains: modular arithmetic on the shared loop with a window test for
// home entry, saturating addition inside the home stretch, and no movement
// once a token sits on the last stretch cell or the terminal cell.
func advance(pos, roll int, c Color) int {
	switch {
	case pos < LoopSize:
		candidate := (pos + roll) % LoopSize
		w := homeEntry[c]
		if candidate >= w.First && candidate <= w.Last {
			return HomeStart + (candidate - w.First)
		}
		return candidate
	case pos < FinalSquare-1:
		return min(pos+roll, FinalSquare)
	default:
		return pos
	}
}

// resolveCapture sends back the first opposing token found on a shared-loop
// landing cell. Start squares are safe and home stretches are private, so
// neither is ever checked. At most one token is captured per landing even
// when several opponents share the cell; the scan stops at the first hit.
func (g *Game) resolveCapture(mover Color, pos int) *Capture {
	if !OnLoop(pos) || IsStartSquare(pos) {
		return nil
	}
	for p := 0; p < NumPlayers; p++ {
		if Color(p) == mover {
			continue
		}
		for t := 0; t < NumTokens; t++ {
			if g.Board[p][t] == pos {
				g.Board[p][t] = Bench
				return &Capture{Player: Color(p), Token: t}
			}
		}
	}
	return nil
}

// anyPlayerFinished reports whether any single player has all four tokens on
// the terminal cell. The game ends for everyone the moment this holds.
func (g *Game) anyPlayerFinished() bool {
	for p := 0; p < NumPlayers; p++ {
		done := true
		for t := 0; t < NumTokens; t++ {
			if g.Board[p][t] != FinalSquare {
				done = false
				break
			}
		}
		if done {
			return true
		}
	}
	return false
}
