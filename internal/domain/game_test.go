package domain

import "testing"

func TestNewGameState(t *testing.T) {
	g := NewGame()

	for p := 0; p < NumPlayers; p++ {
		for tok := 0; tok < NumTokens; tok++ {
			if g.Board[p][tok] != Bench {
				t.Fatalf("player %s token %d = %d, want bench", Color(p), tok, g.Board[p][tok])
			}
		}
		if g.Done[p] {
			t.Fatalf("player %s done at reset", Color(p))
		}
		if g.Scores[p] != 0 {
			t.Fatalf("player %s score = %d, want 0", Color(p), g.Scores[p])
		}
	}
	if g.Current != Red {
		t.Fatalf("current = %s, want red", g.Current)
	}
	if g.LastRoll != 0 {
		t.Fatalf("last roll = %d, want 0", g.LastRoll)
	}
	if g.Terminal() {
		t.Fatalf("fresh game should not be terminal")
	}
}

func TestResetDiscardsPriorState(t *testing.T) {
	g := NewGame()
	g.Board[Blue][2] = 17
	g.Scores[Blue] = 3
	g.Current = Yellow
	g.LastRoll = 5
	g.Done = [NumPlayers]bool{true, true, true, true}

	g.Reset()

	if g.Board[Blue][2] != Bench || g.Scores[Blue] != 0 || g.Current != Red || g.LastRoll != 0 || g.Terminal() {
		t.Fatalf("reset left prior state behind: %+v", g)
	}
}

func TestActionMask(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Game)
		color Color
		roll  int
		want  [NumActions]bool
	}{
		{
			name:  "fresh board with a six allows enter only",
			setup: func(g *Game) {},
			color: Red,
			roll:  6,
			want:  [NumActions]bool{true, false, false, false, false},
		},
		{
			name:  "fresh board without a six allows nothing",
			setup: func(g *Game) {},
			color: Red,
			roll:  4,
			want:  [NumActions]bool{false, false, false, false, false},
		},
		{
			name: "enter stays legal while bench tokens remain",
			setup: func(g *Game) {
				g.Board[Red][0] = StartSquare(Red)
			},
			color: Red,
			roll:  6,
			want:  [NumActions]bool{true, true, false, false, false},
		},
		{
			name: "enter goes illegal once the bench empties",
			setup: func(g *Game) {
				for i := 0; i < NumTokens; i++ {
					g.Board[Green][i] = 14 + i
				}
			},
			color: Green,
			roll:  6,
			want:  [NumActions]bool{false, true, true, true, true},
		},
		{
			name: "overshoot past the terminal cell is masked out",
			setup: func(g *Game) {
				g.Board[Blue][0] = 57
				g.Board[Blue][1] = 56
			},
			color: Blue,
			roll:  2,
			want:  [NumActions]bool{false, false, true, false, false},
		},
		{
			// The mask permits selecting the frozen last stretch cell with a
			// one; the move itself is stationary (see TestAdvance).
			name: "frozen last stretch cell stays selectable",
			setup: func(g *Game) {
				g.Board[Blue][0] = 57
			},
			color: Blue,
			roll:  1,
			want:  [NumActions]bool{false, true, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame()
			tt.setup(g)
			g.LastRoll = tt.roll
			if got := g.ActionMask(tt.color); got != tt.want {
				t.Fatalf("mask = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLegalActionsMatchesMask(t *testing.T) {
	g := NewGame()
	g.Board[Red][0] = 10
	g.Board[Red][1] = 20
	g.LastRoll = 6

	actions := g.LegalActions(Red)
	want := []Action{EnterAction(), MoveAction(0), MoveAction(1)}
	if len(actions) != len(want) {
		t.Fatalf("legal actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("legal actions[%d] = %v, want %v", i, actions[i], want[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	g := NewGame()
	g.Board[Yellow][1] = 40

	snap := g.Snapshot()
	snap[Yellow][1] = 3

	if g.Board[Yellow][1] != 40 {
		t.Fatalf("snapshot mutation reached engine state")
	}
}

func TestActionIndexRoundTrip(t *testing.T) {
	for i := 0; i < NumActions; i++ {
		a, err := ActionFromIndex(i)
		if err != nil {
			t.Fatalf("decode index %d: %v", i, err)
		}
		if a.Index() != i {
			t.Fatalf("index round trip: %d -> %v -> %d", i, a, a.Index())
		}
	}
	if _, err := ActionFromIndex(5); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
	if _, err := ActionFromIndex(-1); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestColorByName(t *testing.T) {
	for p := 0; p < NumPlayers; p++ {
		c, ok := ColorByName(Color(p).String())
		if !ok || c != Color(p) {
			t.Fatalf("ColorByName(%q) = %v, %v", Color(p).String(), c, ok)
		}
	}
	if _, ok := ColorByName("purple"); ok {
		t.Fatalf("unexpected color for %q", "purple")
	}
}
