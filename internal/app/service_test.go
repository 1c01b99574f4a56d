package app

import (
	"errors"
	"math/rand"
	"testing"

	"ludo/internal/domain"
)

func fullSeats() [domain.NumPlayers]string {
	return [domain.NumPlayers]string{"u1", "u2", "u3", "u4"}
}

func TestStartGameRequiresFullSeats(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))

	_, _, err := svc.StartGame([domain.NumPlayers]string{"u1", "", "u3", "u4"})
	if !errors.Is(err, ErrSeatsUnfilled) {
		t.Fatalf("err = %v, want %v", err, ErrSeatsUnfilled)
	}
}

func TestStartGameEmitsGameStarted(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))

	game, evs, err := svc.StartGame(fullSeats())
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}
	if game.Current != domain.Red {
		t.Fatalf("first turn = %s, want red", game.Current)
	}
	if len(evs) != 1 || evs[0].Kind != EventGameStarted {
		t.Fatalf("events = %+v, want a single game_started", evs)
	}
	payload := evs[0].Payload.(GameStartedPayload)
	if payload.FirstTurn != domain.Red || payload.Seats != fullSeats() {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestRollDiceIsSeededAndBounded(t *testing.T) {
	a := NewService(rand.New(rand.NewSource(42)))
	b := NewService(rand.New(rand.NewSource(42)))
	ga, gb := domain.NewGame(), domain.NewGame()

	for i := 0; i < 100; i++ {
		ra := a.RollDice(ga)
		rb := b.RollDice(gb)
		if ra != rb {
			t.Fatalf("roll %d: %d != %d for identical seeds", i, ra, rb)
		}
		if ra < 1 || ra > 6 {
			t.Fatalf("roll %d out of range: %d", i, ra)
		}
		if ga.LastRoll != ra {
			t.Fatalf("last roll not recorded: %d != %d", ga.LastRoll, ra)
		}
	}
}

func TestTakeTurnEnterEventFlow(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, err := svc.StartGame(fullSeats())
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}

	evs, err := svc.TakeTurn(game, domain.Red, domain.EnterAction(), 6)
	if err != nil {
		t.Fatalf("take turn error: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("events = %+v, want dice_rolled + token_entered", evs)
	}
	if evs[0].Kind != EventDiceRolled {
		t.Fatalf("first event = %s, want dice_rolled", evs[0].Kind)
	}
	roll := evs[0].Payload.(DiceRolledPayload)
	if roll.Seat != domain.Red || roll.Roll != 6 {
		t.Fatalf("dice payload = %+v", roll)
	}
	entered := evs[1].Payload.(TokenEnteredPayload)
	if entered.Token != 0 || entered.Position != domain.StartSquare(domain.Red) || entered.NextTurn != domain.Green {
		t.Fatalf("entered payload = %+v", entered)
	}
}

func TestTakeTurnNoOpEmitsTurnPassed(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, _ := svc.StartGame(fullSeats())

	evs, err := svc.TakeTurn(game, domain.Red, domain.EnterAction(), 3)
	if err != nil {
		t.Fatalf("take turn error: %v", err)
	}
	if len(evs) != 2 || evs[1].Kind != EventTurnPassed {
		t.Fatalf("events = %+v, want dice_rolled + turn_passed", evs)
	}
	passed := evs[1].Payload.(TurnPassedPayload)
	if passed.Seat != domain.Red || passed.NextTurn != domain.Green {
		t.Fatalf("passed payload = %+v", passed)
	}
}

func TestTakeTurnCaptureEvent(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, _ := svc.StartGame(fullSeats())
	game.Board[domain.Red][0] = 1
	game.Board[domain.Blue][2] = 5

	evs, err := svc.TakeTurn(game, domain.Red, domain.MoveAction(0), 4)
	if err != nil {
		t.Fatalf("take turn error: %v", err)
	}

	var captured *TokenCapturedPayload
	for _, ev := range evs {
		if ev.Kind == EventTokenCaptured {
			p := ev.Payload.(TokenCapturedPayload)
			captured = &p
		}
	}
	if captured == nil {
		t.Fatalf("no token_captured event in %+v", evs)
	}
	if captured.By != domain.Red || captured.Victim != domain.Blue || captured.Token != 2 {
		t.Fatalf("captured payload = %+v", captured)
	}
}

func TestTakeTurnFinishAndGameEnd(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, _ := svc.StartGame(fullSeats())
	game.Board[domain.Red] = [domain.NumTokens]int{domain.FinalSquare, domain.FinalSquare, domain.FinalSquare, 55}

	evs, err := svc.TakeTurn(game, domain.Red, domain.MoveAction(3), 3)
	if err != nil {
		t.Fatalf("take turn error: %v", err)
	}

	kinds := map[EventKind]bool{}
	for _, ev := range evs {
		kinds[ev.Kind] = true
	}
	for _, want := range []EventKind{EventDiceRolled, EventTokenMoved, EventTokenFinished, EventGameEnded} {
		if !kinds[want] {
			t.Fatalf("missing %s in %+v", want, evs)
		}
	}

	for _, ev := range evs {
		if ev.Kind != EventGameEnded {
			continue
		}
		payload := ev.Payload.(GameEndedPayload)
		if payload.Winner != domain.Red {
			t.Fatalf("winner = %s, want red", payload.Winner)
		}
		if payload.Scores[domain.Red] != domain.FinishReward {
			t.Fatalf("red score = %d, want %d", payload.Scores[domain.Red], domain.FinishReward)
		}
	}
}

func TestTakeTurnPropagatesContractErrors(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, _ := svc.StartGame(fullSeats())

	if _, err := svc.TakeTurn(game, domain.Blue, domain.EnterAction(), 6); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Fatalf("err = %v, want %v", err, domain.ErrNotYourTurn)
	}
	if _, err := svc.TakeTurn(nil, domain.Red, domain.EnterAction(), 6); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("err = %v, want %v", err, ErrGameNotActive)
	}
}
