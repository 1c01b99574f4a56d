package app

import (
	"errors"
	"math/rand"
	"time"

	"ludo/internal/domain"
)

// Service contains Ludo use-cases operating on domain state. It owns the
// seedable dice source so that a fixed seed and action sequence reproduce a
// game exactly.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrSeatsUnfilled = errors.New("all four seats must be occupied to start")
	ErrGameNotActive = errors.New("no active game")
)

// StartGame initializes a new domain game for four occupied seats. Seat
// index doubles as the player color: seat 0 plays red, seat 3 yellow.
func (s *Service) StartGame(seats [domain.NumPlayers]string) (*domain.Game, []Event, error) {
	for _, userID := range seats {
		if userID == "" {
			return nil, nil, ErrSeatsUnfilled
		}
	}

	game := domain.NewGame()
	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Seats:     seats,
			FirstTurn: game.Current,
		},
	}}
	return game, events, nil
}

// RollDice draws a uniform dice value in [1,6] and records it as the game's
// last roll, making the legality mask current before the turn is applied.
func (s *Service) RollDice(game *domain.Game) int {
	roll := s.rng.Intn(6) + 1
	game.LastRoll = roll
	return roll
}

// TakeTurn applies one turn for the given color and translates the engine
// result into app events. Contract violations surface as engine errors;
// illegal-but-accepted submissions come back as a turn_passed event.
func (s *Service) TakeTurn(game *domain.Game, c domain.Color, action domain.Action, roll int) ([]Event, error) {
	if game == nil {
		return nil, ErrGameNotActive
	}

	events := []Event{{
		Kind:    EventDiceRolled,
		Payload: DiceRolledPayload{Seat: c, Roll: roll},
	}}

	res, err := game.ApplyTurn(c, action, roll)
	if err != nil {
		return nil, err
	}

	switch {
	case res.Moved < 0:
		events = append(events, Event{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: c, NextTurn: game.Current},
		})
	case action.Kind == domain.ActionEnter:
		events = append(events, Event{
			Kind: EventTokenEntered,
			Payload: TokenEnteredPayload{
				Seat:     c,
				Token:    res.Moved,
				Position: res.To,
				NextTurn: game.Current,
			},
		})
	default:
		events = append(events, Event{
			Kind: EventTokenMoved,
			Payload: TokenMovedPayload{
				Seat:     c,
				Token:    res.Moved,
				From:     res.From,
				To:       res.To,
				NextTurn: game.Current,
			},
		})
	}

	if res.Captured != nil {
		events = append(events, Event{
			Kind: EventTokenCaptured,
			Payload: TokenCapturedPayload{
				By:     c,
				Victim: res.Captured.Player,
				Token:  res.Captured.Token,
			},
		})
	}

	if res.Finished {
		events = append(events, Event{
			Kind:    EventTokenFinished,
			Payload: TokenFinishedPayload{Seat: c, Token: res.Moved},
		})
	}

	if res.Terminal {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				Winner: c,
				Scores: game.Scores,
			},
		})
	}

	return events, nil
}
