package app

import "ludo/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventGameStarted   EventKind = "game_started"
	EventDiceRolled    EventKind = "dice_rolled"
	EventTokenEntered  EventKind = "token_entered"
	EventTokenMoved    EventKind = "token_moved"
	EventTokenCaptured EventKind = "token_captured"
	EventTokenFinished EventKind = "token_finished"
	EventTurnPassed    EventKind = "turn_passed"
	EventGameEnded     EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   int
	Owner  bool
}

type PlayerLeftPayload struct {
	UserID string
}

type GameStartedPayload struct {
	Seats     [domain.NumPlayers]string
	FirstTurn domain.Color
}

type DiceRolledPayload struct {
	Seat domain.Color
	Roll int
}

type TokenEnteredPayload struct {
	Seat     domain.Color
	Token    int
	Position int
	NextTurn domain.Color
}

type TokenMovedPayload struct {
	Seat     domain.Color
	Token    int
	From     int
	To       int
	NextTurn domain.Color
}

type TokenCapturedPayload struct {
	By     domain.Color
	Victim domain.Color
	Token  int
}

type TokenFinishedPayload struct {
	Seat  domain.Color
	Token int
}

// TurnPassedPayload is emitted when a submitted action degraded to a no-op
// and the turn was consumed without moving a token.
type TurnPassedPayload struct {
	Seat     domain.Color
	NextTurn domain.Color
}

type GameEndedPayload struct {
	Winner domain.Color
	Scores [domain.NumPlayers]int
}
