package nakama

import (
	"ludo/internal/app"
	"ludo/internal/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

// TakeTurnRequest is the client payload for OpTakeTurn. The action uses the
// flat agent-facing index: 0 = enter from bench, 1..4 = move token index-1.
type TakeTurnRequest struct {
	Action int `json:"action"`
}

// Label is the match listing payload advertised to the matchmaker.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// Wire DTOs for broadcast events. Seats are color indices 0..3 in fixed
// red/green/blue/yellow order.

type wirePlayerJoined struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type wirePlayerLeft struct {
	UserID string `json:"user_id"`
}

type wireGameStarted struct {
	Seats     []string `json:"seats"`
	FirstTurn int      `json:"first_turn"`
}

type wireDiceRolled struct {
	Seat int `json:"seat"`
	Roll int `json:"roll"`
}

type wireTokenEntered struct {
	Seat     int `json:"seat"`
	Token    int `json:"token"`
	Position int `json:"position"`
	NextTurn int `json:"next_turn"`
}

type wireTokenMoved struct {
	Seat     int `json:"seat"`
	Token    int `json:"token"`
	From     int `json:"from"`
	To       int `json:"to"`
	NextTurn int `json:"next_turn"`
}

type wireTokenCaptured struct {
	By     int `json:"by"`
	Victim int `json:"victim"`
	Token  int `json:"token"`
}

type wireTokenFinished struct {
	Seat  int `json:"seat"`
	Token int `json:"token"`
}

type wireTurnPassed struct {
	Seat     int `json:"seat"`
	NextTurn int `json:"next_turn"`
}

type wireGameEnded struct {
	Winner int   `json:"winner"`
	Scores []int `json:"scores"`
}

type wireGameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toWirePayload maps an app event payload to its wire DTO.
func toWirePayload(ev app.Event) any {
	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		return wirePlayerJoined{UserID: p.UserID, Seat: p.Seat, Owner: p.Owner}
	case app.PlayerLeftPayload:
		return wirePlayerLeft{UserID: p.UserID}
	case app.GameStartedPayload:
		return wireGameStarted{Seats: p.Seats[:], FirstTurn: int(p.FirstTurn)}
	case app.DiceRolledPayload:
		return wireDiceRolled{Seat: int(p.Seat), Roll: p.Roll}
	case app.TokenEnteredPayload:
		return wireTokenEntered{Seat: int(p.Seat), Token: p.Token, Position: p.Position, NextTurn: int(p.NextTurn)}
	case app.TokenMovedPayload:
		return wireTokenMoved{Seat: int(p.Seat), Token: p.Token, From: p.From, To: p.To, NextTurn: int(p.NextTurn)}
	case app.TokenCapturedPayload:
		return wireTokenCaptured{By: int(p.By), Victim: int(p.Victim), Token: p.Token}
	case app.TokenFinishedPayload:
		return wireTokenFinished{Seat: int(p.Seat), Token: p.Token}
	case app.TurnPassedPayload:
		return wireTurnPassed{Seat: int(p.Seat), NextTurn: int(p.NextTurn)}
	case app.GameEndedPayload:
		return wireGameEnded{Winner: int(p.Winner), Scores: p.Scores[:]}
	default:
		return nil
	}
}

// eventOpCode maps an app event kind to its broadcast opcode.
func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventDiceRolled:
		return OpDiceRolled, true
	case app.EventTokenEntered:
		return OpTokenEntered, true
	case app.EventTokenMoved:
		return OpTokenMoved, true
	case app.EventTokenCaptured:
		return OpTokenCaptured, true
	case app.EventTokenFinished:
		return OpTokenFinished, true
	case app.EventTurnPassed:
		return OpTurnPassed, true
	case app.EventGameEnded:
		return OpGameEnded, true
	default:
		return 0, false
	}
}

// BuildObservation packages the engine surface for one agent: the full board
// snapshot, whose turn it is, the agent's action legality mask, and the last
// dice roll. The structpb form keeps the payload schemaless for heterogeneous
// agent runtimes while staying protojson-compatible.
func BuildObservation(game *domain.Game, c domain.Color) (*structpb.Struct, error) {
	snapshot := game.Snapshot()
	board := make([]interface{}, domain.NumPlayers)
	for p := 0; p < domain.NumPlayers; p++ {
		row := make([]interface{}, domain.NumTokens)
		for t := 0; t < domain.NumTokens; t++ {
			row[t] = snapshot[p][t]
		}
		board[p] = row
	}

	mask := game.ActionMask(c)
	maskBits := make([]interface{}, len(mask))
	for i, legal := range mask {
		if legal {
			maskBits[i] = 1
		} else {
			maskBits[i] = 0
		}
	}

	return structpb.NewStruct(map[string]interface{}{
		"board_state":    board,
		"current_player": int(game.Current),
		"action_mask":    maskBits,
		"last_roll":      game.LastRoll,
	})
}
