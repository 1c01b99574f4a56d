package integration

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"ludo/internal/app"
	"ludo/internal/bot"
	"ludo/internal/domain"
	"ludo/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

func init() {
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

// startMatch boots a match with two humans seated and the game started, with
// deterministic dice and zero bot think delay.
func startMatch(t *testing.T, seed int64) (runtime.Match, *nakama.MatchState, *recordingDispatcher, *recordingLeaderboard) {
	t.Helper()
	ctx := context.Background()
	mh := nakama.NewMatchHandler(nil)
	dispatcher := &recordingDispatcher{}
	leaderboard := &recordingLeaderboard{}

	stateI, tickRate, label := mh.MatchInit(ctx, testLogger{}, nil, nil, nil)
	if tickRate != 10 {
		t.Fatalf("MatchInit tick rate = %d, want 10", tickRate)
	}
	var initialLabel map[string]interface{}
	if err := json.Unmarshal([]byte(label), &initialLabel); err != nil {
		t.Fatalf("MatchInit label %q is not JSON: %v", label, err)
	}
	if initialLabel["phase"] != "lobby" || initialLabel["open"] != true {
		t.Fatalf("MatchInit label = %v, want an open lobby", initialLabel)
	}

	state := stateI.(*nakama.MatchState)
	state.App = app.NewService(rand.New(rand.NewSource(seed)))
	state.Leaderboard = leaderboard
	state.BotMinDelayTicks = 0
	state.BotMaxDelayTicks = 0

	for _, userID := range []string{"user-1", "user-2"} {
		presence := testPresence{userID: userID}
		_, allowed, reason := mh.MatchJoinAttempt(ctx, testLogger{}, nil, nil, dispatcher, 0, state, presence, nil)
		if !allowed {
			t.Fatalf("Join attempt for %s rejected: %s", userID, reason)
		}
		next := mh.MatchJoin(ctx, testLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{presence})
		state = next.(*nakama.MatchState)
	}

	start := testMatchData{testPresence: testPresence{userID: "user-1"}, opCode: nakama.OpStartGame}
	next := mh.MatchLoop(ctx, testLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{start})
	state = next.(*nakama.MatchState)

	if state.Game == nil {
		t.Fatalf("Game did not start")
	}
	if state.Seats[0] != "user-1" || state.Seats[1] != "user-2" {
		t.Fatalf("Seats = %v, want humans in seats 0 and 1", state.Seats)
	}
	for seat := 2; seat < domain.NumPlayers; seat++ {
		if !bot.IsBot(state.Seats[seat]) {
			t.Fatalf("Seat %d = %s, want a bot", seat, state.Seats[seat])
		}
	}
	return mh, state, dispatcher, leaderboard
}

func takeTurnMessage(t *testing.T, userID string, action int) testMatchData {
	t.Helper()
	data, err := json.Marshal(nakama.TakeTurnRequest{Action: action})
	if err != nil {
		t.Fatalf("Failed to marshal take_turn request: %v", err)
	}
	return testMatchData{
		testPresence: testPresence{userID: userID},
		opCode:       nakama.OpTakeTurn,
		data:         data,
	}
}

func TestFullGameFlow(t *testing.T) {
	ctx := context.Background()
	mh, state, dispatcher, leaderboard := startMatch(t, 7)

	// Phase one: free play for everyone. Humans blindly submit enter moves,
	// bots pick from their masks. Phase two: seat 0 is steered onto a
	// finishing move each of its turns until the game ends.
	const freePlayTicks = 100
	const maxTicks = 2000

	ended := false
	for tick := int64(2); tick < maxTicks; tick++ {
		var messages []runtime.MatchData
		if state.Game != nil {
			current := int(state.Game.Current)
			occupant := state.Seats[current]
			if occupant == "user-1" || occupant == "user-2" {
				action := 0 // enter from bench
				if tick >= freePlayTicks && current == 0 {
					state.Game.Board[0] = [domain.NumTokens]int{
						domain.FinalSquare, domain.FinalSquare, domain.FinalSquare, 55,
					}
					action = 4 // move the last token home
				}
				messages = append(messages, takeTurnMessage(t, occupant, action))
			}
		}

		next := mh.MatchLoop(ctx, testLogger{}, nil, nil, dispatcher, tick, state, messages)
		state = next.(*nakama.MatchState)

		if state.Game != nil {
			for p := 0; p < domain.NumPlayers; p++ {
				for tok := 0; tok < domain.NumTokens; tok++ {
					if !domain.ValidPosition(state.Game.Board[p][tok]) {
						t.Fatalf("Invalid position %d for player %d token %d at tick %d",
							state.Game.Board[p][tok], p, tok, tick)
					}
				}
			}
		} else {
			ended = true
			break
		}
	}

	if !ended {
		t.Fatalf("Game did not finish within %d ticks", maxTicks)
	}

	for _, op := range []int64{nakama.OpGameStarted, nakama.OpDiceRolled, nakama.OpObservation, nakama.OpGameEnded} {
		if !dispatcher.sawOpCode(op) {
			t.Fatalf("Expected opcode %d in the broadcast stream", op)
		}
	}

	if len(leaderboard.records) != 1 {
		t.Fatalf("Expected one leaderboard record, got %d", len(leaderboard.records))
	}
	if leaderboard.records[0].UserID != "user-1" {
		t.Fatalf("Leaderboard winner = %s, want user-1", leaderboard.records[0].UserID)
	}

	label := dispatcher.lastLabel(t)
	if label["phase"] != "lobby" || label["open"] != true {
		t.Fatalf("Post-game label = %v, want an open lobby", label)
	}
}

func TestObservationsReachHumans(t *testing.T) {
	ctx := context.Background()
	mh, state, dispatcher, _ := startMatch(t, 11)

	// Run a few ticks of play so observations flow.
	for tick := int64(2); tick < 20; tick++ {
		var messages []runtime.MatchData
		if state.Game != nil {
			occupant := state.Seats[int(state.Game.Current)]
			if occupant == "user-1" || occupant == "user-2" {
				messages = append(messages, takeTurnMessage(t, occupant, 0))
			}
		}
		next := mh.MatchLoop(ctx, testLogger{}, nil, nil, dispatcher, tick, state, messages)
		state = next.(*nakama.MatchState)
	}

	var observation map[string]interface{}
	for _, msg := range dispatcher.messages {
		if msg.opCode != nakama.OpObservation {
			continue
		}
		if err := json.Unmarshal(msg.data, &observation); err != nil {
			t.Fatalf("Observation payload is not JSON: %v", err)
		}
	}
	if observation == nil {
		t.Fatalf("No observation messages were sent")
	}

	for _, key := range []string{"board_state", "current_player", "action_mask", "last_roll"} {
		if _, ok := observation[key]; !ok {
			t.Fatalf("Observation missing %q: %v", key, observation)
		}
	}
	board, ok := observation["board_state"].([]interface{})
	if !ok || len(board) != domain.NumPlayers {
		t.Fatalf("board_state = %v, want %d rows", observation["board_state"], domain.NumPlayers)
	}
	mask, ok := observation["action_mask"].([]interface{})
	if !ok || len(mask) != domain.NumActions {
		t.Fatalf("action_mask = %v, want %d entries", observation["action_mask"], domain.NumActions)
	}
}

func TestRejoinDuringGame(t *testing.T) {
	ctx := context.Background()
	mh, state, dispatcher, _ := startMatch(t, 3)

	// A seated player drops mid-game; the seat is handed to a bot and the
	// next join attempt by an outsider is rejected while the game runs.
	presence := testPresence{userID: "user-2"}
	next := mh.MatchLeave(ctx, testLogger{}, nil, nil, dispatcher, 5, state, []runtime.Presence{presence})
	state = next.(*nakama.MatchState)

	if !bot.IsBot(state.Seats[1]) {
		t.Fatalf("Seat 1 = %s after leave, want a bot takeover", state.Seats[1])
	}

	_, allowed, reason := mh.MatchJoinAttempt(ctx, testLogger{}, nil, nil, dispatcher, 6, state, testPresence{userID: "user-9"}, nil)
	if allowed {
		t.Fatalf("Mid-game join by an outsider must be rejected")
	}
	if reason != "match_in_progress" {
		t.Fatalf("Rejection reason = %q, want match_in_progress", reason)
	}
}
