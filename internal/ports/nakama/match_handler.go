package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"

	"ludo/internal/app"
	"ludo/internal/bot"
	"ludo/internal/config"
	"ludo/internal/domain"
	"ludo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
)

// MatchState holds the authoritative runtime state for the Nakama match
// handler. Seat index doubles as the engine color: seat 0 plays red.
type MatchState struct {
	Seats     [domain.NumPlayers]string `json:"seats"` // user IDs, empty string means seat is empty
	OwnerSeat int                       `json:"owner_seat"`
	Tick      int64                     `json:"tick"`

	Presences map[string]runtime.Presence `json:"-"` // userID -> presence for targeted messaging
	App       *app.Service                `json:"-"`
	Game      *domain.Game                `json:"-"` // nil while in the lobby

	BotsEnabled           bool  `json:"bots_enabled"`
	BotMinDelayTicks      int64 `json:"bot_min_delay_ticks"`
	BotMaxDelayTicks      int64 `json:"bot_max_delay_ticks"`
	BotAutoFillDelayTicks int64 `json:"bot_auto_fill_delay_ticks"`
	BotWaitUntil          int64 `json:"bot_wait_until"`
	LastSinglePlayerTick  int64 `json:"last_single_player_tick"`

	Bots        map[string]*bot.Agent `json:"-"`
	Leaderboard ports.LeaderboardPort `json:"-"`
}

// seatOf returns the seat index occupied by userID, or -1.
func (ms *MatchState) seatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i, id := range ms.Seats {
		if id == userID {
			return i
		}
	}
	return -1
}

// GetOpenSeatsCount returns the number of empty seats.
func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

// GetHumanPlayerCount returns the number of seats held by connected humans.
func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !ms.isBotSeat(seat) {
			count++
		}
	}
	return count
}

// isBotSeat reports whether the given user ID belongs to a bot occupant.
func (ms *MatchState) isBotSeat(userID string) bool {
	if _, ok := ms.Bots[userID]; ok {
		return true
	}
	return bot.IsBot(userID)
}

type matchHandler struct {
	nk runtime.NakamaModule
}

// NewMatchHandler returns the runtime.Match implementation backing ludo_match.
func NewMatchHandler(nk runtime.NakamaModule) runtime.Match {
	return &matchHandler{nk: nk}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	minDelay, maxDelay := config.GetBotDelays()
	state := &MatchState{
		OwnerSeat:             -1,
		Presences:             map[string]runtime.Presence{},
		App:                   app.NewService(nil),
		BotsEnabled:           true,
		BotMinDelayTicks:      int64(minDelay * tickRate),
		BotMaxDelayTicks:      int64(maxDelay * tickRate),
		BotAutoFillDelayTicks: int64(config.GetBotAutoFillDelay() * tickRate),
		Bots:                  map[string]*bot.Agent{},
		Leaderboard:           NewLeaderboardAdapter(mh.nk, config.GetLeaderboardID()),
	}

	labelBytes, _ := json.Marshal(Label{Open: true, Game: "ludo", Phase: "lobby"})
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt validates whether a presence is allowed to join.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "internal_error"
	}

	// Rejoin is always allowed.
	if s.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if s.Game != nil {
		return state, false, "match_in_progress"
	}
	for _, seat := range s.Seats {
		if seat == "" || s.isBotSeat(seat) {
			return state, true, ""
		}
	}
	return state, false, "match_full"
}

// MatchJoin seats joining presences, replacing bots when necessary.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		s.Presences[userID] = p

		if s.seatOf(userID) >= 0 {
			continue // rejoin, seat kept
		}

		seat := -1
		for i, occupant := range s.Seats {
			if occupant == "" {
				seat = i
				break
			}
		}
		if seat < 0 {
			for i, occupant := range s.Seats {
				if s.isBotSeat(occupant) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", occupant, userID, i)
					delete(s.Bots, occupant)
					seat = i
					break
				}
			}
		}
		if seat < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
			continue
		}

		s.Seats[seat] = userID
		isOwner := false
		if s.OwnerSeat < 0 || s.isBotSeat(s.Seats[s.OwnerSeat]) {
			s.OwnerSeat = seat
			isOwner = true
		}

		mh.broadcastEvent(ctx, s, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{UserID: userID, Seat: seat, Owner: isOwner},
		})

		if s.Game != nil {
			mh.sendObservation(s, dispatcher, logger, seat)
		}
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLeave frees seats or hands them to bots mid-game.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(s.Presences, userID)

		seat := s.seatOf(userID)
		if seat < 0 {
			continue
		}

		if s.Game != nil && !s.Game.Terminal() {
			// Keep the game four-handed: a bot takes over the seat.
			identity := bot.GetBotIdentity(seat)
			s.Seats[seat] = identity.UserID
			s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, nil)
			logger.Info("MatchLeave: Bot %s takes over seat %d from %s", identity.UserID, seat, userID)
		} else {
			s.Seats[seat] = ""
		}

		mh.broadcastEvent(ctx, s, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: userID},
		})

		if s.OwnerSeat == seat {
			s.OwnerSeat = -1
			for i, occupant := range s.Seats {
				if occupant != "" && !s.isBotSeat(occupant) {
					s.OwnerSeat = i
					break
				}
			}
		}
	}

	if s.GetHumanPlayerCount() == 0 {
		logger.Info("MatchLeave: No humans left, terminating match.")
		return nil
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLoop processes in-match messages and drives bot turns.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}

	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, s, dispatcher, logger, msg)
		case OpTakeTurn:
			mh.handleTakeTurn(ctx, s, dispatcher, logger, msg)
		case OpRequestObservation:
			mh.handleRequestObservation(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if s.BotsEnabled {
		mh.processBots(ctx, s, dispatcher, logger)
	}

	return s
}

func (mh *matchHandler) handleStartGame(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := s.seatOf(msg.GetUserId())
	if senderSeat != s.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", msg.GetUserId(), s.OwnerSeat)
		return
	}
	if s.Game != nil {
		logger.Warn("StartGame: Game already in progress.")
		return
	}

	// The engine is fixed to four players; empty seats get bots.
	for i, occupant := range s.Seats {
		if occupant == "" {
			identity := bot.GetBotIdentity(i)
			s.Seats[i] = identity.UserID
			s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, nil)
		}
	}

	game, events, err := s.App.StartGame(s.Seats)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}
	s.Game = game

	mh.updateLabel(s, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, s, dispatcher, logger, ev)
	}
	mh.broadcastObservations(s, dispatcher, logger)

	logger.Info("StartGame: Game started (owner_seat=%d).", s.OwnerSeat)
}

func (mh *matchHandler) handleTakeTurn(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := s.seatOf(senderID)

	if s.Game == nil {
		logger.Warn("handleTakeTurn: Game not started.")
		return
	}
	if senderSeat < 0 {
		logger.Warn("handleTakeTurn: User %s is not seated.", senderID)
		return
	}

	var req TakeTurnRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleTakeTurn: Invalid payload from %s: %v", senderID, err)
		mh.sendError(s, dispatcher, logger, senderID, 400, "invalid take_turn payload")
		return
	}

	action, err := domain.ActionFromIndex(req.Action)
	if err != nil {
		mh.sendError(s, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	// The dice roll is server-authoritative and drawn for the turn being
	// applied; the mask clients saw is advisory and illegal submissions
	// degrade to pass turns inside the engine.
	roll := s.App.RollDice(s.Game)

	events, err := s.App.TakeTurn(s.Game, domain.Color(senderSeat), action, roll)
	if err != nil {
		logger.Warn("handleTakeTurn: User %s (seat %d) turn rejected: %v", senderID, senderSeat, err)
		mh.sendError(s, dispatcher, logger, senderID, 409, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, s, dispatcher, logger, ev)
	}
	if s.Game != nil {
		mh.broadcastObservations(s, dispatcher, logger)
	}
}

func (mh *matchHandler) handleRequestObservation(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if s.Game == nil {
		return
	}
	seat := s.seatOf(msg.GetUserId())
	if seat < 0 {
		return
	}
	mh.sendObservation(s, dispatcher, logger, seat)
}

func (mh *matchHandler) processBots(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill a solo human lobby with bots after the configured delay.
	if s.Game == nil {
		if s.GetHumanPlayerCount() == 1 && s.GetOpenSeatsCount() > 0 {
			if s.LastSinglePlayerTick == 0 {
				s.LastSinglePlayerTick = s.Tick
			}
			if s.Tick-s.LastSinglePlayerTick >= s.BotAutoFillDelayTicks {
				for i, occupant := range s.Seats {
					if occupant != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					s.Seats[i] = identity.UserID
					s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, nil)
					logger.Info("processBots: Added bot %s to seat %d", identity.UserID, i)
					mh.broadcastEvent(ctx, s, dispatcher, logger, app.Event{
						Kind:    app.EventPlayerJoined,
						Payload: app.PlayerJoinedPayload{UserID: identity.UserID, Seat: i},
					})
				}
				mh.updateLabel(s, dispatcher, logger)
				s.LastSinglePlayerTick = 0
			}
		} else {
			s.LastSinglePlayerTick = 0
		}
		return
	}

	// Drive the bot whose turn it is, with a think delay so games stay
	// watchable.
	if s.Game.Terminal() {
		return
	}
	currentSeat := int(s.Game.Current)
	currentUserID := s.Seats[currentSeat]

	agent, isBot := s.Bots[currentUserID]
	if !isBot && bot.IsBot(currentUserID) {
		agent = bot.NewAgent(currentUserID, nil)
		s.Bots[currentUserID] = agent
		isBot = true
	}
	if !isBot {
		s.BotWaitUntil = 0
		return
	}

	if s.BotWaitUntil == 0 {
		delay := s.BotMinDelayTicks
		if s.BotMaxDelayTicks > s.BotMinDelayTicks {
			delay += rand.Int63n(s.BotMaxDelayTicks - s.BotMinDelayTicks + 1)
		}
		s.BotWaitUntil = s.Tick + delay
		return
	}
	if s.Tick < s.BotWaitUntil {
		return
	}
	s.BotWaitUntil = 0

	// Roll first so the legality mask the brain samples from is current.
	roll := s.App.RollDice(s.Game)
	action, err := agent.Play(s.Game, s.Game.Current)
	if err != nil {
		logger.Error("processBots: Bot %s failed to choose an action: %v", currentUserID, err)
	}

	events, err := s.App.TakeTurn(s.Game, domain.Color(currentSeat), action, roll)
	if err != nil {
		logger.Error("processBots: Bot %s turn rejected: %v", currentUserID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, s, dispatcher, logger, ev)
	}
	if s.Game != nil {
		mh.broadcastObservations(s, dispatcher, logger)
	}
}

// broadcastEvent converts and dispatches an app event, applying game-end
// side effects (leaderboard write, label reset) where needed.
func (mh *matchHandler) broadcastEvent(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, known := eventOpCode(ev.Kind)
	if !known {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	payload := toWirePayload(ev)
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	if ev.Kind == app.EventGameEnded {
		p := ev.Payload.(app.GameEndedPayload)
		winnerID := s.Seats[p.Winner]
		if s.Leaderboard != nil && winnerID != "" && !s.isBotSeat(winnerID) {
			record := ports.WinRecord{
				UserID: winnerID,
				Score:  int64(p.Scores[p.Winner]),
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "game_won",
				},
			}
			if err := s.Leaderboard.RecordWin(ctx, record); err != nil {
				logger.Error("Failed to record win: %v", err)
			}
		}
		// Game ended, back to the lobby. Bots only hold seats while a game
		// runs; their seats reopen so the match lists as joinable again.
		for i, occupant := range s.Seats {
			if s.isBotSeat(occupant) {
				delete(s.Bots, occupant)
				s.Seats[i] = ""
			}
		}
		s.Game = nil
		mh.updateLabel(s, dispatcher, logger)
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, userID := range ev.Recipients {
			if p, ok := s.Presences[userID]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipients (bots) must not
		// fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// broadcastObservations sends each connected human its agent-indexed
// observation of the current game.
func (mh *matchHandler) broadcastObservations(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for seat := range s.Seats {
		mh.sendObservation(s, dispatcher, logger, seat)
	}
}

func (mh *matchHandler) sendObservation(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	presence, ok := s.Presences[s.Seats[seat]]
	if !ok {
		return // bots and vacated seats have no socket
	}
	obs, err := BuildObservation(s.Game, domain.Color(seat))
	if err != nil {
		logger.Error("Failed to build observation for seat %d: %v", seat, err)
		return
	}
	bytes, err := protojson.Marshal(obs)
	if err != nil {
		logger.Error("Failed to marshal observation for seat %d: %v", seat, err)
		return
	}
	dispatcher.BroadcastMessage(OpObservation, bytes, []runtime.Presence{presence}, nil, true)
}

// sendError sends a game error payload to a specific user.
func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := s.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	bytes, err := json.Marshal(wireGameError{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if s.Game != nil {
		phase = "playing"
	}
	label := Label{
		Open:  s.Game == nil && s.GetOpenSeatsCount() > 0,
		Game:  "ludo",
		Phase: phase,
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// MatchTerminate runs on match shutdown.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

// MatchSignal handles out-of-band signals; unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
