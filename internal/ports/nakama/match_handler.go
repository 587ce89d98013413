package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"coalition/internal/app"
	"coalition/internal/bot"
	"coalition/internal/config"
	"coalition/internal/domain"
	"coalition/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MaxSeats is the hard seat cap; sessions run with 3-5 participants.
const MaxSeats = 5

// MatchState holds the authoritative runtime state for the Coalition
// match handler. The Game pointer is nil while the room sits in the
// lobby.
type MatchState struct {
	Seats      [MaxSeats]string                 `json:"seats"`      // user IDs, "" means empty
	Ideologies map[string]domain.Ideology       `json:"ideologies"` // lobby selections, userID -> ideology
	OwnerSeat  int                              `json:"owner_seat"`
	Tick       int64                            `json:"tick"`
	Presences  map[string]runtime.Presence      `json:"-"`
	App        *app.Service                     `json:"-"`
	Game       *domain.Game                     `json:"-"`
	Economy    ports.EconomyPort                `json:"-"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`
	BotMaxDelay          int                   `json:"bot_max_delay"`
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	// Settled flips once prestige has been paid out for a finished game.
	Settled bool `json:"settled"`
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

// GetOccupiedSeatCount returns the number of occupied seats.
func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

// GetHumanPlayerCount returns the number of seats held by humans.
func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// seatOf returns the seat index of a user, or -1.
func (ms *MatchState) seatOf(userID string) int {
	for i, seatUserID := range ms.Seats {
		if seatUserID == userID {
			return i
		}
	}
	return -1
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userID := seats[seatIndex]
	return userID != "" && !bot.IsBot(userID)
}

// findFirstHumanSeat returns the first seat index with a human occupant
// or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when no humans remain.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Ideologies: make(map[string]domain.Ideology),
		OwnerSeat:  -1,
		Presences:  make(map[string]runtime.Presence),
		App:        app.NewService(nil),
		Bots:       make(map[string]*bot.Agent),
		Economy:    NewNakamaEconomyAdapter(nk),
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	state.BotsEnabled = true
	if val, ok := env["coalition_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["coalition_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["coalition_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["coalition_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.GetGameConfig().BotAutoFillDelaySeconds
	}

	labelBytes, err := json.Marshal(Label{Open: state.GetOpenSeatsCount(), Game: "coalition", Phase: "lobby"})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; deadlines are counted in ticks
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Reconnection: a seated player may always rejoin.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	// New joins are lobby-only: seats are fixed once the game starts.
	if matchState.Game != nil {
		return state, false, "match_in_progress"
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		for _, seat := range matchState.Seats {
			if bot.IsBot(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return state, false, "match_full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		if matchState.seatOf(uid) >= 0 {
			// Reconnection: restore presence and connection flag.
			if matchState.Game != nil {
				events := matchState.App.SetConnected(matchState.Game, uid, true, tick)
				mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
			}
			logger.Debug("MatchJoin: User %s reconnected.", uid)
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = uid
				assigned = true
				break
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, uid, i)
					delete(matchState.Bots, seatUserID)
					delete(matchState.Ideologies, seatUserID)
					matchState.Seats[i] = uid
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", uid)
		}
	}

	// Owner must be a human.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	if matchState.Game == nil {
		mh.broadcastLobbyState(matchState, dispatcher, logger)
	} else {
		mh.broadcastRoomState(matchState, dispatcher, logger)
	}

	return matchState
}

// MatchLeave is called when one or more players leave the match. Lobby
// seats are freed; in-game seats persist so the player can reconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)

		if matchState.Game != nil {
			// Seat is kept; a disconnected player may unblock a phase
			// that was waiting only on them.
			events := matchState.App.SetConnected(matchState.Game, uid, false, tick)
			mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
			continue
		}

		if seat := matchState.seatOf(uid); seat >= 0 {
			matchState.Seats[seat] = ""
			delete(matchState.Ideologies, uid)
			logger.Debug("MatchLeave: User %s left, seat %d freed.", uid, seat)
		}
	}

	if matchState.Game == nil {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	} else if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	// In-game, humans only count while connected.
	noHumansLeft := true
	for _, seat := range matchState.Seats {
		if seat == "" || bot.IsBot(seat) {
			continue
		}
		if _, connected := matchState.Presences[seat]; connected {
			noHumansLeft = false
			break
		}
	}
	if matchState.Game == nil {
		noHumansLeft = shouldTerminateNoHumans(matchState.Seats[:])
	}
	if noHumansLeft {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	if matchState.Game == nil {
		mh.broadcastLobbyState(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpSelectIdeology:
			mh.handleSelectIdeology(ctx, matchState, dispatcher, logger, msg)
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpRollDice:
			mh.handleRollDice(ctx, matchState, dispatcher, logger, msg)
		case OpMarkReady:
			mh.handleMarkReady(ctx, matchState, dispatcher, logger, msg)
		case OpSelectOption:
			mh.handleSelectOption(ctx, matchState, dispatcher, logger, msg)
		case OpProposeDeal:
			mh.handleProposeDeal(ctx, matchState, dispatcher, logger, msg)
		case OpRespondDeal:
			mh.handleRespondDeal(ctx, matchState, dispatcher, logger, msg)
		case OpCastVote:
			mh.handleCastVote(ctx, matchState, dispatcher, logger, msg)
		case OpContribute:
			mh.handleContribute(ctx, matchState, dispatcher, logger, msg)
		case OpAcknowledge:
			mh.handleAcknowledge(ctx, matchState, dispatcher, logger, msg)
		case OpChat:
			mh.handleChat(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	// Fairness timeouts run through the same service paths as intents.
	if matchState.Game != nil {
		events := matchState.App.HandleDeadlines(matchState.Game, tick)
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill the lobby after a solo human has waited long enough.
	if state.Game == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount >= 1 && humanCount < app.MinPlayers {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Under-filled lobby detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					botID := identity.UserID
					state.Seats[i] = botID

					agent, err := bot.NewAgent(botID)
					if err != nil {
						logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
					} else {
						state.Bots[botID] = agent
					}

					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastLobbyState(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// In-game, bots act one at a time behind a randomized think delay.
	if state.Game.Phase.Terminal() || state.Game.Halted {
		return
	}
	if state.BotWaitUntil == 0 {
		if mh.anyBotHasAction(state) {
			delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
			state.BotWaitUntil = state.Tick + int64(delay)
		}
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	for _, seat := range state.Seats {
		agent, isAgent := state.Bots[seat]
		if !isAgent {
			continue
		}
		action := agent.NextAction(state.Game)
		if action.Kind == bot.ActionNone {
			continue
		}
		mh.applyBotAction(ctx, state, dispatcher, logger, agent, action)
		return
	}
}

func (mh *matchHandler) anyBotHasAction(state *MatchState) bool {
	for _, agent := range state.Bots {
		if agent.NextAction(state.Game).Kind != bot.ActionNone {
			return true
		}
	}
	return false
}

func (mh *matchHandler) applyBotAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, agent *bot.Agent, action bot.Action) {
	var events []app.Event
	var err error

	switch action.Kind {
	case bot.ActionRoll:
		events, err = state.App.RollDice(state.Game, agent.ID, state.Tick)
	case bot.ActionReady:
		events, err = state.App.MarkReady(state.Game, agent.ID, state.Tick)
	case bot.ActionSelect:
		events, err = state.App.SelectOption(state.Game, agent.ID, action.OptionID, state.Tick)
	case bot.ActionVote:
		events, err = state.App.CastVote(state.Game, agent.ID, action.Choice, action.InfluenceSpent, state.Tick)
	case bot.ActionContribute:
		events, err = state.App.Contribute(state.Game, agent.ID, action.Amount, state.Tick)
	case bot.ActionAcknowledge:
		events, err = state.App.AcknowledgeResults(state.Game, agent.ID, state.Tick)
	case bot.ActionRespondDeal:
		events, err = state.App.RespondDeal(state.Game, agent.ID, action.DealID, action.Accept, state.Tick)
	default:
		return
	}

	if err != nil {
		logger.Warn("processBots: Bot %s action %s rejected: %v", agent.ID, action.Kind, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
