package nakama

import (
	"context"
	"encoding/json"

	"coalition/internal/app"
	"coalition/internal/bot"
	"coalition/internal/config"
	"coalition/internal/domain"
	"coalition/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

func (mh *matchHandler) handleSelectIdeology(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindStateConflict, "game already started"))
		return
	}
	if state.seatOf(uid) < 0 {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindAuthorization, "not seated in this match"))
		return
	}

	var req SelectIdeologyRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	if !req.Ideology.IsValid() {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindValidation, "unknown ideology"))
		return
	}
	for otherID, chosen := range state.Ideologies {
		if otherID != uid && chosen == req.Ideology {
			mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindStateConflict, "ideology already taken"))
			return
		}
	}

	state.Ideologies[uid] = req.Ideology
	mh.broadcastLobbyState(state, dispatcher, logger)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindStateConflict, "game already started"))
		return
	}
	if state.seatOf(uid) != state.OwnerSeat {
		mh.sendError(state, dispatcher, logger, uid, app.NewRuleError(app.KindAuthorization, "only the room owner can start the game"))
		return
	}

	mh.assignBotIdeologies(state)

	lobby := make([]app.LobbyPlayer, 0, MaxSeats)
	for _, seatUserID := range state.Seats {
		if seatUserID == "" {
			continue
		}
		_, connected := state.Presences[seatUserID]
		lobby = append(lobby, app.LobbyPlayer{
			UserID:      seatUserID,
			DisplayName: mh.displayName(state, seatUserID),
			Ideology:    state.Ideologies[seatUserID],
			Connected:   connected || bot.IsBot(seatUserID),
		})
	}

	game, events, err := state.App.StartGame(lobby, state.Tick)
	if err != nil {
		mh.sendError(state, dispatcher, logger, uid, err)
		return
	}
	state.Game = game
	logger.Info("handleStartGame: Game started with %d players.", len(lobby))
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

// assignBotIdeologies gives every seated bot a free ideology so the
// roster passes uniqueness validation.
func (mh *matchHandler) assignBotIdeologies(state *MatchState) {
	taken := make(map[domain.Ideology]bool, len(state.Ideologies))
	for _, ideology := range state.Ideologies {
		taken[ideology] = true
	}
	for _, seatUserID := range state.Seats {
		if !bot.IsBot(seatUserID) {
			continue
		}
		if _, has := state.Ideologies[seatUserID]; has {
			continue
		}
		for _, candidate := range domain.AllIdeologies() {
			if !taken[candidate] {
				state.Ideologies[seatUserID] = candidate
				taken[candidate] = true
				break
			}
		}
	}
}

func (mh *matchHandler) handleRollDice(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.RollDice(state.Game, msg.GetUserId(), state.Tick)
	})
}

func (mh *matchHandler) handleMarkReady(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.MarkReady(state.Game, msg.GetUserId(), state.Tick)
	})
}

func (mh *matchHandler) handleSelectOption(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req SelectOptionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.SelectOption(state.Game, msg.GetUserId(), req.OptionID, state.Tick)
	})
}

func (mh *matchHandler) handleProposeDeal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req ProposeDealRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.ProposeDeal(state.Game, msg.GetUserId(), req.ResponderID, req.Terms, req.Scope, req.ScopeValue, state.Tick)
	})
}

func (mh *matchHandler) handleRespondDeal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req RespondDealRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.RespondDeal(state.Game, msg.GetUserId(), req.DealID, req.Accept, state.Tick)
	})
}

func (mh *matchHandler) handleCastVote(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req CastVoteRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.CastVote(state.Game, msg.GetUserId(), req.Choice, req.InfluenceSpent, state.Tick)
	})
}

func (mh *matchHandler) handleContribute(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req ContributeRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.Contribute(state.Game, msg.GetUserId(), req.Amount, state.Tick)
	})
}

func (mh *matchHandler) handleAcknowledge(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.AcknowledgeResults(state.Game, msg.GetUserId(), state.Tick)
	})
}

func (mh *matchHandler) handleChat(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req ChatRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.NewRuleError(app.KindValidation, "malformed payload"))
		return
	}
	mh.runIntent(ctx, state, dispatcher, logger, msg.GetUserId(), func() ([]app.Event, error) {
		return state.App.Chat(state.Game, msg.GetUserId(), req.Text)
	})
}

// runIntent wraps an app service call with the shared guard/error path.
func (mh *matchHandler) runIntent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, fn func() ([]app.Event, error)) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, userID, app.NewRuleError(app.KindStateConflict, "game has not started"))
		return
	}
	events, err := fn()
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

// dispatchEvents serializes engine events onto the wire, then refreshes
// per-viewer room snapshots, the match label, and - once the game ends -
// the prestige settlement.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	if len(events) == 0 {
		return
	}

	for _, event := range events {
		opCode, known := opCodeForEvent(event.Kind)
		if !known {
			logger.Warn("dispatchEvents: No opcode mapping for event kind %s", event.Kind)
			continue
		}

		data, err := json.Marshal(event.Payload)
		if err != nil {
			logger.Error("dispatchEvents: Failed to marshal %s payload: %v", event.Kind, err)
			continue
		}

		var targets []runtime.Presence
		if len(event.Recipients) > 0 {
			targets = mh.presencesFor(state, event.Recipients)
			if len(targets) == 0 {
				continue // recipients are all bots or disconnected
			}
		}
		if err := dispatcher.BroadcastMessage(opCode, data, targets, nil, true); err != nil {
			logger.Error("dispatchEvents: Broadcast of %s failed: %v", event.Kind, err)
		}
	}

	mh.broadcastRoomState(state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)

	if state.Game != nil && state.Game.Phase.Terminal() && !state.Settled {
		mh.settle(ctx, state, logger)
	}
}

func opCodeForEvent(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPhaseChanged:
		return OpPhaseChanged, true
	case app.EventDiceRolled:
		return OpDiceRolled, true
	case app.EventCardDrawn:
		return OpCardDrawn, true
	case app.EventPlayerReady:
		return OpPlayerReady, true
	case app.EventOptionSelected:
		return OpOptionSelected, true
	case app.EventDealProposed, app.EventDealResponded:
		return OpDealUpdate, true
	case app.EventDealBreach:
		return OpDealBreach, true
	case app.EventVoteCast:
		return OpVoteCast, true
	case app.EventTurnResolved:
		return OpTurnResult, true
	case app.EventCrisisTriggered:
		return OpCrisisTriggered, true
	case app.EventCrisisContributed:
		return OpCrisisContributed, true
	case app.EventCrisisResolved:
		return OpCrisisResolved, true
	case app.EventGameEnded:
		return OpGameEnded, true
	case app.EventChat:
		return OpChatRelay, true
	default:
		return 0, false
	}
}

func (mh *matchHandler) presencesFor(state *MatchState, userIDs []string) []runtime.Presence {
	targets := make([]runtime.Presence, 0, len(userIDs))
	for _, uid := range userIDs {
		if p, ok := state.Presences[uid]; ok {
			targets = append(targets, p)
		}
	}
	return targets
}

// sendError reports an intent rejection to the offending user only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	kind := app.KindOf(err)
	payload := GameErrorPayload{Code: kind.Code(), Kind: string(kind), Message: err.Error()}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		logger.Error("sendError: Failed to marshal error payload: %v", marshalErr)
		return
	}

	p, ok := state.Presences[userID]
	if !ok {
		return // bot or disconnected user, nothing to send
	}
	if berr := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{p}, nil, true); berr != nil {
		logger.Error("sendError: Broadcast failed: %v", berr)
	}
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	payload := LobbyStatePayload{
		OwnerSeat: state.OwnerSeat,
		OpenSeats: state.GetOpenSeatsCount(),
	}
	for i, seatUserID := range state.Seats {
		if seatUserID == "" {
			continue
		}
		payload.Players = append(payload.Players, LobbyPlayerPayload{
			UserID:      seatUserID,
			DisplayName: mh.displayName(state, seatUserID),
			Seat:        i,
			Ideology:    state.Ideologies[seatUserID],
			IsOwner:     i == state.OwnerSeat,
			IsBot:       bot.IsBot(seatUserID),
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastLobbyState: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpLobbyState, data, nil, nil, true); err != nil {
		logger.Error("broadcastLobbyState: Broadcast failed: %v", err)
	}
}

// broadcastRoomState sends each connected human their own projection of
// the game. Influence is exact for the viewer and bucketed for everyone
// else, so snapshots must never be broadcast raw.
func (mh *matchHandler) broadcastRoomState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		return
	}
	for uid, p := range state.Presences {
		snapshot := app.BuildRoomState(state.Game, uid, state.Tick)
		data, err := json.Marshal(snapshot)
		if err != nil {
			logger.Error("broadcastRoomState: Failed to marshal snapshot for %s: %v", uid, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(OpRoomState, data, []runtime.Presence{p}, nil, true); err != nil {
			logger.Error("broadcastRoomState: Broadcast to %s failed: %v", uid, err)
		}
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := Label{Open: state.GetOpenSeatsCount(), Game: "coalition", Phase: "lobby"}
	if state.Game != nil {
		label.Open = 0
		label.Phase = string(state.Game.Phase)
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal label: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Label update failed: %v", err)
	}
}

// settle pays out end-of-game prestige exactly once. Bots do not hold
// wallets and are excluded.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger) {
	state.Settled = true
	if state.Economy == nil {
		return
	}

	cfg := config.GetGameConfig()
	game := state.Game
	updates := make([]ports.WalletUpdate, 0, len(game.Players))
	for uid := range game.Players {
		if bot.IsBot(uid) {
			continue
		}
		amount := cfg.SurvivorPrestige
		if game.Phase == domain.PhaseCollapsed {
			amount = 0
		}
		if uid == game.WinnerID {
			amount = cfg.WinnerPrestige
		}
		if amount == 0 {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: uid,
			Amount: amount,
			Metadata: map[string]interface{}{
				"source": "coalition_settlement",
				"phase":  string(game.Phase),
				"turn":   game.Turn,
			},
		})
	}
	if len(updates) == 0 {
		return
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settle: Prestige settlement failed: %v", err)
	}
}

func (mh *matchHandler) displayName(state *MatchState, userID string) string {
	if bot.IsBot(userID) {
		return bot.GetBotDisplayName(userID)
	}
	if p, ok := state.Presences[userID]; ok {
		if username := p.GetUsername(); username != "" {
			return username
		}
	}
	return userID
}
