package app

import "coalition/internal/domain"

// EventKind identifies emitted engine events for Nakama dispatch.
type EventKind string

const (
	EventPhaseChanged      EventKind = "phase_changed"
	EventDiceRolled        EventKind = "dice_rolled"
	EventCardDrawn         EventKind = "card_drawn"
	EventPlayerReady       EventKind = "player_ready"
	EventOptionSelected    EventKind = "option_selected"
	EventDealProposed      EventKind = "deal_proposed"
	EventDealResponded     EventKind = "deal_responded"
	EventDealBreach        EventKind = "deal_breach"
	EventVoteCast          EventKind = "vote_cast"
	EventTurnResolved      EventKind = "turn_resolved"
	EventCrisisTriggered   EventKind = "crisis_triggered"
	EventCrisisContributed EventKind = "crisis_contributed"
	EventCrisisResolved    EventKind = "crisis_resolved"
	EventGameEnded         EventKind = "game_ended"
	EventChat              EventKind = "chat"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// PhaseChangedPayload announces an accepted phase transition. The ports
// layer follows every one of these with per-viewer room snapshots.
type PhaseChangedPayload struct {
	Phase      domain.Phase `json:"phase"`
	Turn       int          `json:"turn"`
	ActiveSeat int          `json:"active_seat"`
	// DeadlineSeconds is how long a blocking phase waits before the
	// fairness timeout force-advances it; zero when not blocking.
	DeadlineSeconds int `json:"deadline_seconds,omitempty"`
}

type DiceRolledPayload struct {
	PlayerID string `json:"player_id"`
	Roll     int    `json:"roll"`
}

type CardDrawnPayload struct {
	Card domain.DecisionCard `json:"card"`
}

type PlayerReadyPayload struct {
	PlayerID string `json:"player_id"`
	// Forced marks a ready recorded by the fairness timeout.
	Forced bool `json:"forced,omitempty"`
}

type OptionSelectedPayload struct {
	PlayerID   string `json:"player_id"`
	CardID     string `json:"card_id"`
	OptionID   string `json:"option_id"`
	OptionName string `json:"option_name"`
}

// DealUpdatePayload carries a full deal; deals are fully transparent,
// so every update broadcasts.
type DealUpdatePayload struct {
	Deal domain.Deal `json:"deal"`
	// Accepted is set on responses: true activated the deal, false
	// removed it.
	Accepted *bool `json:"accepted,omitempty"`
}

// DealBreachPayload is emitted once per deal broken at resolution.
type DealBreachPayload struct {
	DealID   int                 `json:"deal_id"`
	Breaches []domain.DealBreach `json:"breaches"`
}

// VoteCastPayload marks a player as having voted without exposing the
// choice; reveal is atomic at resolution.
type VoteCastPayload struct {
	PlayerID   string `json:"player_id"`
	VotedCount int    `json:"voted_count"`
	Expected   int    `json:"expected"`
}

// TurnResultPayload is the full per-turn resolution record.
type TurnResultPayload struct {
	Entry  domain.TurnHistoryEntry `json:"entry"`
	Nation domain.NationState      `json:"nation"`
}

type CrisisPayload struct {
	Crisis domain.Crisis `json:"crisis"`
}

type CrisisContributedPayload struct {
	PlayerID  string `json:"player_id"`
	Amount    int    `json:"amount"`
	Total     int    `json:"total"`
	Threshold int    `json:"threshold"`
}

type CrisisResolutionPayload struct {
	CrisisID string               `json:"crisis_id"`
	Outcome  domain.CrisisOutcome `json:"outcome"`
	Effect   domain.NationDelta   `json:"effect"`
	Nation   domain.NationState   `json:"nation"`
}

// GameEndedPayload reports the terminal outcome of the session.
type GameEndedPayload struct {
	Phase          domain.Phase          `json:"phase"`
	WinnerID       string                `json:"winner_id,omitempty"`
	CollapseReason domain.CollapseReason `json:"collapse_reason,omitempty"`
	Standings      []StandingEntry       `json:"standings"`
}

// StandingEntry is one row of the final standings, ordered by position
// then influence.
type StandingEntry struct {
	PlayerID  string `json:"player_id"`
	Position  int    `json:"position"`
	Influence int    `json:"influence"`
}

type ChatPayload struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}
