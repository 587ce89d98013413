package nakama

import "coalition/internal/domain"

// Client intent payloads, JSON-framed per opcode.

type SelectIdeologyRequest struct {
	Ideology domain.Ideology `json:"ideology"`
}

type SelectOptionRequest struct {
	OptionID string `json:"option_id"`
}

type ProposeDealRequest struct {
	ResponderID string           `json:"responder_id"`
	Terms       domain.DealTerms `json:"terms"`
	Scope       domain.DealScope `json:"scope"`
	ScopeValue  int              `json:"scope_value,omitempty"`
}

type RespondDealRequest struct {
	DealID int  `json:"deal_id"`
	Accept bool `json:"accept"`
}

type CastVoteRequest struct {
	Choice         domain.VoteChoice `json:"choice"`
	InfluenceSpent int               `json:"influence_spent"`
}

type ContributeRequest struct {
	Amount int `json:"amount"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

// Server payloads without an app-level event.

// LobbyPlayerPayload is one seat's occupant before the game starts.
type LobbyPlayerPayload struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Seat        int             `json:"seat"`
	Ideology    domain.Ideology `json:"ideology,omitempty"`
	IsOwner     bool            `json:"is_owner"`
	IsBot       bool            `json:"is_bot"`
}

// LobbyStatePayload is broadcast whenever lobby composition changes.
type LobbyStatePayload struct {
	Players   []LobbyPlayerPayload `json:"players"`
	OwnerSeat int                  `json:"owner_seat"`
	OpenSeats int                  `json:"open_seats"`
}

// GameErrorPayload is a targeted intent rejection.
type GameErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}
