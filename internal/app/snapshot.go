package app

import "coalition/internal/domain"

// InfluenceLevel is the bucketed influence projection shown to players
// other than the owner. The exact value is never serialized for them.
type InfluenceLevel string

const (
	InfluenceLow    InfluenceLevel = "low"
	InfluenceMedium InfluenceLevel = "medium"
	InfluenceHigh   InfluenceLevel = "high"
)

func bucketInfluence(influence int) InfluenceLevel {
	switch {
	case influence <= 2:
		return InfluenceLow
	case influence <= 6:
		return InfluenceMedium
	}
	return InfluenceHigh
}

// PlayerStatePayload is one player's projection within a room snapshot.
// Influence is present only in the owning viewer's snapshot; everyone
// else sees the bucketed level. Both derive from the single canonical
// value at serialization time.
type PlayerStatePayload struct {
	UserID         string          `json:"user_id"`
	DisplayName    string          `json:"display_name"`
	Ideology       domain.Ideology `json:"ideology"`
	Seat           int             `json:"seat"`
	Position       int             `json:"position"`
	OwnTokens      int             `json:"own_tokens"`
	Influence      *int            `json:"influence,omitempty"`
	InfluenceLevel InfluenceLevel  `json:"influence_level"`
	Connected      bool            `json:"connected"`
	Afk            bool            `json:"afk"`
	IsActive       bool            `json:"is_active"`
	HasVoted       bool            `json:"has_voted"`
	IsReady        bool            `json:"is_ready"`
	HasAcked       bool            `json:"has_acked"`
}

// RoomStatePayload is the full-state snapshot broadcast after every
// accepted transition. Clients replace local state wholesale on receipt,
// which is also how reconnection works: the rejoining client just asks
// for the current snapshot.
type RoomStatePayload struct {
	Phase      domain.Phase `json:"phase"`
	Turn       int          `json:"turn"`
	ActiveSeat int          `json:"active_seat"`

	Nation  domain.NationState   `json:"nation"`
	Players []PlayerStatePayload `json:"players"`
	Deals   []domain.Deal        `json:"deals"`
	Crisis  *domain.Crisis       `json:"crisis,omitempty"`

	Roll           int                  `json:"roll,omitempty"`
	Card           *domain.DecisionCard `json:"card,omitempty"`
	ChosenOptionID string               `json:"chosen_option_id,omitempty"`

	// YourVote echoes the viewer's own cast vote so a reconnecting
	// client can tell it already voted without any choice leaking to
	// others.
	YourVote *domain.VoteRecord `json:"your_vote,omitempty"`

	DeadlineSeconds int `json:"deadline_seconds,omitempty"`
	TurnsResolved   int `json:"turns_resolved"`

	WinnerID       string                `json:"winner_id,omitempty"`
	CollapseReason domain.CollapseReason `json:"collapse_reason,omitempty"`
}

// BuildRoomState projects the game for one viewer. viewerID may be empty
// for a spectator-grade projection with no exact influence values.
func BuildRoomState(g *domain.Game, viewerID string, now int64) RoomStatePayload {
	snapshot := RoomStatePayload{
		Phase:          g.Phase,
		Turn:           g.Turn,
		ActiveSeat:     g.ActiveSeat,
		Nation:         g.Nation,
		Roll:           g.Roll,
		Card:           g.Card,
		ChosenOptionID: g.ChosenOptionID,
		TurnsResolved:  len(g.History),
		WinnerID:       g.WinnerID,
		CollapseReason: g.CollapseReason,
	}

	if g.PhaseDeadline > now {
		snapshot.DeadlineSeconds = int(g.PhaseDeadline - now)
	}

	for _, deal := range g.Deals {
		snapshot.Deals = append(snapshot.Deals, *deal)
	}
	if g.Crisis != nil {
		crisis := *g.Crisis
		snapshot.Crisis = &crisis
	}

	active := g.ActivePlayer()
	for _, userID := range g.SeatOrder {
		p := g.Players[userID]
		ps := PlayerStatePayload{
			UserID:         p.UserID,
			DisplayName:    p.DisplayName,
			Ideology:       p.Ideology,
			Seat:           p.Seat,
			Position:       p.Position,
			OwnTokens:      p.OwnTokens,
			InfluenceLevel: bucketInfluence(p.Influence),
			Connected:      p.Connected,
			Afk:            p.Afk,
			IsActive:       active != nil && active.UserID == p.UserID,
			HasVoted:       g.Votes[p.UserID] != nil,
			IsReady:        g.Ready[p.UserID],
			HasAcked:       g.Acks[p.UserID],
		}
		if p.UserID == viewerID {
			influence := p.Influence
			ps.Influence = &influence
		}
		snapshot.Players = append(snapshot.Players, ps)
	}

	if v, ok := g.Votes[viewerID]; ok && viewerID != "" {
		vote := *v
		snapshot.YourVote = &vote
	}

	return snapshot
}
