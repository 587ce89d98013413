package domain

// VoteBreakdown is the revealed vote record embedded in a history entry.
type VoteBreakdown struct {
	Votes    []VoteRecord `json:"votes"`
	YesCount int          `json:"yes_count"`
	NoCount  int          `json:"no_count"`
	Passed   bool         `json:"passed"`
	Margin   string       `json:"margin"`
	// AlignedVoters lists players whose vote matched their ideology's
	// stance on the option, per the card's content tables.
	AlignedVoters []string `json:"aligned_voters,omitempty"`
}

// DealOutcome summarizes one deal resolved during a turn.
type DealOutcome struct {
	DealID int        `json:"deal_id"`
	Status DealStatus `json:"status"`
	// Breaches is non-empty only for broken deals.
	Breaches []DealBreach `json:"breaches,omitempty"`
}

// TurnHistoryEntry is the immutable append-only record of one resolved
// turn; it feeds the transparency log and is never mutated afterwards.
type TurnHistoryEntry struct {
	Turn           int                 `json:"turn"`
	ActivePlayerID string              `json:"active_player_id"`
	CardID         string              `json:"card_id"`
	OptionID       string              `json:"option_id"`
	Vote           VoteBreakdown       `json:"vote"`
	NationDelta    NationDelta         `json:"nation_delta"`
	NationAfter    NationState         `json:"nation_after"`
	Movements      []MovementBreakdown `json:"movements"`
	DealOutcomes   []DealOutcome       `json:"deal_outcomes,omitempty"`
}
