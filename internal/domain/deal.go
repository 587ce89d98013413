package domain

// DealStatus tracks the forward-only lifecycle of a deal.
type DealStatus string

const (
	DealPending   DealStatus = "pending"
	DealActive    DealStatus = "active"
	DealFulfilled DealStatus = "fulfilled"
	DealBroken    DealStatus = "broken"
)

// DealScope declares which votes a deal's commitments bind.
type DealScope string

const (
	// ScopeThisVote binds the next resolved vote only.
	ScopeThisVote DealScope = "this_vote"
	// ScopeNextNTurns binds the next N resolved votes.
	ScopeNextNTurns DealScope = "next_n_turns"
)

// CommitmentType distinguishes what a party has promised.
type CommitmentType string

const (
	// CommitVote promises a specific vote choice on scoped votes.
	CommitVote CommitmentType = "vote"
	// CommitToken promises a support token, transferred at activation.
	CommitToken CommitmentType = "token"
)

// Commitment is one party's promise within a deal.
type Commitment struct {
	Type CommitmentType `json:"type"`
	// Choice is the promised vote when Type is CommitVote.
	Choice VoteChoice `json:"choice,omitempty"`
}

// Validate checks the commitment shape.
func (c Commitment) Validate() bool {
	switch c.Type {
	case CommitVote:
		return c.Choice == VoteYes || c.Choice == VoteNo
	case CommitToken:
		return c.Choice == ""
	}
	return false
}

// DealTerms pairs the two commitments of a deal.
type DealTerms struct {
	InitiatorCommitment Commitment `json:"initiator_commitment"`
	ResponderCommitment Commitment `json:"responder_commitment"`
}

// Deal is a binding, fully transparent commitment between two players.
// Status moves only forward: pending -> active -> fulfilled | broken.
type Deal struct {
	ID          int       `json:"id"`
	InitiatorID string    `json:"initiator_id"`
	ResponderID string    `json:"responder_id"`
	Terms       DealTerms `json:"terms"`
	Scope       DealScope `json:"scope"`
	// ScopeValue is the remaining covered votes for next_n_turns scope.
	ScopeValue int        `json:"scope_value,omitempty"`
	Status     DealStatus `json:"status"`
	CreatedAt  int64      `json:"created_at"`
	// BreakerIDs records which side(s) violated a vote commitment.
	BreakerIDs []string `json:"breaker_ids,omitempty"`
}

const (
	// BreachPenalty is subtracted from a breaker's influence, floored at 0.
	BreachPenalty = 2
	// BreachCompensation is added to the wronged party's influence.
	BreachCompensation = 1
)

// DealCheckResult reports the outcome of one scoped-vote fulfillment pass.
type DealCheckResult struct {
	Deal *Deal
	// Resolved is true when the deal reached a terminal status this pass.
	Resolved bool
	// Breaches lists the parties that violated their vote commitment.
	Breaches []DealBreach
}

// DealBreach identifies one violated vote commitment within a deal.
type DealBreach struct {
	BreakerID string `json:"breaker_id"`
	VictimID  string `json:"victim_id"`
	Committed VoteChoice `json:"committed"`
	Actual    VoteChoice `json:"actual"`
}

// CheckFulfillment runs one scoped-vote pass over an active deal,
// comparing each party's vote commitment against the recorded votes.
// Token commitments were settled at activation and cannot breach. Each
// side is judged independently, so a deal where both parties renege
// carries two breaches. For next_n_turns scope the deal stays active
// until its remaining covered votes are exhausted; a deal that survives
// its scope unbroken is fulfilled.
func (d *Deal) CheckFulfillment(votes map[string]*VoteRecord) DealCheckResult {
	result := DealCheckResult{Deal: d}
	if d.Status != DealActive {
		return result
	}

	check := func(partyID string, c Commitment, otherID string) {
		if c.Type != CommitVote {
			return
		}
		actual := VoteAbstain
		if v, ok := votes[partyID]; ok {
			actual = v.Choice
		}
		if actual != c.Choice {
			result.Breaches = append(result.Breaches, DealBreach{
				BreakerID: partyID,
				VictimID:  otherID,
				Committed: c.Choice,
				Actual:    actual,
			})
		}
	}

	check(d.InitiatorID, d.Terms.InitiatorCommitment, d.ResponderID)
	check(d.ResponderID, d.Terms.ResponderCommitment, d.InitiatorID)

	if len(result.Breaches) > 0 {
		d.Status = DealBroken
		for _, b := range result.Breaches {
			d.BreakerIDs = append(d.BreakerIDs, b.BreakerID)
		}
		result.Resolved = true
		return result
	}

	switch d.Scope {
	case ScopeThisVote:
		d.Status = DealFulfilled
		result.Resolved = true
	case ScopeNextNTurns:
		d.ScopeValue--
		if d.ScopeValue <= 0 {
			d.Status = DealFulfilled
			result.Resolved = true
		}
	}
	return result
}

// ApplyBreachPenalties mutates influence for every breach in the result:
// breaker loses BreachPenalty (floored at zero), victim gains
// BreachCompensation.
func ApplyBreachPenalties(result DealCheckResult, players map[string]*Player) {
	for _, b := range result.Breaches {
		if breaker, ok := players[b.BreakerID]; ok {
			breaker.Influence -= BreachPenalty
			if breaker.Influence < 0 {
				breaker.Influence = 0
			}
		}
		if victim, ok := players[b.VictimID]; ok {
			victim.Influence += BreachCompensation
		}
	}
}
