package domain

import "fmt"

// VoteChoice is a player's stance on the proposed option.
type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

// IsValid reports whether the value names a known vote choice.
func (c VoteChoice) IsValid() bool {
	return c == VoteYes || c == VoteNo || c == VoteAbstain
}

// VoteRecord is the transient per-turn record of a single cast vote.
type VoteRecord struct {
	PlayerID       string     `json:"player_id"`
	Choice         VoteChoice `json:"choice"`
	InfluenceSpent int        `json:"influence_spent"`
	// Forced marks a vote recorded by the fairness timeout rather than
	// the player; always abstain.
	Forced bool `json:"forced,omitempty"`
}

// Weight returns the tally weight of the vote: 1 + influence spent.
// Abstain votes carry no weight regardless of any recorded spend.
func (v VoteRecord) Weight() int {
	if v.Choice == VoteAbstain {
		return 0
	}
	return 1 + v.InfluenceSpent
}

// TallyVotes sums the weighted yes and no counts over the records.
// Abstain records contribute to neither side.
func TallyVotes(votes map[string]*VoteRecord) (yesCount, noCount int) {
	for _, v := range votes {
		switch v.Choice {
		case VoteYes:
			yesCount += v.Weight()
		case VoteNo:
			noCount += v.Weight()
		}
	}
	return yesCount, noCount
}

// DetermineVoteOutcome reports whether the proposal passes: yes must
// strictly exceed no. Ties and all-abstain fail.
func DetermineVoteOutcome(yesCount, noCount int) bool {
	return yesCount > noCount
}

// CalculateVoteMargin renders the margin with the larger count first,
// regardless of which side it belongs to.
func CalculateVoteMargin(yesCount, noCount int) string {
	if noCount > yesCount {
		return fmt.Sprintf("%d-%d", noCount, yesCount)
	}
	return fmt.Sprintf("%d-%d", yesCount, noCount)
}

// IsAlignedVote reports whether a vote matched the voter's ideological
// stance on the option: yes on an aligned option or no on an opposed one.
func IsAlignedVote(option *CardOption, ideology Ideology, choice VoteChoice) bool {
	if option == nil {
		return false
	}
	switch choice {
	case VoteYes:
		for _, a := range option.Aligned {
			if a.Ideology == ideology {
				return true
			}
		}
	case VoteNo:
		for _, o := range option.Opposed {
			if o.Ideology == ideology {
				return true
			}
		}
	}
	return false
}
