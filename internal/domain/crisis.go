package domain

import "errors"

var (
	// ErrContributionTooLarge is returned when a contribution would push a
	// player past the per-player cap. Contributions are rejected, never
	// clamped.
	ErrContributionTooLarge = errors.New("contribution exceeds per-player cap")
	// ErrInsufficientInfluence is returned when a player cannot afford a
	// contribution.
	ErrInsufficientInfluence = errors.New("insufficient influence")
)

// CrisisOutcome is the terminal result of a crisis.
type CrisisOutcome string

const (
	CrisisOngoing CrisisOutcome = ""
	CrisisSuccess CrisisOutcome = "success"
	CrisisFailure CrisisOutcome = "failure"
)

// Crisis tracks an active crisis's contribution pool against its
// threshold and turn countdown.
type Crisis struct {
	ID                       string         `json:"id"`
	Name                     string         `json:"name"`
	Severity                 int            `json:"severity"`
	ContributionThreshold    int            `json:"contribution_threshold"`
	MaxContributionPerPlayer int            `json:"max_contribution_per_player"`
	TurnsRemaining           int            `json:"turns_remaining"`
	Contributions            map[string]int `json:"contributions"`
	SuccessEffect            NationDelta    `json:"success_effect"`
	FailureEffect            NationDelta    `json:"failure_effect"`
}

// Total sums every player's contribution. Overflow past the threshold is
// allowed; the excess has no additional effect.
func (c *Crisis) Total() int {
	total := 0
	for _, amount := range c.Contributions {
		total += amount
	}
	return total
}

// Contribute validates and applies one player's contribution, decrementing
// their influence. Returns the crisis outcome, which is CrisisSuccess when
// this contribution reaches the threshold regardless of turns remaining.
func (c *Crisis) Contribute(player *Player, amount int) (CrisisOutcome, error) {
	if amount <= 0 {
		return CrisisOngoing, ErrContributionTooLarge
	}
	if c.Contributions[player.UserID]+amount > c.MaxContributionPerPlayer {
		return CrisisOngoing, ErrContributionTooLarge
	}
	if amount > player.Influence {
		return CrisisOngoing, ErrInsufficientInfluence
	}

	player.Influence -= amount
	if c.Contributions == nil {
		c.Contributions = make(map[string]int)
	}
	c.Contributions[player.UserID] += amount

	if c.Total() >= c.ContributionThreshold {
		return CrisisSuccess, nil
	}
	return CrisisOngoing, nil
}

// Tick decrements the turn countdown and reports the outcome: failure
// when the countdown expires below the threshold, success when the pool
// already met it.
func (c *Crisis) Tick() CrisisOutcome {
	if c.Total() >= c.ContributionThreshold {
		return CrisisSuccess
	}
	c.TurnsRemaining--
	if c.TurnsRemaining <= 0 {
		return CrisisFailure
	}
	return CrisisOngoing
}

// Effect returns the single nation delta for a terminal outcome.
func (c *Crisis) Effect(outcome CrisisOutcome) NationDelta {
	switch outcome {
	case CrisisSuccess:
		return c.SuccessEffect
	case CrisisFailure:
		return c.FailureEffect
	}
	return NationDelta{}
}

// crisisCatalog is the static crisis content. Severity scales threshold
// and countdown pressure.
var crisisCatalog = []Crisis{
	{
		ID:                       "crisis_market_crash",
		Name:                     "Market Crash",
		Severity:                 2,
		ContributionThreshold:    5,
		MaxContributionPerPlayer: 3,
		TurnsRemaining:           3,
		SuccessEffect:            NationDelta{Stability: 5, Budget: 10},
		FailureEffect:            NationDelta{Stability: -10, Budget: -15},
	},
	{
		ID:                       "crisis_general_strike",
		Name:                     "General Strike",
		Severity:                 2,
		ContributionThreshold:    6,
		MaxContributionPerPlayer: 3,
		TurnsRemaining:           3,
		SuccessEffect:            NationDelta{Stability: 10, Budget: 0},
		FailureEffect:            NationDelta{Stability: -15, Budget: -5},
	},
	{
		ID:                       "crisis_border_incident",
		Name:                     "Border Incident",
		Severity:                 3,
		ContributionThreshold:    8,
		MaxContributionPerPlayer: 4,
		TurnsRemaining:           2,
		SuccessEffect:            NationDelta{Stability: 8, Budget: 5},
		FailureEffect:            NationDelta{Stability: -20, Budget: -10},
	},
	{
		ID:                       "crisis_corruption_scandal",
		Name:                     "Corruption Scandal",
		Severity:                 1,
		ContributionThreshold:    4,
		MaxContributionPerPlayer: 2,
		TurnsRemaining:           4,
		SuccessEffect:            NationDelta{Stability: 5, Budget: 5},
		FailureEffect:            NationDelta{Stability: -8, Budget: -8},
	},
}

// NewCrisis instantiates the catalog entry at the given index (mod pool
// size) with a fresh contribution pool.
func NewCrisis(index int) *Crisis {
	template := crisisCatalog[((index%len(crisisCatalog))+len(crisisCatalog))%len(crisisCatalog)]
	crisis := template
	crisis.Contributions = make(map[string]int)
	return &crisis
}

// CrisisCount returns the size of the crisis catalog.
func CrisisCount() int {
	return len(crisisCatalog)
}
