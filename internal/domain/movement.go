package domain

// MovementInput gathers everything the movement calculation depends on.
// Movement is a pure function of this input: resolving the same turn
// twice yields identical deltas.
type MovementInput struct {
	// DiceRoll is the active player's raw roll; zero for everyone else.
	DiceRoll bool
	RawRoll  int
	// IdeologyModifier is the signed movement from the chosen option's
	// aligned/opposed lists; zero when the vote failed.
	IdeologyModifier int
	// InfluenceBonus is reserved for deal-driven bonuses.
	InfluenceBonus int
}

// MovementBreakdown itemizes one player's movement for the turn result.
type MovementBreakdown struct {
	PlayerID         string `json:"player_id"`
	DiceRoll         int    `json:"dice_roll"`
	RollModifier     int    `json:"roll_modifier"`
	IdeologyModifier int    `json:"ideology_modifier"`
	NationModifier   int    `json:"nation_modifier"`
	InfluenceBonus   int    `json:"influence_bonus"`
	Total            int    `json:"total"`
	NewPosition      int    `json:"new_position"`
}

// CalculateMovement computes one player's position delta for the turn.
// The budget roll modifier applies only to an actual roll, before the
// remaining modifiers combine; the total is floored at zero so positions
// never regress.
func CalculateMovement(in MovementInput, nation NationState, rules Rules) MovementBreakdown {
	breakdown := MovementBreakdown{
		IdeologyModifier: in.IdeologyModifier,
		NationModifier:   nation.StabilityModifier(rules),
		InfluenceBonus:   in.InfluenceBonus,
	}

	if in.DiceRoll {
		breakdown.DiceRoll = in.RawRoll
		breakdown.RollModifier = nation.BudgetRollModifier(rules)
	}

	total := breakdown.DiceRoll + breakdown.RollModifier +
		breakdown.IdeologyModifier + breakdown.NationModifier +
		breakdown.InfluenceBonus
	if total < 0 {
		total = 0
	}
	breakdown.Total = total
	return breakdown
}

// AdvancePosition applies a movement total to a position, clamping to
// the track bounds.
func AdvancePosition(position, total, trackLength int) int {
	next := position + total
	if next < 0 {
		next = 0
	}
	if next > trackLength {
		next = trackLength
	}
	return next
}

// IdeologyMovement looks up the signed movement the option grants the
// given ideology: positive from the aligned list, negative from the
// opposed list, zero when unlisted.
func IdeologyMovement(option *CardOption, ideology Ideology) int {
	if option == nil {
		return 0
	}
	for _, a := range option.Aligned {
		if a.Ideology == ideology {
			return a.Movement
		}
	}
	for _, o := range option.Opposed {
		if o.Ideology == ideology {
			return -o.Movement
		}
	}
	return 0
}
