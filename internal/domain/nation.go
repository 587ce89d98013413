package domain

// NationState is the shared stability/budget pair every player is
// collectively keeping above the collapse thresholds.
type NationState struct {
	Stability int
	Budget    int
}

// NationDelta is a signed change to both nation metrics.
type NationDelta struct {
	Stability int `json:"stability"`
	Budget    int `json:"budget"`
}

// IsZero reports whether the delta changes nothing.
func (d NationDelta) IsZero() bool {
	return d.Stability == 0 && d.Budget == 0
}

// Apply returns the nation after the delta. Metrics are not clamped;
// collapse evaluation is the caller's next step.
func (n NationState) Apply(d NationDelta) NationState {
	return NationState{
		Stability: n.Stability + d.Stability,
		Budget:    n.Budget + d.Budget,
	}
}

// CollapseReason identifies which metric breached its collapse bound.
type CollapseReason string

const (
	// CollapseNone means the nation is above both collapse bounds.
	CollapseNone CollapseReason = ""
	// CollapseStability means stability breached its bound.
	CollapseStability CollapseReason = "stability"
	// CollapseBudget means budget breached its bound.
	CollapseBudget CollapseReason = "budget"
)

// EvaluateCollapse checks the nation against the collapse bounds.
// Stability is evaluated before budget so a simultaneous breach always
// reports stability.
func (n NationState) EvaluateCollapse(rules Rules) CollapseReason {
	if n.Stability <= rules.StabilityCollapse {
		return CollapseStability
	}
	if n.Budget <= rules.BudgetCollapse {
		return CollapseBudget
	}
	return CollapseNone
}

// StabilityModifier is the movement modifier every player receives from
// the nation's stability level.
func (n NationState) StabilityModifier(rules Rules) int {
	switch {
	case n.Stability >= rules.StabilityHigh:
		return 1
	case n.Stability <= rules.StabilityLow:
		return -1
	}
	return 0
}

// BudgetRollModifier adjusts the active player's dice roll from the
// nation's budget level, applied before the other modifiers combine.
func (n NationState) BudgetRollModifier(rules Rules) int {
	switch {
	case n.Budget >= rules.BudgetHigh:
		return 1
	case n.Budget <= rules.BudgetLow:
		return -1
	}
	return 0
}
