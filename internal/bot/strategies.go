package bot

import "coalition/internal/domain"

// ActionKind identifies what a bot wants to do next.
type ActionKind string

const (
	ActionNone        ActionKind = ""
	ActionRoll        ActionKind = "roll"
	ActionReady       ActionKind = "ready"
	ActionSelect      ActionKind = "select_option"
	ActionVote        ActionKind = "vote"
	ActionContribute  ActionKind = "contribute"
	ActionAcknowledge ActionKind = "acknowledge"
	ActionRespondDeal ActionKind = "respond_deal"
)

// Action is one decision a bot hands back to the match handler, which
// feeds it through the same app service paths as human intents.
type Action struct {
	Kind ActionKind

	OptionID       string
	Choice         domain.VoteChoice
	InfluenceSpent int
	Amount         int
	DealID         int
	Accept         bool
}

// Brain decides a bot's next pending action for the current game state.
type Brain interface {
	Decide(game *domain.Game, player *domain.Player) Action
}

// BasicBot follows its ideology blindly: yes on aligned options, no on
// opposed ones, abstain otherwise, and never spends influence.
type BasicBot struct{}

func (b *BasicBot) Decide(game *domain.Game, player *domain.Player) Action {
	if action, done := pendingObligation(game, player); done {
		return action
	}

	switch game.Phase {
	case domain.PhaseDeliberating:
		if isActive(game, player) {
			return Action{Kind: ActionSelect, OptionID: bestOptionFor(game, player.Ideology)}
		}
		if deal := pendingDealFor(game, player.UserID); deal != nil {
			// Basic bots accept anything that does not commit their vote
			// against their ideology.
			accept := !commitsAgainstIdeology(game, deal, player)
			return Action{Kind: ActionRespondDeal, DealID: deal.ID, Accept: accept}
		}
	case domain.PhaseVoting:
		option := game.Card.Option(game.ChosenOptionID)
		move := domain.IdeologyMovement(option, player.Ideology)
		switch {
		case move > 0:
			return Action{Kind: ActionVote, Choice: domain.VoteYes}
		case move < 0:
			return Action{Kind: ActionVote, Choice: domain.VoteNo}
		}
		return Action{Kind: ActionVote, Choice: domain.VoteAbstain}
	}
	return Action{}
}

// ShrewdBot weighs the nation alongside its ideology: it will cross
// ideological lines to block a collapse, spends influence on votes it
// cares about, and funds crises whose failure effect threatens the run.
type ShrewdBot struct{}

func (b *ShrewdBot) Decide(game *domain.Game, player *domain.Player) Action {
	if action, done := pendingObligation(game, player); done {
		return action
	}

	switch game.Phase {
	case domain.PhaseDeliberating:
		if isActive(game, player) {
			return Action{Kind: ActionSelect, OptionID: bestOptionFor(game, player.Ideology)}
		}
		if deal := pendingDealFor(game, player.UserID); deal != nil {
			accept := !commitsAgainstIdeology(game, deal, player) && player.OwnTokens > 0
			return Action{Kind: ActionRespondDeal, DealID: deal.ID, Accept: accept}
		}
	case domain.PhaseVoting:
		option := game.Card.Option(game.ChosenOptionID)
		move := domain.IdeologyMovement(option, player.Ideology)
		choice := domain.VoteAbstain
		spend := 0
		if option != nil {
			danger := wouldEndanger(game, option.Effect)
			switch {
			case danger:
				choice = domain.VoteNo
				spend = min(2, player.Influence)
			case move > 0:
				choice = domain.VoteYes
				spend = min(move, player.Influence)
			case move < 0:
				choice = domain.VoteNo
				spend = min(-move, player.Influence)
			case option.Effect.Stability > 0 || option.Effect.Budget > 0:
				choice = domain.VoteYes
			}
		}
		return Action{Kind: ActionVote, Choice: choice, InfluenceSpent: spend}
	case domain.PhaseCrisis:
		if game.Crisis == nil {
			return Action{}
		}
		failure := game.Crisis.FailureEffect
		if !wouldEndanger(game, failure) {
			return Action{}
		}
		shortfall := game.Crisis.ContributionThreshold - game.Crisis.Total()
		if shortfall <= 0 {
			return Action{}
		}
		room := game.Crisis.MaxContributionPerPlayer - game.Crisis.Contributions[player.UserID]
		amount := min(min(shortfall, room), player.Influence-1)
		if amount > 0 {
			return Action{Kind: ActionContribute, Amount: amount}
		}
	}
	return Action{}
}

// pendingObligation covers the phase steps every bot performs the same
// way regardless of strategy.
func pendingObligation(game *domain.Game, player *domain.Player) (Action, bool) {
	switch game.Phase {
	case domain.PhaseWaiting:
		if isActive(game, player) {
			return Action{Kind: ActionRoll}, true
		}
	case domain.PhaseReviewing:
		if !isActive(game, player) && !game.Ready[player.UserID] {
			return Action{Kind: ActionReady}, true
		}
	case domain.PhaseVoting:
		if _, voted := game.Votes[player.UserID]; voted {
			return Action{}, true
		}
	case domain.PhaseShowingResults:
		if !game.Acks[player.UserID] {
			return Action{Kind: ActionAcknowledge}, true
		}
	}
	return Action{}, false
}

func isActive(game *domain.Game, player *domain.Player) bool {
	active := game.ActivePlayer()
	return active != nil && active.UserID == player.UserID
}

// bestOptionFor picks the option granting the ideology the most
// movement, falling back to the first option.
func bestOptionFor(game *domain.Game, ideology domain.Ideology) string {
	if game.Card == nil || len(game.Card.Options) == 0 {
		return ""
	}
	best := game.Card.Options[0].ID
	bestMove := domain.IdeologyMovement(&game.Card.Options[0], ideology)
	for i := 1; i < len(game.Card.Options); i++ {
		if move := domain.IdeologyMovement(&game.Card.Options[i], ideology); move > bestMove {
			best = game.Card.Options[i].ID
			bestMove = move
		}
	}
	return best
}

func pendingDealFor(game *domain.Game, userID string) *domain.Deal {
	for _, d := range game.Deals {
		if d.Status == domain.DealPending && d.ResponderID == userID {
			return d
		}
	}
	return nil
}

// commitsAgainstIdeology reports whether the responder's commitment in
// the deal is a vote the responder's ideology opposes on the current card.
func commitsAgainstIdeology(game *domain.Game, deal *domain.Deal, player *domain.Player) bool {
	c := deal.Terms.ResponderCommitment
	if c.Type != domain.CommitVote || game.Card == nil {
		return false
	}
	for i := range game.Card.Options {
		move := domain.IdeologyMovement(&game.Card.Options[i], player.Ideology)
		if (c.Choice == domain.VoteYes && move < 0) || (c.Choice == domain.VoteNo && move > 0) {
			return true
		}
	}
	return false
}

// wouldEndanger reports whether applying the delta would put either
// nation metric within 5 of its collapse bound.
func wouldEndanger(game *domain.Game, delta domain.NationDelta) bool {
	after := game.Nation.Apply(delta)
	return after.Stability <= game.Rules.StabilityCollapse+5 ||
		after.Budget <= game.Rules.BudgetCollapse+5
}
