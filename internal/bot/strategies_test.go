package bot

import (
	"testing"

	"coalition/internal/domain"
)

func botTestGame() *domain.Game {
	rules := domain.Rules{
		TrackLength:       24,
		DiceSides:         6,
		InitialInfluence:  5,
		InitialTokens:     3,
		WinInfluenceMin:   3,
		InitialStability:  50,
		InitialBudget:     50,
		StabilityHigh:     70,
		StabilityLow:      30,
		StabilityCollapse: 10,
		BudgetHigh:        70,
		BudgetLow:         30,
		BudgetCollapse:    10,
	}
	return domain.NewGame(rules, []*domain.Player{
		{UserID: "u1", Ideology: domain.IdeologyProgressive, Connected: true},
		{UserID: "bot-delegate-01", Ideology: domain.IdeologyConservative, Connected: true},
		{UserID: "u3", Ideology: domain.IdeologyCentrist, Connected: true},
	})
}

func botTestCard() *domain.DecisionCard {
	return &domain.DecisionCard{
		ID: "card_bot_test",
		Options: []domain.CardOption{
			{
				ID:      "opt_left",
				Aligned: []domain.AlignmentEffect{{Ideology: domain.IdeologyProgressive, Movement: 2}},
				Opposed: []domain.AlignmentEffect{{Ideology: domain.IdeologyConservative, Movement: 1}},
				Effect:  domain.NationDelta{Stability: -5, Budget: 5},
			},
			{
				ID:      "opt_right",
				Aligned: []domain.AlignmentEffect{{Ideology: domain.IdeologyConservative, Movement: 3}},
				Opposed: []domain.AlignmentEffect{{Ideology: domain.IdeologyProgressive, Movement: 2}},
				Effect:  domain.NationDelta{Stability: 2, Budget: -3},
			},
		},
	}
}

func TestPendingObligations(t *testing.T) {
	game := botTestGame()
	brain := &BasicBot{}
	bot := game.Players["bot-delegate-01"]

	// Non-active bot has nothing to do while the active player rolls.
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("waiting non-active: %+v, want none", action)
	}

	// Active bot rolls.
	game.ActiveSeat = 1
	if action := brain.Decide(game, bot); action.Kind != ActionRoll {
		t.Fatalf("waiting active: %+v, want roll", action)
	}
	game.ActiveSeat = 0

	game.Phase = domain.PhaseReviewing
	if action := brain.Decide(game, bot); action.Kind != ActionReady {
		t.Fatalf("reviewing: %+v, want ready", action)
	}
	game.Ready[bot.UserID] = true
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("already ready: %+v, want none", action)
	}

	game.Phase = domain.PhaseShowingResults
	if action := brain.Decide(game, bot); action.Kind != ActionAcknowledge {
		t.Fatalf("showing results: %+v, want acknowledge", action)
	}
	game.Acks[bot.UserID] = true
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("already acked: %+v, want none", action)
	}
}

func TestBasicBotVotesItsIdeology(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseVoting
	game.Card = botTestCard()
	brain := &BasicBot{}
	bot := game.Players["bot-delegate-01"]

	game.ChosenOptionID = "opt_right" // conservative aligned
	action := brain.Decide(game, bot)
	if action.Kind != ActionVote || action.Choice != domain.VoteYes {
		t.Fatalf("aligned option: %+v, want yes", action)
	}
	if action.InfluenceSpent != 0 {
		t.Fatalf("basic bot never spends, got %d", action.InfluenceSpent)
	}

	game.ChosenOptionID = "opt_left" // conservative opposed
	action = brain.Decide(game, bot)
	if action.Kind != ActionVote || action.Choice != domain.VoteNo {
		t.Fatalf("opposed option: %+v, want no", action)
	}

	centrist := game.Players["u3"]
	action = brain.Decide(game, centrist)
	if action.Kind != ActionVote || action.Choice != domain.VoteAbstain {
		t.Fatalf("unlisted ideology: %+v, want abstain", action)
	}

	// A bot that already voted stays quiet.
	game.Votes[bot.UserID] = &domain.VoteRecord{PlayerID: bot.UserID, Choice: domain.VoteNo}
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("already voted: %+v, want none", action)
	}
}

func TestBasicBotSelectsBestOption(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseDeliberating
	game.Card = botTestCard()
	game.ActiveSeat = 1
	brain := &BasicBot{}

	action := brain.Decide(game, game.Players["bot-delegate-01"])
	if action.Kind != ActionSelect || action.OptionID != "opt_right" {
		t.Fatalf("selection = %+v, want opt_right", action)
	}
}

func TestShrewdBotSpendsOnIdeologyVotes(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseVoting
	game.Card = botTestCard()
	game.ChosenOptionID = "opt_right"
	brain := &ShrewdBot{}

	action := brain.Decide(game, game.Players["bot-delegate-01"])
	if action.Kind != ActionVote || action.Choice != domain.VoteYes {
		t.Fatalf("aligned option: %+v, want yes", action)
	}
	// Spend tracks the option's movement value, capped by influence.
	if action.InfluenceSpent != 3 {
		t.Fatalf("spend = %d, want 3", action.InfluenceSpent)
	}
}

func TestShrewdBotBlocksCollapseRisk(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseVoting
	game.Card = botTestCard()
	game.ChosenOptionID = "opt_right" // conservative aligned, but...
	game.Nation.Budget = 16           // ...its -3 budget lands within 5 of collapse
	brain := &ShrewdBot{}

	action := brain.Decide(game, game.Players["bot-delegate-01"])
	if action.Kind != ActionVote || action.Choice != domain.VoteNo {
		t.Fatalf("endangering option: %+v, want no despite alignment", action)
	}
	if action.InfluenceSpent != 2 {
		t.Fatalf("spend = %d, want 2", action.InfluenceSpent)
	}
}

func TestShrewdBotFundsDangerousCrises(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseCrisis
	game.Crisis = &domain.Crisis{
		ID:                       "crisis_test",
		ContributionThreshold:    5,
		MaxContributionPerPlayer: 3,
		TurnsRemaining:           2,
		Contributions:            map[string]int{"u1": 1},
		FailureEffect:            domain.NationDelta{Stability: -40, Budget: 0},
	}
	brain := &ShrewdBot{}
	bot := game.Players["bot-delegate-01"]

	action := brain.Decide(game, bot)
	if action.Kind != ActionContribute {
		t.Fatalf("dangerous crisis: %+v, want contribute", action)
	}
	// Shortfall 4, cap room 3, influence 5 keeping 1 back: min is 3.
	if action.Amount != 3 {
		t.Fatalf("amount = %d, want 3", action.Amount)
	}

	// A harmless crisis gets nothing.
	game.Crisis.FailureEffect = domain.NationDelta{Stability: -2}
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("harmless crisis: %+v, want none", action)
	}

	// Broke bots keep their last influence point.
	game.Crisis.FailureEffect = domain.NationDelta{Stability: -40}
	bot.Influence = 1
	if action := brain.Decide(game, bot); action.Kind != ActionNone {
		t.Fatalf("broke bot: %+v, want none", action)
	}
}

func TestBotDealResponses(t *testing.T) {
	game := botTestGame()
	game.Phase = domain.PhaseDeliberating
	game.Card = botTestCard()
	brain := &BasicBot{}
	bot := game.Players["bot-delegate-01"]

	// A commitment to vote yes would help opt_left, which the
	// conservative opposes: reject.
	game.Deals = []*domain.Deal{{
		ID:          1,
		InitiatorID: "u1",
		ResponderID: bot.UserID,
		Terms: domain.DealTerms{
			InitiatorCommitment: domain.Commitment{Type: domain.CommitToken},
			ResponderCommitment: domain.Commitment{Type: domain.CommitVote, Choice: domain.VoteYes},
		},
		Scope:  domain.ScopeThisVote,
		Status: domain.DealPending,
	}}
	action := brain.Decide(game, bot)
	if action.Kind != ActionRespondDeal || action.Accept {
		t.Fatalf("against-ideology commitment: %+v, want reject", action)
	}

	// A token-for-token swap carries no vote commitment: accept.
	game.Deals[0].Terms.ResponderCommitment = domain.Commitment{Type: domain.CommitToken}
	action = brain.Decide(game, bot)
	if action.Kind != ActionRespondDeal || !action.Accept {
		t.Fatalf("token swap: %+v, want accept", action)
	}
}

func TestAgentLifecycle(t *testing.T) {
	agent, err := NewAgent("bot-unpooled")
	if err != nil {
		t.Fatalf("agent error: %v", err)
	}
	if _, ok := agent.Strategy.(*ShrewdBot); !ok {
		t.Fatalf("unpooled identity should default to shrewd, got %T", agent.Strategy)
	}

	game := botTestGame()
	if action := agent.NextAction(game); action.Kind != ActionNone {
		t.Fatalf("agent without a seat should do nothing, got %+v", action)
	}
}

func TestNewBrain(t *testing.T) {
	if _, err := NewBrain(BotLevelBasic); err != nil {
		t.Fatalf("basic: %v", err)
	}
	if _, err := NewBrain(BotLevelShrewd); err != nil {
		t.Fatalf("shrewd: %v", err)
	}
	if _, err := NewBrain("grandmaster"); err == nil {
		t.Fatalf("unknown level should error")
	}
}
