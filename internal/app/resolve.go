package app

import (
	"sort"

	"coalition/internal/domain"
)

// beginTurn opens a turn at the waiting phase, first checking whether a
// crisis preempts the draw. The interrupted turn resumes at waiting once
// the crisis resolves.
func (s *Service) beginTurn(g *domain.Game, now int64) []Event {
	g.ResetTurnState()

	if g.Crisis == nil && s.rng.Intn(100) < g.Rules.CrisisChancePercent {
		g.Crisis = domain.NewCrisis(s.rng.Intn(domain.CrisisCount()))
		g.Phase = domain.PhaseCrisis
		g.PhaseDeadline = now + int64(s.cfg.CrisisRoundSeconds)
		return []Event{
			{Kind: EventCrisisTriggered, Payload: CrisisPayload{Crisis: *g.Crisis}},
			s.phaseEvent(g, s.cfg.CrisisRoundSeconds),
		}
	}

	g.Phase = domain.PhaseWaiting
	g.PhaseDeadline = now + int64(s.cfg.TurnTimeoutSeconds)
	return []Event{s.phaseEvent(g, s.cfg.TurnTimeoutSeconds)}
}

// nextTurn rotates the active seat and opens the next turn.
func (s *Service) nextTurn(g *domain.Game, now int64) []Event {
	g.Turn++
	g.ActiveSeat = (g.ActiveSeat + 1) % len(g.SeatOrder)
	return s.beginTurn(g, now)
}

// resolveTurn runs the full resolution pipeline once every expected vote
// is in: atomic reveal, weighted tally, movement for all players, nation
// deltas for passed options, scoped deal checks, collapse check and
// victory check, then the immutable history entry.
func (s *Service) resolveTurn(g *domain.Game, now int64) []Event {
	g.Phase = domain.PhaseRevealing
	g.PhaseDeadline = 0
	events := []Event{s.phaseEvent(g, 0)}

	// Players who never voted are recorded as forced abstains so deal
	// checks and the transparency log see a complete vote set.
	for _, p := range g.Players {
		if _, ok := g.Votes[p.UserID]; !ok {
			if p.Connected {
				p.Afk = true
			}
			g.Votes[p.UserID] = &domain.VoteRecord{
				PlayerID: p.UserID,
				Choice:   domain.VoteAbstain,
				Forced:   true,
			}
		}
	}

	g.Phase = domain.PhaseResolving
	events = append(events, s.phaseEvent(g, 0))

	option := g.Card.Option(g.ChosenOptionID)
	yesCount, noCount := domain.TallyVotes(g.Votes)
	passed := domain.DetermineVoteOutcome(yesCount, noCount)

	breakdown := domain.VoteBreakdown{
		YesCount: yesCount,
		NoCount:  noCount,
		Passed:   passed,
		Margin:   domain.CalculateVoteMargin(yesCount, noCount),
	}
	for _, userID := range g.SeatOrder {
		v := g.Votes[userID]
		breakdown.Votes = append(breakdown.Votes, *v)
		if domain.IsAlignedVote(option, g.Players[userID].Ideology, v.Choice) {
			breakdown.AlignedVoters = append(breakdown.AlignedVoters, userID)
		}
	}

	// Movement for all players. Only a passed option contributes
	// ideology modifiers; the roll and nation modifiers always apply.
	var movements []domain.MovementBreakdown
	active := g.ActivePlayer()
	for _, userID := range g.SeatOrder {
		p := g.Players[userID]
		in := domain.MovementInput{}
		if active != nil && p.UserID == active.UserID {
			in.DiceRoll = true
			in.RawRoll = g.Roll
		}
		if passed {
			in.IdeologyModifier = domain.IdeologyMovement(option, p.Ideology)
		}
		m := domain.CalculateMovement(in, g.Nation, g.Rules)
		m.PlayerID = userID
		p.Position = domain.AdvancePosition(p.Position, m.Total, g.Rules.TrackLength)
		m.NewPosition = p.Position
		movements = append(movements, m)
	}

	// Nation deltas from the chosen option apply only when it passed.
	var delta domain.NationDelta
	if passed && option != nil {
		delta = option.Effect
		g.Nation = g.Nation.Apply(delta)
	}

	// Deals scoped over this vote.
	var outcomes []domain.DealOutcome
	for _, deal := range domain.ActiveDeals(g) {
		result := deal.CheckFulfillment(g.Votes)
		if len(result.Breaches) > 0 {
			domain.ApplyBreachPenalties(result, g.Players)
			events = append(events, Event{Kind: EventDealBreach, Payload: DealBreachPayload{
				DealID:   deal.ID,
				Breaches: result.Breaches,
			}})
		}
		if result.Resolved {
			outcomes = append(outcomes, domain.DealOutcome{
				DealID:   deal.ID,
				Status:   deal.Status,
				Breaches: result.Breaches,
			})
		}
	}
	// Unanswered proposals expire with the vote they targeted.
	for _, deal := range append([]*domain.Deal(nil), g.Deals...) {
		if deal.Status == domain.DealPending {
			domain.RemoveDeal(g, deal.ID)
		}
	}

	entry := domain.TurnHistoryEntry{
		Turn:           g.Turn,
		ActivePlayerID: activeID(active),
		CardID:         g.Card.ID,
		OptionID:       g.ChosenOptionID,
		Vote:           breakdown,
		NationDelta:    delta,
		NationAfter:    g.Nation,
		Movements:      movements,
		DealOutcomes:   outcomes,
	}
	g.History = append(g.History, entry)
	events = append(events, Event{Kind: EventTurnResolved, Payload: TurnResultPayload{
		Entry:  entry,
		Nation: g.Nation,
	}})

	if halted := s.checkInvariants(g); halted != nil {
		return append(events, *halted)
	}

	if reason := g.Nation.EvaluateCollapse(g.Rules); reason != domain.CollapseNone {
		return append(events, s.endCollapsed(g, reason)...)
	}
	if winner := domain.DetermineWinner(g); winner != nil {
		return append(events, s.endFinished(g, winner)...)
	}

	g.Phase = domain.PhaseShowingResults
	g.PhaseDeadline = now + int64(s.cfg.AcknowledgeTimeoutSeconds)
	events = append(events, s.phaseEvent(g, s.cfg.AcknowledgeTimeoutSeconds))
	return events
}

func activeID(p *domain.Player) string {
	if p == nil {
		return ""
	}
	return p.UserID
}

// resolveCrisis applies exactly one of the success/failure effects, then
// resumes the interrupted turn's waiting phase.
func (s *Service) resolveCrisis(g *domain.Game, outcome domain.CrisisOutcome, now int64) []Event {
	crisis := g.Crisis
	effect := crisis.Effect(outcome)
	g.Nation = g.Nation.Apply(effect)
	g.Crisis = nil

	events := []Event{{Kind: EventCrisisResolved, Payload: CrisisResolutionPayload{
		CrisisID: crisis.ID,
		Outcome:  outcome,
		Effect:   effect,
		Nation:   g.Nation,
	}}}

	if reason := g.Nation.EvaluateCollapse(g.Rules); reason != domain.CollapseNone {
		return append(events, s.endCollapsed(g, reason)...)
	}

	g.Phase = domain.PhaseWaiting
	g.PhaseDeadline = now + int64(s.cfg.TurnTimeoutSeconds)
	events = append(events, s.phaseEvent(g, s.cfg.TurnTimeoutSeconds))
	return events
}

func (s *Service) endCollapsed(g *domain.Game, reason domain.CollapseReason) []Event {
	g.Phase = domain.PhaseCollapsed
	g.CollapseReason = reason
	g.PhaseDeadline = 0
	return []Event{
		s.phaseEvent(g, 0),
		{Kind: EventGameEnded, Payload: GameEndedPayload{
			Phase:          g.Phase,
			CollapseReason: reason,
			Standings:      standings(g),
		}},
	}
}

func (s *Service) endFinished(g *domain.Game, winner *domain.Player) []Event {
	g.Phase = domain.PhaseFinished
	g.WinnerID = winner.UserID
	g.PhaseDeadline = 0
	return []Event{
		s.phaseEvent(g, 0),
		{Kind: EventGameEnded, Payload: GameEndedPayload{
			Phase:     g.Phase,
			WinnerID:  winner.UserID,
			Standings: standings(g),
		}},
	}
}

func standings(g *domain.Game) []StandingEntry {
	entries := make([]StandingEntry, 0, len(g.SeatOrder))
	for _, userID := range g.SeatOrder {
		p := g.Players[userID]
		entries = append(entries, StandingEntry{
			PlayerID:  userID,
			Position:  p.Position,
			Influence: p.Influence,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Position != entries[j].Position {
			return entries[i].Position > entries[j].Position
		}
		return entries[i].Influence > entries[j].Influence
	})
	return entries
}

// checkInvariants halts the session if resolution produced a state that
// should be impossible, such as observed negative influence. Continuing
// would produce undefined game state.
func (s *Service) checkInvariants(g *domain.Game) *Event {
	for _, p := range g.Players {
		if p.Influence < 0 || p.OwnTokens < 0 || p.Position < 0 {
			g.Halted = true
			g.PhaseDeadline = 0
			return &Event{Kind: EventGameEnded, Payload: GameEndedPayload{
				Phase:     g.Phase,
				Standings: standings(g),
			}}
		}
	}
	return nil
}

// HandleDeadlines runs the fairness timeouts. The match loop calls it
// every tick; expired deadlines force-advance the blocked phase through
// the same paths player intents take, so a single AFK or disconnected
// player can never deadlock the session.
func (s *Service) HandleDeadlines(g *domain.Game, now int64) []Event {
	if g == nil || g.Halted || g.Phase.Terminal() {
		return nil
	}
	if g.PhaseDeadline == 0 || now < g.PhaseDeadline {
		return nil
	}

	switch g.Phase {
	case domain.PhaseWaiting:
		// Auto-roll for an unresponsive active player.
		active := g.ActivePlayer()
		if active == nil {
			return nil
		}
		active.Afk = true
		return s.rollAndDraw(g, active, now)

	case domain.PhaseReviewing:
		var events []Event
		active := g.ActivePlayer()
		for _, userID := range g.SeatOrder {
			if active != nil && userID == active.UserID {
				continue
			}
			if !g.Ready[userID] {
				g.Ready[userID] = true
				if p := g.Players[userID]; p.Connected {
					p.Afk = true
				}
				events = append(events, Event{Kind: EventPlayerReady, Payload: PlayerReadyPayload{
					PlayerID: userID,
					Forced:   true,
				}})
			}
		}
		return append(events, s.openDeliberation(g, now)...)

	case domain.PhaseDeliberating:
		// An active player who never proposes gets the card's first
		// option selected on their behalf.
		active := g.ActivePlayer()
		if active == nil || g.Card == nil || len(g.Card.Options) == 0 {
			return nil
		}
		active.Afk = true
		return s.propose(g, active, &g.Card.Options[0], now)

	case domain.PhaseVoting:
		return s.resolveTurn(g, now)

	case domain.PhaseShowingResults:
		return s.nextTurn(g, now)

	case domain.PhaseCrisis:
		if g.Crisis == nil {
			return nil
		}
		outcome := g.Crisis.Tick()
		if outcome == domain.CrisisOngoing {
			g.PhaseDeadline = now + int64(s.cfg.CrisisRoundSeconds)
			return []Event{s.phaseEvent(g, s.cfg.CrisisRoundSeconds)}
		}
		return s.resolveCrisis(g, outcome, now)
	}
	return nil
}
