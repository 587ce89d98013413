package app

import (
	"math/rand"
	"time"

	"coalition/internal/config"
	"coalition/internal/domain"
)

// Service contains Coalition use-cases operating on domain state. Every
// method validates the intent fully before mutating anything: a rejected
// intent never changes shared state and never advances the phase.
type Service struct {
	rng *rand.Rand
	cfg config.GameConfig
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. Configuration is captured once at construction.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, cfg: config.GetGameConfig()}
}

// Rules maps the captured configuration into the domain ruleset.
func (s *Service) Rules() domain.Rules {
	return domain.Rules{
		TrackLength:         s.cfg.TrackLength,
		DiceSides:           s.cfg.DiceSides,
		InitialInfluence:    s.cfg.InitialInfluence,
		InitialTokens:       s.cfg.InitialTokens,
		WinInfluenceMin:     s.cfg.WinInfluenceMin,
		InitialStability:    s.cfg.InitialStability,
		InitialBudget:       s.cfg.InitialBudget,
		StabilityHigh:       s.cfg.StabilityHigh,
		StabilityLow:        s.cfg.StabilityLow,
		StabilityCollapse:   s.cfg.StabilityCollapse,
		BudgetHigh:          s.cfg.BudgetHigh,
		BudgetLow:           s.cfg.BudgetLow,
		BudgetCollapse:      s.cfg.BudgetCollapse,
		CrisisChancePercent: s.cfg.CrisisChancePercent,
	}
}

// LobbyPlayer carries the lobby-side identity of a participant into
// StartGame.
type LobbyPlayer struct {
	UserID      string
	DisplayName string
	Ideology    domain.Ideology
	Connected   bool
}

// StartGame validates the lobby roster and opens turn 1.
func (s *Service) StartGame(lobby []LobbyPlayer, now int64) (*domain.Game, []Event, error) {
	if len(lobby) < MinPlayers || len(lobby) > MaxPlayers {
		return nil, nil, validationErr("need %d-%d players, have %d", MinPlayers, MaxPlayers, len(lobby))
	}

	taken := make(map[domain.Ideology]bool, len(lobby))
	players := make([]*domain.Player, 0, len(lobby))
	for _, lp := range lobby {
		if lp.UserID == "" {
			return nil, nil, validationErr("player without user id")
		}
		if !lp.Ideology.IsValid() {
			return nil, nil, validationErr("player %s has no ideology selected", lp.UserID)
		}
		if taken[lp.Ideology] {
			return nil, nil, validationErr("ideology %s already taken", lp.Ideology)
		}
		taken[lp.Ideology] = true
		players = append(players, &domain.Player{
			UserID:      lp.UserID,
			DisplayName: lp.DisplayName,
			Ideology:    lp.Ideology,
			Connected:   lp.Connected,
		})
	}

	game := domain.NewGame(s.Rules(), players)
	events := s.beginTurn(game, now)
	return game, events, nil
}

func (s *Service) guard(g *domain.Game) error {
	if g.Halted {
		return ErrGameHalted
	}
	if g.Phase.Terminal() {
		return stateConflictErr("game is over")
	}
	return nil
}

// RollDice handles the active player's roll: waiting -> rolling ->
// drawing -> reviewing in one resolution, since only the roll intent
// carries player input.
func (s *Service) RollDice(g *domain.Game, actorID string, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseWaiting {
		return nil, stateConflictErr("cannot roll during %s", g.Phase)
	}
	active := g.ActivePlayer()
	if active == nil || active.UserID != actorID {
		return nil, ErrNotYourTurn
	}
	return s.rollAndDraw(g, active, now), nil
}

func (s *Service) rollAndDraw(g *domain.Game, active *domain.Player, now int64) []Event {
	g.Phase = domain.PhaseRolling
	g.Roll = s.rng.Intn(g.Rules.DiceSides) + 1

	events := []Event{
		s.phaseEvent(g, 0),
		{Kind: EventDiceRolled, Payload: DiceRolledPayload{PlayerID: active.UserID, Roll: g.Roll}},
	}

	g.Phase = domain.PhaseDrawing
	zone := domain.ZoneForPosition(active.Position, g.Rules.TrackLength)
	pool := domain.CardsForZone(zone)
	card := pool[s.rng.Intn(len(pool))]
	g.Card = &card

	events = append(events,
		s.phaseEvent(g, 0),
		Event{Kind: EventCardDrawn, Payload: CardDrawnPayload{Card: card}},
	)

	g.Phase = domain.PhaseReviewing
	g.PhaseDeadline = now + int64(s.cfg.ReviewTimeoutSeconds)
	events = append(events, s.phaseEvent(g, s.cfg.ReviewTimeoutSeconds))

	// A lone connected player has nobody to wait on.
	if s.allNonActiveReady(g) {
		events = append(events, s.openDeliberation(g, now)...)
	}
	return events
}

// MarkReady records a non-active player's review acknowledgement.
func (s *Service) MarkReady(g *domain.Game, actorID string, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseReviewing {
		return nil, stateConflictErr("cannot mark ready during %s", g.Phase)
	}
	player, ok := g.Players[actorID]
	if !ok {
		return nil, authorizationErr("unknown player")
	}
	active := g.ActivePlayer()
	if active != nil && active.UserID == actorID {
		return nil, validationErr("active player does not review")
	}
	if g.Ready[actorID] {
		return nil, stateConflictErr("already ready")
	}

	g.Ready[actorID] = true
	player.Afk = false
	events := []Event{{Kind: EventPlayerReady, Payload: PlayerReadyPayload{PlayerID: actorID}}}
	if s.allNonActiveReady(g) {
		events = append(events, s.openDeliberation(g, now)...)
	}
	return events, nil
}

func (s *Service) allNonActiveReady(g *domain.Game) bool {
	active := g.ActivePlayer()
	for _, p := range g.Players {
		if active != nil && p.UserID == active.UserID {
			continue
		}
		if p.Connected && !g.Ready[p.UserID] {
			return false
		}
	}
	return true
}

func (s *Service) openDeliberation(g *domain.Game, now int64) []Event {
	g.Phase = domain.PhaseDeliberating
	g.PhaseDeadline = now + int64(s.cfg.DeliberateTimeoutSeconds)
	return []Event{s.phaseEvent(g, s.cfg.DeliberateTimeoutSeconds)}
}

// SelectOption finalizes the active player's choice; the selection is
// final for the turn and voting opens immediately after the proposal is
// announced.
func (s *Service) SelectOption(g *domain.Game, actorID, optionID string, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseDeliberating {
		return nil, stateConflictErr("cannot select an option during %s", g.Phase)
	}
	active := g.ActivePlayer()
	if active == nil || active.UserID != actorID {
		return nil, ErrNotYourTurn
	}
	option := g.Card.Option(optionID)
	if option == nil {
		return nil, validationErr("unknown option %q", optionID)
	}
	return s.propose(g, active, option, now), nil
}

func (s *Service) propose(g *domain.Game, active *domain.Player, option *domain.CardOption, now int64) []Event {
	g.ChosenOptionID = option.ID
	g.Phase = domain.PhaseProposing

	events := []Event{
		s.phaseEvent(g, 0),
		{Kind: EventOptionSelected, Payload: OptionSelectedPayload{
			PlayerID:   active.UserID,
			CardID:     g.Card.ID,
			OptionID:   option.ID,
			OptionName: option.Name,
		}},
	}

	g.Phase = domain.PhaseVoting
	g.PhaseDeadline = now + int64(s.cfg.VoteTimeoutSeconds)
	events = append(events, s.phaseEvent(g, s.cfg.VoteTimeoutSeconds))
	return events
}

// CastVote records one player's vote. Influence spend is validated and
// deducted atomically with the record; individual choices stay hidden
// until the atomic reveal.
func (s *Service) CastVote(g *domain.Game, actorID string, choice domain.VoteChoice, influenceSpent int, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseVoting {
		return nil, stateConflictErr("cannot vote during %s", g.Phase)
	}
	player, ok := g.Players[actorID]
	if !ok {
		return nil, authorizationErr("unknown player")
	}
	if _, voted := g.Votes[actorID]; voted {
		return nil, stateConflictErr("vote already cast")
	}
	if !choice.IsValid() {
		return nil, validationErr("unknown vote choice %q", choice)
	}
	if influenceSpent < 0 {
		return nil, validationErr("negative influence spend")
	}
	if choice == domain.VoteAbstain {
		influenceSpent = 0
	}
	if influenceSpent > player.Influence {
		return nil, resourceErr("influence spend %d exceeds %d available", influenceSpent, player.Influence)
	}

	player.Influence -= influenceSpent
	player.Afk = false
	g.Votes[actorID] = &domain.VoteRecord{
		PlayerID:       actorID,
		Choice:         choice,
		InfluenceSpent: influenceSpent,
	}

	events := []Event{{Kind: EventVoteCast, Payload: VoteCastPayload{
		PlayerID:   actorID,
		VotedCount: len(g.Votes),
		Expected:   s.expectedVoters(g),
	}}}

	if len(g.Votes) >= s.expectedVoters(g) {
		events = append(events, s.resolveTurn(g, now)...)
	}
	return events, nil
}

func (s *Service) expectedVoters(g *domain.Game) int {
	expected := 0
	for _, p := range g.Players {
		if p.Connected {
			expected++
		}
	}
	if expected == 0 {
		expected = len(g.Players)
	}
	return expected
}

// ProposeDeal opens a pending deal, visible to all players immediately.
func (s *Service) ProposeDeal(g *domain.Game, actorID, responderID string, terms domain.DealTerms, scope domain.DealScope, scopeValue int, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseDeliberating {
		return nil, stateConflictErr("deals are proposed during deliberation, not %s", g.Phase)
	}
	initiator, ok := g.Players[actorID]
	if !ok {
		return nil, authorizationErr("unknown player")
	}
	responder, ok := g.Players[responderID]
	if !ok {
		return nil, validationErr("unknown responder %q", responderID)
	}
	if actorID == responderID {
		return nil, validationErr("cannot deal with yourself")
	}
	if !terms.InitiatorCommitment.Validate() || !terms.ResponderCommitment.Validate() {
		return nil, validationErr("malformed deal terms")
	}
	switch scope {
	case domain.ScopeThisVote:
		scopeValue = 0
	case domain.ScopeNextNTurns:
		if scopeValue < 1 || scopeValue > MaxDealScopeTurns {
			return nil, validationErr("deal scope must cover 1-%d turns", MaxDealScopeTurns)
		}
	default:
		return nil, validationErr("unknown deal scope %q", scope)
	}
	// A give commitment that cannot be honored makes the deal invalid at
	// proposal time.
	if terms.InitiatorCommitment.Type == domain.CommitToken && initiator.OwnTokens < 1 {
		return nil, resourceErr("initiator has no support tokens")
	}
	if terms.ResponderCommitment.Type == domain.CommitToken && responder.OwnTokens < 1 {
		return nil, resourceErr("responder has no support tokens")
	}

	deal := &domain.Deal{
		ID:          g.NextDealID(),
		InitiatorID: actorID,
		ResponderID: responderID,
		Terms:       terms,
		Scope:       scope,
		ScopeValue:  scopeValue,
		Status:      domain.DealPending,
		CreatedAt:   now,
	}
	g.Deals = append(g.Deals, deal)
	return []Event{{Kind: EventDealProposed, Payload: DealUpdatePayload{Deal: *deal}}}, nil
}

// RespondDeal is the responder's accept or reject. Acceptance activates
// the deal and settles token commitments immediately; rejection removes
// the deal from the ledger.
func (s *Service) RespondDeal(g *domain.Game, actorID string, dealID int, accept bool, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseDeliberating {
		return nil, stateConflictErr("deals are answered during deliberation, not %s", g.Phase)
	}
	deal := domain.DealByID(g, dealID)
	if deal == nil {
		return nil, validationErr("unknown deal %d", dealID)
	}
	if deal.ResponderID != actorID {
		return nil, authorizationErr("only the responder may answer a deal")
	}
	if deal.Status != domain.DealPending {
		return nil, stateConflictErr("deal already %s", deal.Status)
	}

	if !accept {
		domain.RemoveDeal(g, dealID)
		rejected := false
		return []Event{{Kind: EventDealResponded, Payload: DealUpdatePayload{Deal: *deal, Accepted: &rejected}}}, nil
	}

	initiator := g.Players[deal.InitiatorID]
	responder := g.Players[deal.ResponderID]
	// Tokens may have been spent since the proposal; re-validate before
	// the atomic transfer.
	if deal.Terms.InitiatorCommitment.Type == domain.CommitToken && initiator.OwnTokens < 1 {
		return nil, resourceErr("initiator no longer holds a support token")
	}
	if deal.Terms.ResponderCommitment.Type == domain.CommitToken && responder.OwnTokens < 1 {
		return nil, resourceErr("responder no longer holds a support token")
	}

	if deal.Terms.InitiatorCommitment.Type == domain.CommitToken {
		initiator.OwnTokens--
		responder.OwnTokens++
	}
	if deal.Terms.ResponderCommitment.Type == domain.CommitToken {
		responder.OwnTokens--
		initiator.OwnTokens++
	}
	deal.Status = domain.DealActive
	if deal.Scope == domain.ScopeThisVote {
		deal.ScopeValue = 0
	}

	accepted := true
	return []Event{{Kind: EventDealResponded, Payload: DealUpdatePayload{Deal: *deal, Accepted: &accepted}}}, nil
}

// Contribute pays influence into the active crisis pool. Contributions
// past the per-player cap are rejected, never clamped.
func (s *Service) Contribute(g *domain.Game, actorID string, amount int, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseCrisis || g.Crisis == nil {
		return nil, stateConflictErr("no active crisis")
	}
	player, ok := g.Players[actorID]
	if !ok {
		return nil, authorizationErr("unknown player")
	}

	outcome, err := g.Crisis.Contribute(player, amount)
	if err != nil {
		switch err {
		case domain.ErrInsufficientInfluence:
			return nil, resourceErr("influence %d cannot cover contribution %d", player.Influence, amount)
		default:
			return nil, validationErr("contribution rejected: %v", err)
		}
	}

	events := []Event{{Kind: EventCrisisContributed, Payload: CrisisContributedPayload{
		PlayerID:  actorID,
		Amount:    amount,
		Total:     g.Crisis.Total(),
		Threshold: g.Crisis.ContributionThreshold,
	}}}

	if outcome == domain.CrisisSuccess {
		events = append(events, s.resolveCrisis(g, outcome, now)...)
	}
	return events, nil
}

// AcknowledgeResults records a player's results acknowledgement; the
// next turn opens when everyone connected has acknowledged.
func (s *Service) AcknowledgeResults(g *domain.Game, actorID string, now int64) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseShowingResults {
		return nil, stateConflictErr("nothing to acknowledge during %s", g.Phase)
	}
	player, ok := g.Players[actorID]
	if !ok {
		return nil, authorizationErr("unknown player")
	}
	if g.Acks[actorID] {
		return nil, stateConflictErr("already acknowledged")
	}

	g.Acks[actorID] = true
	player.Afk = false
	if s.allAcknowledged(g) {
		return s.nextTurn(g, now), nil
	}
	return nil, nil
}

func (s *Service) allAcknowledged(g *domain.Game) bool {
	for _, p := range g.Players {
		if p.Connected && !g.Acks[p.UserID] {
			return false
		}
	}
	return true
}

// Chat validates and relays a deliberation message. The engine does not
// interpret content; it only refuses chat once the session is over.
func (s *Service) Chat(g *domain.Game, actorID, text string) ([]Event, error) {
	if err := s.guard(g); err != nil {
		return nil, err
	}
	if _, ok := g.Players[actorID]; !ok {
		return nil, authorizationErr("unknown player")
	}
	if text == "" || len(text) > MaxChatLength {
		return nil, validationErr("chat message must be 1-%d characters", MaxChatLength)
	}
	return []Event{{Kind: EventChat, Payload: ChatPayload{PlayerID: actorID, Text: text}}}, nil
}

// SetConnected tracks presence changes mid-game. Reconnection keeps the
// player's seat and all cast votes; disconnection may unblock a phase
// that was waiting only on the leaver.
func (s *Service) SetConnected(g *domain.Game, playerID string, connected bool, now int64) []Event {
	player, ok := g.Players[playerID]
	if !ok {
		return nil
	}
	player.Connected = connected
	if connected {
		player.Afk = false
		return nil
	}

	if g.Halted || g.Phase.Terminal() {
		return nil
	}
	switch g.Phase {
	case domain.PhaseReviewing:
		if s.allNonActiveReady(g) {
			return s.openDeliberation(g, now)
		}
	case domain.PhaseVoting:
		if len(g.Votes) >= s.expectedVoters(g) {
			return s.resolveTurn(g, now)
		}
	case domain.PhaseShowingResults:
		if s.allAcknowledged(g) {
			return s.nextTurn(g, now)
		}
	}
	return nil
}

func (s *Service) phaseEvent(g *domain.Game, deadlineSeconds int) Event {
	return Event{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{
		Phase:           g.Phase,
		Turn:            g.Turn,
		ActiveSeat:      g.ActiveSeat,
		DeadlineSeconds: deadlineSeconds,
	}}
}
