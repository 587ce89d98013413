package domain

// Phase represents the lifecycle stage of a turn within a Coalition game.
// Phases advance strictly forward; the only preemption is the crisis
// phase, which suspends the normal cycle until the crisis resolves.
type Phase string

const (
	// PhaseWaiting waits for the active player's dice roll.
	PhaseWaiting Phase = "waiting"
	// PhaseRolling is the momentary state while a roll value is produced.
	PhaseRolling Phase = "rolling"
	// PhaseDrawing is the momentary state while a decision card is drawn.
	PhaseDrawing Phase = "drawing"
	// PhaseReviewing blocks until every non-active player marks ready.
	PhaseReviewing Phase = "reviewing"
	// PhaseDeliberating is the open negotiation window: chat and deals.
	PhaseDeliberating Phase = "deliberating"
	// PhaseProposing is the broadcast moment of the active player's final
	// option selection.
	PhaseProposing Phase = "proposing"
	// PhaseVoting blocks until every connected player has cast a vote.
	PhaseVoting Phase = "voting"
	// PhaseRevealing is the atomic reveal of all cast votes.
	PhaseRevealing Phase = "revealing"
	// PhaseResolving applies tally, movement, nation deltas and deals.
	PhaseResolving Phase = "resolving"
	// PhaseShowingResults blocks until every player acknowledges.
	PhaseShowingResults Phase = "showing_results"
	// PhaseCrisis preempts the normal cycle at the top of a turn.
	PhaseCrisis Phase = "crisis"
	// PhaseFinished is terminal: a player met the victory condition.
	PhaseFinished Phase = "finished"
	// PhaseCollapsed is terminal: the nation breached a collapse bound.
	PhaseCollapsed Phase = "collapsed"
)

// Terminal reports whether no further phase transitions may occur.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseCollapsed
}

// Rules holds the numeric ruleset for a game, fixed at start.
type Rules struct {
	TrackLength      int
	DiceSides        int
	InitialInfluence int
	InitialTokens    int
	WinInfluenceMin  int

	InitialStability  int
	InitialBudget     int
	StabilityHigh     int
	StabilityLow      int
	StabilityCollapse int
	BudgetHigh        int
	BudgetLow         int
	BudgetCollapse    int

	CrisisChancePercent int
}

// Player holds the domain state for a participant in the game.
type Player struct {
	UserID      string
	DisplayName string
	Ideology    Ideology
	Seat        int // 0-based seat index, stable for the session

	Position  int
	Influence int
	OwnTokens int

	Connected bool
	Afk       bool
}

// Game captures the authoritative state for a single Coalition session.
// It is owned exclusively by the match handler; every mutation goes
// through an app service method.
type Game struct {
	Phase Phase
	Rules Rules

	Turn       int // 1-based, increments when a new turn opens
	ActiveSeat int

	Players   map[string]*Player // userID -> player
	SeatOrder []string           // userIDs in seat order

	Nation NationState
	Deals  []*Deal
	Crisis *Crisis

	// Per-turn transient state, cleared when the turn resolves.
	Roll           int
	Card           *DecisionCard
	ChosenOptionID string
	Votes          map[string]*VoteRecord
	Ready          map[string]bool
	Acks           map[string]bool

	History []TurnHistoryEntry

	// Terminal outcome, set once.
	WinnerID       string
	CollapseReason CollapseReason

	// Halted freezes the session after an internal inconsistency; no
	// further mutation is accepted.
	Halted bool

	// PhaseDeadline is the match tick at which the current blocking phase
	// force-advances; zero means no deadline armed.
	PhaseDeadline int64

	nextDealID int
}

// ActivePlayer returns the player whose turn it is, or nil when the seat
// order is empty.
func (g *Game) ActivePlayer() *Player {
	if g.ActiveSeat < 0 || g.ActiveSeat >= len(g.SeatOrder) {
		return nil
	}
	return g.Players[g.SeatOrder[g.ActiveSeat]]
}

// PlayerBySeat returns the player occupying the given seat index.
func (g *Game) PlayerBySeat(seat int) *Player {
	if seat < 0 || seat >= len(g.SeatOrder) {
		return nil
	}
	return g.Players[g.SeatOrder[seat]]
}

// NextDealID mints a monotonically increasing deal identifier.
func (g *Game) NextDealID() int {
	g.nextDealID++
	return g.nextDealID
}

// ConnectedCount returns the number of players currently connected.
func (g *Game) ConnectedCount() int {
	count := 0
	for _, p := range g.Players {
		if p.Connected {
			count++
		}
	}
	return count
}

// ResetTurnState clears the per-turn transient fields ahead of a new turn.
func (g *Game) ResetTurnState() {
	g.Roll = 0
	g.Card = nil
	g.ChosenOptionID = ""
	g.Votes = make(map[string]*VoteRecord)
	g.Ready = make(map[string]bool)
	g.Acks = make(map[string]bool)
	g.PhaseDeadline = 0
}
