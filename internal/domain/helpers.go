package domain

// NewGame constructs a game in the waiting phase of turn 1. Seat order
// follows the slice order of the provided players; the first seat acts
// first.
func NewGame(rules Rules, players []*Player) *Game {
	game := &Game{
		Phase:      PhaseWaiting,
		Rules:      rules,
		Turn:       1,
		ActiveSeat: 0,
		Players:    make(map[string]*Player, len(players)),
		Nation: NationState{
			Stability: rules.InitialStability,
			Budget:    rules.InitialBudget,
		},
	}
	for i, p := range players {
		p.Seat = i
		p.Influence = rules.InitialInfluence
		p.OwnTokens = rules.InitialTokens
		game.Players[p.UserID] = p
		game.SeatOrder = append(game.SeatOrder, p.UserID)
	}
	game.ResetTurnState()
	return game
}

// DetermineWinner checks the victory condition over all players after a
// movement pass: position at or past the track end while holding at
// least the win-influence floor. When several players cross in the same
// resolution the highest influence wins, ties broken by lowest seat.
func DetermineWinner(g *Game) *Player {
	var winner *Player
	for _, userID := range g.SeatOrder {
		p := g.Players[userID]
		if p.Position < g.Rules.TrackLength || p.Influence < g.Rules.WinInfluenceMin {
			continue
		}
		if winner == nil ||
			p.Influence > winner.Influence ||
			(p.Influence == winner.Influence && p.Seat < winner.Seat) {
			winner = p
		}
	}
	return winner
}

// ActiveDeals returns the deals currently binding scoped votes.
func ActiveDeals(g *Game) []*Deal {
	var out []*Deal
	for _, d := range g.Deals {
		if d.Status == DealActive {
			out = append(out, d)
		}
	}
	return out
}

// DealByID returns the deal with the given id, or nil.
func DealByID(g *Game, id int) *Deal {
	for _, d := range g.Deals {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// RemoveDeal drops a deal from the ledger; used for rejected proposals,
// which are not retained in the log.
func RemoveDeal(g *Game, id int) {
	for i, d := range g.Deals {
		if d.ID == id {
			g.Deals = append(g.Deals[:i], g.Deals[i+1:]...)
			return
		}
	}
}
