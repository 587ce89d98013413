package domain

import "testing"

func threePlayerGame() *Game {
	return NewGame(testRules(), []*Player{
		{UserID: "u1", Ideology: IdeologyProgressive, Connected: true},
		{UserID: "u2", Ideology: IdeologyConservative, Connected: true},
		{UserID: "u3", Ideology: IdeologySocialist, Connected: true},
	})
}

func TestNewGame(t *testing.T) {
	game := threePlayerGame()

	if game.Phase != PhaseWaiting || game.Turn != 1 || game.ActiveSeat != 0 {
		t.Fatalf("phase=%s turn=%d activeSeat=%d", game.Phase, game.Turn, game.ActiveSeat)
	}
	if game.Nation.Stability != 50 || game.Nation.Budget != 50 {
		t.Fatalf("nation = %+v, want 50/50", game.Nation)
	}
	for i, userID := range game.SeatOrder {
		p := game.Players[userID]
		if p.Seat != i {
			t.Fatalf("seat for %s = %d, want %d", userID, p.Seat, i)
		}
		if p.Influence != 5 || p.OwnTokens != 3 || p.Position != 0 {
			t.Fatalf("player %s = %+v", userID, p)
		}
	}
	if game.ActivePlayer().UserID != "u1" {
		t.Fatalf("active = %s, want u1", game.ActivePlayer().UserID)
	}
}

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
		want  string
	}{
		{
			name:  "NoOneCrossed",
			setup: func(g *Game) { g.Players["u1"].Position = 23 },
			want:  "",
		},
		{
			name: "CrossedWithInfluenceFloor",
			setup: func(g *Game) {
				g.Players["u2"].Position = 24
				g.Players["u2"].Influence = 3
			},
			want: "u2",
		},
		{
			name: "CrossedBelowFloorDoesNotWin",
			setup: func(g *Game) {
				g.Players["u2"].Position = 24
				g.Players["u2"].Influence = 2
			},
			want: "",
		},
		{
			name: "HighestInfluenceWinsSimultaneousCross",
			setup: func(g *Game) {
				g.Players["u1"].Position = 24
				g.Players["u1"].Influence = 4
				g.Players["u3"].Position = 24
				g.Players["u3"].Influence = 6
			},
			want: "u3",
		},
		{
			name: "InfluenceTieGoesToLowerSeat",
			setup: func(g *Game) {
				g.Players["u2"].Position = 24
				g.Players["u2"].Influence = 5
				g.Players["u3"].Position = 24
				g.Players["u3"].Influence = 5
			},
			want: "u2",
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			game := threePlayerGame()
			test.setup(game)
			winner := DetermineWinner(game)
			got := ""
			if winner != nil {
				got = winner.UserID
			}
			if got != test.want {
				t.Fatalf("winner = %q, want %q", got, test.want)
			}
		})
	}
}

func TestDealLedgerHelpers(t *testing.T) {
	game := threePlayerGame()
	game.Deals = []*Deal{
		{ID: 1, Status: DealPending},
		{ID: 2, Status: DealActive},
		{ID: 3, Status: DealFulfilled},
	}

	if d := DealByID(game, 2); d == nil || d.ID != 2 {
		t.Fatalf("DealByID(2) = %+v", d)
	}
	if d := DealByID(game, 9); d != nil {
		t.Fatalf("DealByID(9) should be nil")
	}

	active := ActiveDeals(game)
	if len(active) != 1 || active[0].ID != 2 {
		t.Fatalf("ActiveDeals = %+v, want just deal 2", active)
	}

	RemoveDeal(game, 1)
	if len(game.Deals) != 2 || DealByID(game, 1) != nil {
		t.Fatalf("deal 1 should be removed, ledger = %+v", game.Deals)
	}
}

func TestNextDealIDMonotonic(t *testing.T) {
	game := threePlayerGame()
	if first, second := game.NextDealID(), game.NextDealID(); first != 1 || second != 2 {
		t.Fatalf("deal ids = %d, %d, want 1, 2", first, second)
	}
}
