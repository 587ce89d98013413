package app

import (
	"testing"

	"coalition/internal/domain"
)

func TestHandleDeadlinesNoop(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)

	if events := svc.HandleDeadlines(nil, 100); events != nil {
		t.Fatalf("nil game should be a no-op")
	}
	if events := svc.HandleDeadlines(game, 100); events != nil {
		t.Fatalf("no armed deadline should be a no-op")
	}

	game.PhaseDeadline = 200
	if events := svc.HandleDeadlines(game, 150); events != nil {
		t.Fatalf("unexpired deadline should be a no-op")
	}
}

func TestDeadlineAutoRollsForAfkActive(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.PhaseDeadline = 100

	events := svc.HandleDeadlines(game, 100)
	if game.Phase != domain.PhaseReviewing {
		t.Fatalf("phase = %s, want reviewing after auto-roll", game.Phase)
	}
	if !game.Players["u1"].Afk {
		t.Fatalf("active player should be marked afk")
	}
	if !hasEvent(events, EventDiceRolled) {
		t.Fatalf("missing dice rolled event")
	}
}

func TestDeadlineForcesReadies(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseReviewing
	game.Card = testCard()
	game.Ready["u2"] = true
	game.PhaseDeadline = 100

	events := svc.HandleDeadlines(game, 100)
	if game.Phase != domain.PhaseDeliberating {
		t.Fatalf("phase = %s, want deliberating", game.Phase)
	}
	forced := 0
	for _, ev := range events {
		if ev.Kind == EventPlayerReady {
			payload := ev.Payload.(PlayerReadyPayload)
			if !payload.Forced {
				t.Fatalf("expected only forced readies, got %+v", payload)
			}
			forced++
		}
	}
	if forced != 1 {
		t.Fatalf("forced readies = %d, want 1 (only u3 was missing)", forced)
	}
	if !game.Players["u3"].Afk {
		t.Fatalf("u3 should be marked afk")
	}
}

func TestDeadlineSelectsFirstOptionForAfkActive(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseDeliberating
	game.Card = testCard()
	game.PhaseDeadline = 100

	events := svc.HandleDeadlines(game, 100)
	if game.Phase != domain.PhaseVoting {
		t.Fatalf("phase = %s, want voting", game.Phase)
	}
	if game.ChosenOptionID != "opt_a" {
		t.Fatalf("chosen = %s, want the card's first option", game.ChosenOptionID)
	}
	if !hasEvent(events, EventOptionSelected) {
		t.Fatalf("missing option selected event")
	}
	if !game.Players["u1"].Afk {
		t.Fatalf("active player should be marked afk")
	}
}

func TestDeadlineForcesAbstainsAndResolves(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	setupVoting(game)
	game.PhaseDeadline = 100
	svcMustVote(t, svc, game, "u1", domain.VoteYes, 0)

	events := svc.HandleDeadlines(game, 100)
	if !hasEvent(events, EventTurnResolved) {
		t.Fatalf("expired vote deadline should resolve the turn")
	}
	for _, userID := range []string{"u2", "u3"} {
		v := game.Votes[userID]
		if v == nil || !v.Forced || v.Choice != domain.VoteAbstain {
			t.Fatalf("%s vote = %+v, want forced abstain", userID, v)
		}
		if !game.Players[userID].Afk {
			t.Fatalf("%s should be marked afk", userID)
		}
	}
	// One unopposed yes passes 1-0.
	entry := game.History[len(game.History)-1]
	if !entry.Vote.Passed || entry.Vote.Margin != "1-0" {
		t.Fatalf("tally = %+v, want passed 1-0", entry.Vote)
	}
}

func TestDeadlineAdvancesResults(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseShowingResults
	game.PhaseDeadline = 100

	svc.HandleDeadlines(game, 100)
	if game.Turn != 2 || game.Phase != domain.PhaseWaiting {
		t.Fatalf("turn=%d phase=%s, want 2/waiting", game.Turn, game.Phase)
	}
}

func TestCrisisRoundCountdown(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseCrisis
	game.Crisis = domain.NewCrisis(0) // 3 rounds, threshold 5
	game.PhaseDeadline = 100

	events := svc.HandleDeadlines(game, 100)
	if game.Crisis == nil || game.Crisis.TurnsRemaining != 2 {
		t.Fatalf("countdown should tick to 2, got %+v", game.Crisis)
	}
	if game.PhaseDeadline == 100 {
		t.Fatalf("next round deadline should be re-armed")
	}
	if hasEvent(events, EventCrisisResolved) {
		t.Fatalf("crisis must not resolve with rounds remaining")
	}
}

func TestCrisisFailureOnExpiredCountdown(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseCrisis
	game.Crisis = domain.NewCrisis(0)
	game.Crisis.TurnsRemaining = 1
	game.PhaseDeadline = 100

	events := svc.HandleDeadlines(game, 100)
	if !hasEvent(events, EventCrisisResolved) {
		t.Fatalf("expired countdown should resolve the crisis")
	}
	// Market crash failure: -10 stability, -15 budget.
	if game.Nation.Stability != 40 || game.Nation.Budget != 35 {
		t.Fatalf("nation = %+v, want 40/35", game.Nation)
	}
	if game.Phase != domain.PhaseWaiting {
		t.Fatalf("phase = %s, want waiting", game.Phase)
	}
}

func TestCrisisFailureCanCollapse(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseCrisis
	game.Crisis = domain.NewCrisis(0)
	game.Crisis.TurnsRemaining = 1
	game.Nation.Budget = 20 // failure's -15 lands at 5
	game.PhaseDeadline = 100

	svc.HandleDeadlines(game, 100)
	if game.Phase != domain.PhaseCollapsed {
		t.Fatalf("phase = %s, want collapsed", game.Phase)
	}
	if game.CollapseReason != domain.CollapseBudget {
		t.Fatalf("reason = %s, want budget", game.CollapseReason)
	}
}

func TestInvariantViolationHaltsGame(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	setupVoting(game)
	game.Players["u2"].OwnTokens = -1 // should be impossible

	svcMustVote(t, svc, game, "u1", domain.VoteYes, 0)
	svcMustVote(t, svc, game, "u2", domain.VoteYes, 0)
	svcMustVote(t, svc, game, "u3", domain.VoteYes, 0)

	if !game.Halted {
		t.Fatalf("resolution over corrupt state must halt the session")
	}
	if _, err := svc.RollDice(game, "u1", 200); err != ErrGameHalted {
		t.Fatalf("err = %v, want ErrGameHalted", err)
	}
}

func TestStandingsOrdering(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Players["u1"].Position = 10
	game.Players["u1"].Influence = 2
	game.Players["u2"].Position = 10
	game.Players["u2"].Influence = 7
	game.Players["u3"].Position = 15

	entries := standings(game)
	if entries[0].PlayerID != "u3" {
		t.Fatalf("first = %s, want u3 (furthest)", entries[0].PlayerID)
	}
	if entries[1].PlayerID != "u2" || entries[2].PlayerID != "u1" {
		t.Fatalf("influence should break position ties, got %+v", entries)
	}
}
