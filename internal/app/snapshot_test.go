package app

import (
	"encoding/json"
	"strings"
	"testing"

	"coalition/internal/domain"
)

func TestRoomStateProjectsInfluence(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Players["u1"].Influence = 1
	game.Players["u2"].Influence = 4
	game.Players["u3"].Influence = 9

	snapshot := BuildRoomState(game, "u2", 100)

	byID := make(map[string]PlayerStatePayload)
	for _, ps := range snapshot.Players {
		byID[ps.UserID] = ps
	}

	if byID["u2"].Influence == nil || *byID["u2"].Influence != 4 {
		t.Fatalf("viewer must see their exact influence, got %+v", byID["u2"])
	}
	if byID["u1"].Influence != nil || byID["u3"].Influence != nil {
		t.Fatalf("exact influence must not appear for other players")
	}
	if byID["u1"].InfluenceLevel != InfluenceLow {
		t.Fatalf("u1 level = %s, want low", byID["u1"].InfluenceLevel)
	}
	if byID["u2"].InfluenceLevel != InfluenceMedium {
		t.Fatalf("u2 level = %s, want medium", byID["u2"].InfluenceLevel)
	}
	if byID["u3"].InfluenceLevel != InfluenceHigh {
		t.Fatalf("u3 level = %s, want high", byID["u3"].InfluenceLevel)
	}
}

func TestRoomStateNeverSerializesOthersInfluence(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Players["u3"].Influence = 9

	data, err := json.Marshal(BuildRoomState(game, "u1", 100))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	// The only "influence" key on the wire belongs to the viewer.
	if got := strings.Count(string(data), `"influence":`); got != 1 {
		t.Fatalf("influence appears %d times on the wire, want 1", got)
	}
}

func TestRoomStateEchoesOwnVote(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	setupVoting(game)
	svcMustVote(t, svc, game, "u2", domain.VoteNo, 2)

	mine := BuildRoomState(game, "u2", 100)
	if mine.YourVote == nil || mine.YourVote.Choice != domain.VoteNo || mine.YourVote.InfluenceSpent != 2 {
		t.Fatalf("own vote echo = %+v", mine.YourVote)
	}

	theirs := BuildRoomState(game, "u1", 100)
	if theirs.YourVote != nil {
		t.Fatalf("u1 has not voted, echo = %+v", theirs.YourVote)
	}

	byID := make(map[string]PlayerStatePayload)
	for _, ps := range theirs.Players {
		byID[ps.UserID] = ps
	}
	// Others learn that u2 voted, never what.
	if !byID["u2"].HasVoted {
		t.Fatalf("voted flag should be visible to everyone")
	}
}

func TestRoomStateDeadlineCountdown(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.PhaseDeadline = 130

	snapshot := BuildRoomState(game, "u1", 100)
	if snapshot.DeadlineSeconds != 30 {
		t.Fatalf("deadline seconds = %d, want 30", snapshot.DeadlineSeconds)
	}

	snapshot = BuildRoomState(game, "u1", 140)
	if snapshot.DeadlineSeconds != 0 {
		t.Fatalf("expired deadline should not be advertised, got %d", snapshot.DeadlineSeconds)
	}
}

func TestRoomStateCopiesCrisis(t *testing.T) {
	svc := newTestService()
	game := newTestGame(svc, 0)
	game.Phase = domain.PhaseCrisis
	game.Crisis = domain.NewCrisis(1)

	snapshot := BuildRoomState(game, "u1", 100)
	if snapshot.Crisis == nil || snapshot.Crisis.ID != game.Crisis.ID {
		t.Fatalf("crisis missing from snapshot")
	}
	if snapshot.Crisis == game.Crisis {
		t.Fatalf("snapshot must not alias live crisis state")
	}
}

func TestBucketInfluence(t *testing.T) {
	tests := []struct {
		influence int
		want      InfluenceLevel
	}{
		{0, InfluenceLow},
		{2, InfluenceLow},
		{3, InfluenceMedium},
		{6, InfluenceMedium},
		{7, InfluenceHigh},
		{20, InfluenceHigh},
	}
	for _, test := range tests {
		if got := bucketInfluence(test.influence); got != test.want {
			t.Fatalf("bucketInfluence(%d) = %s, want %s", test.influence, got, test.want)
		}
	}
}
