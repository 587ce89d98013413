package domain

import "testing"

func TestVoteWeight(t *testing.T) {
	tests := []struct {
		name string
		vote VoteRecord
		want int
	}{
		{"PlainYes", VoteRecord{Choice: VoteYes}, 1},
		{"YesWithSpend", VoteRecord{Choice: VoteYes, InfluenceSpent: 3}, 4},
		{"PlainNo", VoteRecord{Choice: VoteNo}, 1},
		{"NoWithSpend", VoteRecord{Choice: VoteNo, InfluenceSpent: 2}, 3},
		{"Abstain", VoteRecord{Choice: VoteAbstain}, 0},
		{"AbstainIgnoresSpend", VoteRecord{Choice: VoteAbstain, InfluenceSpent: 5}, 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := test.vote.Weight(); got != test.want {
				t.Fatalf("Weight() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestTallyVotes(t *testing.T) {
	votes := map[string]*VoteRecord{
		"u1": {Choice: VoteYes, InfluenceSpent: 2},
		"u2": {Choice: VoteYes},
		"u3": {Choice: VoteNo, InfluenceSpent: 1},
		"u4": {Choice: VoteAbstain},
	}
	yes, no := TallyVotes(votes)
	if yes != 4 {
		t.Fatalf("yes = %d, want 4", yes)
	}
	if no != 2 {
		t.Fatalf("no = %d, want 2", no)
	}
}

func TestDetermineVoteOutcome(t *testing.T) {
	tests := []struct {
		name     string
		yes, no  int
		want     bool
	}{
		{"Passes", 3, 2, true},
		{"TieFails", 2, 2, false},
		{"Fails", 1, 3, false},
		{"AllAbstainFails", 0, 0, false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := DetermineVoteOutcome(test.yes, test.no); got != test.want {
				t.Fatalf("DetermineVoteOutcome(%d, %d) = %v, want %v", test.yes, test.no, got, test.want)
			}
		})
	}
}

func TestCalculateVoteMargin(t *testing.T) {
	tests := []struct {
		yes, no int
		want    string
	}{
		{3, 2, "3-2"},
		{2, 3, "3-2"},
		{2, 2, "2-2"},
		{0, 0, "0-0"},
	}
	for _, test := range tests {
		if got := CalculateVoteMargin(test.yes, test.no); got != test.want {
			t.Fatalf("CalculateVoteMargin(%d, %d) = %q, want %q", test.yes, test.no, got, test.want)
		}
	}
}

func TestIsAlignedVote(t *testing.T) {
	option := &CardOption{
		Aligned: []AlignmentEffect{{Ideology: IdeologySocialist, Movement: 2}},
		Opposed: []AlignmentEffect{{Ideology: IdeologyLibertarian, Movement: 2}},
	}

	if !IsAlignedVote(option, IdeologySocialist, VoteYes) {
		t.Fatalf("socialist yes on an aligned option should count as aligned")
	}
	if !IsAlignedVote(option, IdeologyLibertarian, VoteNo) {
		t.Fatalf("libertarian no on an opposed option should count as aligned")
	}
	if IsAlignedVote(option, IdeologySocialist, VoteNo) {
		t.Fatalf("socialist no on an aligned option should not count as aligned")
	}
	if IsAlignedVote(option, IdeologyCentrist, VoteYes) {
		t.Fatalf("unlisted ideology should never count as aligned")
	}
	if IsAlignedVote(nil, IdeologySocialist, VoteYes) {
		t.Fatalf("nil option should never count as aligned")
	}
}
