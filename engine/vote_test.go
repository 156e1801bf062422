package engine

import "testing"

func TestVoteTallyOutcome(t *testing.T) {
	cases := []struct {
		name   string
		votes  map[string]voteChoice
		target string
		count  int
		tie    bool
	}{
		{
			name: "clear plurality",
			votes: map[string]voteChoice{
				"a": {Target: "x"}, "b": {Target: "x"}, "c": {Target: "y"}, "d": {Target: "x"},
			},
			target: "x", count: 3,
		},
		{
			name: "tie at the top",
			votes: map[string]voteChoice{
				"a": {Target: "x"}, "b": {Target: "x"}, "c": {Target: "y"}, "d": {Target: "y"},
			},
			target: "", count: 2, tie: true,
		},
		{
			name: "everyone abstains",
			votes: map[string]voteChoice{
				"a": {Abstain: true}, "b": {Abstain: true},
			},
			target: "", count: 0,
		},
		{
			name:   "no votes at all",
			votes:  map[string]voteChoice{},
			target: "", count: 0,
		},
		{
			name: "abstentions do not dilute the plurality",
			votes: map[string]voteChoice{
				"a": {Target: "x"}, "b": {Abstain: true}, "c": {Abstain: true},
			},
			target: "x", count: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tally := newVoteTally(1)
			for voter, c := range tc.votes {
				tally.record(voter, c)
			}
			target, count, tie := tally.outcome()
			if target != tc.target || count != tc.count || tie != tc.tie {
				t.Fatalf("outcome() = (%q, %d, %v), want (%q, %d, %v)",
					target, count, tie, tc.target, tc.count, tc.tie)
			}
		})
	}
}

func TestParseVote(t *testing.T) {
	for _, raw := range []string{"", "abstain", "NONE", "pass", "  skip  "} {
		if c := parseVote(raw); !c.Abstain {
			t.Errorf("parseVote(%q) should abstain, got %+v", raw, c)
		}
	}
	if c := parseVote(" bob "); c.Abstain || c.Target != "bob" {
		t.Errorf("parseVote(bob) = %+v", c)
	}
}

func TestVoteChoiceString(t *testing.T) {
	if got := (voteChoice{Abstain: true}).String(); got != "abstain" {
		t.Fatalf("String() = %q", got)
	}
	if got := (voteChoice{Target: "bob"}).String(); got != "bob" {
		t.Fatalf("String() = %q", got)
	}
}
