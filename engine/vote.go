package engine

import "strings"

// voteChoice is one player's recorded day vote.
type voteChoice struct {
	Target  string
	Abstain bool
}

func (v voteChoice) String() string {
	if v.Abstain {
		return "abstain"
	}
	return v.Target
}

// voteTally collects one vote per living player for the current day.
type voteTally struct {
	day    int
	votes  map[string]voteChoice // voter -> choice
	counts map[string]int
}

func newVoteTally(day int) *voteTally {
	return &voteTally{
		day:    day,
		votes:  make(map[string]voteChoice),
		counts: make(map[string]int),
	}
}

func (t *voteTally) record(voter string, c voteChoice) {
	t.votes[voter] = c
	if !c.Abstain {
		t.counts[c.Target]++
	}
}

// outcome reports the execution target. A tie at the maximum, or zero votes
// cast for anyone, yields no execution.
func (t *voteTally) outcome() (target string, votes int, tie bool) {
	max := 0
	for candidate, n := range t.counts {
		switch {
		case n > max:
			max = n
			target = candidate
			tie = false
		case n == max:
			tie = true
		}
	}
	if max == 0 || tie {
		return "", max, tie && max > 0
	}
	return target, max, false
}

// parseVote understands a bare target id or an explicit abstain.
func parseVote(raw string) voteChoice {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "abstain", "none", "pass", "skip":
		return voteChoice{Abstain: true}
	}
	return voteChoice{Target: raw}
}
