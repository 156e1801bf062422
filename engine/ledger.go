package engine

import "sync"

// attackVote is one werewolf's recorded attack vote, kept in submission
// order so plurality ties break toward the first target to reach the top.
type attackVote struct {
	Actor  string
	Target string
}

type inspection struct {
	Seer   string
	Target string
}

// nightLedger stores everything submitted during one night, keyed by the
// acting player. It is retained per day for audit after the night resolves.
type nightLedger struct {
	day    int
	subIdx int // index into roles.NightOrder, -1 before the first sub-phase

	eligible     []string // actors of the open sub-phase, fixed at its start
	acted        map[string]bool
	attackVotes  []attackVote
	curses       map[string]string // cursed werewolf -> conversion target
	inspections  []inspection
	guardActor   string
	guardTarget  string
	healTarget   string
	poisonActor  string
	poisonTarget string

	currentTarget string // plurality winner once the werewolf sub-phase closes
}

func newNightLedger(day int) *nightLedger {
	return &nightLedger{
		day:    day,
		subIdx: -1,
		acted:  make(map[string]bool),
		curses: make(map[string]string),
	}
}

// tallyAttacks computes the plurality target of the recorded attack votes.
// Ties break toward the target first voted for among those at the maximum;
// an empty ledger yields no target.
func (n *nightLedger) tallyAttacks() string {
	if len(n.attackVotes) == 0 {
		return ""
	}
	counts := make(map[string]int, len(n.attackVotes))
	order := make([]string, 0, len(n.attackVotes))
	for _, v := range n.attackVotes {
		if counts[v.Target] == 0 {
			order = append(order, v.Target)
		}
		counts[v.Target]++
	}
	best := ""
	max := 0
	for _, target := range order {
		if counts[target] > max {
			best = target
			max = counts[target]
		}
	}
	return best
}

// keyedLock is a per-actor try-lock. A submission that arrives while the same
// actor's previous one is still in flight is rejected immediately instead of
// queued, so a client re-sending an interaction cannot double-process.
type keyedLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{held: make(map[string]struct{})}
}

func (k *keyedLock) TryAcquire(id string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.held[id]; ok {
		return false
	}
	k.held[id] = struct{}{}
	return true
}

func (k *keyedLock) Release(id string) {
	k.mu.Lock()
	delete(k.held, id)
	k.mu.Unlock()
}
