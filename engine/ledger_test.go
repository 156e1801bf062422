package engine

import (
	"sync"
	"testing"
)

func TestTallyAttacks(t *testing.T) {
	n := newNightLedger(1)
	if got := n.tallyAttacks(); got != "" {
		t.Fatalf("empty ledger tallied %q", got)
	}

	n.attackVotes = []attackVote{
		{Actor: "w1", Target: "a"},
		{Actor: "w2", Target: "b"},
		{Actor: "w3", Target: "b"},
	}
	if got := n.tallyAttacks(); got != "b" {
		t.Fatalf("plurality = %q, want b", got)
	}

	// A tie breaks toward the target voted for first.
	n.attackVotes = []attackVote{
		{Actor: "w1", Target: "a"},
		{Actor: "w2", Target: "b"},
		{Actor: "w3", Target: "b"},
		{Actor: "w4", Target: "a"},
	}
	if got := n.tallyAttacks(); got != "a" {
		t.Fatalf("tie break = %q, want a", got)
	}
}

func TestKeyedLock(t *testing.T) {
	k := newKeyedLock()
	if !k.TryAcquire("alice") {
		t.Fatal("first acquire failed")
	}
	if k.TryAcquire("alice") {
		t.Fatal("second acquire should fail while held")
	}
	if !k.TryAcquire("bob") {
		t.Fatal("unrelated key should not be blocked")
	}
	k.Release("alice")
	if !k.TryAcquire("alice") {
		t.Fatal("acquire after release failed")
	}
}

func TestKeyedLockUnderContention(t *testing.T) {
	k := newKeyedLock()
	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if k.TryAcquire("shared") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)
	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("%d goroutines acquired the same key", won)
	}
}
