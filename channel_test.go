package main

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gosuda/werewolf/engine"
)

func testEngineConfig() engine.Config {
	return engine.Config{
		NightActionTimeout: time.Hour,
		DiscussionDelay:    time.Hour,
		VoteTimeout:        time.Hour,
		HunterTimeout:      time.Hour,
		AgentDelay:         time.Hour,
	}
}

// The session pointer is swapped by reset while readers keep routing messages
// through the channel. Every path must see either the old or the new session,
// never a torn read, and none may hold the channel lock across a session call.
func TestChannelSessionSwapUnderLoad(t *testing.T) {
	mgr := NewManager(testEngineConfig(), nil)
	ch := NewChannel("den", mgr)
	t.Cleanup(ch.close)

	clients := make([]*Client, 4)
	for i := range clients {
		c := NewClient(fmt.Sprintf("p%d", i), nil, mgr)
		clients[i] = c
		ch.addClient(c)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				ch.handleMessage(c, ClientMessage{Type: "sync"})
				ch.handleChat(c, "hello")
				ch.pushRoster()
				ch.pushTeamWerewolf(ch.currentSession(), ServerEvent{Type: EventTypeChat, Room: ch.name, Body: "[pack] test"})
				drain(c)
			}
		}(c)
	}

	for i := 0; i < 25; i++ {
		ch.reset()
	}
	close(stop)
	wg.Wait()

	sess := ch.currentSession()
	if sess == nil {
		t.Fatal("channel lost its session")
	}
	snap := sess.State()
	if snap.Phase != engine.PhaseLobby {
		t.Fatalf("phase after swaps = %s, want lobby", snap.Phase)
	}
	if len(snap.Seats) != len(clients) {
		t.Fatalf("seats after swaps = %d, want %d", len(snap.Seats), len(clients))
	}
}

// drain empties a client's send buffer so the pushers never contend on it.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}
