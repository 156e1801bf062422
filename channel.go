package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/werewolf/engine"
	"github.com/gosuda/werewolf/engine/roles"
	"github.com/gosuda/werewolf/history"
)

// Channel binds one chat room to one engine session. It owns the connected
// clients and renders the engine's semantic events as ServerEvents; the
// engine never sees a websocket.
type Channel struct {
	name string
	mgr  *Manager

	mu      sync.RWMutex
	clients map[string]*Client
	session *engine.Session
}

func NewChannel(name string, mgr *Manager) *Channel {
	ch := &Channel{
		name:    name,
		mgr:     mgr,
		clients: make(map[string]*Client),
	}
	ch.session = engine.NewSession(name, mgr.cfg, ch)
	return ch
}

// currentSession returns the session the channel is bound to right now.
// reset swaps the pointer, so every reader goes through here.
func (ch *Channel) currentSession() *engine.Session {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.session
}

func (ch *Channel) addClient(c *Client) {
	ch.mu.Lock()
	c.channel = ch
	ch.clients[c.name] = c
	sess := ch.session
	ch.mu.Unlock()

	res := sess.AddPlayer(c.name, c.name)
	switch res.Code {
	case engine.CodeOK:
		ch.broadcast(ServerEvent{Type: EventTypeLog, Room: ch.name, Body: res.Message})
	case engine.CodeAlreadyJoined, engine.CodeGameInProgress:
		// Reconnect or spectator: the seat (if any) is still theirs.
		c.pushSystem(res.Message)
	default:
		c.pushResult(res)
	}
	ch.pushRoster()
}

func (ch *Channel) removeClient(c *Client) {
	ch.mu.Lock()
	delete(ch.clients, c.name)
	empty := len(ch.clients) == 0
	sess := ch.session
	ch.mu.Unlock()

	sess.RemovePlayer(c.name)
	ch.broadcast(ServerEvent{Type: EventTypeLog, Room: ch.name, Body: fmt.Sprintf("%s left", c.name)})
	ch.pushRoster()
	c.channel = nil
	if empty {
		ch.mgr.removeChannel(ch.name, ch)
		ch.close()
	}
}

func (ch *Channel) close() {
	ch.currentSession().Close()
}

func (ch *Channel) handleMessage(c *Client, msg ClientMessage) {
	sess := ch.currentSession()
	switch msg.Type {
	case "chat":
		ch.handleChat(c, msg.Text)
	case "start":
		c.pushResult(sess.StartGame(c.name, msg.Count))
	case "action":
		c.pushResult(sess.SubmitNightAction(c.name, strings.TrimSpace(msg.Target)))
	case "vote":
		c.pushResult(sess.SubmitVote(c.name, strings.TrimSpace(msg.Target)))
	case "cancel":
		c.pushResult(sess.Cancel(c.name))
	case "sync":
		c.push(ServerEvent{Type: EventTypeState, Room: ch.name, State: sess.State()})
	default:
		c.pushSystem("unknown command")
	}
}

// handleChat relays lobby and day talk to everyone; at night only the pack
// may talk, and only among itself.
func (ch *Channel) handleChat(c *Client, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	sess := ch.currentSession()
	snap := sess.State()
	if snap.Phase != engine.PhaseNight {
		ch.broadcast(ServerEvent{Type: EventTypeChat, Room: ch.name, Author: c.name, Body: text})
		return
	}
	team, ok := sess.TeamOf(c.name)
	if !ok || team != roles.TeamWerewolf {
		c.pushSystem("the village sleeps; chat is closed until dawn")
		return
	}
	ch.pushTeamWerewolf(sess, ServerEvent{Type: EventTypeChat, Room: ch.name, Author: c.name, Body: "[pack] " + text})
}

// pushTeamWerewolf snapshots the client list first; TeamOf blocks on the
// session goroutine and must not run under the channel lock.
func (ch *Channel) pushTeamWerewolf(sess *engine.Session, ev ServerEvent) {
	ch.mu.RLock()
	clients := make([]*Client, 0, len(ch.clients))
	for _, cl := range ch.clients {
		clients = append(clients, cl)
	}
	ch.mu.RUnlock()
	for _, cl := range clients {
		if team, ok := sess.TeamOf(cl.name); ok && team == roles.TeamWerewolf {
			cl.push(ev)
		}
	}
}

func (ch *Channel) broadcast(ev ServerEvent) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	for _, cl := range ch.clients {
		cl.push(ev)
	}
}

func (ch *Channel) whisper(id string, ev ServerEvent) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	if cl, ok := ch.clients[id]; ok {
		cl.push(ev)
	}
}

func (ch *Channel) pushRoster() {
	snap := ch.currentSession().State()
	ch.broadcast(ServerEvent{Type: EventTypeRoster, Room: ch.name, State: snap})
}

// reset replaces the ended session with a fresh lobby holding the still
// connected clients, so the channel can host another game.
func (ch *Channel) reset() {
	fresh := engine.NewSession(ch.name, ch.mgr.cfg, ch)
	ch.mu.Lock()
	old := ch.session
	ch.session = fresh
	names := make([]string, 0, len(ch.clients))
	for name := range ch.clients {
		names = append(names, name)
	}
	ch.mu.Unlock()
	old.Close()
	for _, name := range names {
		fresh.AddPlayer(name, name)
	}
	ch.pushRoster()
}

// ---- engine.Emitter ------------------------------------------------------

func (ch *Channel) RoleAssigned(p engine.PlayerInfo, role engine.RoleInfo, teammates []engine.PlayerInfo) {
	body := fmt.Sprintf("You are the %s. %s", role.ID, role.Description)
	if len(teammates) > 0 {
		names := make([]string, 0, len(teammates))
		for _, t := range teammates {
			names = append(names, t.Name)
		}
		body += " Your pack: " + strings.Join(names, ", ")
	}
	ch.whisper(p.ID, ServerEvent{Type: EventTypeRole, Room: ch.name, Body: body})
}

func (ch *Channel) NightPromptNeeded(p engine.PlayerInfo, role engine.RoleInfo, prompt string, candidates []engine.PlayerInfo) {
	ch.whisper(p.ID, ServerEvent{Type: EventTypePrompt, Room: ch.name, Body: prompt, State: candidates})
}

func (ch *Channel) NightPhaseSkipped(day int, sub roles.NightPhase) {
	log.Debug().Str("channel", ch.name).Int("day", day).Str("sub", string(sub)).Msg("night sub-phase skipped")
}

func (ch *Channel) DayReport(day int, deaths []engine.PlayerInfo) {
	body := "The sun rises. No one died tonight."
	if len(deaths) > 0 {
		names := make([]string, 0, len(deaths))
		for _, d := range deaths {
			names = append(names, d.Name)
		}
		body = fmt.Sprintf("The sun rises. Found dead: %s.", strings.Join(names, ", "))
	}
	ch.broadcast(ServerEvent{Type: EventTypePhase, Room: ch.name, Phase: string(engine.PhaseDay), Day: day, Body: body})
}

func (ch *Channel) SeerResult(seer, target engine.PlayerInfo, isWerewolf bool) {
	verdict := "is not werewolf-aligned"
	if isWerewolf {
		verdict = "IS werewolf-aligned"
	}
	ch.whisper(seer.ID, ServerEvent{Type: EventTypeSeer, Room: ch.name, Body: fmt.Sprintf("Your vision clears: %s %s.", target.Name, verdict)})
}

func (ch *Channel) VotingOpened(day int, candidates []engine.PlayerInfo) {
	ch.broadcast(ServerEvent{Type: EventTypePhase, Room: ch.name, Phase: string(engine.PhaseVoting), Day: day,
		Body: "Voting is open. Name a player to execute, or abstain.", State: candidates})
}

func (ch *Channel) VotingResult(executed *engine.PlayerInfo, votes int, tie bool) {
	switch {
	case executed != nil:
		ch.broadcast(ServerEvent{Type: EventTypeVote, Room: ch.name, Body: fmt.Sprintf("%s is executed with %d votes.", executed.Name, votes)})
	case tie:
		ch.broadcast(ServerEvent{Type: EventTypeVote, Room: ch.name, Body: "The vote is tied. No one is executed."})
	default:
		ch.broadcast(ServerEvent{Type: EventTypeVote, Room: ch.name, Body: "No votes were cast. No one is executed."})
	}
}

func (ch *Channel) HunterRetaliationNeeded(hunter engine.PlayerInfo, candidates []engine.PlayerInfo) {
	ch.broadcast(ServerEvent{Type: EventTypeLog, Room: ch.name, Body: fmt.Sprintf("%s reaches for their rifle...", hunter.Name)})
	ch.whisper(hunter.ID, ServerEvent{Type: EventTypePrompt, Room: ch.name, Body: "You are dying. Choose a player to take with you, or pass.", State: candidates})
}

func (ch *Channel) GameEnded(winner roles.Team, roster []engine.FinalSeat) {
	reveal := make([]string, 0, len(roster))
	for _, seat := range roster {
		reveal = append(reveal, fmt.Sprintf("%s => %s", seat.Player.Name, seat.Role))
	}
	body := "The game was cancelled."
	if winner != "" {
		body = fmt.Sprintf("The %s team wins!", winner)
	}
	ch.broadcast(ServerEvent{Type: EventTypeEnded, Room: ch.name, Body: body + " Roles: " + strings.Join(reveal, ", ")})

	// The emitter runs on the session goroutine; the night audit needs a
	// round-trip into that loop, so record and rebuild from outside it. The
	// session stays the channel's current one until reset swaps it.
	sess := ch.currentSession()
	go func() {
		if store := ch.mgr.store; store != nil && winner != "" {
			rec := history.Record{Channel: ch.name, Winner: string(winner), FinishedAt: time.Now().UTC()}
			for _, seat := range roster {
				rec.Seats = append(rec.Seats, history.Seat{
					ID: seat.Player.ID, Name: seat.Player.Name,
					Role: string(seat.Role), Team: string(seat.Team), Alive: seat.Alive,
				})
			}
			for _, n := range sess.NightHistory() {
				rec.Nights = append(rec.Nights, history.NightEntry{
					Day: n.Day, AttackTarget: n.AttackTarget, Guarded: n.Guarded,
					Healed: n.Healed, Poisoned: n.Poisoned, Cursed: n.Cursed,
					Inspections: n.Inspections,
				})
			}
			if err := store.Append(rec); err != nil {
				log.Warn().Err(err).Str("channel", ch.name).Msg("record game history")
			}
		}
		ch.reset()
	}()
}

func (ch *Channel) Announce(day int, msg string) {
	ch.broadcast(ServerEvent{Type: EventTypeLog, Room: ch.name, Day: day, Body: msg})
}

func (ch *Channel) Whisper(p engine.PlayerInfo, msg string) {
	ch.whisper(p.ID, ServerEvent{Type: EventTypeLog, Room: ch.name, Body: msg})
}

func (ch *Channel) Group(ps []engine.PlayerInfo, msg string) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	for _, p := range ps {
		if cl, ok := ch.clients[p.ID]; ok {
			cl.push(ServerEvent{Type: EventTypeLog, Room: ch.name, Body: msg})
		}
	}
}
