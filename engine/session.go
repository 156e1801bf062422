// Package engine implements the werewolf game session: a single-goroutine
// state machine per session that tracks players, roles, phases and timers,
// resolves night actions, tallies votes and decides victory. All mutation is
// funneled through the session's command loop; timers re-enter through the
// same loop behind a generation guard so a stale firing is always a no-op.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/werewolf/engine/roles"
)

// Phase is the overall session phase.
type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhaseNight  Phase = "night"
	PhaseDay    Phase = "day"
	PhaseVoting Phase = "voting"
	PhaseEnded  Phase = "ended"
)

// Player is one seat in the session. Dead players stay in the roster for
// history and death-triggered abilities.
type Player struct {
	ID    string
	Name  string
	Role  roles.Role
	Alive bool
	Agent bool
}

func (p *Player) info() PlayerInfo { return PlayerInfo{ID: p.ID, Name: p.Name} }

// Session is the aggregate root for one running game.
type Session struct {
	channel string
	cfg     Config
	emitter Emitter
	logger  zerolog.Logger

	commands  chan func()
	closing   chan struct{}
	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once

	locks *keyedLock

	// Everything below is owned by the session goroutine.
	phase   Phase
	day     int
	players map[string]*Player
	order   []string
	host    string

	gen   uint64 // bumped on every state advance; stale timers compare and bail
	timer *time.Timer

	night       *nightLedger
	nightLog    []*nightLedger
	tally       *voteTally
	seerReports []seerReport

	pendingHunters []string
	awaitingHunter string
	resume         func()

	healSpent   bool
	poisonSpent bool
	curseSpent  bool
	lastGuarded string

	winner roles.Team
	agents map[string]*Agent
	rng    *rand.Rand
}

type seerReport struct {
	Seer       string
	Target     string
	IsWerewolf bool
}

// NewSession creates a session in LOBBY and starts its command loop.
func NewSession(channel string, cfg Config, emitter Emitter) *Session {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	s := &Session{
		channel:  channel,
		cfg:      cfg.withDefaults(),
		emitter:  emitter,
		logger:   log.With().Str("channel", channel).Logger(),
		commands: make(chan func(), 256),
		closing:  make(chan struct{}),
		locks:    newKeyedLock(),
		phase:    PhaseLobby,
		players:  make(map[string]*Player),
		agents:   make(map[string]*Agent),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go s.loop()
	return s
}

func (s *Session) loop() {
	for {
		select {
		case fn := <-s.commands:
			fn()
		case <-s.closing:
			if s.timer != nil {
				s.timer.Stop()
			}
			// Close rejects new submissions before closing the channel, so
			// draining here guarantees every accepted command still runs and
			// every caller waiting on a reply gets one.
			for {
				select {
				case fn := <-s.commands:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Close stops the session goroutine. Later submissions report GameEnded;
// already-accepted ones still complete.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		s.closeMu.Unlock()
		close(s.closing)
	})
}

// submit hands fn to the session goroutine. It reports false once the session
// is closed; an accepted fn is guaranteed to run.
func (s *Session) submit(fn func()) bool {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return false
	}
	s.commands <- fn
	return true
}

func (s *Session) enqueue(fn func()) {
	_ = s.submit(fn)
}

// do runs fn on the session goroutine and waits for its result.
func (s *Session) do(fn func() Result) Result {
	reply := make(chan Result, 1)
	if !s.submit(func() { reply <- fn() }) {
		return fail(CodeGameEnded, "the session is closed")
	}
	return <-reply
}

// armTimer schedules fn after d, bound to the current state generation. Any
// later advance invalidates it, so a timer firing after an early completion
// never resolves twice.
func (s *Session) armTimer(d time.Duration, fn func()) {
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, func() {
		s.enqueue(func() {
			if s.gen != gen || s.phase == PhaseEnded {
				return
			}
			fn()
		})
	})
}

// bumpGen invalidates any armed timer without scheduling a new one.
func (s *Session) bumpGen() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
}

// ---- public entry points -------------------------------------------------

// AddPlayer registers a player while the session is in LOBBY.
func (s *Session) AddPlayer(id, name string) Result {
	return s.do(func() Result {
		switch s.phase {
		case PhaseLobby:
		case PhaseEnded:
			return fail(CodeGameEnded, "the game has ended")
		default:
			return fail(CodeGameInProgress, "a game is already in progress")
		}
		if _, exists := s.players[id]; exists {
			return fail(CodeAlreadyJoined, fmt.Sprintf("%s already joined", name))
		}
		s.players[id] = &Player{ID: id, Name: name, Alive: true}
		s.order = append(s.order, id)
		if s.host == "" {
			s.host = id
		}
		return ok(fmt.Sprintf("%s joined (%d players)", name, len(s.players)))
	})
}

// RemovePlayer drops a seat in LOBBY. Mid-game the seat is retained so the
// resolver and the history stay consistent; the player simply goes silent.
func (s *Session) RemovePlayer(id string) Result {
	return s.do(func() Result {
		p, exists := s.players[id]
		if !exists {
			return fail(CodeInvalidState, "player is not in this session")
		}
		if s.phase != PhaseLobby {
			return ok(fmt.Sprintf("%s left; their seat is kept until the game ends", p.Name))
		}
		delete(s.players, id)
		for i, pid := range s.order {
			if pid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		if s.host == id {
			s.host = s.pickNextHost()
		}
		return ok(fmt.Sprintf("%s left the lobby", p.Name))
	})
}

func (s *Session) pickNextHost() string {
	for _, id := range s.order {
		if p := s.players[id]; p != nil && !p.Agent {
			return id
		}
	}
	return ""
}

// StartGame assigns roles and begins night 1. Host only. aiFill stand-in
// agents are seated first; at least 4 players total are required.
func (s *Session) StartGame(requester string, aiFill int) Result {
	return s.do(func() Result {
		switch s.phase {
		case PhaseLobby:
		case PhaseEnded:
			return fail(CodeGameEnded, "the game has ended")
		default:
			return fail(CodeGameInProgress, "a game is already in progress")
		}
		if requester != s.host {
			return fail(CodeNotHost, "only the host can start the game")
		}
		s.fillAgents(aiFill)
		if len(s.players) < 4 {
			return fail(CodeNotEnoughPlayers, fmt.Sprintf("need at least 4 players, have %d", len(s.players)))
		}
		s.assignRoles()
		s.day = 1
		s.logger.Info().Int("players", len(s.players)).Msg("game started")
		s.beginNight()
		return ok("the game begins: night 1 falls")
	})
}

// SubmitNightAction records one night action (or a hunter's retaliation
// choice) for the acting player. Concurrent submissions for the same actor
// are rejected with Busy rather than queued.
func (s *Session) SubmitNightAction(playerID, rawChoice string) Result {
	if !s.locks.TryAcquire(playerID) {
		return fail(CodeBusy, "a previous submission is still being processed")
	}
	defer s.locks.Release(playerID)
	return s.do(func() Result { return s.handleNightAction(playerID, rawChoice) })
}

// SubmitVote records one day vote for the voter.
func (s *Session) SubmitVote(voterID, rawChoice string) Result {
	if !s.locks.TryAcquire(voterID) {
		return fail(CodeBusy, "a previous submission is still being processed")
	}
	defer s.locks.Release(voterID)
	return s.do(func() Result { return s.handleVote(voterID, rawChoice) })
}

// Cancel ends the game without a winner. Host only.
func (s *Session) Cancel(requester string) Result {
	return s.do(func() Result {
		if s.phase == PhaseEnded {
			return fail(CodeGameEnded, "the game has already ended")
		}
		if requester != s.host {
			return fail(CodeNotHost, "only the host can cancel the game")
		}
		s.endGame("")
		return ok("the game was cancelled")
	})
}

// SeatSnapshot is one roster entry of a Snapshot.
type SeatSnapshot struct {
	Player PlayerInfo `json:"player"`
	Alive  bool       `json:"alive"`
	Agent  bool       `json:"agent"`
}

// Snapshot is a binding-facing view of the session.
type Snapshot struct {
	Phase  Phase          `json:"phase"`
	Day    int            `json:"day"`
	Host   string         `json:"host"`
	Winner roles.Team     `json:"winner,omitempty"`
	Seats  []SeatSnapshot `json:"seats"`
}

// State returns a snapshot for rendering.
func (s *Session) State() Snapshot {
	var snap Snapshot
	s.do(func() Result {
		snap = Snapshot{Phase: s.phase, Day: s.day, Host: s.host, Winner: s.winner}
		for _, id := range s.order {
			p := s.players[id]
			snap.Seats = append(snap.Seats, SeatSnapshot{Player: p.info(), Alive: p.Alive, Agent: p.Agent})
		}
		return ok("")
	})
	return snap
}

// TeamOf reports the current alignment of a player, used by the binding to
// gate the werewolves' night chat.
func (s *Session) TeamOf(id string) (roles.Team, bool) {
	var team roles.Team
	found := false
	s.do(func() Result {
		if p := s.players[id]; p != nil && p.Role != nil {
			team = p.Role.Team()
			found = true
		}
		return ok("")
	})
	return team, found
}

// NightRecord is the audit summary of one resolved night.
type NightRecord struct {
	Day          int      `json:"day"`
	AttackTarget string   `json:"attack_target,omitempty"`
	Guarded      string   `json:"guarded,omitempty"`
	Healed       string   `json:"healed,omitempty"`
	Poisoned     string   `json:"poisoned,omitempty"`
	Cursed       []string `json:"cursed,omitempty"`
	Inspections  int      `json:"inspections,omitempty"`
}

// NightHistory returns the audit records of every resolved night so far,
// oldest first.
func (s *Session) NightHistory() []NightRecord {
	var out []NightRecord
	s.do(func() Result {
		out = make([]NightRecord, 0, len(s.nightLog))
		for _, n := range s.nightLog {
			rec := NightRecord{
				Day:          n.day,
				AttackTarget: n.currentTarget,
				Guarded:      n.guardTarget,
				Healed:       n.healTarget,
				Poisoned:     n.poisonTarget,
				Inspections:  len(n.inspections),
			}
			for _, target := range n.curses {
				rec.Cursed = append(rec.Cursed, target)
			}
			out = append(out, rec)
		}
		return ok("")
	})
	return out
}

// ---- lobby helpers -------------------------------------------------------

func (s *Session) fillAgents(count int) {
	for i := 0; i < count; i++ {
		a := newAgent()
		p := &Player{ID: a.id, Name: fmt.Sprintf("Bot-%d", len(s.agents)+1), Alive: true, Agent: true}
		s.players[a.id] = p
		s.order = append(s.order, a.id)
		s.agents[a.id] = a
	}
}

func (s *Session) assignRoles() {
	seats := make([]string, len(s.order))
	copy(seats, s.order)
	s.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	queue := roles.ForCount(len(seats))
	s.rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })

	for i, id := range seats {
		s.players[id].Role = roles.New(queue[i])
	}
	for _, id := range s.order {
		p := s.players[id]
		var teammates []PlayerInfo
		if p.Role.Team() == roles.TeamWerewolf {
			teammates = s.packmates(id)
		}
		info := roleInfo(p.Role)
		s.emitter.RoleAssigned(p.info(), info, teammates)
		if a := s.agents[id]; a != nil {
			a.assign(p.Role.ID(), p.Role.Team(), teammates)
		}
	}
}

func roleInfo(r roles.Role) RoleInfo {
	return RoleInfo{ID: r.ID(), Team: r.Team(), Description: r.Description()}
}

// packmates lists the living werewolf-aligned players other than id.
func (s *Session) packmates(id string) []PlayerInfo {
	var out []PlayerInfo
	for _, pid := range s.order {
		p := s.players[pid]
		if pid == id || !p.Alive || p.Role == nil || p.Role.Team() != roles.TeamWerewolf {
			continue
		}
		out = append(out, p.info())
	}
	return out
}

// ---- roster queries ------------------------------------------------------

func (s *Session) living() []string {
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if p := s.players[id]; p != nil && p.Alive {
			out = append(out, id)
		}
	}
	return out
}

func (s *Session) livingInfos() []PlayerInfo {
	var out []PlayerInfo
	for _, id := range s.living() {
		out = append(out, s.players[id].info())
	}
	return out
}

func (s *Session) teamInfos(team roles.Team) []PlayerInfo {
	var out []PlayerInfo
	for _, id := range s.living() {
		if p := s.players[id]; p.Role != nil && p.Role.Team() == team {
			out = append(out, p.info())
		}
	}
	return out
}

// checkWinCondition is pure over the roster: villagers win at zero living
// werewolves; werewolves win when they match or outnumber the villagers.
func (s *Session) checkWinCondition() (roles.Team, bool) {
	wolves, villagers := 0, 0
	for _, id := range s.living() {
		p := s.players[id]
		if p.Role == nil {
			continue
		}
		if p.Role.Team() == roles.TeamWerewolf {
			wolves++
		} else {
			villagers++
		}
	}
	if wolves == 0 {
		return roles.TeamVillager, true
	}
	if wolves >= villagers {
		return roles.TeamWerewolf, true
	}
	return "", false
}

func (s *Session) endGame(winner roles.Team) {
	s.bumpGen()
	s.phase = PhaseEnded
	s.winner = winner
	roster := make([]FinalSeat, 0, len(s.order))
	for _, id := range s.order {
		p := s.players[id]
		seat := FinalSeat{Player: p.info(), Alive: p.Alive}
		if p.Role != nil {
			seat.Role = p.Role.ID()
			seat.Team = p.Role.Team()
		}
		roster = append(roster, seat)
	}
	s.logger.Info().Str("winner", string(winner)).Int("day", s.day).Msg("game ended")
	s.emitter.GameEnded(winner, roster)
}

// ---- voting --------------------------------------------------------------

func (s *Session) beginVoting() {
	s.phase = PhaseVoting
	s.tally = newVoteTally(s.day)
	candidates := s.livingInfos()
	s.emitter.VotingOpened(s.day, candidates)
	for _, id := range s.living() {
		if a := s.agents[id]; a != nil {
			s.scheduleAgentVote(a)
		}
	}
	s.armTimer(s.cfg.VoteTimeout, s.resolveVoting)
}

func (s *Session) handleVote(voterID, raw string) Result {
	if s.phase == PhaseEnded {
		return fail(CodeGameEnded, "the game has ended")
	}
	if s.phase != PhaseVoting {
		return fail(CodeInvalidState, "it is not voting time")
	}
	p := s.players[voterID]
	if p == nil {
		return fail(CodeInvalidState, "you are not in this game")
	}
	if !p.Alive {
		return fail(CodeInvalidState, "dead players cannot vote")
	}
	if prior, voted := s.tally.votes[voterID]; voted {
		return fail(CodeAlreadyVoted, fmt.Sprintf("you already voted: %s", prior))
	}
	choice := parseVote(raw)
	if !choice.Abstain {
		target := s.players[choice.Target]
		if target == nil || !target.Alive {
			return fail(CodeInvalidTarget, "the target is not a living player")
		}
	}
	s.tally.record(voterID, choice)
	if len(s.tally.votes) >= len(s.living()) {
		s.bumpGen()
		s.resolveVoting()
	}
	if choice.Abstain {
		return ok("abstention recorded")
	}
	return ok(fmt.Sprintf("vote recorded for %s", s.players[choice.Target].Name))
}

func (s *Session) resolveVoting() {
	target, votes, tie := s.tally.outcome()
	if target == "" {
		s.emitter.VotingResult(nil, votes, tie)
		s.advanceDay()
		return
	}
	p := s.players[target]
	info := p.info()
	p.Alive = false
	s.emitter.VotingResult(&info, votes, false)
	if p.Role != nil {
		p.Role.OnDeath(&roles.DeathContext{View: s.view(), Victim: target, Cause: roles.CauseExecution})
	}
	s.resume = s.advanceDay
	s.continueAfterDeaths()
}

func (s *Session) advanceDay() {
	if winner, over := s.checkWinCondition(); over {
		s.endGame(winner)
		return
	}
	s.day++
	s.beginNight()
}
