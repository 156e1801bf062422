package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/werewolf/engine/roles"
)

// Agent is a stand-in player. It submits through the exact same entry points
// a human does, so the state machine has no special case for it; the
// heuristics only exist to keep the contract exercised, not to play well.
type Agent struct {
	id string

	mu        sync.Mutex
	role      roles.ID
	team      roles.Team
	teammates map[string]bool
	rng       *rand.Rand
}

func newAgent() *Agent {
	return &Agent{
		id:        "agent-" + uuid.NewString(),
		teammates: make(map[string]bool),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(rand.Int()))),
	}
}

// assign records the agent's role knowledge; re-run on curse conversion.
func (a *Agent) assign(role roles.ID, team roles.Team, teammates []PlayerInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.role = role
	a.team = team
	a.teammates = make(map[string]bool, len(teammates))
	for _, t := range teammates {
		a.teammates[t.ID] = true
	}
}

// agentNightPrompt is the state snapshot an agent decides from.
type agentNightPrompt struct {
	Sub             roles.NightPhase
	Living          []string
	CurrentTarget   string
	HealAvailable   bool
	PoisonAvailable bool
	CurseAvailable  bool
	LastGuarded     string
}

func (a *Agent) nightChoice(p agentNightPrompt) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch p.Sub {
	case roles.PhaseWerewolf:
		if a.role == roles.CursedWerewolf && p.CurseAvailable && a.rng.Float64() < 0.25 {
			if t := a.pick(p.Living, a.notPack()); t != "" {
				return "curse:" + t
			}
		}
		if t := a.pick(p.Living, a.notPack()); t != "" {
			return "attack:" + t
		}
		return "pass"
	case roles.PhaseSeer:
		if t := a.pick(p.Living, a.notSelf()); t != "" {
			return "inspect:" + t
		}
		return "pass"
	case roles.PhaseBodyguard:
		if t := a.pick(p.Living, func(id string) bool { return id != p.LastGuarded }); t != "" {
			return "guard:" + t
		}
		return "pass"
	case roles.PhaseWitch:
		if p.CurrentTarget != "" && p.HealAvailable && a.rng.Float64() < 0.5 {
			return "heal"
		}
		if p.PoisonAvailable && a.rng.Float64() < 0.35 {
			if t := a.pick(p.Living, func(id string) bool { return id != a.id && id != p.CurrentTarget }); t != "" {
				return "poison:" + t
			}
		}
		return "pass"
	}
	return "pass"
}

func (a *Agent) voteChoice(living []string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.team == roles.TeamWerewolf {
		if t := a.pick(living, a.notPack()); t != "" {
			return t
		}
		return "abstain"
	}
	if a.rng.Float64() < 0.1 {
		return "abstain"
	}
	if t := a.pick(living, a.notSelf()); t != "" {
		return t
	}
	return "abstain"
}

func (a *Agent) retaliationChoice(living []string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rng.Float64() < 0.8 {
		if t := a.pick(living, a.notSelf()); t != "" {
			return "shoot:" + t
		}
	}
	return "pass"
}

func (a *Agent) notSelf() func(string) bool {
	return func(id string) bool { return id != a.id }
}

// notPack filters out the agent itself and its known teammates.
func (a *Agent) notPack() func(string) bool {
	return func(id string) bool { return id != a.id && !a.teammates[id] }
}

// pick chooses uniformly among candidates passing keep.
func (a *Agent) pick(candidates []string, keep func(string) bool) string {
	pool := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if keep(id) {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[a.rng.Intn(len(pool))]
}

// ---- session-side scheduling --------------------------------------------

func (s *Session) scheduleAgentNight(a *Agent, sub roles.NightPhase) {
	prompt := agentNightPrompt{
		Sub:             sub,
		Living:          s.living(),
		CurrentTarget:   s.night.currentTarget,
		HealAvailable:   !s.healSpent,
		PoisonAvailable: !s.poisonSpent,
		CurseAvailable:  !s.curseSpent,
		LastGuarded:     s.lastGuarded,
	}
	time.AfterFunc(s.agentDelay(), func() {
		if res := s.SubmitNightAction(a.id, a.nightChoice(prompt)); !res.OK && res.Code != CodeGameEnded {
			s.logger.Debug().Str("agent", a.id).Str("code", string(res.Code)).Msg("agent night action rejected")
		}
	})
}

func (s *Session) scheduleAgentVote(a *Agent) {
	living := s.living()
	time.AfterFunc(s.agentDelay(), func() {
		if res := s.SubmitVote(a.id, a.voteChoice(living)); !res.OK && res.Code != CodeGameEnded {
			s.logger.Debug().Str("agent", a.id).Str("code", string(res.Code)).Msg("agent vote rejected")
		}
	})
}

func (s *Session) scheduleAgentRetaliation(a *Agent) {
	living := s.living()
	time.AfterFunc(s.agentDelay(), func() {
		if res := s.SubmitNightAction(a.id, a.retaliationChoice(living)); !res.OK && res.Code != CodeGameEnded {
			s.logger.Debug().Str("agent", a.id).Str("code", string(res.Code)).Msg("agent retaliation rejected")
		}
	})
}

// agentDelay jitters the configured think time a little so agents do not all
// answer on the same tick.
func (s *Session) agentDelay() time.Duration {
	base := s.cfg.AgentDelay
	jitter := time.Duration(s.rng.Int63n(int64(base)/2 + 1))
	return base/2 + jitter
}
