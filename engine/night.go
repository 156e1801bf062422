package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/werewolf/engine/roles"
)

func (s *Session) beginNight() {
	s.phase = PhaseNight
	s.night = newNightLedger(s.day)
	s.emitter.Announce(s.day, fmt.Sprintf("Night %d falls.", s.day))
	s.nextSubPhase()
}

// eligibleFor lists the living actors occupying a sub-phase that still have
// something to do tonight.
func (s *Session) eligibleFor(sub roles.NightPhase) []string {
	var out []string
	for _, id := range s.living() {
		p := s.players[id]
		if p.Role == nil {
			continue
		}
		phase, acts := p.Role.NightPhase()
		if !acts || phase != sub {
			continue
		}
		if !p.Role.CanAct(s.view()) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// nextSubPhase advances to the next sub-phase with at least one eligible
// actor, skipping empty ones silently, and resolves the night once the
// ordered sequence is exhausted.
func (s *Session) nextSubPhase() {
	n := s.night
	for i := n.subIdx + 1; i < len(roles.NightOrder); i++ {
		sub := roles.NightOrder[i]
		eligible := s.eligibleFor(sub)
		if len(eligible) == 0 {
			s.emitter.NightPhaseSkipped(s.day, sub)
			continue
		}
		n.subIdx = i
		n.eligible = eligible
		s.promptSubPhase(eligible)
		s.armTimer(s.cfg.NightActionTimeout, s.closeSubPhase)
		return
	}
	n.subIdx = len(roles.NightOrder)
	s.bumpGen()
	s.finishNight()
}

func (s *Session) promptSubPhase(eligible []string) {
	candidates := s.livingInfos()
	for _, id := range eligible {
		p := s.players[id]
		prompt := p.Role.Prompt(s.view(), id)
		s.emitter.NightPromptNeeded(p.info(), roleInfo(p.Role), prompt, candidates)
		if a := s.agents[id]; a != nil {
			s.scheduleAgentNight(a, roles.NightOrder[s.night.subIdx])
		}
	}
}

// closeSubPhase ends the current sub-phase, either because every eligible
// actor acted or because the timeout elapsed; unsubmitted actors count as
// having chosen no action. Leaving the werewolf sub-phase fixes the night's
// attack target so the witch prompt can depend on it.
func (s *Session) closeSubPhase() {
	n := s.night
	if n.subIdx >= 0 && n.subIdx < len(roles.NightOrder) && roles.NightOrder[n.subIdx] == roles.PhaseWerewolf {
		n.currentTarget = n.tallyAttacks()
		if n.currentTarget != "" {
			if victim := s.players[n.currentTarget]; victim != nil {
				s.view().TeamLog(roles.TeamWerewolf, fmt.Sprintf("The pack settles on %s.", victim.Name))
			}
		}
	}
	s.nextSubPhase()
}

// subPhaseComplete reports whether every eligible actor of the current
// sub-phase is done. A witch with both potions spent counts as done even
// without an explicit pass.
func (s *Session) subPhaseComplete() bool {
	n := s.night
	for _, id := range n.eligible {
		if n.acted[id] {
			continue
		}
		if p := s.players[id]; p != nil && p.Role.ID() == roles.Witch && s.healSpent && s.poisonSpent {
			continue
		}
		return false
	}
	return true
}

func (s *Session) handleNightAction(playerID, raw string) Result {
	if s.phase == PhaseEnded {
		return fail(CodeGameEnded, "the game has ended")
	}
	if s.awaitingHunter != "" && s.awaitingHunter == playerID {
		return s.handleRetaliation(playerID, raw)
	}
	if s.phase != PhaseNight {
		return fail(CodeInvalidState, "night actions are only accepted at night")
	}
	n := s.night
	if n == nil || n.subIdx < 0 || n.subIdx >= len(roles.NightOrder) {
		return fail(CodeInvalidState, "no night sub-phase is open")
	}
	p := s.players[playerID]
	if p == nil {
		return fail(CodeInvalidState, "you are not in this game")
	}
	if !p.Alive {
		return fail(CodeInvalidState, "dead players cannot act")
	}
	sub, acts := p.Role.NightPhase()
	if !acts {
		return fail(CodeNotYourTurn, "your role has no night action")
	}
	if sub != roles.NightOrder[n.subIdx] {
		return fail(CodeNotYourTurn, "it is not your sub-phase")
	}
	choice, err := roles.ParseChoice(raw, p.Role.ID())
	if err != nil {
		return fail(CodeInvalidTarget, "choice not understood")
	}
	if err := p.Role.Act(&roles.ActionContext{View: s.view(), Actor: playerID, Choice: choice}); err != nil {
		return s.actError(err)
	}
	if s.subPhaseComplete() {
		s.bumpGen()
		s.closeSubPhase()
	}
	return ok("choice recorded")
}

func (s *Session) actError(err error) Result {
	switch {
	case errors.Is(err, roles.ErrAlreadyActed):
		return fail(CodeAlreadyActed, "you already acted tonight")
	case errors.Is(err, roles.ErrNoAbility):
		return fail(CodeNotYourTurn, "your role has no night action")
	case errors.Is(err, roles.ErrGuardRepeat):
		return fail(CodeInvalidTarget, "you cannot protect the same player on consecutive nights")
	case errors.Is(err, roles.ErrPotionSpent):
		return fail(CodeInvalidTarget, "that potion is already spent")
	case errors.Is(err, roles.ErrCurseSpent):
		return fail(CodeInvalidTarget, "the curse is already spent")
	case errors.Is(err, roles.ErrBadChoice):
		return fail(CodeInvalidTarget, "choice not understood for your role")
	case errors.Is(err, roles.ErrInvalidTarget):
		return fail(CodeInvalidTarget, "the target is not a legal choice")
	default:
		s.logger.Warn().Err(err).Msg("night action failed unexpectedly")
		return fail(CodeInvalidTarget, err.Error())
	}
}

// finishNight applies the night's outcome atomically: the attack unless
// protected or healed, the poison, then curse conversions, death hooks, seer
// reports, and finally the win check on the way into day.
func (s *Session) finishNight() {
	n := s.night
	var deaths []PlayerInfo

	if v := n.currentTarget; v != "" && v != n.guardTarget && v != n.healTarget {
		if p := s.players[v]; p != nil && p.Alive {
			deaths = append(deaths, p.info())
		}
	}
	if v := n.poisonTarget; v != "" {
		if p := s.players[v]; p != nil && p.Alive && v != n.currentTarget {
			deaths = append(deaths, p.info())
		}
	}

	for _, d := range deaths {
		s.players[d.ID].Alive = false
	}
	s.applyConversions(n)
	for _, d := range deaths {
		p := s.players[d.ID]
		if p.Role == nil {
			continue
		}
		cause := roles.CauseAttack
		if d.ID == n.poisonTarget {
			cause = roles.CausePoison
		}
		p.Role.OnDeath(&roles.DeathContext{View: s.view(), Victim: d.ID, Cause: cause})
	}

	// Seer reports are evaluated once the night has fully settled and are
	// delivered at dawn, even if the seer died overnight.
	for _, ins := range n.inspections {
		target := s.players[ins.Target]
		isWolf := target != nil && target.Role != nil && target.Role.Team() == roles.TeamWerewolf
		s.seerReports = append(s.seerReports, seerReport{Seer: ins.Seer, Target: ins.Target, IsWerewolf: isWolf})
	}

	s.lastGuarded = n.guardTarget
	s.nightLog = append(s.nightLog, n)

	s.resume = func() { s.beginDay(deaths) }
	s.continueAfterDeaths()
}

// applyConversions switches queued curse targets to the werewolf team. The
// conversion is independent of the attack outcome, but a target that died
// tonight stays dead.
func (s *Session) applyConversions(n *nightLedger) {
	for _, target := range n.curses {
		p := s.players[target]
		if p == nil || !p.Alive || p.Role == nil || p.Role.Team() == roles.TeamWerewolf {
			continue
		}
		p.Role = roles.New(roles.Werewolf)
		mates := s.packmates(target)
		if a := s.agents[target]; a != nil {
			a.assign(roles.Werewolf, roles.TeamWerewolf, mates)
		}
		msg := "A curse takes hold: you are a werewolf now. Win with the pack."
		if len(mates) > 0 {
			names := make([]string, 0, len(mates))
			for _, m := range mates {
				names = append(names, m.Name)
			}
			msg += " Your pack: " + strings.Join(names, ", ")
		}
		s.view().Whisper(target, msg)
		s.view().TeamLog(roles.TeamWerewolf, fmt.Sprintf("%s has joined the pack.", p.Name))
	}
}

func (s *Session) beginDay(deaths []PlayerInfo) {
	s.phase = PhaseDay
	s.emitter.DayReport(s.day, deaths)
	for _, rep := range s.seerReports {
		seer, target := s.players[rep.Seer], s.players[rep.Target]
		if seer == nil || target == nil {
			continue
		}
		s.emitter.SeerResult(seer.info(), target.info(), rep.IsWerewolf)
	}
	s.seerReports = s.seerReports[:0]
	s.armTimer(s.cfg.DiscussionDelay, s.beginVoting)
}

// ---- hunter retaliation --------------------------------------------------

// continueAfterDeaths drains queued hunter retaliations one at a time, then
// evaluates the win condition and resumes the interrupted phase transition.
func (s *Session) continueAfterDeaths() {
	if len(s.pendingHunters) > 0 {
		hunter := s.pendingHunters[0]
		s.pendingHunters = s.pendingHunters[1:]
		s.promptHunter(hunter)
		return
	}
	if winner, over := s.checkWinCondition(); over {
		s.resume = nil
		s.endGame(winner)
		return
	}
	resume := s.resume
	s.resume = nil
	if resume != nil {
		resume()
	}
}

func (s *Session) promptHunter(hunter string) {
	p := s.players[hunter]
	if p == nil {
		s.continueAfterDeaths()
		return
	}
	s.awaitingHunter = hunter
	s.emitter.HunterRetaliationNeeded(p.info(), s.livingInfos())
	if a := s.agents[hunter]; a != nil {
		s.scheduleAgentRetaliation(a)
	}
	s.armTimer(s.cfg.HunterTimeout, func() {
		s.awaitingHunter = ""
		s.emitter.Announce(s.day, fmt.Sprintf("%s's finger slips off the trigger.", p.Name))
		s.continueAfterDeaths()
	})
}

func (s *Session) handleRetaliation(hunter, raw string) Result {
	choice, err := roles.ParseChoice(raw, roles.Hunter)
	if err != nil {
		return fail(CodeInvalidTarget, "choice not understood")
	}
	switch choice.Kind {
	case roles.ChoiceNone:
		s.bumpGen()
		s.awaitingHunter = ""
		s.continueAfterDeaths()
		return ok("you lower your rifle")
	case roles.ChoiceShoot:
	default:
		return fail(CodeInvalidTarget, "shoot a player or pass")
	}
	victim := s.players[choice.Target]
	if victim == nil || !victim.Alive || choice.Target == hunter {
		return fail(CodeInvalidTarget, "the target is not a living player")
	}
	s.bumpGen()
	s.awaitingHunter = ""
	victim.Alive = false
	s.emitter.Announce(s.day, fmt.Sprintf("%s fires a last shot: %s is dead.", s.players[hunter].Name, victim.Name))
	if victim.Role != nil {
		victim.Role.OnDeath(&roles.DeathContext{View: s.view(), Victim: victim.ID, Cause: roles.CauseRetaliation})
	}
	s.continueAfterDeaths()
	return ok(fmt.Sprintf("you shot %s", victim.Name))
}
