package engine

import "github.com/gosuda/werewolf/engine/roles"

// sessionView adapts a Session to roles.GameView. All methods run on the
// session goroutine; roles never see the Session type itself.
type sessionView struct {
	s *Session
}

func (s *Session) view() roles.GameView { return sessionView{s: s} }

func (v sessionView) Day() int { return v.s.day }

func (v sessionView) IsAlive(id string) bool {
	p := v.s.players[id]
	return p != nil && p.Alive
}

func (v sessionView) RoleOf(id string) roles.Role {
	p := v.s.players[id]
	if p == nil {
		return nil
	}
	return p.Role
}

func (v sessionView) Living() []string { return v.s.living() }

func (v sessionView) CurrentTarget() string {
	if v.s.night == nil {
		return ""
	}
	return v.s.night.currentTarget
}

func (v sessionView) LastGuarded() string { return v.s.lastGuarded }
func (v sessionView) HealAvailable() bool { return !v.s.healSpent }
func (v sessionView) PoisonAvailable() bool { return !v.s.poisonSpent }
func (v sessionView) CurseAvailable() bool { return !v.s.curseSpent }

func (v sessionView) HasActed(actor string) bool {
	return v.s.night != nil && v.s.night.acted[actor]
}

func (v sessionView) RecordAttack(actor, target string) {
	n := v.s.night
	n.attackVotes = append(n.attackVotes, attackVote{Actor: actor, Target: target})
	n.acted[actor] = true
}

func (v sessionView) RecordCurse(actor, target string) {
	n := v.s.night
	n.curses[actor] = target
	n.acted[actor] = true
	v.s.curseSpent = true
}

func (v sessionView) RecordInspect(actor, target string) {
	n := v.s.night
	n.inspections = append(n.inspections, inspection{Seer: actor, Target: target})
	n.acted[actor] = true
}

func (v sessionView) RecordGuard(actor, target string) {
	n := v.s.night
	n.guardActor = actor
	n.guardTarget = target
	n.acted[actor] = true
}

// RecordHeal spends the potion immediately; it does not close the witch's
// turn, she may still poison or pass.
func (v sessionView) RecordHeal(actor string) {
	v.s.night.healTarget = v.s.night.currentTarget
	v.s.healSpent = true
}

func (v sessionView) RecordPoison(actor, target string) {
	n := v.s.night
	n.poisonActor = actor
	n.poisonTarget = target
	n.acted[actor] = true
	v.s.poisonSpent = true
}

func (v sessionView) RecordPass(actor string) {
	v.s.night.acted[actor] = true
}

func (v sessionView) QueueRetaliation(hunter string) {
	v.s.pendingHunters = append(v.s.pendingHunters, hunter)
}

func (v sessionView) Whisper(id, msg string) {
	if p := v.s.players[id]; p != nil {
		v.s.emitter.Whisper(p.info(), msg)
	}
}

func (v sessionView) TeamLog(team roles.Team, msg string) {
	v.s.emitter.Group(v.s.teamInfos(team), msg)
}
