package roles

import "fmt"

type bodyguardRole struct{}

func NewBodyguard() Role { return bodyguardRole{} }

func (bodyguardRole) ID() ID { return Bodyguard }
func (bodyguardRole) Team() Team { return TeamVillager }
func (bodyguardRole) Description() string {
	return "Each night you shield one player (yourself included) from the pack's attack. Never the same player twice in a row."
}
func (bodyguardRole) NightPhase() (NightPhase, bool) { return PhaseBodyguard, true }
func (bodyguardRole) CanAct(v GameView) bool { return true }

func (bodyguardRole) Prompt(v GameView, actor string) string {
	if last := v.LastGuarded(); last != "" {
		return fmt.Sprintf("Choose a player to protect tonight (not %s again).", last)
	}
	return "Choose a player to protect tonight."
}

func (bodyguardRole) Act(ctx *ActionContext) error {
	v := ctx.View
	if v.HasActed(ctx.Actor) {
		return ErrAlreadyActed
	}
	switch ctx.Choice.Kind {
	case ChoiceNone:
		v.RecordPass(ctx.Actor)
		return nil
	case ChoiceGuard:
	default:
		return ErrBadChoice
	}
	target := ctx.Choice.Target
	if !v.IsAlive(target) {
		return ErrInvalidTarget
	}
	if target == v.LastGuarded() {
		return ErrGuardRepeat
	}
	v.RecordGuard(ctx.Actor, target)
	v.Whisper(ctx.Actor, fmt.Sprintf("You stand guard over %s tonight.", target))
	return nil
}

func (bodyguardRole) OnDeath(ctx *DeathContext) {}
