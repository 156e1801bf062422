package roles

import "fmt"

type werewolfRole struct{}

func NewWerewolf() Role { return werewolfRole{} }

func (werewolfRole) ID() ID { return Werewolf }
func (werewolfRole) Team() Team { return TeamWerewolf }
func (werewolfRole) Description() string {
	return "Each night the pack picks one victim by majority. You share a private night channel with your teammates."
}
func (werewolfRole) NightPhase() (NightPhase, bool) { return PhaseWerewolf, true }
func (werewolfRole) CanAct(v GameView) bool { return true }

func (werewolfRole) Prompt(v GameView, actor string) string {
	return "Choose a victim for tonight's attack, or pass."
}

func (werewolfRole) Act(ctx *ActionContext) error {
	return actAttack(ctx)
}

func (werewolfRole) OnDeath(ctx *DeathContext) {}

// actAttack is shared between the werewolf and the cursed werewolf.
func actAttack(ctx *ActionContext) error {
	v := ctx.View
	if v.HasActed(ctx.Actor) {
		return ErrAlreadyActed
	}
	switch ctx.Choice.Kind {
	case ChoiceNone:
		v.RecordPass(ctx.Actor)
		return nil
	case ChoiceAttack:
	default:
		return ErrBadChoice
	}
	target := ctx.Choice.Target
	if !v.IsAlive(target) {
		return ErrInvalidTarget
	}
	if r := v.RoleOf(target); r != nil && r.Team() == TeamWerewolf {
		return ErrInvalidTarget
	}
	v.RecordAttack(ctx.Actor, target)
	v.TeamLog(TeamWerewolf, fmt.Sprintf("A pack member voted to attack %s.", target))
	return nil
}
