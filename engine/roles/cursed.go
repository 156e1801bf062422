package roles

import "fmt"

type cursedWerewolfRole struct{}

func NewCursedWerewolf() Role { return cursedWerewolfRole{} }

func (cursedWerewolfRole) ID() ID { return CursedWerewolf }
func (cursedWerewolfRole) Team() Team { return TeamWerewolf }
func (cursedWerewolfRole) Description() string {
	return "A werewolf that may, once per game, curse a villager instead of voting to attack. The cursed player joins the pack at the end of the night."
}
func (cursedWerewolfRole) NightPhase() (NightPhase, bool) { return PhaseWerewolf, true }
func (cursedWerewolfRole) CanAct(v GameView) bool { return true }

func (cursedWerewolfRole) Prompt(v GameView, actor string) string {
	if v.CurseAvailable() {
		return "Choose a victim for tonight's attack, curse a villager into the pack, or pass."
	}
	return "Choose a victim for tonight's attack, or pass."
}

func (cursedWerewolfRole) Act(ctx *ActionContext) error {
	if ctx.Choice.Kind != ChoiceCurse {
		return actAttack(ctx)
	}
	v := ctx.View
	if v.HasActed(ctx.Actor) {
		return ErrAlreadyActed
	}
	if !v.CurseAvailable() {
		return ErrCurseSpent
	}
	target := ctx.Choice.Target
	if !v.IsAlive(target) || target == ctx.Actor {
		return ErrInvalidTarget
	}
	if r := v.RoleOf(target); r != nil && r.Team() == TeamWerewolf {
		return ErrInvalidTarget
	}
	v.RecordCurse(ctx.Actor, target)
	v.Whisper(ctx.Actor, fmt.Sprintf("You curse %s. They will join the pack when the night ends.", target))
	return nil
}

func (cursedWerewolfRole) OnDeath(ctx *DeathContext) {}
