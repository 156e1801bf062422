package roles

import "fmt"

type witchRole struct{}

func NewWitch() Role { return witchRole{} }

func (witchRole) ID() ID { return Witch }
func (witchRole) Team() Team { return TeamVillager }
func (witchRole) Description() string {
	return "You hold two single-use potions: one heals tonight's victim, one kills a player of your choosing."
}
func (witchRole) NightPhase() (NightPhase, bool) { return PhaseWitch, true }

// CanAct gates the witch sub-phase on having at least one potion left, so a
// spent witch no longer delays the night.
func (witchRole) CanAct(v GameView) bool {
	return v.HealAvailable() || v.PoisonAvailable()
}

func (witchRole) Prompt(v GameView, actor string) string {
	target := v.CurrentTarget()
	switch {
	case target != "" && v.HealAvailable() && v.PoisonAvailable():
		return fmt.Sprintf("The pack attacks %s tonight. You may heal them, poison someone else, or pass.", target)
	case target != "" && v.HealAvailable():
		return fmt.Sprintf("The pack attacks %s tonight. You may heal them or pass.", target)
	case v.PoisonAvailable():
		return "No one needs healing tonight. You may poison a player or pass."
	default:
		return "Nothing you can do tonight. Pass when ready."
	}
}

// Act lets the witch spend the heal and the poison in the same night: a heal
// does not close her turn, so a poison or a pass may still follow.
func (witchRole) Act(ctx *ActionContext) error {
	v := ctx.View
	switch ctx.Choice.Kind {
	case ChoiceNone:
		if v.HasActed(ctx.Actor) {
			return ErrAlreadyActed
		}
		v.RecordPass(ctx.Actor)
		return nil
	case ChoiceHeal:
		if !v.HealAvailable() {
			return ErrPotionSpent
		}
		target := v.CurrentTarget()
		if target == "" {
			return ErrInvalidTarget
		}
		v.RecordHeal(ctx.Actor)
		v.Whisper(ctx.Actor, fmt.Sprintf("You pour the heal potion over %s. It is gone for good.", target))
		return nil
	case ChoicePoison:
		if v.HasActed(ctx.Actor) {
			return ErrAlreadyActed
		}
		if !v.PoisonAvailable() {
			return ErrPotionSpent
		}
		target := ctx.Choice.Target
		if !v.IsAlive(target) || target == ctx.Actor || target == v.CurrentTarget() {
			return ErrInvalidTarget
		}
		v.RecordPoison(ctx.Actor, target)
		v.Whisper(ctx.Actor, fmt.Sprintf("You slip the kill potion to %s. It is gone for good.", target))
		return nil
	default:
		return ErrBadChoice
	}
}

func (witchRole) OnDeath(ctx *DeathContext) {}
