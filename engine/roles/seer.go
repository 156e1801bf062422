package roles

type seerRole struct{}

func NewSeer() Role { return seerRole{} }

func (seerRole) ID() ID { return Seer }
func (seerRole) Team() Team { return TeamVillager }
func (seerRole) Description() string {
	return "Each night you inspect one player. At the next dawn you learn whether they are werewolf-aligned."
}
func (seerRole) NightPhase() (NightPhase, bool) { return PhaseSeer, true }
func (seerRole) CanAct(v GameView) bool { return true }

func (seerRole) Prompt(v GameView, actor string) string {
	return "Choose a player to inspect tonight."
}

func (seerRole) Act(ctx *ActionContext) error {
	v := ctx.View
	if v.HasActed(ctx.Actor) {
		return ErrAlreadyActed
	}
	switch ctx.Choice.Kind {
	case ChoiceNone:
		v.RecordPass(ctx.Actor)
		return nil
	case ChoiceInspect:
	default:
		return ErrBadChoice
	}
	target := ctx.Choice.Target
	if !v.IsAlive(target) || target == ctx.Actor {
		return ErrInvalidTarget
	}
	v.RecordInspect(ctx.Actor, target)
	v.Whisper(ctx.Actor, "You will learn the result at dawn.")
	return nil
}

func (seerRole) OnDeath(ctx *DeathContext) {}
