package roles

type hunterRole struct{}

func NewHunter() Role { return hunterRole{} }

func (hunterRole) ID() ID { return Hunter }
func (hunterRole) Team() Team { return TeamVillager }
func (hunterRole) Description() string {
	return "When you die, by night attack or by execution, you fire one last shot at a player of your choosing."
}
func (hunterRole) NightPhase() (NightPhase, bool) { return "", false }
func (hunterRole) CanAct(v GameView) bool { return false }

func (hunterRole) Prompt(v GameView, actor string) string {
	return "You are dying. Choose a player to take with you, or pass."
}

func (hunterRole) Act(ctx *ActionContext) error { return ErrNoAbility }

func (hunterRole) OnDeath(ctx *DeathContext) {
	ctx.View.QueueRetaliation(ctx.Victim)
}
