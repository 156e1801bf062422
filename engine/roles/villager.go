package roles

type villagerRole struct{}

func NewVillager() Role { return villagerRole{} }

func (villagerRole) ID() ID { return Villager }
func (villagerRole) Team() Team { return TeamVillager }
func (villagerRole) Description() string {
	return "No night ability. Find the werewolves by daylight and vote them out."
}
func (villagerRole) NightPhase() (NightPhase, bool) { return "", false }
func (villagerRole) CanAct(v GameView) bool { return false }
func (villagerRole) Prompt(v GameView, actor string) string {
	return "Sleep tight."
}
func (villagerRole) Act(ctx *ActionContext) error { return ErrNoAbility }
func (villagerRole) OnDeath(ctx *DeathContext) {}
