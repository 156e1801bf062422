// Package roles defines the closed set of playable roles and the behavior
// table the session engine dispatches through. Roles never import the engine;
// they observe and mutate game state through the GameView adapter, mirroring
// how each role only owns its own night action and death hook.
package roles

import "errors"

// Team is the alignment a role wins with.
type Team string

const (
	TeamWerewolf Team = "werewolf"
	TeamVillager Team = "villager"
)

// ID identifies a role.
type ID string

const (
	Werewolf       ID = "werewolf"
	CursedWerewolf ID = "cursed_werewolf"
	Seer           ID = "seer"
	Bodyguard      ID = "bodyguard"
	Witch          ID = "witch"
	Hunter         ID = "hunter"
	Villager       ID = "villager"
)

// NightPhase is one ordered stage within a night.
type NightPhase string

const (
	PhaseWerewolf  NightPhase = "werewolf"
	PhaseSeer      NightPhase = "seer"
	PhaseBodyguard NightPhase = "bodyguard"
	PhaseWitch     NightPhase = "witch"
)

// NightOrder is the mandatory sub-phase sequence. The witch acts last because
// her heal prompt depends on the werewolf target being known.
var NightOrder = []NightPhase{PhaseWerewolf, PhaseSeer, PhaseBodyguard, PhaseWitch}

var (
	ErrInvalidTarget = errors.New("target is not a legal choice")
	ErrAlreadyActed  = errors.New("action already recorded for tonight")
	ErrNoAbility     = errors.New("role has no night ability")
	ErrPotionSpent   = errors.New("potion already spent")
	ErrCurseSpent    = errors.New("curse already spent")
	ErrGuardRepeat   = errors.New("cannot protect the same player on consecutive nights")
	ErrBadChoice     = errors.New("choice not understood for this role")
)

// GameView is implemented by the engine so roles can interact with session
// state without importing it.
type GameView interface {
	Day() int
	IsAlive(id string) bool
	RoleOf(id string) Role
	Living() []string
	CurrentTarget() string
	LastGuarded() string
	HealAvailable() bool
	PoisonAvailable() bool
	CurseAvailable() bool
	HasActed(actor string) bool

	RecordAttack(actor, target string)
	RecordCurse(actor, target string)
	RecordInspect(actor, target string)
	RecordGuard(actor, target string)
	RecordHeal(actor string)
	RecordPoison(actor, target string)
	RecordPass(actor string)
	QueueRetaliation(hunter string)

	Whisper(id, msg string)
	TeamLog(team Team, msg string)
}

// ActionContext carries one submitted night action into a role.
type ActionContext struct {
	View   GameView
	Actor  string
	Choice Choice
}

// DeathCause distinguishes how a player died for death hooks.
type DeathCause string

const (
	CauseAttack      DeathCause = "attack"
	CausePoison      DeathCause = "poison"
	CauseExecution   DeathCause = "execution"
	CauseRetaliation DeathCause = "retaliation"
)

// DeathContext carries a death event into a role's hook.
type DeathContext struct {
	View   GameView
	Victim string
	Cause  DeathCause
}

// Role represents one playable role. Implementations are stateless; all
// per-game state lives behind GameView.
type Role interface {
	ID() ID
	Team() Team
	Description() string
	// NightPhase reports which night sub-phase the role occupies, if any.
	NightPhase() (NightPhase, bool)
	// CanAct reports whether a living holder still has something to do in
	// its sub-phase tonight.
	CanAct(v GameView) bool
	// Prompt builds the choice-prompt text shown to an eligible actor.
	Prompt(v GameView, actor string) string
	// Act validates and records one submitted choice.
	Act(ctx *ActionContext) error
	// OnDeath runs when a holder transitions from alive to dead.
	OnDeath(ctx *DeathContext)
}

// Factory builds a role instance.
type Factory func() Role

var registry = map[ID]Factory{
	Werewolf:       NewWerewolf,
	CursedWerewolf: NewCursedWerewolf,
	Seer:           NewSeer,
	Bodyguard:      NewBodyguard,
	Witch:          NewWitch,
	Hunter:         NewHunter,
	Villager:       NewVillager,
}

// New builds the role for id, degrading to Villager for unknown IDs so a bad
// role reference never takes the session down.
func New(id ID) Role {
	factory := registry[id]
	if factory == nil {
		factory = NewVillager
	}
	return factory()
}

// Known reports whether id is a registered role.
func Known(id ID) bool {
	_, ok := registry[id]
	return ok
}
