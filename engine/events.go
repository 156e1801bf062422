package engine

import "github.com/gosuda/werewolf/engine/roles"

// PlayerInfo identifies a player in outbound events.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleInfo describes a role in outbound events.
type RoleInfo struct {
	ID          roles.ID   `json:"id"`
	Team        roles.Team `json:"team"`
	Description string     `json:"description"`
}

// FinalSeat is one roster entry revealed when a game ends.
type FinalSeat struct {
	Player PlayerInfo `json:"player"`
	Role   roles.ID   `json:"role"`
	Team   roles.Team `json:"team"`
	Alive  bool       `json:"alive"`
}

// Emitter is the outbound callback surface. The engine only emits semantic
// events; the binding owns all rendering, timing display and narration.
// Implementations are invoked from the session goroutine and must not call
// back into the session synchronously.
type Emitter interface {
	RoleAssigned(p PlayerInfo, role RoleInfo, teammates []PlayerInfo)
	NightPromptNeeded(p PlayerInfo, role RoleInfo, prompt string, candidates []PlayerInfo)
	NightPhaseSkipped(day int, sub roles.NightPhase)
	DayReport(day int, deaths []PlayerInfo)
	SeerResult(seer, target PlayerInfo, isWerewolf bool)
	VotingOpened(day int, candidates []PlayerInfo)
	VotingResult(executed *PlayerInfo, votes int, tie bool)
	HunterRetaliationNeeded(hunter PlayerInfo, candidates []PlayerInfo)
	GameEnded(winner roles.Team, roster []FinalSeat)

	// Announce is a broadcast narration line; Whisper targets one player;
	// Group targets an explicit recipient list (werewolf team chatter).
	Announce(day int, msg string)
	Whisper(p PlayerInfo, msg string)
	Group(ps []PlayerInfo, msg string)
}

// NopEmitter discards every event. Useful for tests and headless sessions.
type NopEmitter struct{}

func (NopEmitter) RoleAssigned(PlayerInfo, RoleInfo, []PlayerInfo) {}
func (NopEmitter) NightPromptNeeded(PlayerInfo, RoleInfo, string, []PlayerInfo) {}
func (NopEmitter) NightPhaseSkipped(int, roles.NightPhase) {}
func (NopEmitter) DayReport(int, []PlayerInfo) {}
func (NopEmitter) SeerResult(PlayerInfo, PlayerInfo, bool) {}
func (NopEmitter) VotingOpened(int, []PlayerInfo) {}
func (NopEmitter) VotingResult(*PlayerInfo, int, bool) {}
func (NopEmitter) HunterRetaliationNeeded(PlayerInfo, []PlayerInfo) {}
func (NopEmitter) GameEnded(roles.Team, []FinalSeat) {}
func (NopEmitter) Announce(int, string) {}
func (NopEmitter) Whisper(PlayerInfo, string) {}
func (NopEmitter) Group([]PlayerInfo, string) {}
