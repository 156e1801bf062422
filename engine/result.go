package engine

// Code is the machine-readable outcome of one public operation.
type Code string

const (
	CodeOK               Code = "ok"
	CodeInvalidState     Code = "invalid_state"
	CodeNotYourTurn      Code = "not_your_turn"
	CodeAlreadyActed     Code = "already_acted"
	CodeAlreadyVoted     Code = "already_voted"
	CodeBusy             Code = "busy"
	CodeInvalidTarget    Code = "invalid_target"
	CodeNotEnoughPlayers Code = "not_enough_players"
	CodeNotHost          Code = "not_host"
	CodeGameEnded        Code = "game_ended"
	CodeAlreadyJoined    Code = "already_joined"
	CodeGameInProgress   Code = "game_in_progress"
)

// Result is returned by every public session operation instead of an error,
// so the binding can render any outcome to the player.
type Result struct {
	OK      bool           `json:"ok"`
	Code    Code           `json:"code"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func ok(msg string) Result {
	return Result{OK: true, Code: CodeOK, Message: msg}
}

func fail(code Code, msg string) Result {
	return Result{Code: code, Message: msg}
}
