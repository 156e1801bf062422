package main

import "github.com/gosuda/werewolf/engine"

// ClientMessage is the envelope received from websocket clients.
type ClientMessage struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Target string `json:"target,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// ServerEvent is pushed to clients for any channel update.
type ServerEvent struct {
	Type   string         `json:"type"`
	Body   string         `json:"body,omitempty"`
	Room   string         `json:"room,omitempty"`
	Phase  string         `json:"phase,omitempty"`
	Day    int            `json:"day,omitempty"`
	Author string         `json:"author,omitempty"`
	State  any            `json:"state,omitempty"`
	Result *engine.Result `json:"result,omitempty"`
}

// Server event types.
const (
	EventTypeLog    = "log"
	EventTypeChat   = "chat"
	EventTypeRole   = "role"
	EventTypePrompt = "prompt"
	EventTypePhase  = "phase"
	EventTypeSeer   = "seer"
	EventTypeVote   = "vote"
	EventTypeEnded  = "ended"
	EventTypeRoster = "roster"
	EventTypeState  = "state"
	EventTypeResult = "result"
)
