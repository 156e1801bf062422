package engine

import "time"

// Config holds the session timing knobs. The binding uses the defaults; tests
// shrink them.
type Config struct {
	// NightActionTimeout bounds each night sub-phase; actors that have not
	// submitted by then are treated as having chosen no action.
	NightActionTimeout time.Duration
	// DiscussionDelay is the fixed day discussion window before voting opens.
	DiscussionDelay time.Duration
	// VoteTimeout bounds the voting phase.
	VoteTimeout time.Duration
	// HunterTimeout bounds a dying hunter's retaliation choice.
	HunterTimeout time.Duration
	// AgentDelay is the stand-in agent's think time before it submits.
	AgentDelay time.Duration
}

// DefaultConfig mirrors the pacing of the original chat game.
func DefaultConfig() Config {
	return Config{
		NightActionTimeout: 25 * time.Second,
		DiscussionDelay:    40 * time.Second,
		VoteTimeout:        15 * time.Second,
		HunterTimeout:      15 * time.Second,
		AgentDelay:         2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NightActionTimeout <= 0 {
		c.NightActionTimeout = d.NightActionTimeout
	}
	if c.DiscussionDelay <= 0 {
		c.DiscussionDelay = d.DiscussionDelay
	}
	if c.VoteTimeout <= 0 {
		c.VoteTimeout = d.VoteTimeout
	}
	if c.HunterTimeout <= 0 {
		c.HunterTimeout = d.HunterTimeout
	}
	if c.AgentDelay <= 0 {
		c.AgentDelay = d.AgentDelay
	}
	return c
}
