package main

import (
	"errors"
	"sync"

	"github.com/gosuda/werewolf/engine"
	"github.com/gosuda/werewolf/history"
)

var errAlreadyJoined = errors.New("player already joined another channel")

// Manager keeps the registry of active channels. It is owned by the hosting
// process and handed to the HTTP layer; the engine itself holds no globals.
type Manager struct {
	cfg   engine.Config
	store *history.Store

	mu       sync.RWMutex
	channels map[string]*Channel
	players  map[string]*Channel
}

func NewManager(cfg engine.Config, store *history.Store) *Manager {
	return &Manager{
		cfg:      cfg,
		store:    store,
		channels: make(map[string]*Channel),
		players:  make(map[string]*Channel),
	}
}

func (m *Manager) Attach(channelName string, c *Client) error {
	m.mu.Lock()
	if _, ok := m.players[c.name]; ok {
		m.mu.Unlock()
		return errAlreadyJoined
	}
	ch, ok := m.channels[channelName]
	if !ok {
		ch = NewChannel(channelName, m)
		m.channels[channelName] = ch
	}
	m.players[c.name] = ch
	m.mu.Unlock()

	ch.addClient(c)
	return nil
}

func (m *Manager) Detach(c *Client) {
	m.mu.Lock()
	ch, ok := m.players[c.name]
	if ok {
		delete(m.players, c.name)
	}
	m.mu.Unlock()
	if ok {
		ch.removeClient(c)
	}
}

func (m *Manager) RouteMessage(c *Client, msg ClientMessage) {
	m.mu.RLock()
	ch := m.players[c.name]
	m.mu.RUnlock()
	if ch == nil {
		c.pushSystem("you are not in a channel")
		return
	}
	ch.handleMessage(c, msg)
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, ch := range m.channels {
		ch.close()
		delete(m.channels, name)
	}
	m.players = make(map[string]*Channel)
}

func (m *Manager) removeChannel(name string, ch *Channel) {
	m.mu.Lock()
	if current, ok := m.channels[name]; ok && current == ch {
		delete(m.channels, name)
	}
	m.mu.Unlock()
}
