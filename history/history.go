// Package history persists completed-game records in a PebbleDB key-value
// store. Keys are 8-byte big-endian sequence numbers increasing
// monotonically; values are JSON records.
package history

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble/v2"
)

// Seat is one roster entry of a finished game.
type Seat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Team  string `json:"team"`
	Alive bool   `json:"alive"`
}

// NightEntry is the audit summary of one night of a finished game.
type NightEntry struct {
	Day          int      `json:"day"`
	AttackTarget string   `json:"attack_target,omitempty"`
	Guarded      string   `json:"guarded,omitempty"`
	Healed       string   `json:"healed,omitempty"`
	Poisoned     string   `json:"poisoned,omitempty"`
	Cursed       []string `json:"cursed,omitempty"`
	Inspections  int      `json:"inspections,omitempty"`
}

// Record is one finished game.
type Record struct {
	Channel    string       `json:"channel"`
	Winner     string       `json:"winner"`
	FinishedAt time.Time    `json:"finished_at"`
	Seats      []Seat       `json:"seats"`
	Nights     []NightEntry `json:"nights,omitempty"`
}

// Store wraps the pebble database. A nil Store is valid and discards writes.
type Store struct {
	db   *pebble.DB
	mu   sync.Mutex
	next uint64
}

// Open opens (or creates) the store at dir. An empty dir disables history.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	it, err := db.NewIter(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer func() { _ = it.Close() }()
	if it.Last() && len(it.Key()) >= 8 {
		s.next = binary.BigEndian.Uint64(it.Key()[:8]) + 1
	}
	return s, nil
}

func (s *Store) Append(r Record) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, s.next)
	s.next++
	val, _ := json.Marshal(r)
	return s.db.Set(key, val, pebble.Sync)
}

// Recent returns up to limit most recent records, oldest first. limit <= 0
// returns everything.
func (s *Store) Recent(limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	it, err := s.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()
	out := make([]Record, 0, 64)
	for it.First(); it.Valid(); it.Next() {
		var r Record
		if err := json.Unmarshal(it.Value(), &r); err == nil {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
