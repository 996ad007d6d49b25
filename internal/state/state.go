// Package state holds the values written by background watchers and read by the refresh loop.
package state

import (
	"sync"

	"github.com/desertthunder/champr/internal/models"
)

// Snapshot is a consistent copy of the shared state taken once per cycle.
type Snapshot struct {
	Auth       models.AuthContext
	ChampionID *int64
}

// CurrentChampion returns the selected champion id, or 0 when nothing is selected.
func (s Snapshot) CurrentChampion() int64 {
	if s.ChampionID == nil {
		return 0
	}
	return *s.ChampionID
}

// Store is written by the client connector and champion watcher.
type Store struct {
	mu         sync.RWMutex
	auth       models.AuthContext
	championID *int64
	listeners  []func()
}

// NewStore returns an empty, disconnected store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot copies the current state under the read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Auth: s.auth}
	if s.championID != nil {
		id := *s.championID
		snap.ChampionID = &id
	}
	return snap
}

// SetAuth replaces the connection details. Disconnecting also clears the champion.
func (s *Store) SetAuth(auth models.AuthContext) {
	s.mu.Lock()
	s.auth = auth
	if !auth.Connected() {
		s.championID = nil
	}
	s.mu.Unlock()
	s.notify()
}

// Auth returns the current connection details.
func (s *Store) Auth() models.AuthContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// SetChampion records the selected champion. Zero or negative ids clear the selection.
func (s *Store) SetChampion(id int64) {
	s.mu.Lock()
	if id <= 0 {
		s.championID = nil
	} else {
		s.championID = &id
	}
	s.mu.Unlock()
	s.notify()
}

// OnChange registers fn to run after every write, outside the lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
