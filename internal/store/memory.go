// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live game sessions for the lifetime of the process only.
//
// Characteristics:
//   - Stores *game.Session objects keyed by Session.ID in a map.
//   - The map is guarded by an RWMutex; each session additionally has its
//     own mutex so events for one session run strictly one at a time while
//     different sessions proceed in parallel.
//   - Sessions untouched for longer than the idle limit are dropped by Prune.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/dotword/internal/game"
)

// ErrNotFound is returned for unknown or pruned session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store defines the holding interface for live sessions.
type Store interface {
	// Save adds a new session.
	Save(ctx context.Context, s *game.Session) error

	// Do runs fn with exclusive access to the session. fn must not retain s.
	Do(ctx context.Context, id string, fn func(s *game.Session) error) error

	// Delete removes a session; unknown IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Prune drops sessions idle for longer than idle and returns their IDs.
	Prune(ctx context.Context, idle time.Duration) []string

	// Len reports the number of live sessions.
	Len() int
}

type entry struct {
	mu       sync.Mutex // serializes events for this session
	sess     *game.Session
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards entries
	entries map[string]*entry // keyed by Session.ID
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*entry), now: now}
}

// Save adds or replaces the session under its ID.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = &entry{sess: s, lastSeen: m.now()}
	return nil
}

// Do looks up the session and runs fn while holding its lock.
func (m *memory) Do(ctx context.Context, id string, fn func(s *game.Session) error) error {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.sess == nil { // pruned while we waited
		return ErrNotFound
	}
	e.lastSeen = m.now()
	return fn(e.sess)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()
	if ok {
		e.mu.Lock()
		e.sess = nil
		e.mu.Unlock()
	}
	return nil
}

func (m *memory) Prune(ctx context.Context, idle time.Duration) []string {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, e := range m.entries {
		if ctx.Err() != nil {
			break
		}
		if !e.mu.TryLock() {
			continue // busy, so not idle
		}
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			e.sess = nil
			ids = append(ids, id)
		}
		e.mu.Unlock()
	}
	return ids
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
