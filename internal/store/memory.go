// internal/store/memory.go
//
// In-memory implementation of the Store interface for REST-driven rounds.
// The client supplies frame timestamps; every request locks the session,
// steps its round and unlocks, so a round is still driven by one caller
// at a time.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions idle for longer than the TTL are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/catch/internal/catch"
	"github.com/robalobadob/catch/internal/scores"
)

// ErrNotFound is returned by Get for unknown or expired sessions.
var ErrNotFound = errors.New("store: session not found")

// Session is one REST-driven round and who owns it.
type Session struct {
	ID    string
	Owner string
	Key   scores.Key
	Round *catch.Round

	// Recorded is set once the finished round has been persisted.
	Recorded bool

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes access to the round.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for round sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	Delete(ctx context.Context, id string) error

	// Sweep drops sessions not touched since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Save(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("store: session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.lastSeen = m.now()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	s.lastSeen = m.now()
	m.mu.Unlock()
	return s, nil
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
