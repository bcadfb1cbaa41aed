package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// Factory builds a new session for id.
type Factory func(id string) *Session

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps visitor sessions in memory, keyed by random UUIDs. Idle
// sessions are pruned lazily whenever the store is accessed; sessions with a
// solve in flight are never pruned.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	factory  Factory
	now      func() time.Time
}

// NewStore creates a store. A nil factory creates default sessions.
func NewStore(ttl time.Duration, factory Factory) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if factory == nil {
		factory = func(id string) *Session {
			return New(WithID(id))
		}
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Get returns the session for id and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Create starts a new session with a fresh identifier.
func (s *Store) Create() *Session {
	id := uuid.NewString()
	session := s.factory(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.sessions[id] = &entry{session: session, lastSeen: now}
	return session
}

// GetOrCreate returns the session for id, creating one when id is unknown or
// expired. created reports whether a new session was made.
func (s *Store) GetOrCreate(id string) (session *Session, created bool) {
	if id != "" {
		if existing, ok := s.Get(id); ok {
			return existing, false
		}
	}
	return s.Create(), true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) pruneLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) < s.ttl {
			continue
		}
		if e.session.SubmitDisabled() {
			continue
		}
		delete(s.sessions, id)
	}
}
