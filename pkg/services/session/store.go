// Package session keeps per-conversation history in a process-scoped TTL
// map. Sessions are transient: nothing is persisted, and expired entries
// are evicted lazily on access and by a periodic sweep.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTTL        = 30 * time.Minute
	defaultMaxHistory = 20
	sweepInterval     = 5 * time.Minute
)

type Message struct {
	Role string
	Text string
	At   time.Time
}

type entry struct {
	history  []Message
	lastSeen time.Time
}

type Store struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxHistory int
	sessions   map[string]*entry
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:        ttl,
		maxHistory: defaultMaxHistory,
		sessions:   make(map[string]*entry),
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Touch resolves a session id to a live session, creating a fresh one when
// the id is empty, unknown, or expired. It returns the effective id and a
// copy of the history.
func (s *Store) Touch(id string) (string, []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	e, ok := s.sessions[id]
	if id == "" || !ok {
		id = uuid.NewString()
		e = &entry{}
		s.sessions[id] = e
	}
	e.lastSeen = now

	history := make([]Message, len(e.history))
	copy(history, e.history)
	return id, history
}

// Append records a message on the session, trimming history to the cap.
// Unknown ids are ignored; the caller should have Touched first.
func (s *Store) Append(id string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return
	}
	e.history = append(e.history, msg)
	if len(e.history) > s.maxHistory {
		e.history = e.history[len(e.history)-s.maxHistory:]
	}
	e.lastSeen = s.now()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweeper.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.evictLocked(s.now())
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) evictLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
