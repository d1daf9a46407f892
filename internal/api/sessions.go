package api

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/medicareai/clinic-booking/internal/booking"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu   sync.Mutex
	sess *booking.Session
}

// SessionRegistry keeps live booking sessions in memory keyed by UUID. Each
// entry carries its own mutex: the flow is single-threaded per session, and
// the lock enforces that against misbehaving clients.
type SessionRegistry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*sessionEntry
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{entries: make(map[uuid.UUID]*sessionEntry)}
}

func (r *SessionRegistry) Create() *booking.Session {
	sess := booking.NewSession()
	r.mu.Lock()
	r.entries[sess.ID] = &sessionEntry{sess: sess}
	r.mu.Unlock()
	return sess
}

// With runs fn with exclusive access to the session.
func (r *SessionRegistry) With(id uuid.UUID, fn func(sess *booking.Session) error) error {
	r.mu.Lock()
	entry, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.sess)
}
