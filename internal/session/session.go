// Package session tracks signed-in sessions and lets components observe
// sign-in and sign-out without sharing global state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the state of a session.
type Status int

const (
	StatusActive Status = iota
	StatusSignedOut
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSignedOut:
		return "signed_out"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Session is one signed-in identity.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Status    Status
	CreatedAt time.Time
	ExpiresAt time.Time
}

// sweepInterval spaces out the expiry sweeps that Open runs.
const sweepInterval = time.Minute

// Listener is called synchronously on every status change, after the
// registry has been updated.
type Listener func(Session)

// Registry holds the active sessions. The zero value is not usable; use NewRegistry.
type Registry struct {
	mu        sync.Mutex
	now       func() time.Time
	sessions  map[string]Session
	listeners map[int]Listener
	nextID    int
	lastSweep time.Time
}

// NewRegistry creates an empty registry. A nil now uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		now:       now,
		sessions:  make(map[string]Session),
		listeners: make(map[int]Listener),
	}
}

// Open starts a session for a user that lasts ttl.
func (r *Registry) Open(userID, email string, ttl time.Duration) Session {
	now := r.now()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Status:    StatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	r.mu.Lock()
	var expired []Session
	if now.Sub(r.lastSweep) >= sweepInterval {
		expired = r.reap(now)
	}
	r.sessions[s.ID] = s
	listeners := r.snapshot()
	r.mu.Unlock()

	for _, e := range expired {
		notify(listeners, e)
	}
	notify(listeners, s)
	return s
}

// Close signs a session out. It reports false when the session was not active.
func (r *Registry) Close(id string) (Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return Session{}, false
	}
	delete(r.sessions, id)
	listeners := r.snapshot()
	r.mu.Unlock()

	s.Status = StatusSignedOut
	notify(listeners, s)
	return s, true
}

// Lookup returns an active session. A session past its expiry is removed
// and reported as expired to listeners.
func (r *Registry) Lookup(id string) (Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return Session{}, false
	}
	if r.now().Before(s.ExpiresAt) {
		r.mu.Unlock()
		return s, true
	}
	delete(r.sessions, id)
	listeners := r.snapshot()
	r.mu.Unlock()

	s.Status = StatusExpired
	notify(listeners, s)
	return Session{}, false
}

// Active returns the number of unexpired sessions. Expired ones are removed
// and reported to listeners.
func (r *Registry) Active() int {
	r.mu.Lock()
	expired := r.reap(r.now())
	n := len(r.sessions)
	listeners := r.snapshot()
	r.mu.Unlock()

	for _, e := range expired {
		notify(listeners, e)
	}
	return n
}

// reap drops every session expired at now and returns them marked expired.
// Callers hold mu.
func (r *Registry) reap(now time.Time) []Session {
	var expired []Session
	for id, s := range r.sessions {
		if now.Before(s.ExpiresAt) {
			continue
		}
		delete(r.sessions, id)
		s.Status = StatusExpired
		expired = append(expired, s)
	}
	r.lastSweep = now
	return expired
}

// Subscribe registers l and returns a function that removes it.
func (r *Registry) Subscribe(l Listener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// snapshot copies the listeners in subscription order. Callers hold mu.
func (r *Registry) snapshot() []Listener {
	out := make([]Listener, 0, len(r.listeners))
	for id := 0; id < r.nextID; id++ {
		if l, ok := r.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

func notify(listeners []Listener, s Session) {
	for _, l := range listeners {
		l(s)
	}
}
