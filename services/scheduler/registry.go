package scheduler

import (
	"sync"
	"time"

	"meetsync/models"
)

// SessionRegistry tracks live sessions and serializes execution within each
// one: while a turn holds a session's lock, no other turn for that session
// runs. Sessions idle beyond the TTL are reclaimed by Sweep. The registry is
// injected into the transport layer; step handlers never touch it.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

type sessionEntry struct {
	meta models.Session
	mu   sync.Mutex
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Acquire registers the session if needed and locks it for one turn. The
// returned release func must be called once the turn's state is persisted;
// it is never held across a human suspension, only across one turn.
func (r *SessionRegistry) Acquire(sessionID, userID string) (release func()) {
	r.mu.Lock()
	entry, ok := r.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{meta: models.Session{
			SessionID: sessionID,
			UserID:    userID,
			CreatedAt: r.now(),
		}}
		r.sessions[sessionID] = entry
	}
	entry.meta.LastActivity = r.now()
	r.mu.Unlock()

	entry.mu.Lock()
	return entry.mu.Unlock
}

// Get returns a copy of the session metadata.
func (r *SessionRegistry) Get(sessionID string) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sessionID]
	if !ok {
		return models.Session{}, false
	}
	return entry.meta, true
}

// Evict discards one session without touching any other.
func (r *SessionRegistry) Evict(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// Sweep removes sessions idle past the TTL and returns their ids so the
// caller can drop the matching checkpoints.
func (r *SessionRegistry) Sweep() []string {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []string
	for id, entry := range r.sessions {
		if entry.meta.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Len reports how many sessions are live.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
