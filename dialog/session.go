package dialog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionStore maps customer identities to their Order aggregates. The store
// lock only guards the map; each Order carries its own mutex, so handling one
// customer's message never blocks another's.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Order
	lastSeen map[string]time.Time
	ttl      time.Duration
}

// NewSessionStore creates a session store with the given idle-expiry window
// (time since last confirmed order after which a session resets to START).
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Order),
		lastSeen: make(map[string]time.Time),
		ttl:      ttl,
	}
}

// Get returns the customer's aggregate, creating a fresh START record for a
// first-time customer.
func (s *SessionStore) Get(customerID string) *Order {
	s.mu.RLock()
	o, ok := s.sessions[customerID]
	s.mu.RUnlock()
	if ok {
		s.touch(customerID)
		return o
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok = s.sessions[customerID]; !ok {
		o = NewOrder(customerID)
		s.sessions[customerID] = o
	}
	s.lastSeen[customerID] = time.Now()
	return o
}

func (s *SessionStore) touch(customerID string) {
	s.mu.Lock()
	s.lastSeen[customerID] = time.Now()
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ApplyExpiry resets the aggregate in place when more than the idle window
// has passed since its last confirmed order. Must run with the Order's lock
// held, before the new message is processed.
func (s *SessionStore) ApplyExpiry(o *Order, now time.Time) {
	if o.LastConfirmed.IsZero() {
		return
	}
	if now.Sub(o.LastConfirmed) >= s.ttl {
		o.Reset()
	}
}

// evictIdleAfter is how long a session may sit untouched before the evictor
// drops it from the map entirely. Well beyond the conversational expiry
// window; eviction is memory hygiene, not conversation semantics.
const evictIdleAfter = 24 * time.Hour

// StartEvictor launches a background loop that drops long-untouched sessions.
// A dropped customer simply gets a fresh START aggregate on their next
// message.
func (s *SessionStore) StartEvictor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle(time.Now())
			}
		}
	}()
}

func (s *SessionStore) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, seen := range s.lastSeen {
		if now.Sub(seen) >= evictIdleAfter {
			delete(s.sessions, id)
			delete(s.lastSeen, id)
			slog.Debug("evicted idle session", "customer", id)
		}
	}
}
