// Package session keeps per-intake resolution state in memory. Each
// session owns one owner flow and one vehicle flow; idle sessions are
// dropped by a janitor after a configurable TTL.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domevents "detailing_portal_backend/internal/events"
	"detailing_portal_backend/internal/intake/flow"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/logger"
)

const sessionNotFoundMessage = "intake session not found"

// Session is one operator's in-progress intake form resolution. The
// flows serialize their own mutations; lastSeen is guarded by the
// store's lock.
type Session struct {
	ID        uuid.UUID
	Owner     *flow.OwnerFlow
	Vehicle   *flow.VehicleFlow
	CreatedAt time.Time

	lastSeen time.Time
}

// Store holds live sessions. All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	searcher flow.Searcher
	ttl      time.Duration
	log      *logger.Logger
	bus      events.Bus

	now func() time.Time
}

func NewStore(searcher flow.Searcher, ttl time.Duration, log *logger.Logger, bus events.Bus) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		searcher: searcher,
		ttl:      ttl,
		log:      log,
		bus:      bus,
		now:      time.Now,
	}
}

// Create opens a new session with both flows idle.
func (s *Store) Create(ctx context.Context) *Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		Owner:     flow.NewOwnerFlow(s.searcher, s.log),
		Vehicle:   flow.NewVehicleFlow(s.searcher, s.log),
		CreatedAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.bus.Publish(ctx, domevents.NewSessionStarted(sess.ID))
	return sess
}

// Get returns a live session and refreshes its idle timer. A session
// past its TTL is treated as gone even if the janitor has not swept yet.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound(sessionNotFoundMessage).WithOp("session.Get")
	}
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, apperr.NotFound(sessionNotFoundMessage).WithOp("session.Get")
	}
	sess.lastSeen = now
	return sess, nil
}

// Delete drops a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops every session idle past the TTL and publishes an expiry
// event for each. Returns how many were dropped.
func (s *Store) Prune(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var expired []uuid.UUID
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.bus.Publish(ctx, domevents.NewSessionExpired(id))
	}
	if len(expired) > 0 {
		s.log.Info("pruned expired intake sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps expired sessions until the context is cancelled. Meant to
// be started once from the composition root.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune(ctx)
		}
	}
}
