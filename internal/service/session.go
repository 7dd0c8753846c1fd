package service

import (
	"sync"

	"github.com/mesh-intelligence/skilllog/internal/query"
)

// Session pairs a view state with the service. The projection is cached
// and recomputed from a fresh snapshot only after the view or the store
// changed.
type Session struct {
	svc   *Service
	state *query.State

	mu     sync.Mutex
	stale  bool
	cached query.Projection

	detach func()
}

// NewSession starts a session at the default view. Call Close when the
// session is no longer used so the service stops notifying it.
func (s *Service) NewSession() *Session {
	sess := &Session{svc: s, state: query.NewState(), stale: true}
	sess.state.OnChange(func(query.View) { sess.Invalidate() })
	sess.detach = s.OnChange(sess.Invalidate)
	return sess
}

// Close stops the session from following store changes. The session stays
// usable but only re-reads the store when invalidated by hand or by a view
// change. Close is idempotent.
func (s *Session) Close() {
	s.detach()
}

// State returns the session's view selectors.
func (s *Session) State() *query.State { return s.state }

// Invalidate marks the cached projection stale.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Stale reports whether the next Projection call will re-read the store.
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// Projection returns the current view of the store.
func (s *Session) Projection() (query.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stale {
		return s.cached, nil
	}
	p, err := s.svc.Project(s.state.Snapshot())
	if err != nil {
		return query.Projection{}, err
	}
	s.cached = p
	s.stale = false
	return p, nil
}
