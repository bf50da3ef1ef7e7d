package loginsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
)

// NowTimeFunc is overridden in tests
var NowTimeFunc = time.Now

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session // sessionID -> Session
}

// NewInMemoryRepo creates a new in-memory login session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

// Upsert creates or updates a login session
func (r *InMemoryRepo) Upsert(_ context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
	return nil
}

// Get retrieves a login session. Expired sessions are evicted on read.
func (r *InMemoryRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return Session{}, errors.ErrSessionNotFound
	}

	if session.Expired(NowTimeFunc()) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return Session{}, errors.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a login session
func (r *InMemoryRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID) // Already doesn't exist, no error
	return nil
}
