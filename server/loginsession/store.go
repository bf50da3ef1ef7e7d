package loginsession

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/rs/zerolog/log"
)

var _ session.Store = (*RepoStore)(nil)

// NewSessionID returns a fresh opaque session identifier for the session cookie
func NewSessionID() string {
	return uuid.NewString()
}

// RepoStore exposes one login session as a session.Store. Reads and writes
// always go through the repo so concurrent requests from the same browser
// observe each other's refreshes.
type RepoStore struct {
	ctx       context.Context
	repo      Repo
	sessionID string
	maxAge    time.Duration
}

// NewRepoStore binds sessionID in repo. maxAge bounds sessions created by a first SetTokens.
// Repo calls keep ctx's values but not its cancellation: a refresh shared by
// several requests must store its tokens even after the request that started it is gone.
func NewRepoStore(ctx context.Context, repo Repo, sessionID string, maxAge time.Duration) *RepoStore {
	return &RepoStore{
		ctx:       context.WithoutCancel(ctx),
		repo:      repo,
		sessionID: sessionID,
		maxAge:    maxAge,
	}
}

// SessionID is the cookie value this store is bound to
func (s *RepoStore) SessionID() string {
	return s.sessionID
}

func (s *RepoStore) GetAccessToken() string {
	sess, ok := s.load()
	if !ok {
		return ""
	}
	return sess.AccessToken
}

func (s *RepoStore) GetRefreshToken() string {
	sess, ok := s.load()
	if !ok {
		return ""
	}
	return sess.RefreshToken
}

func (s *RepoStore) SetTokens(access, refresh string) error {
	sess, ok := s.load()
	if !ok {
		now := NowTimeFunc()
		sess = Session{ID: s.sessionID, CreatedAt: now}
		if s.maxAge > 0 {
			sess.ExpiresAt = now.Add(s.maxAge)
		}
	}
	sess.AccessToken = access
	sess.RefreshToken = refresh
	return errors.Wrapf(s.repo.Upsert(s.ctx, sess), "[RepoStore SetTokens] upsert failed")
}

func (s *RepoStore) SetAccessToken(access string) error {
	sess, ok := s.load()
	if !ok {
		return errors.ErrSessionNotFound
	}
	sess.AccessToken = access
	return errors.Wrapf(s.repo.Upsert(s.ctx, sess), "[RepoStore SetAccessToken] upsert failed")
}

func (s *RepoStore) ClearTokens() error {
	return errors.Wrapf(s.repo.Delete(s.ctx, s.sessionID), "[RepoStore ClearTokens] delete failed")
}

func (s *RepoStore) load() (Session, bool) {
	if s.sessionID == "" {
		return Session{}, false
	}
	sess, err := s.repo.Get(s.ctx, s.sessionID)
	if err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) && !errors.Is(err, errors.ErrSessionExpired) {
			log.Err(err).Msg("Failed to load login session")
		}
		return Session{}, false
	}
	return sess, true
}
