package loginsession

import (
	"context"
	"time"
)

// Session is the server-side half of a browser login. The browser only holds
// the session ID cookie; the credential pair never leaves the server.
type Session struct {
	ID string

	// Tokens (refresh is essential, access is convenience)
	AccessToken  string
	RefreshToken string

	// Session management
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Repo interface {
	Upsert(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
}
