package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the subset of the access token payload the console reads.
// The console never signs or verifies tokens; the backend does.
type Claims struct {
	Role      *string `json:"role"`                 // Role claim, may be null inside a valid token
	UserID    int64   `json:"user_id,omitempty"`    // Backend user ID
	TokenType string  `json:"token_type,omitempty"` // "access" or "refresh"
	jwtlib.RegisteredClaims
}

// Decode parses the payload segment of raw without verifying its signature.
// The result is derived on every call and never cached.
func Decode(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.ErrMalformedToken
	}

	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedToken, "%v", err)
	}
	return claims, nil
}

// RoleValue returns the role claim, or false when it is absent or null
func (c *Claims) RoleValue() (users.RoleType, bool) {
	if c == nil || c.Role == nil {
		return "", false
	}
	return users.RoleType(*c.Role), true
}

// ExpiresBefore reports whether the exp claim is earlier than t.
// A token without an exp claim never expires.
func (c *Claims) ExpiresBefore(t time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(t)
}

// Expiry returns the exp claim as a time, zero when absent
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IsExpired reports whether raw must be refreshed before use.
// Tokens that fail to decode count as expired.
func IsExpired(raw string, now time.Time) bool {
	claims, err := Decode(raw)
	if err != nil {
		return true
	}
	return claims.ExpiresBefore(now)
}

// RoleOf decodes raw and returns its role claim
func RoleOf(raw string) (users.RoleType, bool) {
	claims, err := Decode(raw)
	if err != nil {
		return "", false
	}
	return claims.RoleValue()
}
