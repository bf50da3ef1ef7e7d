// Package tokenfake mints backend-shaped tokens for tests.
package tokenfake

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-lecturer-console/users"
)

var secret = []byte("tokenfake-secret")

// Access returns an HS256 access token with the given role and expiry.
// An empty role produces a token whose role claim is null.
func Access(role users.RoleType, exp time.Time) string {
	claims := jwtlib.MapClaims{
		"token_type": "access",
		"user_id":    1,
		"exp":        exp.Unix(),
		"iat":        exp.Add(-5 * time.Minute).Unix(),
		"jti":        uuid.New().String(),
		"role":       nil,
	}
	if role != "" {
		claims["role"] = string(role)
	}
	return sign(claims)
}

// WithoutExpiry returns an access token that carries no exp claim
func WithoutExpiry(role users.RoleType) string {
	return sign(jwtlib.MapClaims{
		"token_type": "access",
		"role":       string(role),
		"jti":        uuid.New().String(),
	})
}

// Valid returns an access token that expires in an hour
func Valid(role users.RoleType) string {
	return Access(role, time.Now().Add(time.Hour))
}

// Expired returns an access token that expired a minute ago
func Expired(role users.RoleType) string {
	return Access(role, time.Now().Add(-time.Minute))
}

func sign(claims jwtlib.MapClaims) string {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		panic("tokenfake: failed to sign token: " + err.Error())
	}
	return signed
}
