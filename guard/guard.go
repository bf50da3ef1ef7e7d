// Package guard decides whether a navigation target may render for the
// identity held in the session store.
//
// Two refusals are kept apart on purpose. A visitor with no access token is
// sent to the login page; an authenticated visitor whose role is not allowed
// gets nothing at all, with no redirect and no error.
package guard

import (
	"sort"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/token"
	"github.com/jrsteele09/go-lecturer-console/users"
)

// Decision is the outcome of evaluating a navigation
type Decision int

const (
	Unevaluated Decision = iota
	Render
	RedirectToLogin
	RenderNothing
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_to_login"
	case RenderNothing:
		return "render_nothing"
	default:
		return "unevaluated"
	}
}

// RoleSet is the roles a rule admits. An empty set means "authenticated".
type RoleSet map[users.RoleType]struct{}

func Roles(roles ...users.RoleType) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role users.RoleType) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) String() string {
	if len(s) == 0 {
		return "authenticated"
	}
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// TokenSource is the part of session.Store the guard reads
type TokenSource interface {
	GetAccessToken() string
}

type Guard struct {
	tokens TokenSource
}

func New(tokens TokenSource) *Guard {
	return &Guard{tokens: tokens}
}

// DecodeRole returns the role claim of the stored access token. ok is false
// when the token is absent, undecodable or carries no role.
func (g *Guard) DecodeRole() (role users.RoleType, ok bool) {
	raw := g.tokens.GetAccessToken()
	if raw == "" {
		return "", false
	}
	return token.RoleOf(raw)
}

// IsAuthenticated reports whether an access token is stored. Expiry is not
// checked here; the request pipeline deals with it.
func (g *Guard) IsAuthenticated() bool {
	return g.tokens.GetAccessToken() != ""
}

// Authorize evaluates one rule. Role membership is checked regardless of expiry.
func (g *Guard) Authorize(required RoleSet) Decision {
	if len(required) == 0 {
		if g.IsAuthenticated() {
			return Render
		}
		return RedirectToLogin
	}

	role, ok := g.DecodeRole()
	if ok && required.Contains(role) {
		return Render
	}
	return RenderNothing
}

func (g *Guard) Allowed(required RoleSet) bool {
	return g.Authorize(required) == Render
}

// AuthorizeNested evaluates enclosing rules from the outermost inwards. The
// first rule that does not render decides, so a target is reachable only when
// every rule admits the visitor.
func (g *Guard) AuthorizeNested(rules ...RoleSet) Decision {
	if len(rules) == 0 {
		return g.Authorize(nil)
	}
	for _, rule := range rules {
		if d := g.Authorize(rule); d != Render {
			return d
		}
	}
	return Render
}
