package server

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/guard"
	"github.com/jrsteele09/go-lecturer-console/internal/metrics"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/server/loginsession"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyConsole stores the per-request console
	ContextKeyConsole ContextKey = "console"
	// ContextKeyRequestID stores the request ID
	ContextKeyRequestID ContextKey = "request_id"

	sessionCookieName = "console_session"
)

// console is one request's view of the visitor's login session: the stored
// credential pair, the backend pipeline reading it and the guard deciding routes.
type console struct {
	sessionID string
	store     *loginsession.RepoStore
	client    *apiclient.Client
	services  *resources.Services
	guard     *guard.Guard

	// loginRequired is set when the pipeline gives up on the session
	loginRequired atomic.Bool
}

func consoleFrom(ctx context.Context) *console {
	c, _ := ctx.Value(ContextKeyConsole).(*console)
	return c
}

func (s *Server) newConsole(ctx context.Context, sessionID string) (*console, error) {
	store := loginsession.NewRepoStore(ctx, s.sessions, sessionID, s.config.GetMaxSessionAge())
	c := &console{
		sessionID: sessionID,
		store:     store,
		guard:     guard.New(store),
	}

	client, err := apiclient.New(s.config.GetBackendURL(), store,
		apiclient.WithHTTPClient(s.httpClient),
		apiclient.WithRefreshHTTPClient(s.refreshClient),
		apiclient.WithRefreshPath(s.config.GetRefreshPath()),
		apiclient.WithRefreshGroup(s.refreshes, sessionID),
		apiclient.WithLoginRedirect(func(context.Context) {
			c.loginRequired.Store(true)
		}),
	)
	if err != nil {
		return nil, err
	}

	c.client = client
	c.services = resources.NewServices(client, store)
	c.services.Auth.SetLoginPath(s.config.GetLoginPath())
	return c, nil
}

// SessionMiddleware binds the request to its login session, issuing a session
// cookie on the first visit.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil && uuid.Validate(cookie.Value) == nil {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = loginsession.NewSessionID()
			http.SetCookie(w, s.sessionCookie(r, sessionID))
		}

		c, err := s.newConsole(r.Context(), sessionID)
		if err != nil {
			log.Err(err).Msg("Failed to create backend client")
			http.Error(w, apiclient.GenericMessage, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyConsole, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) sessionCookie(r *http.Request, sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetMaxSessionAge().Seconds()),
	}
}

// RequireRoles guards the routes below it. Chained groups apply their rules
// from the outermost inwards and the first one that does not render decides.
func (s *Server) RequireRoles(required guard.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := consoleFrom(r.Context())
			decision := guard.RedirectToLogin
			if c != nil {
				decision = c.guard.Authorize(required)
			}
			metrics.ObserveGuard(decision.String())

			switch decision {
			case guard.Render:
				next.ServeHTTP(w, r)
			case guard.RedirectToLogin:
				redirectToLogin(w, r)
			default:
				// A wrong role renders nothing: no redirect and no error.
				w.WriteHeader(http.StatusOK)
			}
		})
	}
}

// redirectToLogin performs a full-page navigation to the login page
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", RouteLogin)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}
