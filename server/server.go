package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-lecturer-console/internal/config"
	"github.com/jrsteele09/go-lecturer-console/server/loginsession"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Server struct {
	env           string // Environment (e.g., "DEV", "PROD")
	router        chi.Router
	fileServer    http.Handler
	config        config.Config
	sessions      loginsession.Repo
	httpClient    *http.Client
	refreshClient *http.Client
	templates     templates
	fence         *submitFence

	// refreshes coalesces token refreshes per login session across concurrent requests
	refreshes *singleflight.Group
}

type Option func(*Server)

// WithHTTPClient sets the client used for backend calls, refreshes included
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
		s.refreshClient = hc
	}
}

func New(config config.Config, loginSessionRepo loginsession.Repo, opts ...Option) (*Server, error) {
	if loginSessionRepo == nil {
		return nil, fmt.Errorf("[Server New] login session repo is required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:           config.GetEnv(),
		router:        chi.NewRouter(),
		fileServer:    FileServerHandler(),
		config:        config,
		sessions:      loginSessionRepo,
		httpClient:    &http.Client{Timeout: config.GetBackendTimeout()},
		refreshClient: &http.Client{Timeout: config.GetBackendTimeout()},
		templates:     tmpl,
		fence:         newSubmitFence(),
		refreshes:     &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return // Skip logging in non-development environments
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logRoute(method, route)
		return nil
	})
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Debug().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
