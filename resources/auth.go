package resources

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/token"
	"golang.org/x/oauth2"
)

const (
	DefaultLoginPath    = "api/token/"
	registerPath        = "register/"
	passwordResetPath   = "api/password_reset/"
	passwordConfirmPath = "api/password_reset/confirm/"
)

// TokenWriter is the part of session.Store that login and logout change
type TokenWriter interface {
	SetTokens(access, refresh string) error
	ClearTokens() error
}

// AuthService covers the endpoints used before a session exists. Every call
// is anonymous: no credentials are attached and a 401 is not retried.
type AuthService struct {
	caller    Caller
	tokens    TokenWriter
	loginPath string
}

func NewAuthService(caller Caller, tokens TokenWriter, loginPath string) *AuthService {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return &AuthService{caller: caller, tokens: tokens, loginPath: strings.TrimPrefix(loginPath, "/")}
}

// SetLoginPath overrides the token issuance endpoint
func (s *AuthService) SetLoginPath(path string) {
	if path != "" {
		s.loginPath = strings.TrimPrefix(path, "/")
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair and stores it. The username
// may also be the account's email address.
func (s *AuthService) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	var pair tokenPair
	err := s.caller.DoJSON(apiclient.Anonymous(ctx), http.MethodPost, s.loginPath, nil, loginRequest{Username: username, Password: password}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, errors.Wrapf(errors.ErrInvalidCredentials, "[AuthService Login] token pair incomplete")
	}

	if err := s.tokens.SetTokens(pair.Access, pair.Refresh); err != nil {
		return nil, errors.Wrapf(err, "[AuthService Login] failed to store tokens")
	}

	tok := &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}
	if claims, err := token.Decode(pair.Access); err == nil {
		tok.Expiry = claims.Expiry()
	}
	return tok, nil
}

// Logout forgets the stored pair. The backend keeps no session to end.
func (s *AuthService) Logout() error {
	return s.tokens.ClearTokens()
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterRequest) error {
	return s.caller.DoJSON(apiclient.Anonymous(ctx), http.MethodPost, registerPath, nil, in, nil)
}

// RequestPasswordReset asks the backend to email a reset link
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return s.caller.DoJSON(apiclient.Anonymous(ctx), http.MethodPost, passwordResetPath, nil, body, nil)
}

// ConfirmPasswordReset sets a new password using the token from the reset link
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, resetToken, password string) error {
	body := map[string]string{"token": resetToken, "password": password}
	return s.caller.DoJSON(apiclient.Anonymous(ctx), http.MethodPost, passwordConfirmPath, nil, body, nil)
}
