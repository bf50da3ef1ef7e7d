package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/forms"
	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/rs/zerolog/log"
)

const invalidCredentialsMessage = "Invalid username or password"

// authView is a form shown before a session exists
type authView struct {
	Title  string
	Action string
	Submit string
	Fields []fieldView
	Links  []link
	Done   string // replaces the form once it has done its job
}

var loginFields = []field{
	{Name: "username_or_email", Label: "Username or email", Type: inputText},
	{Name: "password", Label: "Password", Type: inputPassword},
}

var registerFields = []field{
	{Name: "username", Label: "Username", Type: inputText},
	{Name: "email", Label: "Email", Type: inputEmail},
	{Name: "password", Label: "Password", Type: inputPassword},
	{Name: "password2", Label: "Retype password", Type: inputPassword},
}

var passwordResetFields = []field{
	{Name: "email", Label: "Email", Type: inputEmail},
}

var passwordResetConfirmFields = []field{
	{Name: "token", Type: inputHidden},
	{Name: "new_password", Label: "New password", Type: inputPassword},
	{Name: "retype_new_password", Label: "Retype new password", Type: inputPassword},
}

var authLinks = []link{
	{Label: "Log in", URL: RouteLogin},
	{Label: "Register", URL: RouteRegister},
	{Label: "Forgot password?", URL: RoutePasswordReset},
}

// showAuthForm renders one of the public forms
func (s *Server) showAuthForm(w http.ResponseWriter, r *http.Request, status int, view authView, fields []field, values url.Values, fieldErrs map[string]string, message string) {
	view.Action = r.URL.Path
	view.Fields, _ = s.fieldViews(r.Context(), fields, values, fieldErrs)
	for _, l := range authLinks {
		if l.URL != r.URL.Path {
			view.Links = append(view.Links, l)
		}
	}
	if message == "" {
		message = unshownError(fields, fieldErrs)
	}
	s.render(w, r, status, pageLogin, pageData{Title: view.Title, Message: message, Body: view})
}

// decodeForm parses the posted form into dst and validates it
func decodeForm(r *http.Request, dst any) (url.Values, forms.FieldErrors, error) {
	if err := r.ParseForm(); err != nil {
		return url.Values{}, nil, err
	}
	if err := forms.Decode(r.PostForm, dst); err != nil {
		return r.PostForm, nil, err
	}
	return r.PostForm, forms.Check(dst), nil
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c := consoleFrom(r.Context()); c != nil && c.guard.IsAuthenticated() {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
			return
		}
		s.showAuthForm(w, r, http.StatusOK, authView{Title: "Log in", Submit: "Log in"}, loginFields, url.Values{}, nil, "")
	}
}

// LoginSubmitHandler exchanges the submitted credentials for a token pair
func (s *Server) LoginSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := authView{Title: "Log in", Submit: "Log in"}

		var form forms.Login
		values, fieldErrs, err := decodeForm(r, &form)
		if err != nil {
			s.showAuthForm(w, r, http.StatusBadRequest, view, loginFields, values, nil, apiclient.GenericMessage)
			return
		}
		values.Del("password")
		if fieldErrs != nil {
			s.showAuthForm(w, r, http.StatusUnprocessableEntity, view, loginFields, values, fieldErrs, "")
			return
		}

		c := consoleFrom(r.Context())
		if _, err := c.services.Auth.Login(r.Context(), form.UsernameOrEmail, form.Password); err != nil {
			message := apiclient.UserMessage(err)
			if apiclient.IsStatus(err, http.StatusUnauthorized) {
				message = invalidCredentialsMessage
			}
			log.Ctx(r.Context()).Info().Err(err).Msg("Login failed")
			s.showAuthForm(w, r, statusFor(err), view, loginFields, values, nil, message)
			return
		}

		log.Ctx(r.Context()).Info().Str("session_id", c.sessionID).Msg("Logged in")
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}

// LogoutHandler forgets the session's tokens and returns to the login page
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c := consoleFrom(r.Context()); c != nil {
			if err := c.services.Auth.Logout(); err != nil {
				log.Ctx(r.Context()).Err(err).Msg("Failed to clear login session")
			}
		}
		redirectToLogin(w, r)
	}
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.showAuthForm(w, r, http.StatusOK, authView{Title: "Register", Submit: "Register"}, registerFields, url.Values{}, nil, "")
	}
}

// RegisterSubmitHandler creates a potential lecturer account
func (s *Server) RegisterSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := authView{Title: "Register", Submit: "Register"}

		var form forms.Register
		values, fieldErrs, err := decodeForm(r, &form)
		if err != nil {
			s.showAuthForm(w, r, http.StatusBadRequest, view, registerFields, values, nil, apiclient.GenericMessage)
			return
		}
		values.Del("password")
		values.Del("password2")
		if fieldErrs != nil {
			s.showAuthForm(w, r, http.StatusUnprocessableEntity, view, registerFields, values, fieldErrs, "")
			return
		}

		c := consoleFrom(r.Context())
		if err := c.services.Auth.Register(r.Context(), form.Payload()); err != nil {
			s.showAuthForm(w, r, statusFor(err), view, registerFields, values, apiFieldErrors(err), apiclient.UserMessage(err))
			return
		}

		redirectWithNotice(w, r, RouteLogin, "Account created, please log in.")
	}
}

// ValidatePasswordHandler checks password strength for the register form as the visitor types
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if password == "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := users.ValidatePasswordStrength(password); err != nil {
			w.Header().Set("HX-Trigger", `{"passwordInvalid": ""}`)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<span class="field-error">%s</span>`, template.HTMLEscapeString(err.Error()))
			return
		}

		w.Header().Set("HX-Trigger", `{"passwordValid": ""}`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<span class="field-ok">&#10003;</span>`)
	}
}

func (s *Server) PasswordResetPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.showAuthForm(w, r, http.StatusOK, authView{Title: "Reset password", Submit: "Send reset link"}, passwordResetFields, url.Values{}, nil, "")
	}
}

// PasswordResetSubmitHandler asks the backend to email a reset link
func (s *Server) PasswordResetSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := authView{Title: "Reset password", Submit: "Send reset link"}

		var form forms.PasswordResetRequest
		values, fieldErrs, err := decodeForm(r, &form)
		if err != nil {
			s.showAuthForm(w, r, http.StatusBadRequest, view, passwordResetFields, values, nil, apiclient.GenericMessage)
			return
		}
		if fieldErrs != nil {
			s.showAuthForm(w, r, http.StatusUnprocessableEntity, view, passwordResetFields, values, fieldErrs, "")
			return
		}

		c := consoleFrom(r.Context())
		if err := c.services.Auth.RequestPasswordReset(r.Context(), form.Email); err != nil {
			s.showAuthForm(w, r, statusFor(err), view, passwordResetFields, values, nil, apiclient.UserMessage(err))
			return
		}

		view.Done = "A reset link has been sent to " + form.Email + "."
		s.showAuthForm(w, r, http.StatusOK, view, nil, url.Values{}, nil, "")
	}
}

// PasswordResetConfirmPageHandler is the target of the emailed reset link
func (s *Server) PasswordResetConfirmPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := authView{Title: "Choose a new password", Submit: "Set password"}
		values := url.Values{}
		values.Set("token", r.URL.Query().Get("token"))
		s.showAuthForm(w, r, http.StatusOK, view, passwordResetConfirmFields, values, nil, "")
	}
}

func (s *Server) PasswordResetConfirmSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := authView{Title: "Choose a new password", Submit: "Set password"}

		var form forms.PasswordReset
		values, fieldErrs, err := decodeForm(r, &form)
		if err != nil {
			s.showAuthForm(w, r, http.StatusBadRequest, view, passwordResetConfirmFields, values, nil, apiclient.GenericMessage)
			return
		}
		values.Del("new_password")
		values.Del("retype_new_password")
		if fieldErrs != nil {
			s.showAuthForm(w, r, http.StatusUnprocessableEntity, view, passwordResetConfirmFields, values, fieldErrs, "")
			return
		}

		c := consoleFrom(r.Context())
		if err := c.services.Auth.ConfirmPasswordReset(r.Context(), form.Token, form.NewPassword); err != nil {
			s.showAuthForm(w, r, statusFor(err), view, passwordResetConfirmFields, values, nil, apiclient.UserMessage(err))
			return
		}

		redirectWithNotice(w, r, RouteLogin, "Password changed, please log in.")
	}
}
