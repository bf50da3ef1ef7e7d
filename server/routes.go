package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-lecturer-console/guard"
	"github.com/jrsteele09/go-lecturer-console/internal/metrics"
)

// initRoutes builds the routing table. Guarded groups nest the way the menu
// does, so a page is reachable only when every enclosing rule admits the visitor.
func (s *Server) initRoutes() {
	r := s.router
	r.Use(
		RequestIDMiddleware,
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		MetricsMiddleware,
		FrameSecurityMiddleware,
		s.CorsMiddleware,
	)

	r.Get(RouteHealth, HealthHandler)
	r.Method(http.MethodGet, RouteMetrics, metrics.Handler())
	r.Handle(RouteStatic, http.StripPrefix("/static/", s.fileServer))

	r.Group(func(r chi.Router) {
		r.Use(s.SessionMiddleware, s.SubmitFenceMiddleware)

		// LOGIN
		r.Get(RouteLogin, s.LoginPageHandler())
		r.Post(RouteLogin, s.LoginSubmitHandler())
		r.Get(RouteLogout, s.LogoutHandler())
		r.Post(RouteLogout, s.LogoutHandler())

		r.Get(RouteRegister, s.RegisterPageHandler())
		r.Post(RouteRegister, s.RegisterSubmitHandler())
		r.Post(RouteValidatePassword, s.ValidatePasswordHandler())

		r.Get(RoutePasswordReset, s.PasswordResetPageHandler())
		r.Post(RoutePasswordReset, s.PasswordResetSubmitHandler())
		r.Get(RoutePasswordResetConfirm, s.PasswordResetConfirmPageHandler())
		r.Post(RoutePasswordResetConfirm, s.PasswordResetConfirmSubmitHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.RequireRoles(guard.Authenticated))

			r.Get(RouteHome, s.HomeHandler())
			r.Get(RouteMyAccount, s.MyAccountHandler())
			s.mountResource(r, RouteDocuments, documentsView, "id")

			r.Group(func(r chi.Router) {
				r.Use(s.RequireRoles(guard.SelfService))
				r.Get(RouteMyInfo, s.MyInfoFormHandler())
				r.Post(RouteMyInfo, s.MyInfoSubmitHandler())
			})

			r.Group(func(r chi.Router) {
				r.Use(s.RequireRoles(guard.LecturerOnly))
				r.Get(RouteMyEvaluations, s.MyEvaluationsHandler())
				r.Get(RouteMySchedules, s.MySchedulesHandler())
				r.Get(RouteMyRecommendations, s.MyRecommendationsHandler())
				r.Get(RouteMyRecommendationsCreate, s.MyRecommendationFormHandler())
				r.Post(RouteMyRecommendationsCreate, s.MyRecommendationSubmitHandler())
			})

			r.Group(func(r chi.Router) {
				r.Use(s.RequireRoles(guard.Staff))
				s.mountResource(r, RouteLecturers, lecturersView, "id")
				s.mountResource(r, RouteCourses, coursesView, "id")

				r.Group(func(r chi.Router) {
					r.Use(s.RequireRoles(guard.LecturerManagers))
					r.Get(RouteLecturerRegistrations, s.RegistrationsHandler())
					r.Get(RouteLecturerCheck, s.CheckPageHandler())
					r.Post(RouteLecturerCheck+"/status", s.CheckStatusHandler())
					r.Post(RouteLecturerCheck+"/sign_contract", s.SignContractHandler())
				})

				r.Group(func(r chi.Router) {
					r.Use(s.RequireRoles(guard.ITFacultyOnly))
					s.mountResource(r, RouteLecturerRecommendations, recommendationsView, "id")
				})

				r.Group(func(r chi.Router) {
					r.Use(s.RequireRoles(guard.Supervisors))
					s.mountResource(r, RouteLecturerSchedules, lecturerSchedulesView, "item")
					s.mountResource(r, RouteLecturerEvaluations, lecturerEvaluationsView, "item")
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(s.RequireRoles(guard.EducationOnly))
				s.mountResource(r, RouteClasses, classesView, "id")
				s.mountResource(r, RouteUsers, usersView, "id")
			})
		})
	})
}

// HealthHandler reports liveness
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
