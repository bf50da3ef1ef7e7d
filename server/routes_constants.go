package server

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteLogin                = "/login"
	RouteLogout               = "/logout"
	RouteRegister             = "/register"
	RoutePasswordReset        = "/password_reset"
	RoutePasswordResetConfirm = "/password_reset/confirm"
	RouteValidatePassword     = "/api/validate_password"
	RouteHealth               = "/healthz"
	RouteMetrics              = "/metrics"
	RouteStatic               = "/static/*"

	// Self service
	RouteHome                    = "/"
	RouteMyInfo                  = "/my_info"
	RouteMyAccount               = "/my_account"
	RouteMyEvaluations           = "/my_evaluations"
	RouteMySchedules             = "/my_schedules"
	RouteMyRecommendations       = "/my_recommendations"
	RouteMyRecommendationsCreate = "/my_recommendations/create"

	// Lecturer management
	RouteLecturers               = "/lecturers"
	RouteLecturerRegistrations   = "/lecturers/registrations"
	RouteLecturerCheck           = "/lecturers/check/{id}"
	RouteLecturerRecommendations = "/lecturers/recommendations"
	RouteLecturerSchedules       = "/lecturers/{id}/schedules"
	RouteLecturerEvaluations     = "/lecturers/{id}/evaluations"

	// Other collections
	RouteCourses   = "/courses"
	RouteClasses   = "/classes"
	RouteDocuments = "/documents"
	RouteUsers     = "/users"
)

// Actions appended to a collection route; edit and delete follow the item ID
const (
	actionCreate = "/create"
	actionEdit   = "/edit"
	actionDelete = "/delete"
)
