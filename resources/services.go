package resources

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/users"
)

type LecturerService struct {
	*Resource[Lecturer]
}

// Me returns the profile linked to the logged-in account
func (s *LecturerService) Me(ctx context.Context) (Lecturer, error) {
	var l Lecturer
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("me"), nil, nil, &l)
	return l, err
}

func (s *LecturerService) CreateMe(ctx context.Context, in any) (Lecturer, error) {
	var l Lecturer
	err := s.caller.DoJSON(ctx, http.MethodPost, s.Action("me"), nil, in, &l)
	return l, err
}

func (s *LecturerService) UpdateMe(ctx context.Context, in any) (Lecturer, error) {
	var l Lecturer
	err := s.caller.DoJSON(ctx, http.MethodPut, s.Action("me"), nil, in, &l)
	return l, err
}

// Potential lists registrations from applicants without a contract
func (s *LecturerService) Potential(ctx context.Context, params ListParams) (Page[Lecturer], error) {
	var page Page[Lecturer]
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("potential_lecturers"), params.Values(), nil, &page)
	return page, err
}

// SetStatus records the outcome of a registration check
func (s *LecturerService) SetStatus(ctx context.Context, id int64, status string) (Lecturer, error) {
	return s.Patch(ctx, id, map[string]string{"status": status})
}

func (s *LecturerService) SignContract(ctx context.Context, id int64) error {
	return s.caller.DoJSON(ctx, http.MethodPost, s.itemPath(id)+"sign_contract/", nil, struct{}{}, nil)
}

func (s *LecturerService) CountAll(ctx context.Context) (int, error) {
	return s.count(ctx, "count_all_lecturers")
}

func (s *LecturerService) CountPotential(ctx context.Context) (int, error) {
	return s.count(ctx, "count_potential_lecturers")
}

func (s *LecturerService) CountPending(ctx context.Context) (int, error) {
	return s.count(ctx, "count_pending_lecturers")
}

func (s *LecturerService) DegreeCount(ctx context.Context) ([]DegreeShare, error) {
	var shares []DegreeShare
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("degree_count"), nil, nil, &shares)
	return shares, err
}

func (s *LecturerService) TitleCount(ctx context.Context) ([]TitleShare, error) {
	var shares []TitleShare
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("title_count"), nil, nil, &shares)
	return shares, err
}

func (s *LecturerService) count(ctx context.Context, action string) (int, error) {
	var n int
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action(action), nil, nil, &n)
	return n, err
}

type CourseService struct {
	*Resource[Course]
}

// AllCourses is the unpaginated list used by select inputs
func (s *CourseService) AllCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("all_courses"), nil, nil, &courses)
	return courses, err
}

func (s *CourseService) LecturerCount(ctx context.Context) ([]CourseLecturerCount, error) {
	var counts []CourseLecturerCount
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("lecturer_count"), nil, nil, &counts)
	return counts, err
}

type ScheduleService struct {
	*Resource[Schedule]
}

func (s *ScheduleService) ByLecturer(ctx context.Context, lecturerID int64) ([]Schedule, error) {
	var page Page[Schedule]
	err := s.caller.DoJSON(ctx, http.MethodGet, s.path+"by-lecturer/"+strconv.FormatInt(lecturerID, 10), nil, nil, &page)
	return page.Results, err
}

func (s *ScheduleService) Me(ctx context.Context) ([]Schedule, error) {
	var page Page[Schedule]
	err := s.caller.DoJSON(ctx, http.MethodGet, s.path+"me", nil, nil, &page)
	return page.Results, err
}

type EvaluationService struct {
	*Resource[Evaluation]
}

// ForLecturer lists evaluations of one lecturer
func (s *EvaluationService) ForLecturer(ctx context.Context, lecturerID int64, params ListParams) (Page[Evaluation], error) {
	params.Filters = append(params.Filters, ColumnFilter{ID: "lecturer", Value: strconv.FormatInt(lecturerID, 10)})
	return s.List(ctx, params)
}

func (s *EvaluationService) Me(ctx context.Context, params ListParams) (Page[Evaluation], error) {
	var page Page[Evaluation]
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("me"), params.Values(), nil, &page)
	return page, err
}

type RecommendationService struct {
	*Resource[Recommendation]
}

func (s *RecommendationService) Me(ctx context.Context, params ListParams) (Page[Recommendation], error) {
	var page Page[Recommendation]
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("me"), params.Values(), nil, &page)
	return page, err
}

// CreateMe files a recommendation on behalf of the logged-in lecturer
func (s *RecommendationService) CreateMe(ctx context.Context, in any) (Recommendation, error) {
	var r Recommendation
	err := s.caller.DoJSON(ctx, http.MethodPost, s.Action("me"), nil, in, &r)
	return r, err
}

func (s *RecommendationService) CountUnchecked(ctx context.Context) (int, error) {
	var n int
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("count_unchecked"), nil, nil, &n)
	return n, err
}

type DocumentService struct {
	*Resource[Document]
}

func (s *DocumentService) Types(ctx context.Context) ([]DocumentType, error) {
	var page Page[DocumentType]
	err := s.caller.DoJSON(ctx, http.MethodGet, "document_types/", nil, nil, &page)
	return page.Results, err
}

type UserService struct {
	*Resource[users.User]
}

func (s *UserService) Me(ctx context.Context) (users.User, error) {
	var u users.User
	err := s.caller.DoJSON(ctx, http.MethodGet, s.Action("me"), nil, nil, &u)
	return u, err
}

// Services groups every backend collection the console uses
type Services struct {
	Lecturers       *LecturerService
	Courses         *CourseService
	Classes         *Resource[Class]
	Schedules       *ScheduleService
	Evaluations     *EvaluationService
	Recommendations *RecommendationService
	Documents       *DocumentService
	Users           *UserService
	Groups          *Resource[users.Group]
	Auth            *AuthService
}

func NewServices(caller Caller, tokens TokenWriter) *Services {
	return &Services{
		Lecturers:       &LecturerService{NewResource[Lecturer](caller, "lecturers/")},
		Courses:         &CourseService{NewResource[Course](caller, "courses/")},
		Classes:         NewResource[Class](caller, "classes/"),
		Schedules:       &ScheduleService{NewResource[Schedule](caller, "schedules/")},
		Evaluations:     &EvaluationService{NewResource[Evaluation](caller, "evaluations/")},
		Recommendations: &RecommendationService{NewResource[Recommendation](caller, "recommendations/")},
		Documents:       &DocumentService{NewResource[Document](caller, "documents/")},
		Users:           &UserService{NewResource[users.User](caller, "users/")},
		Groups:          NewResource[users.Group](caller, "groups/"),
		Auth:            NewAuthService(caller, tokens, DefaultLoginPath),
	}
}

// ListByName lists the collection called name, one of Names
func (s *Services) ListByName(ctx context.Context, name string, params ListParams) (any, error) {
	switch name {
	case "lecturers":
		return s.Lecturers.List(ctx, params)
	case "courses":
		return s.Courses.List(ctx, params)
	case "classes":
		return s.Classes.List(ctx, params)
	case "schedules":
		return s.Schedules.List(ctx, params)
	case "evaluations":
		return s.Evaluations.List(ctx, params)
	case "recommendations":
		return s.Recommendations.List(ctx, params)
	case "documents":
		return s.Documents.List(ctx, params)
	case "users":
		return s.Users.List(ctx, params)
	case "groups":
		return s.Groups.List(ctx, params)
	}
	return nil, unknownResource(name)
}

// ByName returns the generic accessor for name, exposing Get and Delete by ID
func (s *Services) ByName(name string) (ItemAccessor, error) {
	switch name {
	case "lecturers":
		return s.Lecturers.Resource, nil
	case "courses":
		return s.Courses.Resource, nil
	case "classes":
		return s.Classes, nil
	case "schedules":
		return s.Schedules.Resource, nil
	case "evaluations":
		return s.Evaluations.Resource, nil
	case "recommendations":
		return s.Recommendations.Resource, nil
	case "documents":
		return s.Documents.Resource, nil
	case "users":
		return s.Users.Resource, nil
	case "groups":
		return s.Groups, nil
	}
	return nil, unknownResource(name)
}

// Names lists the resources ByName accepts
var Names = []string{"lecturers", "courses", "classes", "schedules", "evaluations", "recommendations", "documents", "users", "groups"}

// ItemAccessor is the type-erased view of a Resource used by generic tooling
type ItemAccessor interface {
	Path() string
	ListAny(ctx context.Context, params ListParams) ([]any, int, error)
	GetAny(ctx context.Context, id int64) (any, error)
	CreateAny(ctx context.Context, in any) (any, error)
	UpdateAny(ctx context.Context, id int64, in any) (any, error)
	Delete(ctx context.Context, id int64) error
}

func (r *Resource[T]) ListAny(ctx context.Context, params ListParams) ([]any, int, error) {
	page, err := r.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	items := make([]any, len(page.Results))
	for i := range page.Results {
		items[i] = page.Results[i]
	}
	return items, page.Count, nil
}

func (r *Resource[T]) GetAny(ctx context.Context, id int64) (any, error) {
	return r.Get(ctx, id)
}

func (r *Resource[T]) CreateAny(ctx context.Context, in any) (any, error) {
	return r.Create(ctx, in)
}

func (r *Resource[T]) UpdateAny(ctx context.Context, id int64, in any) (any, error) {
	return r.Update(ctx, id, in)
}

func unknownResource(name string) error {
	return errors.Wrapf(errors.ErrNotFound, "unknown resource %q", name)
}
