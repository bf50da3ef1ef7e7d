package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/forms"
	"github.com/jrsteele09/go-lecturer-console/guard"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/users"
)

// binder decodes and validates a submitted form into the backend payload.
// Validation failures come back as field errors and never reach the network.
type binder func(values url.Values) (payload any, fieldErrs forms.FieldErrors, err error)

func bind[F interface{ Payload() P }, P any]() binder {
	return func(values url.Values) (any, forms.FieldErrors, error) {
		var f F
		if err := forms.Decode(values, &f); err != nil {
			return nil, nil, err
		}
		if fieldErrs := forms.Check(f); fieldErrs != nil {
			return nil, fieldErrs, nil
		}
		return f.Payload(), nil, nil
	}
}

type column struct {
	Key   string
	Label string
}

type option struct {
	Value string
	Label string
}

// optionSource loads the choices of a select input
type optionSource func(ctx context.Context, c *console) ([]option, error)

// Input types understood by form.html
const (
	inputText     = "text"
	inputEmail    = "email"
	inputPassword = "password"
	inputHidden   = "hidden"
	inputNumber   = "number"
	inputDate     = "date"
	inputTime     = "time"
	inputURL      = "url"
	inputTextarea = "textarea"
	inputSelect   = "select"
	inputMulti    = "multiselect"
	inputCheckbox = "checkbox"
	inputList     = "list" // one input per row of a repeated group
)

type field struct {
	Name    string
	Label   string
	Type    string
	Options optionSource
}

// resourceView describes how a backend collection is listed and edited
type resourceView struct {
	Name    string // key in resources.Names
	Title   string
	Columns []column
	Fields  []field
	Bind    binder

	// Prefill maps a fetched item onto form inputs; defaults to its JSON members
	Prefill func(item map[string]any) url.Values

	// Parent is the form field filled from the {id} of an enclosing lecturer route
	Parent string

	// List overrides the plain collection listing
	List func(ctx context.Context, c *console, parentID int64, params resources.ListParams) ([]any, int, error)

	// Manage is the rule for create, edit and delete on top of the list's own rules
	Manage guard.RoleSet

	// NoCreate hides creation for collections filled elsewhere
	NoCreate bool

	// RowLinks adds per-row links besides edit and delete
	RowLinks func(c *console, id int64) []link
}

type link struct {
	Label string
	URL   string
}

func staticOptions(opts ...option) optionSource {
	return func(context.Context, *console) ([]option, error) {
		return opts, nil
	}
}

func sameOptions(values ...string) optionSource {
	opts := make([]option, len(values))
	for i, v := range values {
		opts[i] = option{Value: v, Label: v}
	}
	return staticOptions(opts...)
}

func courseOptions(ctx context.Context, c *console) ([]option, error) {
	courses, err := c.services.Courses.AllCourses(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]option, len(courses))
	for i, course := range courses {
		opts[i] = option{Value: strconv.FormatInt(course.ID, 10), Label: course.Code + " " + course.Name}
	}
	return opts, nil
}

func lecturerOptions(ctx context.Context, c *console) ([]option, error) {
	lecturers, err := c.services.Lecturers.All(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]option, len(lecturers))
	for i, l := range lecturers {
		opts[i] = option{Value: strconv.FormatInt(l.ID, 10), Label: l.Name}
	}
	return opts, nil
}

func documentTypeOptions(ctx context.Context, c *console) ([]option, error) {
	types, err := c.services.Documents.Types(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]option, len(types))
	for i, t := range types {
		opts[i] = option{Value: strconv.FormatInt(t.ID, 10), Label: t.Name}
	}
	return opts, nil
}

func roleOptions(context.Context, *console) ([]option, error) {
	opts := make([]option, len(users.AllRoles))
	for i, role := range users.AllRoles {
		opts[i] = option{Value: string(role), Label: string(role)}
	}
	return opts, nil
}

var degreeOptions = sameOptions(resources.DegreeBachelor, resources.DegreeMaster, resources.DegreeDoctor)

var lecturerFields = []field{
	{Name: "name", Label: "Full name", Type: inputText},
	{Name: "email", Label: "Email", Type: inputEmail},
	{Name: "phone", Label: "Phone number", Type: inputText},
	{Name: "gender", Label: "Gender", Type: inputSelect, Options: sameOptions("Nam", "Nữ")},
	{Name: "dob", Label: "Date of birth", Type: inputDate},
	{Name: "ethnic", Label: "Ethnicity", Type: inputText},
	{Name: "religion", Label: "Religion", Type: inputText},
	{Name: "hometown", Label: "Hometown", Type: inputText},
	{Name: "address", Label: "Address", Type: inputText},
	{Name: "degree", Label: "Degree", Type: inputSelect, Options: degreeOptions},
	{Name: "title", Label: "Title", Type: inputText},
	{Name: "title_detail", Label: "Title detail", Type: inputText},
	{Name: "title_granted_at", Label: "Title granted at", Type: inputDate},
	{Name: "workplace", Label: "Workplace", Type: inputText},
	{Name: "work_position", Label: "Work position", Type: inputText},
	{Name: "quota_code", Label: "Quota code", Type: inputText},
	{Name: "other_quota_code", Label: "Other quota code", Type: inputText},
	{Name: "salary_coefficient", Label: "Salary coefficient", Type: inputNumber},
	{Name: "salary_coefficient_granted_at", Label: "Salary coefficient granted at", Type: inputDate},
	{Name: "recruited_at", Label: "Recruited at", Type: inputDate},
	{Name: "years_of_experience", Label: "Years of experience", Type: inputNumber},
	{Name: "exp_language", Label: "Foreign languages", Type: inputText},
	{Name: "exp_computer", Label: "Computer skills", Type: inputText},
	{Name: "cn_school_name", Label: "Bachelor: school", Type: inputText},
	{Name: "cn_major", Label: "Bachelor: major", Type: inputText},
	{Name: "cn_from", Label: "Bachelor: from", Type: inputText},
	{Name: "cn_to", Label: "Bachelor: to", Type: inputText},
	{Name: "cn_degree_granted_at", Label: "Bachelor: granted at", Type: inputDate},
	{Name: "ths_school_name", Label: "Master: school", Type: inputText},
	{Name: "ths_major", Label: "Master: major", Type: inputText},
	{Name: "ths_from", Label: "Master: from", Type: inputText},
	{Name: "ths_to", Label: "Master: to", Type: inputText},
	{Name: "ths_degree_granted_at", Label: "Master: granted at", Type: inputDate},
	{Name: "ts_school_name", Label: "Doctorate: school", Type: inputText},
	{Name: "ts_major", Label: "Doctorate: major", Type: inputText},
	{Name: "ts_from", Label: "Doctorate: from", Type: inputText},
	{Name: "ts_to", Label: "Doctorate: to", Type: inputText},
	{Name: "ts_degree_granted_at", Label: "Doctorate: granted at", Type: inputDate},
	{Name: "exp_work_from", Label: "Work history: from", Type: inputList},
	{Name: "exp_work_to", Label: "Work history: to", Type: inputList},
	{Name: "exp_work_organization", Label: "Work history: organization", Type: inputList},
	{Name: "researches", Label: "Research", Type: inputTextarea},
	{Name: "published_work_name", Label: "Published works: name", Type: inputList},
	{Name: "published_work_year", Label: "Published works: year", Type: inputList},
	{Name: "published_work_place", Label: "Published works: place", Type: inputList},
	{Name: "courses", Label: "Courses", Type: inputMulti, Options: courseOptions},
}

var lecturerColumns = []column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "phone_number", Label: "Phone"},
	{Key: "degree", Label: "Degree"},
	{Key: "title_detail", Label: "Title"},
	{Key: "workplace", Label: "Workplace"},
	{Key: "status", Label: "Status"},
}

var lecturersView = resourceView{
	Name:    "lecturers",
	Title:   "Lecturers",
	Columns: lecturerColumns,
	Fields:  lecturerFields,
	Bind:    bind[forms.Lecturer, resources.Lecturer](),
	Prefill: lecturerValues,
	Manage:  guard.LecturerManagers,
	RowLinks: func(c *console, id int64) []link {
		if !c.guard.Allowed(guard.Supervisors) {
			return nil
		}
		return []link{
			{Label: "Schedules", URL: fmt.Sprintf("/lecturers/%d/schedules", id)},
			{Label: "Evaluations", URL: fmt.Sprintf("/lecturers/%d/evaluations", id)},
		}
	},
}

var coursesView = resourceView{
	Name:  "courses",
	Title: "Courses",
	Columns: []column{
		{Key: "code", Label: "Code"},
		{Key: "name", Label: "Name"},
		{Key: "credits", Label: "Credits"},
		{Key: "description", Label: "Description"},
	},
	Fields: []field{
		{Name: "name", Label: "Name", Type: inputText},
		{Name: "code", Label: "Code", Type: inputText},
		{Name: "credits", Label: "Credits", Type: inputNumber},
		{Name: "description", Label: "Description", Type: inputTextarea},
	},
	Bind:   bind[forms.Course, resources.Course](),
	Manage: guard.EducationOnly,
}

var classesView = resourceView{
	Name:  "classes",
	Title: "Classes",
	Columns: []column{
		{Key: "name", Label: "Name"},
		{Key: "course_name", Label: "Course"},
		{Key: "lecturer_name", Label: "Lecturer"},
		{Key: "semester", Label: "Semester"},
		{Key: "year", Label: "Year"},
	},
	Fields: []field{
		{Name: "name", Label: "Name", Type: inputText},
		{Name: "course", Label: "Course", Type: inputSelect, Options: courseOptions},
		{Name: "lecturer", Label: "Lecturer", Type: inputSelect, Options: lecturerOptions},
		{Name: "semester", Label: "Semester", Type: inputSelect, Options: sameOptions("1", "2")},
		{Name: "year", Label: "Academic year", Type: inputText},
	},
	Bind: bind[forms.Class, resources.Class](),
}

var documentsView = resourceView{
	Name:  "documents",
	Title: "Documents",
	Columns: []column{
		{Key: "name", Label: "Name"},
		{Key: "document_type_name", Label: "Type"},
		{Key: "published_at", Label: "Published"},
		{Key: "valid_at", Label: "Valid from"},
		{Key: "signed_by", Label: "Signed by"},
		{Key: "file_link", Label: "Link"},
	},
	Fields: []field{
		{Name: "name", Label: "Name", Type: inputText},
		{Name: "document_type", Label: "Type", Type: inputSelect, Options: documentTypeOptions},
		{Name: "file_link", Label: "File link", Type: inputURL},
		{Name: "published_at", Label: "Published at", Type: inputDate},
		{Name: "valid_at", Label: "Valid from", Type: inputDate},
		{Name: "published_by", Label: "Published by", Type: inputText},
		{Name: "signed_by", Label: "Signed by", Type: inputText},
	},
	Bind:   bind[forms.Document, resources.Document](),
	Manage: guard.EducationOnly,
}

var usersView = resourceView{
	Name:  "users",
	Title: "Users",
	Columns: []column{
		{Key: "username", Label: "Username"},
		{Key: "email", Label: "Email"},
		{Key: "groups", Label: "Roles"},
		{Key: "lecturer_str", Label: "Lecturer"},
		{Key: "is_active", Label: "Active"},
	},
	Fields: []field{
		{Name: "username", Label: "Username", Type: inputText},
		{Name: "email", Label: "Email", Type: inputEmail},
		{Name: "password", Label: "Password", Type: inputPassword},
		{Name: "groups", Label: "Roles", Type: inputMulti, Options: roleOptions},
		{Name: "lecturer", Label: "Lecturer", Type: inputSelect, Options: lecturerOptions},
		{Name: "is_active", Label: "Active", Type: inputCheckbox},
	},
	Bind: bind[forms.User, forms.UserPayload](),
}

var lecturerSchedulesView = resourceView{
	Name:  "schedules",
	Title: "Schedules",
	Columns: []column{
		{Key: "course_name", Label: "Course"},
		{Key: "start", Label: "Start"},
		{Key: "end", Label: "End"},
		{Key: "place", Label: "Place"},
		{Key: "notes", Label: "Notes"},
	},
	Fields: []field{
		{Name: "course", Label: "Course", Type: inputSelect, Options: courseOptions},
		{Name: "from_date", Label: "From date", Type: inputDate},
		{Name: "to_date", Label: "To date", Type: inputDate},
		{Name: "start", Label: "Starts at", Type: inputTime},
		{Name: "end", Label: "Ends at", Type: inputTime},
		{Name: "place", Label: "Place", Type: inputText},
		{Name: "notes", Label: "Notes", Type: inputTextarea},
	},
	Bind:    bind[forms.Schedule, resources.Schedule](),
	Prefill: scheduleValues,
	Parent:  "lecturer",
	List: func(ctx context.Context, c *console, lecturerID int64, _ resources.ListParams) ([]any, int, error) {
		schedules, err := c.services.Schedules.ByLecturer(ctx, lecturerID)
		return anySlice(schedules), len(schedules), err
	},
}

var evaluationFields = []field{
	{Name: "title", Label: "Title", Type: inputText},
	{Name: "date", Label: "Date", Type: inputDate},
	{Name: "type", Label: "Type", Type: inputSelect, Options: staticOptions(
		option{Value: "Đánh giá từ cán bộ đào tạo", Label: "Staff evaluation"},
		option{Value: "Phản ánh từ sinh viên", Label: "Student feedback"},
		option{Value: "Khác", Label: "Other"},
	)},
	{Name: "content", Label: "Content", Type: inputTextarea},
}

var evaluationColumns = []column{
	{Key: "title", Label: "Title"},
	{Key: "date", Label: "Date"},
	{Key: "type", Label: "Type"},
	{Key: "content", Label: "Content"},
}

var lecturerEvaluationsView = resourceView{
	Name:    "evaluations",
	Title:   "Evaluations",
	Columns: evaluationColumns,
	Fields:  evaluationFields,
	Bind:    bind[forms.Evaluation, resources.Evaluation](),
	Parent:  "lecturer",
	List: func(ctx context.Context, c *console, lecturerID int64, params resources.ListParams) ([]any, int, error) {
		page, err := c.services.Evaluations.ForLecturer(ctx, lecturerID, params)
		return anySlice(page.Results), page.Count, err
	},
}

var recommendationColumns = []column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "phone_number", Label: "Phone"},
	{Key: "workplace", Label: "Workplace"},
	{Key: "course_names", Label: "Courses"},
	{Key: "status", Label: "Status"},
}

var recommendationFields = []field{
	{Name: "name", Label: "Full name", Type: inputText},
	{Name: "email", Label: "Email", Type: inputEmail},
	{Name: "phone_number", Label: "Phone number", Type: inputText},
	{Name: "workplace", Label: "Workplace", Type: inputText},
	{Name: "courses", Label: "Courses", Type: inputMulti, Options: courseOptions},
	{Name: "content", Label: "Reason", Type: inputTextarea},
}

var recommendationsView = resourceView{
	Name:    "recommendations",
	Title:   "Recommendations",
	Columns: recommendationColumns,
	Fields: append(append([]field{}, recommendationFields...),
		field{Name: "status", Label: "Status", Type: inputSelect, Options: sameOptions(
			resources.RecommendationUnchecked, resources.RecommendationContacting, resources.StatusValid, resources.StatusRejected,
		)},
	),
	Bind:     bind[forms.Recommendation, resources.Recommendation](),
	NoCreate: true,
}

func anySlice[T any](items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}

// asMap views an item through its JSON members
func asMap(item any) map[string]any {
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func itemID(m map[string]any) int64 {
	if id, ok := m["id"].(float64); ok {
		return int64(id)
	}
	return 0
}

// display formats a JSON member for a table cell
func display(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, display(e))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// jsonValues maps scalar and list members onto same-named form inputs
func jsonValues(m map[string]any) url.Values {
	values := url.Values{}
	for key, v := range m {
		switch v := v.(type) {
		case string:
			values.Set(key, v)
		case float64:
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			values.Set(key, strconv.FormatBool(v))
		case []any:
			for _, e := range v {
				values.Add(key, display(e))
			}
		}
	}
	return values
}

func lecturerValues(m map[string]any) url.Values {
	values := jsonValues(m)
	values.Set("phone", display(m["phone_number"]))

	if academic, ok := m["exp_academic"].(map[string]any); ok {
		for abbreviation, record := range academic {
			fields, ok := record.(map[string]any)
			if !ok {
				continue
			}
			prefix := strings.ToLower(abbreviation) + "_"
			for key, v := range fields {
				values.Set(prefix+key, display(v))
			}
		}
	}

	rows := func(key string, columns map[string]string) {
		list, _ := m[key].([]any)
		for _, entry := range list {
			row, _ := entry.(map[string]any)
			for member, input := range columns {
				values.Add(input, display(row[member]))
			}
		}
	}
	rows("exp_work", map[string]string{"from": "exp_work_from", "to": "exp_work_to", "organization": "exp_work_organization"})
	rows("published_works", map[string]string{"name": "published_work_name", "year": "published_work_year", "place": "published_work_place"})
	return values
}

// scheduleValues splits backend timestamps back into the date range and daily times
func scheduleValues(m map[string]any) url.Values {
	values := jsonValues(m)
	if date, clock, ok := strings.Cut(display(m["start"]), "T"); ok {
		values.Set("from_date", date)
		values.Set("start", clockOf(clock))
	}
	if date, clock, ok := strings.Cut(display(m["end"]), "T"); ok {
		values.Set("to_date", date)
		values.Set("end", clockOf(clock))
	}
	return values
}

func clockOf(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}
