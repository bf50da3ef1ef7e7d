package resources_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/jrsteele09/go-lecturer-console/token/tokenfake"
	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	query  url.Values
	in     any
}

// fakeCaller records calls and answers with canned JSON
type fakeCaller struct {
	calls    []call
	response string
	err      error
}

func (f *fakeCaller) DoJSON(_ context.Context, method, path string, query url.Values, in, out any) error {
	f.calls = append(f.calls, call{method: method, path: path, query: query, in: in})
	if f.err != nil {
		return f.err
	}
	if out != nil && f.response != "" {
		return json.Unmarshal([]byte(f.response), out)
	}
	return nil
}

func (f *fakeCaller) last() call {
	return f.calls[len(f.calls)-1]
}

func TestResource_Paths(t *testing.T) {
	f := &fakeCaller{response: `{"id":3,"name":"Algorithms","code":"IT1","credits":3}`}
	courses := resources.NewResource[resources.Course](f, "/courses")
	ctx := context.Background()

	c, err := courses.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Algorithms", c.Name)
	require.Equal(t, call{method: http.MethodGet, path: "courses/3/"}, f.last())

	_, err = courses.Update(ctx, 3, c)
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, f.last().method)

	_, err = courses.Patch(ctx, 3, map[string]int{"credits": 4})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, f.last().method)

	_, err = courses.Create(ctx, c)
	require.NoError(t, err)
	require.Equal(t, "courses/", f.last().path)

	require.NoError(t, courses.Delete(ctx, 3))
	require.Equal(t, call{method: http.MethodDelete, path: "courses/3/"}, f.last())
}

func TestServices_ExtraEndpoints(t *testing.T) {
	f := &fakeCaller{}
	svc := resources.NewServices(f, session.NewMemoryStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		response string
		do       func() error
		method   string
		path     string
	}{
		{"lecturer me", `{}`, func() error { _, err := svc.Lecturers.Me(ctx); return err }, http.MethodGet, "lecturers/me/"},
		{"sign contract", `[]`, func() error { return svc.Lecturers.SignContract(ctx, 9) }, http.MethodPost, "lecturers/9/sign_contract/"},
		{"degree count", `[]`, func() error { _, err := svc.Lecturers.DegreeCount(ctx); return err }, http.MethodGet, "lecturers/degree_count/"},
		{"title count", `[]`, func() error { _, err := svc.Lecturers.TitleCount(ctx); return err }, http.MethodGet, "lecturers/title_count/"},
		{"potential", `[]`, func() error { _, err := svc.Lecturers.Potential(ctx, resources.ListParams{}); return err }, http.MethodGet, "lecturers/potential_lecturers/"},
		{"all courses", `[]`, func() error { _, err := svc.Courses.AllCourses(ctx); return err }, http.MethodGet, "courses/all_courses/"},
		{"lecturer count", `[]`, func() error { _, err := svc.Courses.LecturerCount(ctx); return err }, http.MethodGet, "courses/lecturer_count/"},
		{"schedules by lecturer", `[]`, func() error { _, err := svc.Schedules.ByLecturer(ctx, 4); return err }, http.MethodGet, "schedules/by-lecturer/4"},
		{"my schedules", `[]`, func() error { _, err := svc.Schedules.Me(ctx); return err }, http.MethodGet, "schedules/me"},
		{"recommend", `{}`, func() error { _, err := svc.Recommendations.CreateMe(ctx, map[string]string{}); return err }, http.MethodPost, "recommendations/me/"},
		{"users me", `{}`, func() error { _, err := svc.Users.Me(ctx); return err }, http.MethodGet, "users/me/"},
		{"document types", `[]`, func() error { _, err := svc.Documents.Types(ctx); return err }, http.MethodGet, "document_types/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.response = tt.response
			require.NoError(t, tt.do())
			require.Equal(t, tt.method, f.last().method)
			require.Equal(t, tt.path, f.last().path)
		})
	}
}

func TestServices_CountEndpoints(t *testing.T) {
	f := &fakeCaller{response: `17`}
	svc := resources.NewServices(f, session.NewMemoryStore())

	n, err := svc.Lecturers.CountAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 17, n)
	require.Equal(t, "lecturers/count_all_lecturers/", f.last().path)
}

func TestEvaluations_ForLecturerAddsFilter(t *testing.T) {
	f := &fakeCaller{response: `{"results":[],"count":0}`}
	svc := resources.NewServices(f, session.NewMemoryStore())

	_, err := svc.Evaluations.ForLecturer(context.Background(), 12, resources.ListParams{})
	require.NoError(t, err)
	require.Equal(t, "12", f.last().query.Get("lecturer"))
}

func TestServices_ByName(t *testing.T) {
	svc := resources.NewServices(&fakeCaller{}, session.NewMemoryStore())
	for _, name := range resources.Names {
		acc, err := svc.ByName(name)
		require.NoError(t, err)
		require.Equal(t, name+"/", acc.Path())
	}

	_, err := svc.ByName("grades")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAuth_LoginStoresPairThroughPipeline(t *testing.T) {
	access := tokenfake.Valid(users.RoleEducationDepartment)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/token/", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "S3cret!pass" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "refresh-1"})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	client, err := apiclient.New(srv.URL, store)
	require.NoError(t, err)
	svc := resources.NewServices(client, store)

	_, err = svc.Auth.Login(context.Background(), "edu", "wrong")
	require.Equal(t, "No active account found with the given credentials", apiclient.UserMessage(err))
	require.Empty(t, store.GetAccessToken())

	tok, err := svc.Auth.Login(context.Background(), "edu", "S3cret!pass")
	require.NoError(t, err)
	require.Equal(t, access, tok.AccessToken)
	require.False(t, tok.Expiry.IsZero())
	require.True(t, tok.Valid())
	require.Equal(t, access, store.GetAccessToken())
	require.Equal(t, "refresh-1", store.GetRefreshToken())

	require.NoError(t, svc.Auth.Logout())
	require.Empty(t, store.GetRefreshToken())
}

func TestAuth_AnonymousEndpoints(t *testing.T) {
	f := &fakeCaller{}
	auth := resources.NewAuthService(f, session.NewMemoryStore(), "")
	ctx := context.Background()

	require.NoError(t, auth.Register(ctx, resources.RegisterRequest{Username: "u", Email: "u@x.edu", Password: "p"}))
	require.Equal(t, "register/", f.last().path)

	require.NoError(t, auth.RequestPasswordReset(ctx, "u@x.edu"))
	require.Equal(t, "api/password_reset/", f.last().path)

	require.NoError(t, auth.ConfirmPasswordReset(ctx, "tok", "N3w!password"))
	require.Equal(t, "api/password_reset/confirm/", f.last().path)
	require.Equal(t, map[string]string{"token": "tok", "password": "N3w!password"}, f.last().in)
}
