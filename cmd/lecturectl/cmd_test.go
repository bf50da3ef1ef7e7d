package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/jrsteele09/go-lecturer-console/token/tokenfake"
	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/stretchr/testify/require"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

// newBackend serves the endpoints the CLI calls. Only access is accepted as a credential.
func newBackend(t *testing.T, access string) *httptest.Server {
	mux := http.NewServeMux()
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+access {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return false
		}
		return true
	}

	mux.HandleFunc("POST /api/token/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "Secret#123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "refresh-1"})
	})
	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
	})
	mux.HandleFunc("GET /users/me/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			_, _ = w.Write([]byte(`{"id":1,"username":"khoa","email":"khoa@example.edu","groups":["it_faculty"]}`))
		}
	})
	mux.HandleFunc("GET /courses/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			require.Equal(t, "net", r.URL.Query().Get("search"))
			require.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"count":12,"results":[{"id":7,"name":"Networks","code":"NET101","credits":3}]}`))
		}
	})
	mux.HandleFunc("GET /courses/7/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			_, _ = w.Write([]byte(`{"id":7,"name":"Networks","code":"NET101","credits":3}`))
		}
	})
	mux.HandleFunc("DELETE /courses/7/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			w.WriteHeader(http.StatusNoContent)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, srv *httptest.Server, store session.Store) (*commandLine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cli := &commandLine{store: store, out: out, loginRequired: &atomic.Bool{}}
	client, err := apiclient.New(srv.URL, store, apiclient.WithLoginRedirect(func(context.Context) {
		cli.loginRequired.Store(true)
	}))
	require.NoError(t, err)
	cli.services = resources.NewServices(client, store)
	return cli, out
}

func Test_commandLine_run(t *testing.T) {
	access := tokenfake.Valid(users.RoleITFaculty)
	srv := newBackend(t, access)

	tests := []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "list: no resource", args: []string{"list"}, wantErr: errHelp},
		{name: "list: unknown resource", args: []string{"list", "planets"}, wantErrStr: `unknown resource "planets"`},
		{name: "get: missing id", args: []string{"get", "courses"}, wantErr: errHelp},
		{name: "get: bad id", args: []string{"get", "courses", "x"}, wantErrStr: "id must be a positive number (got 'x')"},
		{name: "list", args: []string{"list", "courses", "-search", "net", "-page", "2"}, wantOut: "page 2 of 2, 12 total"},
		{name: "list: indented items", args: []string{"list", "courses", "-search", "net", "-page", "2"}, wantOut: "{\n  \"id\": 7,\n  \"name\": \"Networks\""},
		{name: "get", args: []string{"get", "courses", "7"}, wantOut: `"code": "NET101"`},
		{name: "delete", args: []string{"delete", "courses", "7"}, wantOut: "deleted courses 7"},
		{name: "whoami", args: []string{"whoami"}, wantOut: "khoa <khoa@example.edu> role=it_faculty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			require.NoError(t, store.SetTokens(access, "refresh-1"))
			cli, out := setup(t, srv, store)

			err := cli.run(context.Background(), tt.args)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				require.ErrorContains(t, err, tt.wantErrStr)
			default:
				require.NoError(t, err)
				require.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	access := tokenfake.Valid(users.RoleEducationDepartment)
	srv := newBackend(t, access)

	t.Run("stores the pair", func(t *testing.T) {
		readPasswordFunc = func(int) ([]byte, error) { return []byte("Secret#123"), nil }
		store := session.NewMemoryStore()
		cli, out := setup(t, srv, store)

		require.NoError(t, cli.run(context.Background(), []string{"login", "-username", "phong"}))
		require.Contains(t, out.String(), "Logged in as phong (education_department)")
		require.Equal(t, access, store.GetAccessToken())
		require.Equal(t, "refresh-1", store.GetRefreshToken())
	})

	t.Run("wrong password", func(t *testing.T) {
		readPasswordFunc = func(int) ([]byte, error) { return []byte("nope"), nil }
		store := session.NewMemoryStore()
		cli, _ := setup(t, srv, store)

		err := cli.run(context.Background(), []string{"login", "-username", "phong"})
		require.Error(t, err)
		require.NotErrorIs(t, err, errLoginRequired)
		require.Equal(t, "No active account found with the given credentials", apiclient.UserMessage(err))
		require.Empty(t, store.GetAccessToken())
	})

	t.Run("empty password", func(t *testing.T) {
		readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
		cli, _ := setup(t, srv, session.NewMemoryStore())
		require.ErrorIs(t, cli.run(context.Background(), []string{"login", "-username", "phong"}), errHelp)
	})

	t.Run("missing username", func(t *testing.T) {
		cli, _ := setup(t, srv, session.NewMemoryStore())
		require.ErrorIs(t, cli.run(context.Background(), []string{"login"}), errHelp)
	})
}

func Test_commandLine_loginRequired(t *testing.T) {
	srv := newBackend(t, tokenfake.Valid(users.RoleITFaculty))

	t.Run("rejected refresh", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.SetTokens(tokenfake.Expired(users.RoleITFaculty), "stale"))
		cli, _ := setup(t, srv, store)

		err := cli.run(context.Background(), []string{"get", "courses", "7"})
		require.ErrorIs(t, err, errLoginRequired)
		require.Empty(t, store.GetRefreshToken())
	})

	t.Run("whoami without tokens", func(t *testing.T) {
		cli, _ := setup(t, srv, session.NewMemoryStore())
		require.ErrorIs(t, cli.run(context.Background(), []string{"whoami"}), errLoginRequired)
	})

	t.Run("logout clears tokens", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.SetTokens("a", "r"))
		cli, _ := setup(t, srv, store)

		require.NoError(t, cli.run(context.Background(), []string{"logout"}))
		require.Empty(t, store.GetAccessToken())
	})
}
