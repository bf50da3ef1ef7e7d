package guard_test

import (
	"testing"

	"github.com/jrsteele09/go-lecturer-console/guard"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/jrsteele09/go-lecturer-console/token/tokenfake"
	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/stretchr/testify/require"
)

func guardWith(t *testing.T, access string) *guard.Guard {
	t.Helper()
	store := session.NewMemoryStore()
	if access != "" {
		require.NoError(t, store.SetTokens(access, "refresh"))
	}
	return guard.New(store)
}

func TestAuthorize_AuthenticationOnly(t *testing.T) {
	require.Equal(t, guard.RedirectToLogin, guardWith(t, "").Authorize(nil))
	require.Equal(t, guard.Render, guardWith(t, tokenfake.Valid(users.RoleLecturer)).Authorize(nil))

	// Presence is enough: expired and even undecodable tokens count as authenticated.
	require.Equal(t, guard.Render, guardWith(t, tokenfake.Expired(users.RoleLecturer)).Authorize(guard.Authenticated))
	require.Equal(t, guard.Render, guardWith(t, "opaque").Authorize(guard.Roles()))
}

func TestAuthorize_WrongRoleRendersNothing(t *testing.T) {
	g := guardWith(t, tokenfake.Valid(users.RoleLecturer))

	d := g.Authorize(guard.Roles(users.RoleITFaculty, users.RoleEducationDepartment))
	require.Equal(t, guard.RenderNothing, d)
	require.False(t, g.Allowed(guard.LecturerManagers))
}

func TestAuthorize_RoleIndependentOfExpiry(t *testing.T) {
	g := guardWith(t, tokenfake.Expired(users.RoleEducationDepartment))
	require.Equal(t, guard.Render, g.Authorize(guard.EducationOnly))
}

func TestAuthorize_RoleRuleWithoutToken(t *testing.T) {
	require.Equal(t, guard.RenderNothing, guardWith(t, "").Authorize(guard.Staff))
	require.Equal(t, guard.RenderNothing, guardWith(t, "garbage").Authorize(guard.Staff))
	require.Equal(t, guard.RenderNothing, guardWith(t, tokenfake.Valid("")).Authorize(guard.Staff), "null role claim")
}

func TestDecodeRole_RoundTrip(t *testing.T) {
	for _, role := range users.AllRoles {
		t.Run(string(role), func(t *testing.T) {
			got, ok := guardWith(t, tokenfake.Valid(role)).DecodeRole()
			require.True(t, ok)
			require.Equal(t, role, got)
		})
	}

	_, ok := guardWith(t, "").DecodeRole()
	require.False(t, ok)
}

func TestAuthorizeNested(t *testing.T) {
	tests := []struct {
		name   string
		access string
		rules  []guard.RoleSet
		want   guard.Decision
	}{
		{"no rules needs authentication", "", nil, guard.RedirectToLogin},
		{"outer auth redirects before inner role rule", "", []guard.RoleSet{guard.Authenticated, guard.LecturerManagers}, guard.RedirectToLogin},
		{"inner role rule blocks silently", tokenfake.Valid(users.RoleLecturer), []guard.RoleSet{guard.Authenticated, guard.LecturerManagers}, guard.RenderNothing},
		{"intersection admits", tokenfake.Valid(users.RoleITFaculty), []guard.RoleSet{guard.Staff, guard.LecturerManagers, guard.ITFacultyOnly}, guard.Render},
		{"intersection excludes", tokenfake.Valid(users.RoleEducationDepartment), []guard.RoleSet{guard.Staff, guard.ITFacultyOnly}, guard.RenderNothing},
		{"overlap is not a union", tokenfake.Valid(users.RolePotentialLecturer), []guard.RoleSet{guard.Staff, guard.SelfService}, guard.RenderNothing},
		{"outer role rule decides before inner auth", "", []guard.RoleSet{guard.Staff, guard.Authenticated}, guard.RenderNothing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, guardWith(t, tt.access).AuthorizeNested(tt.rules...))
		})
	}
}

func TestVisibleMenu(t *testing.T) {
	labels := func(items []guard.MenuItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Label)
			for _, c := range i.Children {
				out = append(out, i.Label+"/"+c.Label)
			}
		}
		return out
	}

	require.Empty(t, guardWith(t, "").VisibleMenu(guard.Menu))

	potential := labels(guardWith(t, tokenfake.Valid(users.RolePotentialLecturer)).VisibleMenu(guard.Menu))
	require.Equal(t, []string{"Home", "Information", "Account", "Documents", "Logout"}, potential)

	it := labels(guardWith(t, tokenfake.Valid(users.RoleITFaculty)).VisibleMenu(guard.Menu))
	require.Contains(t, it, "Lecturers/Recommendations")
	require.Contains(t, it, "Lecturers/Registrations")
	require.NotContains(t, it, "Users")

	edu := labels(guardWith(t, tokenfake.Valid(users.RoleEducationDepartment)).VisibleMenu(guard.Menu))
	require.Contains(t, edu, "Users")
	require.NotContains(t, edu, "Lecturers/Recommendations")

	lecturer := labels(guardWith(t, tokenfake.Valid(users.RoleLecturer)).VisibleMenu(guard.Menu))
	require.Contains(t, lecturer, "Schedule")
	require.NotContains(t, lecturer, "Lecturers/Registrations")
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "render_nothing", guard.RenderNothing.String())
	require.Equal(t, "unevaluated", guard.Unevaluated.String())
}
