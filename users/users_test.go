package users_test

import (
	"testing"

	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errPart  string
	}{
		{name: "valid", password: "Secret#123"},
		{name: "too short", password: "Se#1", errPart: "at least 8 characters"},
		{name: "no upper", password: "secret#123", errPart: "uppercase"},
		{name: "no lower", password: "SECRET#123", errPart: "lowercase"},
		{name: "no number", password: "Secret#abc", errPart: "number"},
		{name: "no special", password: "Secret1234", errPart: "special"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tc.password)
			if tc.errPart == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestRoleType(t *testing.T) {
	require.True(t, users.RoleLecturer.Valid())
	require.False(t, users.RoleType("admin").Valid())

	require.True(t, users.RoleSupervisionDepartment.IsStaff())
	require.False(t, users.RolePotentialLecturer.IsStaff())
}

func TestUser_HasGroup(t *testing.T) {
	u := &users.User{Groups: []string{"lecturer"}}
	require.True(t, u.HasGroup("lecturer"))
	require.False(t, u.HasGroup("it_faculty"))
}
