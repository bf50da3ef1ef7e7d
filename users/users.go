package users

import (
	"fmt"
	"unicode"
)

// RoleType is the permission class carried in the access token's role claim
type RoleType string

const (
	RoleITFaculty             RoleType = "it_faculty"             // IT faculty staff, manages lecturers and recommendations
	RoleEducationDepartment   RoleType = "education_department"   // Education department, manages courses, classes, schedules and accounts
	RoleSupervisionDepartment RoleType = "supervision_department" // Supervision department, evaluates lecturers
	RoleLecturer              RoleType = "lecturer"               // Contracted lecturer
	RolePotentialLecturer     RoleType = "potential_lecturer"     // Applicant who registered but has not signed a contract
)

// AllRoles lists every role the backend can issue
var AllRoles = []RoleType{
	RoleITFaculty,
	RoleEducationDepartment,
	RoleSupervisionDepartment,
	RoleLecturer,
	RolePotentialLecturer,
}

// Valid reports whether r is one of AllRoles
func (r RoleType) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether r belongs to one of the university departments
func (r RoleType) IsStaff() bool {
	switch r {
	case RoleITFaculty, RoleEducationDepartment, RoleSupervisionDepartment:
		return true
	}
	return false
}

// Group is a backend permission group; a user's group name matches its role
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID          int64    `json:"id,omitempty"`           // Backend user ID
	Username    string   `json:"username,omitempty"`     // Login name
	Email       string   `json:"email,omitempty"`        // Email address, also accepted at login
	Groups      []string `json:"groups,omitempty"`       // Group names, one per role
	Lecturer    *int64   `json:"lecturer,omitempty"`     // Linked lecturer profile, if any
	LecturerStr string   `json:"lecturer_str,omitempty"` // Display name of the linked lecturer
	IsActive    bool     `json:"is_active,omitempty"`    // Inactive accounts cannot log in
}

// HasGroup checks if the user belongs to the named group
func (u *User) HasGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// ValidatePasswordStrength checks if password meets the backend's requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
// - Contains at least one special character
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}
