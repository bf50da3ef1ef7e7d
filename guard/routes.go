package guard

import "github.com/jrsteele09/go-lecturer-console/users"

// Route rules shared by the router and the menu
var (
	Authenticated RoleSet

	SelfService  = Roles(users.RoleLecturer, users.RolePotentialLecturer)
	LecturerOnly = Roles(users.RoleLecturer)

	// Staff is every role but potential_lecturer
	Staff = Roles(users.RoleITFaculty, users.RoleEducationDepartment, users.RoleSupervisionDepartment, users.RoleLecturer)

	LecturerManagers = Roles(users.RoleITFaculty, users.RoleEducationDepartment)
	ITFacultyOnly    = Roles(users.RoleITFaculty)
	Supervisors      = Roles(users.RoleITFaculty, users.RoleEducationDepartment, users.RoleSupervisionDepartment)
	EducationOnly    = Roles(users.RoleEducationDepartment)
)

// MenuItem is a navigation entry, shown when every rule admits the visitor
type MenuItem struct {
	Label    string
	Path     string
	Rules    []RoleSet
	Children []MenuItem
}

// Menu mirrors the router's authorization table
var Menu = []MenuItem{
	{Label: "Home", Path: "/"},
	{Label: "Information", Path: "/my_info", Rules: []RoleSet{SelfService}},
	{Label: "Evaluations", Path: "/my_evaluations", Rules: []RoleSet{LecturerOnly}},
	{Label: "Schedule", Path: "/my_schedules", Rules: []RoleSet{LecturerOnly}},
	{Label: "Recommendations", Path: "/my_recommendations", Rules: []RoleSet{LecturerOnly}},
	{Label: "Account", Path: "/my_account"},
	{Label: "Lecturers", Path: "/lecturers", Rules: []RoleSet{Staff}, Children: []MenuItem{
		{Label: "Registrations", Path: "/lecturers/registrations", Rules: []RoleSet{Staff, LecturerManagers}},
		{Label: "Recommendations", Path: "/lecturers/recommendations", Rules: []RoleSet{Staff, ITFacultyOnly}},
	}},
	{Label: "Courses", Path: "/courses", Rules: []RoleSet{Staff}},
	{Label: "Documents", Path: "/documents"},
	{Label: "Users", Path: "/users", Rules: []RoleSet{EducationOnly}},
	{Label: "Logout", Path: "/logout"},
}

// Visible reports whether a menu entry guarded by rules should be shown
func (g *Guard) Visible(rules ...RoleSet) bool {
	return g.AuthorizeNested(append([]RoleSet{Authenticated}, rules...)...) == Render
}

// VisibleMenu filters items, and their children, down to what the visitor may open
func (g *Guard) VisibleMenu(items []MenuItem) []MenuItem {
	var out []MenuItem
	for _, item := range items {
		if !g.Visible(item.Rules...) {
			continue
		}
		item.Children = g.VisibleMenu(item.Children)
		out = append(out, item)
	}
	return out
}
