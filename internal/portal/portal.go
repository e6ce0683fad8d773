package portal

import "github.com/satriadw/hrm-portal/internal/hrmapi"

// ViewMode is the employee portal's ephemeral dual-view toggle. It is held in
// process memory per session, defaults to employee mode, and is never
// persisted: a restart or a fresh session starts over in employee mode.
type ViewMode string

const (
	ModeEmployee ViewMode = "employee"
	ModeManager  ViewMode = "manager"
)

func (m ViewMode) Valid() bool {
	return m == ModeEmployee || m == ModeManager
}

// MenuItem is one (path, icon, label) tuple of a portal menu. Menus are fixed
// ordered lists; nothing is computed at render time beyond choosing which
// list applies.
type MenuItem struct {
	Path  string `json:"path"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

var employeeMenu = []MenuItem{
	{Path: "/employee/dashboard", Icon: "home", Label: "Dashboard"},
	{Path: "/employee/attendance", Icon: "clock", Label: "Attendance"},
	{Path: "/employee/face-attendance", Icon: "camera", Label: "Face Attendance"},
	{Path: "/employee/leave-requests", Icon: "calendar", Label: "Leave Requests"},
	{Path: "/employee/payroll", Icon: "wallet", Label: "Payroll"},
	{Path: "/employee/profile", Icon: "user", Label: "My Profile"},
}

var managerMenu = append(append([]MenuItem{}, employeeMenu...),
	MenuItem{Path: "/employee/team-management", Icon: "users", Label: "Team Management"},
	MenuItem{Path: "/employee/team-attendance", Icon: "clipboard", Label: "Team Attendance"},
	MenuItem{Path: "/employee/leave-approvals", Icon: "check-square", Label: "Leave Approvals"},
)

// EmployeeMenu returns the 6-item employee menu.
func EmployeeMenu() []MenuItem {
	return employeeMenu
}

// ManagerMenu returns the 9-item manager menu (employee menu plus the team
// screens, fixed order).
func ManagerMenu() []MenuItem {
	return managerMenu
}

// Capabilities are derived per request from a live department fetch. They are
// never cached on the session and must not be treated as static facts about
// the role.
type Capabilities struct {
	IsManager           bool               `json:"is_manager"`
	ManagedDepartment   *hrmapi.Department `json:"managed_department,omitempty"`
	CanSwitchToAdmin    bool               `json:"can_switch_to_admin"`
	CanSwitchToEmployee bool               `json:"can_switch_to_employee"`
}

// NavigationView is the rendered navigation state for the employee portal
// layout: the active menu plus every affordance the client may show.
type NavigationView struct {
	Mode ViewMode   `json:"mode"`
	Menu []MenuItem `json:"menu"`
	Capabilities
}
