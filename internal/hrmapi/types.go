package hrmapi

import (
	"encoding/json"
	"time"
)

// Envelope is the response contract of the HRM backend: every payload arrives
// as {data, message}. A missing data field decodes to the zero value, never an
// error.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	EmployeeID  *int64 `json:"employee_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Employee struct {
	EmployeeID   int64   `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	PhotoFile    string  `json:"photo_file,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	PositionID   *int64  `json:"position_id,omitempty"`
	BaseSalary   float64 `json:"base_salary,omitempty"`
	HireDate     string  `json:"hire_date,omitempty"`
	Status       string  `json:"status,omitempty"`
}

type Department struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	ManagerID      *int64 `json:"manager_id,omitempty"`
}

type Position struct {
	PositionID   int64  `json:"position_id"`
	PositionName string `json:"position_name"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

type AttendanceRecord struct {
	AttendanceID int64  `json:"attendance_id"`
	EmployeeID   int64  `json:"employee_id"`
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Status       string `json:"status,omitempty"`
	PhotoFile    string `json:"photo_file,omitempty"`
}

type LeaveRequest struct {
	LeaveID    int64  `json:"leave_id"`
	EmployeeID int64  `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
}

type PayrollRecord struct {
	PayrollID       int64   `json:"payroll_id"`
	EmployeeID      int64   `json:"employee_id"`
	Period          string  `json:"period"`
	BaseSalary      float64 `json:"base_salary"`
	TotalAllowances float64 `json:"total_allowances"`
	TotalDeductions float64 `json:"total_deductions"`
	NetSalary       float64 `json:"net_salary"`
	Status          string  `json:"status"`
}

type Allowance struct {
	AllowanceID int64   `json:"allowance_id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
}

type Deduction struct {
	DeductionID int64   `json:"deduction_id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UnreadCount struct {
	Count int `json:"count"`
}

type DashboardStats struct {
	TotalEmployees   int `json:"total_employees"`
	TotalDepartments int `json:"total_departments"`
	PresentToday     int `json:"present_today"`
	PendingLeaves    int `json:"pending_leaves"`
}

type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DepartmentCount struct {
	DepartmentName string `json:"department_name"`
	Count          int    `json:"count"`
}

type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

type Activity struct {
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type FaceMatch struct {
	Matched      bool              `json:"matched"`
	EmployeeCode string            `json:"employee_code,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	Attendance   *AttendanceRecord `json:"attendance,omitempty"`
}

type HasPhoto struct {
	HasPhoto bool `json:"has_photo"`
}
