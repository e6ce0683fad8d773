package hrmapi

import (
	"context"
	"fmt"
	"net/url"
)

// Auth.

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "/auth/login", "", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout is fire-and-forget on the backend side; the gateway's own session
// teardown never depends on it succeeding.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/logout", token, nil, nil)
}

// Users.

func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var users []User
	err := c.get(ctx, "/users", token, &users)
	return users, err
}

func (c *Client) CreateUser(ctx context.Context, token string, body interface{}) (*User, error) {
	var u User
	if err := c.post(ctx, "/users", token, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, body interface{}) (*User, error) {
	var u User
	if err := c.put(ctx, fmt.Sprintf("/users/%d", id), token, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id), token)
}

// Employees.

func (c *Client) ListEmployees(ctx context.Context, token string) ([]Employee, error) {
	var employees []Employee
	err := c.get(ctx, "/employees", token, &employees)
	return employees, err
}

func (c *Client) GetEmployee(ctx context.Context, token string, id int64) (*Employee, error) {
	var e Employee
	if err := c.get(ctx, fmt.Sprintf("/employees/%d", id), token, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEmployee(ctx context.Context, token string, body interface{}) (*Employee, error) {
	var e Employee
	if err := c.post(ctx, "/employees", token, body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, token string, id int64, body interface{}) (*Employee, error) {
	var e Employee
	if err := c.put(ctx, fmt.Sprintf("/employees/%d", id), token, body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/employees/%d", id), token)
}

// Departments and positions.

func (c *Client) ListDepartments(ctx context.Context, token string) ([]Department, error) {
	var departments []Department
	err := c.get(ctx, "/departments", token, &departments)
	return departments, err
}

func (c *Client) CreateDepartment(ctx context.Context, token string, body interface{}) (*Department, error) {
	var d Department
	if err := c.post(ctx, "/departments", token, body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, token string, id int64, body interface{}) (*Department, error) {
	var d Department
	if err := c.put(ctx, fmt.Sprintf("/departments/%d", id), token, body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/departments/%d", id), token)
}

func (c *Client) ListPositions(ctx context.Context, token string) ([]Position, error) {
	var positions []Position
	err := c.get(ctx, "/positions", token, &positions)
	return positions, err
}

func (c *Client) CreatePosition(ctx context.Context, token string, body interface{}) (*Position, error) {
	var p Position
	if err := c.post(ctx, "/positions", token, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePosition(ctx context.Context, token string, id int64, body interface{}) (*Position, error) {
	var p Position
	if err := c.put(ctx, fmt.Sprintf("/positions/%d", id), token, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePosition(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/positions/%d", id), token)
}

// Attendance.

func (c *Client) ListAttendance(ctx context.Context, token string, filters url.Values) ([]AttendanceRecord, error) {
	path := "/attendance"
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}
	var records []AttendanceRecord
	err := c.get(ctx, path, token, &records)
	return records, err
}

func (c *Client) CheckIn(ctx context.Context, token string, body interface{}) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	if err := c.post(ctx, "/attendance/checkin", token, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) CheckOut(ctx context.Context, token string, body interface{}) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	if err := c.post(ctx, "/attendance/checkout", token, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Leave requests.

func (c *Client) ListLeaveRequests(ctx context.Context, token string, filters url.Values) ([]LeaveRequest, error) {
	path := "/leave_requests"
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}
	var requests []LeaveRequest
	err := c.get(ctx, path, token, &requests)
	return requests, err
}

func (c *Client) CreateLeaveRequest(ctx context.Context, token string, body interface{}) (*LeaveRequest, error) {
	var lr LeaveRequest
	if err := c.post(ctx, "/leave_requests", token, body, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

func (c *Client) ApproveLeaveRequest(ctx context.Context, token string, id int64) (*LeaveRequest, error) {
	var lr LeaveRequest
	if err := c.post(ctx, fmt.Sprintf("/leave_requests/%d/approve", id), token, nil, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

func (c *Client) RejectLeaveRequest(ctx context.Context, token string, id int64, body interface{}) (*LeaveRequest, error) {
	var lr LeaveRequest
	if err := c.post(ctx, fmt.Sprintf("/leave_requests/%d/reject", id), token, body, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

func (c *Client) CancelLeaveRequest(ctx context.Context, token string, id int64) (*LeaveRequest, error) {
	var lr LeaveRequest
	if err := c.post(ctx, fmt.Sprintf("/leave_requests/%d/cancel", id), token, nil, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

// Payroll.

func (c *Client) ListPayroll(ctx context.Context, token string, filters url.Values) ([]PayrollRecord, error) {
	path := "/payroll"
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}
	var records []PayrollRecord
	err := c.get(ctx, path, token, &records)
	return records, err
}

func (c *Client) CalculatePayroll(ctx context.Context, token string, body interface{}) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := c.post(ctx, "/payroll/calculate", token, body, &records)
	return records, err
}

func (c *Client) ApprovePayroll(ctx context.Context, token string, id int64) (*PayrollRecord, error) {
	var rec PayrollRecord
	if err := c.post(ctx, fmt.Sprintf("/payroll/%d/approve", id), token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) PayPayroll(ctx context.Context, token string, id int64) (*PayrollRecord, error) {
	var rec PayrollRecord
	if err := c.post(ctx, fmt.Sprintf("/payroll/%d/pay", id), token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) RejectPayroll(ctx context.Context, token string, id int64, body interface{}) (*PayrollRecord, error) {
	var rec PayrollRecord
	if err := c.post(ctx, fmt.Sprintf("/payroll/%d/reject", id), token, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) ListAllowances(ctx context.Context, token string) ([]Allowance, error) {
	var allowances []Allowance
	err := c.get(ctx, "/allowances", token, &allowances)
	return allowances, err
}

func (c *Client) ListDeductions(ctx context.Context, token string) ([]Deduction, error) {
	var deductions []Deduction
	err := c.get(ctx, "/deductions", token, &deductions)
	return deductions, err
}

// Notifications.

func (c *Client) ListNotifications(ctx context.Context, token string) ([]Notification, error) {
	var notifications []Notification
	err := c.get(ctx, "/notifications", token, &notifications)
	return notifications, err
}

func (c *Client) UnreadNotificationCount(ctx context.Context, token string) (int, error) {
	var count UnreadCount
	if err := c.get(ctx, "/notifications/unread-count", token, &count); err != nil {
		return 0, err
	}
	return count.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id int64) error {
	return c.put(ctx, fmt.Sprintf("/notifications/%d/read", id), token, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	return c.put(ctx, "/notifications/mark-all-read", token, nil, nil)
}

// Dashboard.

func (c *Client) DashboardStats(ctx context.Context, token string) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/dashboard/stats", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) DashboardTrends(ctx context.Context, token string) ([]TrendPoint, error) {
	var points []TrendPoint
	err := c.get(ctx, "/dashboard/trends", token, &points)
	return points, err
}

func (c *Client) DashboardByDepartment(ctx context.Context, token string) ([]DepartmentCount, error) {
	var counts []DepartmentCount
	err := c.get(ctx, "/dashboard/by-department", token, &counts)
	return counts, err
}

func (c *Client) DashboardGender(ctx context.Context, token string) ([]GenderCount, error) {
	var counts []GenderCount
	err := c.get(ctx, "/dashboard/gender", token, &counts)
	return counts, err
}

func (c *Client) DashboardRecentActivities(ctx context.Context, token string) ([]Activity, error) {
	var activities []Activity
	err := c.get(ctx, "/dashboard/recent-activities", token, &activities)
	return activities, err
}
