package attendance

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/portal"
	"github.com/satriadw/hrm-portal/internal/session"
)

type API interface {
	ListAttendance(ctx context.Context, token string, filters url.Values) ([]hrmapi.AttendanceRecord, error)
	CheckIn(ctx context.Context, token string, body interface{}) (*hrmapi.AttendanceRecord, error)
	CheckOut(ctx context.Context, token string, body interface{}) (*hrmapi.AttendanceRecord, error)
}

// CapabilityChecker is the slice of the mode controller the team views need.
type CapabilityChecker interface {
	Capabilities(ctx context.Context, sess *session.Session) portal.Capabilities
}

type Service struct {
	client       API
	capabilities CapabilityChecker
	logger       *slog.Logger
}

func NewService(client API, capabilities CapabilityChecker, logger *slog.Logger) *Service {
	return &Service{client: client, capabilities: capabilities, logger: logger}
}

// ListAll serves the admin attendance screen, passing date and employee
// filters through to the backend.
func (s *Service) ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error) {
	return s.client.ListAttendance(ctx, sess.APIToken(), filters)
}

// Mine lists the session's own records. Accounts without a linked employee
// record have no attendance to show.
func (s *Service) Mine(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error) {
	if sess.EmployeeID == nil {
		return []hrmapi.AttendanceRecord{}, nil
	}

	if filters == nil {
		filters = url.Values{}
	}
	filters.Set("employee_id", strconv.FormatInt(*sess.EmployeeID, 10))
	return s.client.ListAttendance(ctx, sess.APIToken(), filters)
}

// Team lists records for the session's managed department. The capability is
// recomputed live, so a revoked manager reference refuses immediately.
func (s *Service) Team(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error) {
	caps := s.capabilities.Capabilities(ctx, sess)
	if !caps.IsManager || caps.ManagedDepartment == nil {
		return nil, internal.ErrNotManager
	}

	if filters == nil {
		filters = url.Values{}
	}
	filters.Set("department_id", strconv.FormatInt(caps.ManagedDepartment.DepartmentID, 10))
	return s.client.ListAttendance(ctx, sess.APIToken(), filters)
}

func (s *Service) CheckIn(ctx context.Context, sess *session.Session) (*hrmapi.AttendanceRecord, error) {
	if sess.EmployeeID == nil {
		return nil, internal.NewNotFoundError("no employee record linked to this account", internal.ErrCodeEmployeeNotFound)
	}
	return s.client.CheckIn(ctx, sess.APIToken(), map[string]interface{}{
		"employee_id": *sess.EmployeeID,
	})
}

func (s *Service) CheckOut(ctx context.Context, sess *session.Session) (*hrmapi.AttendanceRecord, error) {
	if sess.EmployeeID == nil {
		return nil, internal.NewNotFoundError("no employee record linked to this account", internal.ErrCodeEmployeeNotFound)
	}
	return s.client.CheckOut(ctx, sess.APIToken(), map[string]interface{}{
		"employee_id": *sess.EmployeeID,
	})
}
