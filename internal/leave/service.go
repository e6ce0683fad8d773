package leave

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
	ListLeaveRequests(ctx context.Context, token string, filters url.Values) ([]hrmapi.LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, token string, body interface{}) (*hrmapi.LeaveRequest, error)
	ApproveLeaveRequest(ctx context.Context, token string, id int64) (*hrmapi.LeaveRequest, error)
	RejectLeaveRequest(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.LeaveRequest, error)
	CancelLeaveRequest(ctx context.Context, token string, id int64) (*hrmapi.LeaveRequest, error)
}

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

func (s *Service) ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.LeaveRequest, error) {
	return s.client.ListLeaveRequests(ctx, sess.APIToken(), filters)
}

func (s *Service) Mine(ctx context.Context, sess *session.Session) ([]hrmapi.LeaveRequest, error) {
	if sess.EmployeeID == nil {
		return []hrmapi.LeaveRequest{}, nil
	}

	filters := url.Values{}
	filters.Set("employee_id", strconv.FormatInt(*sess.EmployeeID, 10))
	return s.client.ListLeaveRequests(ctx, sess.APIToken(), filters)
}

// TeamPending lists the managed department's requests awaiting decision.
func (s *Service) TeamPending(ctx context.Context, sess *session.Session) ([]hrmapi.LeaveRequest, error) {
	caps := s.capabilities.Capabilities(ctx, sess)
	if !caps.IsManager || caps.ManagedDepartment == nil {
		return nil, internal.ErrNotManager
	}

	filters := url.Values{}
	filters.Set("department_id", strconv.FormatInt(caps.ManagedDepartment.DepartmentID, 10))
	filters.Set("status", "pending")
	return s.client.ListLeaveRequests(ctx, sess.APIToken(), filters)
}

func (s *Service) Create(ctx context.Context, sess *session.Session, dto CreateRequestDTO) (*hrmapi.LeaveRequest, error) {
	if sess.EmployeeID == nil {
		return nil, internal.NewNotFoundError("no employee record linked to this account", internal.ErrCodeEmployeeNotFound)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	return s.client.CreateLeaveRequest(ctx, sess.APIToken(), map[string]interface{}{
		"employee_id": *sess.EmployeeID,
		"leave_type":  dto.LeaveType,
		"start_date":  dto.StartDate,
		"end_date":    dto.EndDate,
		"reason":      dto.Reason,
	})
}

// Approve and Reject are open to admins and to managers for their own
// department. The backend is the authority on which requests a token may
// decide; the gateway only refuses callers with no approval surface at all.
func (s *Service) Approve(ctx context.Context, sess *session.Session, id int64) (*hrmapi.LeaveRequest, error) {
	if err := s.requireApprover(ctx, sess); err != nil {
		return nil, err
	}
	return s.client.ApproveLeaveRequest(ctx, sess.APIToken(), id)
}

func (s *Service) Reject(ctx context.Context, sess *session.Session, id int64, dto RejectDTO) (*hrmapi.LeaveRequest, error) {
	if err := s.requireApprover(ctx, sess); err != nil {
		return nil, err
	}
	return s.client.RejectLeaveRequest(ctx, sess.APIToken(), id, map[string]interface{}{
		"reason": dto.Reason,
	})
}

func (s *Service) Cancel(ctx context.Context, sess *session.Session, id int64) (*hrmapi.LeaveRequest, error) {
	return s.client.CancelLeaveRequest(ctx, sess.APIToken(), id)
}

func (s *Service) requireApprover(ctx context.Context, sess *session.Session) error {
	if sess.IsAdmin() {
		return nil
	}
	caps := s.capabilities.Capabilities(ctx, sess)
	if !caps.IsManager {
		return internal.ErrNotManager
	}
	return nil
}
