package payroll

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

// periodPattern matches the backend's YYYY-MM payroll period format.
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type API interface {
	ListPayroll(ctx context.Context, token string, filters url.Values) ([]hrmapi.PayrollRecord, error)
	CalculatePayroll(ctx context.Context, token string, body interface{}) ([]hrmapi.PayrollRecord, error)
	ApprovePayroll(ctx context.Context, token string, id int64) (*hrmapi.PayrollRecord, error)
	PayPayroll(ctx context.Context, token string, id int64) (*hrmapi.PayrollRecord, error)
	RejectPayroll(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.PayrollRecord, error)
	ListAllowances(ctx context.Context, token string) ([]hrmapi.Allowance, error)
	ListDeductions(ctx context.Context, token string) ([]hrmapi.Deduction, error)
}

type Service struct {
	client API
	logger *slog.Logger
}

func NewService(client API, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.PayrollRecord, error) {
	return s.client.ListPayroll(ctx, sess.APIToken(), filters)
}

func (s *Service) Mine(ctx context.Context, sess *session.Session) ([]hrmapi.PayrollRecord, error) {
	if sess.EmployeeID == nil {
		return []hrmapi.PayrollRecord{}, nil
	}

	filters := url.Values{}
	filters.Set("employee_id", strconv.FormatInt(*sess.EmployeeID, 10))
	return s.client.ListPayroll(ctx, sess.APIToken(), filters)
}

// Calculate runs the backend's payroll computation for one period.
func (s *Service) Calculate(ctx context.Context, sess *session.Session, period string) ([]hrmapi.PayrollRecord, error) {
	if !periodPattern.MatchString(period) {
		return nil, internal.NewValidationError("period must be YYYY-MM", internal.ErrCodeValidationFailed)
	}
	return s.client.CalculatePayroll(ctx, sess.APIToken(), map[string]interface{}{
		"period": period,
	})
}

func (s *Service) Approve(ctx context.Context, sess *session.Session, id int64) (*hrmapi.PayrollRecord, error) {
	return s.client.ApprovePayroll(ctx, sess.APIToken(), id)
}

func (s *Service) Pay(ctx context.Context, sess *session.Session, id int64) (*hrmapi.PayrollRecord, error) {
	return s.client.PayPayroll(ctx, sess.APIToken(), id)
}

func (s *Service) Reject(ctx context.Context, sess *session.Session, id int64, reason string) (*hrmapi.PayrollRecord, error) {
	return s.client.RejectPayroll(ctx, sess.APIToken(), id, map[string]interface{}{
		"reason": reason,
	})
}

func (s *Service) Allowances(ctx context.Context, sess *session.Session) ([]hrmapi.Allowance, error) {
	return s.client.ListAllowances(ctx, sess.APIToken())
}

func (s *Service) Deductions(ctx context.Context, sess *session.Session) ([]hrmapi.Deduction, error) {
	return s.client.ListDeductions(ctx, sess.APIToken())
}
