package employee

import (
	"context"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/portal"
	"github.com/satriadw/hrm-portal/internal/session"
)

// API is the slice of the upstream client this feature uses.
type API interface {
	ListEmployees(ctx context.Context, token string) ([]hrmapi.Employee, error)
	GetEmployee(ctx context.Context, token string, id int64) (*hrmapi.Employee, error)
	CreateEmployee(ctx context.Context, token string, body interface{}) (*hrmapi.Employee, error)
	UpdateEmployee(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.Employee, error)
	DeleteEmployee(ctx context.Context, token string, id int64) error
	PhotoURL(filename string) string
}

// CapabilityChecker is the slice of the mode controller the team view needs.
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

// View decorates a backend employee with the resolved photo URL.
type View struct {
	hrmapi.Employee
	PhotoURL string `json:"photo_url,omitempty"`
}

func (s *Service) toView(e hrmapi.Employee) View {
	view := View{Employee: e}
	if e.PhotoFile != "" {
		view.PhotoURL = s.client.PhotoURL(e.PhotoFile)
	}
	return view
}

func (s *Service) List(ctx context.Context, sess *session.Session) ([]View, error) {
	employees, err := s.client.ListEmployees(ctx, sess.APIToken())
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	views := make([]View, 0, len(employees))
	for _, e := range employees {
		views = append(views, s.toView(e))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, sess *session.Session, id int64) (*View, error) {
	e, err := s.client.GetEmployee(ctx, sess.APIToken(), id)
	if err != nil {
		return nil, err
	}
	view := s.toView(*e)
	return &view, nil
}

// Profile resolves the session's own employee record.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (*View, error) {
	if sess.EmployeeID == nil {
		return nil, internal.NewNotFoundError("no employee record linked to this account", internal.ErrCodeEmployeeNotFound)
	}
	return s.Get(ctx, sess, *sess.EmployeeID)
}

// Team lists the session's managed department members. The capability is
// recomputed live on every call.
func (s *Service) Team(ctx context.Context, sess *session.Session) ([]View, error) {
	caps := s.capabilities.Capabilities(ctx, sess)
	if !caps.IsManager || caps.ManagedDepartment == nil {
		return nil, internal.ErrNotManager
	}

	employees, err := s.client.ListEmployees(ctx, sess.APIToken())
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(employees))
	for _, e := range employees {
		if e.DepartmentID != nil && *e.DepartmentID == caps.ManagedDepartment.DepartmentID {
			views = append(views, s.toView(e))
		}
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, sess *session.Session, body map[string]interface{}) (*View, error) {
	e, err := s.client.CreateEmployee(ctx, sess.APIToken(), body)
	if err != nil {
		return nil, err
	}
	view := s.toView(*e)
	return &view, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*View, error) {
	e, err := s.client.UpdateEmployee(ctx, sess.APIToken(), id, body)
	if err != nil {
		return nil, err
	}
	view := s.toView(*e)
	return &view, nil
}

func (s *Service) Delete(ctx context.Context, sess *session.Session, id int64) error {
	return s.client.DeleteEmployee(ctx, sess.APIToken(), id)
}
