package portal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

// DepartmentLister is the slice of the upstream client the mode controller
// needs: the live department list its capability scan runs over.
type DepartmentLister interface {
	ListDepartments(ctx context.Context, token string) ([]hrmapi.Department, error)
}

// Service is the mode controller for the employee portal's dual view. It
// derives managerial capability by cross-referencing the session's employee
// identifier against department manager references and tracks each session's
// ephemeral view mode.
type Service struct {
	departments DepartmentLister
	logger      *slog.Logger

	mu          sync.Mutex
	managerMode map[string]bool
}

func NewService(departments DepartmentLister, logger *slog.Logger) *Service {
	return &Service{
		departments: departments,
		logger:      logger,
		managerMode: make(map[string]bool),
	}
}

// Capabilities recomputes the derived flags from a live department fetch. A
// failed fetch degrades to the plain employee view: logged, never surfaced as
// a blocking failure.
func (s *Service) Capabilities(ctx context.Context, sess *session.Session) Capabilities {
	caps := Capabilities{
		CanSwitchToAdmin:    sess.IsAdmin(),
		CanSwitchToEmployee: sess.IsAdmin() && sess.EmployeeID != nil,
	}

	if sess.EmployeeID == nil {
		return caps
	}

	departments, err := s.departments.ListDepartments(ctx, sess.APIToken())
	if err != nil {
		s.logger.Warn("capability scan degraded: department fetch failed",
			"session_id", sess.ID,
			"error", err)
		return caps
	}

	for i := range departments {
		d := departments[i]
		if d.ManagerID != nil && *d.ManagerID == *sess.EmployeeID {
			caps.IsManager = true
			caps.ManagedDepartment = &d
			break
		}
	}

	return caps
}

// ViewMode reports the session's current toggle state, defaulting to
// employee mode.
func (s *Service) ViewMode(sess *session.Session) ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.managerMode[sess.ID] {
		return ModeManager
	}
	return ModeEmployee
}

// SetViewMode flips the toggle. Only an explicit user action lands here, and
// manager mode is refused unless the live capability scan confirms a managed
// department.
func (s *Service) SetViewMode(ctx context.Context, sess *session.Session, mode ViewMode) (NavigationView, error) {
	if !mode.Valid() {
		return NavigationView{}, internal.NewValidationError("view mode must be employee or manager", internal.ErrCodeInvalidViewMode)
	}

	caps := s.Capabilities(ctx, sess)
	if mode == ModeManager && !caps.IsManager {
		return NavigationView{}, internal.ErrNotManager
	}

	s.mu.Lock()
	if mode == ModeManager {
		s.managerMode[sess.ID] = true
	} else {
		delete(s.managerMode, sess.ID)
	}
	s.mu.Unlock()

	return s.render(mode, caps), nil
}

// Navigation renders the menu for the session's current view mode. When the
// toggle says manager but the live scan no longer finds a managed department,
// the mode silently falls back to the employee view.
func (s *Service) Navigation(ctx context.Context, sess *session.Session) NavigationView {
	caps := s.Capabilities(ctx, sess)
	mode := s.ViewMode(sess)
	if mode == ModeManager && !caps.IsManager {
		mode = ModeEmployee
	}
	return s.render(mode, caps)
}

// Forget drops a session's toggle state, called on logout.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.managerMode, sessionID)
	s.mu.Unlock()
}

func (s *Service) render(mode ViewMode, caps Capabilities) NavigationView {
	menu := EmployeeMenu()
	if mode == ModeManager {
		menu = ManagerMenu()
	}
	return NavigationView{
		Mode:         mode,
		Menu:         menu,
		Capabilities: caps,
	}
}
