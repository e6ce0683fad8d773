package portal_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/portal"
	"github.com/satriadw/hrm-portal/internal/session"
)

func TestPortalService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Portal Mode Controller Suite")
}

// MockDepartmentLister implements portal.DepartmentLister for testing
type MockDepartmentLister struct {
	departments []hrmapi.Department
	err         error
	calls       int
}

func (m *MockDepartmentLister) ListDepartments(ctx context.Context, token string) ([]hrmapi.Department, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.departments, nil
}

var _ = Describe("Portal Mode Controller", func() {
	var (
		lister  *MockDepartmentLister
		service *portal.Service
	)

	managerID := int64(7)
	otherID := int64(12)

	sess := func(employeeID *int64, role session.Role) *session.Session {
		return &session.Session{ID: "sess-1", UserID: 1, EmployeeID: employeeID, Role: role}
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		lister = &MockDepartmentLister{
			departments: []hrmapi.Department{
				{DepartmentID: 1, DepartmentName: "Engineering", ManagerID: &managerID},
				{DepartmentID: 2, DepartmentName: "Finance", ManagerID: &otherID},
				{DepartmentID: 3, DepartmentName: "Operations"},
			},
		}
		service = portal.NewService(lister, logger)
	})

	Describe("Capabilities", func() {
		It("derives manager capability from department ownership", func() {
			caps := service.Capabilities(context.Background(), sess(&managerID, session.RoleEmployee))

			Expect(caps.IsManager).To(BeTrue())
			Expect(caps.ManagedDepartment).NotTo(BeNil())
			Expect(caps.ManagedDepartment.DepartmentName).To(Equal("Engineering"))
		})

		It("finds no capability for a plain employee", func() {
			plainID := int64(99)
			caps := service.Capabilities(context.Background(), sess(&plainID, session.RoleEmployee))

			Expect(caps.IsManager).To(BeFalse())
			Expect(caps.ManagedDepartment).To(BeNil())
		})

		It("skips the department scan for accounts with no employee record", func() {
			caps := service.Capabilities(context.Background(), sess(nil, session.RoleAdministrator))

			Expect(caps.IsManager).To(BeFalse())
			Expect(caps.CanSwitchToAdmin).To(BeTrue())
			Expect(caps.CanSwitchToEmployee).To(BeFalse())
			Expect(lister.calls).To(BeZero())
		})

		It("degrades to the employee view when the department fetch fails", func() {
			lister.err = errors.New("upstream down")

			caps := service.Capabilities(context.Background(), sess(&managerID, session.RoleEmployee))
			Expect(caps.IsManager).To(BeFalse())
		})

		It("recomputes on every call instead of caching", func() {
			s := sess(&managerID, session.RoleEmployee)
			Expect(service.Capabilities(context.Background(), s).IsManager).To(BeTrue())

			lister.departments[0].ManagerID = &otherID
			Expect(service.Capabilities(context.Background(), s).IsManager).To(BeFalse())
			Expect(lister.calls).To(Equal(2))
		})
	})

	Describe("Navigation", func() {
		It("renders the six employee screens by default", func() {
			view := service.Navigation(context.Background(), sess(&managerID, session.RoleEmployee))

			Expect(view.Mode).To(Equal(portal.ModeEmployee))
			Expect(view.Menu).To(HaveLen(6))
			Expect(view.Menu[0].Path).To(Equal("/employee/dashboard"))
		})

		It("renders the nine manager screens after switching", func() {
			s := sess(&managerID, session.RoleEmployee)
			view, err := service.SetViewMode(context.Background(), s, portal.ModeManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Mode).To(Equal(portal.ModeManager))
			Expect(view.Menu).To(HaveLen(9))
			Expect(view.Menu[8].Path).To(Equal("/employee/leave-approvals"))

			Expect(service.Navigation(context.Background(), s).Menu).To(HaveLen(9))
		})

		It("falls back silently when the capability disappears mid-session", func() {
			s := sess(&managerID, session.RoleEmployee)
			_, err := service.SetViewMode(context.Background(), s, portal.ModeManager)
			Expect(err).NotTo(HaveOccurred())

			lister.departments[0].ManagerID = nil

			view := service.Navigation(context.Background(), s)
			Expect(view.Mode).To(Equal(portal.ModeEmployee))
			Expect(view.Menu).To(HaveLen(6))
		})
	})

	Describe("SetViewMode", func() {
		It("refuses manager mode without a managed department", func() {
			plainID := int64(99)
			_, err := service.SetViewMode(context.Background(), sess(&plainID, session.RoleEmployee), portal.ModeManager)
			Expect(err).To(MatchError(internal.ErrNotManager))
		})

		It("refuses unknown modes", func() {
			_, err := service.SetViewMode(context.Background(), sess(&managerID, session.RoleEmployee), "supervisor")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidViewMode))
		})

		It("switching back to employee mode always succeeds", func() {
			s := sess(&managerID, session.RoleEmployee)
			_, err := service.SetViewMode(context.Background(), s, portal.ModeManager)
			Expect(err).NotTo(HaveOccurred())

			view, err := service.SetViewMode(context.Background(), s, portal.ModeEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Mode).To(Equal(portal.ModeEmployee))
		})
	})

	Describe("Forget", func() {
		It("resets the toggle so the next session starts in employee mode", func() {
			s := sess(&managerID, session.RoleEmployee)
			_, err := service.SetViewMode(context.Background(), s, portal.ModeManager)
			Expect(err).NotTo(HaveOccurred())

			service.Forget(s.ID)
			Expect(service.ViewMode(s)).To(Equal(portal.ModeEmployee))
		})
	})
})
