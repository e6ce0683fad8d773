package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/satriadw/hrm-portal/internal/attendance"
	"github.com/satriadw/hrm-portal/internal/dashboard"
	"github.com/satriadw/hrm-portal/internal/department"
	"github.com/satriadw/hrm-portal/internal/employee"
	"github.com/satriadw/hrm-portal/internal/face"
	"github.com/satriadw/hrm-portal/internal/leave"
	"github.com/satriadw/hrm-portal/internal/notification"
	"github.com/satriadw/hrm-portal/internal/payroll"
	"github.com/satriadw/hrm-portal/internal/portal"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport/middleware"
	"github.com/satriadw/hrm-portal/internal/transport/swagger"
	"github.com/satriadw/hrm-portal/internal/user"
)

// Handlers bundles every screen handler the router mounts.
type Handlers struct {
	Session      *session.Handler
	Portal       *portal.Handler
	Notification *notification.Handler
	Employee     *employee.Handler
	User         *user.Handler
	Department   *department.Handler
	Attendance   *attendance.Handler
	Leave        *leave.Handler
	Payroll      *payroll.Handler
	Dashboard    *dashboard.Handler
	Face         *face.Handler
}

// RegisterAllRoutes wires the whole portal surface. Guards are the only place
// authorization happens; the handlers behind them never check roles.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, guard *middleware.Guard, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, guard.Store())

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Entry point always bounces to the login screen; its public-only guard
	// then sends signed-in users on to their home.
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
	})
	router.With(guard.PublicOnly()).Get(middleware.LoginPath, screenHandler("login"))
	router.Get(middleware.UnauthorizedPath, screenHandler("unauthorized"))
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"screen":"not-found"}`))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Session.Login)
			sr.Post("/logout", h.Session.Logout)
		})

		// Authenticated API used by every screen's layout chrome.
		r.Group(func(pr chi.Router) {
			pr.Use(guard.Protected())

			pr.Get("/users/me", h.Session.CurrentUser)

			pr.Get("/navigation", h.Portal.GetNavigation)
			pr.Post("/view-mode", h.Portal.SetViewMode)

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Post("/subscribe", h.Notification.Subscribe)
				nr.Post("/unsubscribe", h.Notification.Unsubscribe)
				nr.Get("/", h.Notification.List)
				nr.Get("/unread-count", h.Notification.UnreadCount)
				nr.Put("/{id}/read", h.Notification.MarkRead)
				nr.Post("/{id}/click", h.Notification.Click)
				nr.Put("/mark-all-read", h.Notification.MarkAllRead)
			})
		})
	})

	// Administrator screens.
	router.Route("/admin", func(r chi.Router) {
		r.Use(guard.Protected(session.RoleAdministrator))

		r.Get("/dashboard", h.Dashboard.Stats)
		r.Route("/dashboard", func(dr chi.Router) {
			dr.Get("/stats", h.Dashboard.Stats)
			dr.Get("/trends", h.Dashboard.Trends)
			dr.Get("/by-department", h.Dashboard.ByDepartment)
			dr.Get("/gender", h.Dashboard.Gender)
			dr.Get("/recent-activities", h.Dashboard.RecentActivities)
		})

		r.Route("/employees", func(er chi.Router) {
			er.Get("/", h.Employee.List)
			er.Post("/", h.Employee.Create)
			er.Get("/{id}", h.Employee.Get)
			er.Put("/{id}", h.Employee.Update)
			er.Delete("/{id}", h.Employee.Delete)
		})

		r.Route("/users", func(ur chi.Router) {
			ur.Get("/", h.User.List)
			ur.Post("/", h.User.Create)
			ur.Put("/{id}", h.User.Update)
			ur.Delete("/{id}", h.User.Delete)
		})

		r.Route("/departments", func(dr chi.Router) {
			dr.Get("/", h.Department.List)
			dr.Post("/", h.Department.Create)
			dr.Put("/{id}", h.Department.Update)
			dr.Delete("/{id}", h.Department.Delete)
		})

		r.Route("/positions", func(pr chi.Router) {
			pr.Get("/", h.Department.ListPositions)
			pr.Post("/", h.Department.CreatePosition)
			pr.Put("/{id}", h.Department.UpdatePosition)
			pr.Delete("/{id}", h.Department.DeletePosition)
		})

		r.Get("/attendance", h.Attendance.ListAll)

		r.Route("/leave-requests", func(lr chi.Router) {
			lr.Get("/", h.Leave.ListAll)
			lr.Post("/{id}/approve", h.Leave.Approve)
			lr.Post("/{id}/reject", h.Leave.Reject)
		})

		r.Route("/payroll", func(pr chi.Router) {
			pr.Get("/", h.Payroll.ListAll)
			pr.Post("/calculate", h.Payroll.Calculate)
			pr.Get("/allowances", h.Payroll.Allowances)
			pr.Get("/deductions", h.Payroll.Deductions)
			pr.Post("/{id}/approve", h.Payroll.Approve)
			pr.Post("/{id}/pay", h.Payroll.Pay)
			pr.Post("/{id}/reject", h.Payroll.Reject)
		})

		r.Route("/face-recognition", func(fr chi.Router) {
			fr.Post("/upload-photo", h.Face.UploadPhoto)
			fr.Get("/employee/{code}/has-photo", h.Face.HasPhoto)
		})
	})

	// Employee portal: any authenticated account, including administrators
	// switching to their employee view. Manager screens refuse at the service
	// layer when the live capability scan finds no managed department.
	router.Route("/employee", func(r chi.Router) {
		r.Use(guard.Protected())

		r.Get("/dashboard", h.Portal.GetNavigation)
		r.Get("/profile", h.Employee.Profile)

		r.Route("/attendance", func(ar chi.Router) {
			ar.Get("/", h.Attendance.Mine)
			ar.Post("/checkin", h.Attendance.CheckIn)
			ar.Post("/checkout", h.Attendance.CheckOut)
		})
		r.Post("/face-attendance", h.Face.AttendanceCheck)

		r.Route("/leave-requests", func(lr chi.Router) {
			lr.Get("/", h.Leave.Mine)
			lr.Post("/", h.Leave.Create)
			lr.Post("/{id}/cancel", h.Leave.Cancel)
		})

		r.Get("/payroll", h.Payroll.Mine)

		// manager view screens
		r.Get("/team-management", h.Employee.Team)
		r.Get("/team-attendance", h.Attendance.Team)
		r.Route("/leave-approvals", func(lr chi.Router) {
			lr.Get("/", h.Leave.TeamPending)
			lr.Post("/{id}/approve", h.Leave.Approve)
			lr.Post("/{id}/reject", h.Leave.Reject)
		})
	})
}

// screenHandler answers with a minimal descriptor for screens that carry no
// data of their own.
func screenHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"screen":"` + name + `"}`))
	}
}
