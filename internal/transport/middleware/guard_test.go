package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport/middleware"
)

func TestGuard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Route Guard Suite")
}

// MockResolver implements middleware.SessionResolver for testing
type MockResolver struct {
	ready       bool
	sessions    map[string]*session.Session
	invalidated []string
}

func NewMockResolver() *MockResolver {
	return &MockResolver{ready: true, sessions: make(map[string]*session.Session)}
}

func (m *MockResolver) Resolve(tokenString string) (*session.Session, error) {
	if !m.ready {
		return nil, internal.ErrStoreNotReady
	}
	if sess, ok := m.sessions[tokenString]; ok {
		return sess, nil
	}
	return nil, internal.ErrSessionNotFound
}

func (m *MockResolver) Invalidate(ctx context.Context, sessionID string) {
	m.invalidated = append(m.invalidated, sessionID)
}

func (m *MockResolver) Ready() bool {
	return m.ready
}

var _ = Describe("Route Guard", func() {
	var (
		resolver *MockResolver
		guard    *middleware.Guard
	)

	adminSession := &session.Session{ID: "sess-admin", UserID: 1, Role: session.RoleAdministrator}
	employeeSession := &session.Session{ID: "sess-emp", UserID: 2, Role: session.RoleEmployee}

	BeforeEach(func() {
		resolver = NewMockResolver()
		resolver.sessions["admin-token"] = adminSession
		resolver.sessions["employee-token"] = employeeSession

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard = middleware.NewGuard(resolver, logger)
	})

	request := func(token string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/admin/employees", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		return r
	}

	Describe("Protected", func() {
		var (
			handlerRan  bool
			seenSession *session.Session
			next        http.Handler
		)

		BeforeEach(func() {
			handlerRan = false
			seenSession = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerRan = true
				seenSession, _ = session.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})

		Context("while the store is loading", func() {
			BeforeEach(func() {
				resolver.ready = false
			})

			It("answers a placeholder and never redirects", func() {
				rec := httptest.NewRecorder()
				guard.Protected()(next).ServeHTTP(rec, request("admin-token"))

				Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
				Expect(rec.Header().Get("Location")).To(BeEmpty())
				Expect(rec.Header().Get("Retry-After")).NotTo(BeEmpty())
				Expect(rec.Body.String()).To(ContainSubstring("loading"))
				Expect(handlerRan).To(BeFalse())
			})
		})

		It("redirects anonymous requests to the login screen", func() {
			rec := httptest.NewRecorder()
			guard.Protected()(next).ServeHTTP(rec, request(""))

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(middleware.LoginPath))
			Expect(handlerRan).To(BeFalse())
		})

		It("redirects the wrong role to the unauthorized screen", func() {
			rec := httptest.NewRecorder()
			guard.Protected(session.RoleAdministrator)(next).ServeHTTP(rec, request("employee-token"))

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(middleware.UnauthorizedPath))
			Expect(handlerRan).To(BeFalse())
		})

		It("redirects pending accounts to the unauthorized screen", func() {
			resolver.sessions["pending-token"] = &session.Session{
				ID:     "sess-pending",
				UserID: 3,
				Role:   session.RoleEmployee,
				Status: session.StatusPending,
			}

			rec := httptest.NewRecorder()
			guard.Protected()(next).ServeHTTP(rec, request("pending-token"))

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(middleware.UnauthorizedPath))
			Expect(handlerRan).To(BeFalse())
		})

		It("admits the permitted role and injects the session", func() {
			rec := httptest.NewRecorder()
			guard.Protected(session.RoleAdministrator)(next).ServeHTTP(rec, request("admin-token"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(handlerRan).To(BeTrue())
			Expect(seenSession).To(Equal(adminSession))
		})

		It("admits any authenticated session when no roles are listed", func() {
			rec := httptest.NewRecorder()
			guard.Protected()(next).ServeHTTP(rec, request("employee-token"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(handlerRan).To(BeTrue())
		})

		Context("when the screen behind it answers 401", func() {
			BeforeEach(func() {
				next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":"token expired"}`))
				})
			})

			It("invalidates the session and redirects to login", func() {
				rec := httptest.NewRecorder()
				guard.Protected()(next).ServeHTTP(rec, request("employee-token"))

				Expect(rec.Code).To(Equal(http.StatusSeeOther))
				Expect(rec.Header().Get("Location")).To(Equal(middleware.LoginPath))
				Expect(rec.Body.String()).To(BeEmpty())
				Expect(resolver.invalidated).To(ConsistOf("sess-emp"))
			})
		})
	})

	Describe("PublicOnly", func() {
		var (
			handlerRan bool
			next       http.Handler
		)

		BeforeEach(func() {
			handlerRan = false
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerRan = true
				w.WriteHeader(http.StatusOK)
			})
		})

		Context("while the store is loading", func() {
			BeforeEach(func() {
				resolver.ready = false
			})

			It("answers the placeholder instead of guessing a redirect", func() {
				rec := httptest.NewRecorder()
				guard.PublicOnly()(next).ServeHTTP(rec, request(""))

				Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
				Expect(rec.Header().Get("Location")).To(BeEmpty())
				Expect(handlerRan).To(BeFalse())
			})
		})

		It("sends signed-in administrators to the admin home", func() {
			rec := httptest.NewRecorder()
			guard.PublicOnly()(next).ServeHTTP(rec, request("admin-token"))

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(middleware.AdminHomePath))
			Expect(handlerRan).To(BeFalse())
		})

		It("sends signed-in employees to the portal home", func() {
			rec := httptest.NewRecorder()
			guard.PublicOnly()(next).ServeHTTP(rec, request("employee-token"))

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(middleware.EmployeeHomePath))
			Expect(handlerRan).To(BeFalse())
		})

		It("lets anonymous requests through", func() {
			rec := httptest.NewRecorder()
			guard.PublicOnly()(next).ServeHTTP(rec, request(""))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(handlerRan).To(BeTrue())
		})
	})
})
