package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/notification"
	"github.com/satriadw/hrm-portal/internal/session"
)

// MockServiceAPI implements notification.ServiceAPI for handler tests
type MockServiceAPI struct {
	markedRead  []int64
	markReadErr error
}

func (m *MockServiceAPI) Subscribe(sess *session.Session) {}

func (m *MockServiceAPI) Unsubscribe(sessionID string) {}

func (m *MockServiceAPI) UnreadCount(ctx context.Context, sess *session.Session) (int, error) {
	return 0, nil
}

func (m *MockServiceAPI) List(ctx context.Context, sess *session.Session) ([]hrmapi.Notification, error) {
	return nil, nil
}

func (m *MockServiceAPI) MarkRead(ctx context.Context, sess *session.Session, id int64) error {
	if m.markReadErr != nil {
		return m.markReadErr
	}
	m.markedRead = append(m.markedRead, id)
	return nil
}

func (m *MockServiceAPI) MarkAllRead(ctx context.Context, sess *session.Session) error {
	return nil
}

var _ = Describe("Notification click handling", func() {
	var (
		svc    *MockServiceAPI
		router *chi.Mux
	)

	sess := &session.Session{ID: "sess-1", UserID: 42, Role: session.RoleAdministrator}

	BeforeEach(func() {
		svc = &MockServiceAPI{}
		handler := notification.NewHandler(svc)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
			})
		})
		router.Post("/notifications/{id}/click", handler.Click)
	})

	click := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notifications/9/click", strings.NewReader(body))
		router.ServeHTTP(rec, req)
		return rec
	}

	target := func(rec *httptest.ResponseRecorder) string {
		var payload map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &payload)).To(Succeed())
		return payload["target"]
	}

	It("marks an unread notification read exactly once and follows its explicit link", func() {
		rec := click(`{"read":false,"link":"/admin/leave-requests/42","message":"payroll calculated"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(target(rec)).To(Equal("/admin/leave-requests/42"))
		Expect(svc.markedRead).To(ConsistOf(int64(9)))
	})

	It("leaves an already-read notification alone and resolves the keyword target", func() {
		rec := click(`{"read":true,"title":"Leave request submitted"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(target(rec)).To(Equal("/admin/leave-requests"))
		Expect(svc.markedRead).To(BeEmpty())
	})

	It("answers with no target when nothing matches", func() {
		rec := click(`{"read":true,"title":"Welcome","message":"Have a nice day"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(target(rec)).To(BeEmpty())
	})

	It("surfaces a failed mark-read instead of navigating", func() {
		svc.markReadErr = internal.ErrUpstreamUnavailable

		rec := click(`{"read":false,"message":"payroll calculated"}`)

		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(svc.markedRead).To(BeEmpty())
	})
})
