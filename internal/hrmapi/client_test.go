package hrmapi_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
)

func TestHRMClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HRM API Client Suite")
}

func newClient(baseURL string) *hrmapi.Client {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return hrmapi.NewClient(hrmapi.Config{
		APIBaseURL:     baseURL,
		PhotoBaseURL:   "http://photos.local/uploads",
		RequestTimeout: 2 * time.Second,
	}, logger)
}

var _ = Describe("HRM API Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
	)

	BeforeEach(func() {
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("envelope decoding", func() {
		It("unwraps the data field", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data":[{"employee_id":1,"employee_code":"EMP001","first_name":"Jane"}]}`))
			}

			employees, err := newClient(server.URL).ListEmployees(context.Background(), "tok")
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(HaveLen(1))
			Expect(employees[0].EmployeeCode).To(Equal("EMP001"))
		})

		It("treats absent data as an empty result", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message":"nothing here"}`))
			}

			employees, err := newClient(server.URL).ListEmployees(context.Background(), "tok")
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(BeEmpty())
		})

		It("treats null data as an empty result", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data":null}`))
			}

			departments, err := newClient(server.URL).ListDepartments(context.Background(), "tok")
			Expect(err).NotTo(HaveOccurred())
			Expect(departments).To(BeEmpty())
		})
	})

	Describe("authentication plumbing", func() {
		It("sends the bearer token", func() {
			var gotAuth string
			handler = func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Write([]byte(`{"data":[]}`))
			}

			_, err := newClient(server.URL).ListEmployees(context.Background(), "secret-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(gotAuth).To(Equal("Bearer secret-token"))
		})

		It("maps 401 to the expired session sentinel", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}

			_, err := newClient(server.URL).ListEmployees(context.Background(), "stale")
			Expect(err).To(MatchError(internal.ErrSessionExpired))
		})

		It("keeps the backend message on an unauthorized login", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Username atau password salah"}`))
			}

			_, err := newClient(server.URL).Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSessionExpired))
			Expect(appErr.Message).To(Equal("Username atau password salah"))
		})
	})

	Describe("error reporting", func() {
		It("surfaces the backend message verbatim", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"message":"Saldo cuti tidak mencukupi"}`))
			}

			_, err := newClient(server.URL).CreateLeaveRequest(context.Background(), "tok", map[string]interface{}{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeUpstream))
			Expect(appErr.Message).To(Equal("Saldo cuti tidak mencukupi"))
		})

		It("falls back to a generic message when the backend sends none", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}

			_, err := newClient(server.URL).ListEmployees(context.Background(), "tok")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("500"))
		})

		It("reports an unreachable backend as unavailable", func() {
			closed := httptest.NewServer(nil)
			closed.Close()

			_, err := newClient(closed.URL).ListEmployees(context.Background(), "tok")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUpstreamUnavailable))
		})
	})

	Describe("resource paths", func() {
		It("hits the documented notification endpoints", func() {
			var paths []string
			handler = func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.Method+" "+r.URL.Path)
				w.Write([]byte(`{"data":{"count":2}}`))
			}

			c := newClient(server.URL)
			count, err := c.UnreadNotificationCount(context.Background(), "tok")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))

			Expect(c.MarkNotificationRead(context.Background(), "tok", 9)).To(Succeed())
			Expect(c.MarkAllNotificationsRead(context.Background(), "tok")).To(Succeed())

			Expect(paths).To(Equal([]string{
				"GET /notifications/unread-count",
				"PUT /notifications/9/read",
				"PUT /notifications/mark-all-read",
			}))
		})
	})

	Describe("PhotoURL", func() {
		It("joins the photo base with the escaped filename", func() {
			c := newClient(server.URL)
			Expect(c.PhotoURL("jane doe.jpg")).To(Equal("http://photos.local/uploads/jane%20doe.jpg"))
		})

		It("yields nothing for an empty filename", func() {
			c := newClient(server.URL)
			Expect(c.PhotoURL("")).To(BeEmpty())
		})
	})
})
