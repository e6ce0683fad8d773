package session_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	sessionPostgres "github.com/satriadw/hrm-portal/internal/session/postgres"
)

func TestSessionStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Store Suite")
}

const testSecret = "0123456789abcdef0123456789abcdef"

// MockAuthenticator implements session.Authenticator for testing
type MockAuthenticator struct {
	result     *hrmapi.AuthResult
	loginErr   error
	logoutDone chan string
}

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{logoutDone: make(chan string, 1)}
}

func (m *MockAuthenticator) Login(ctx context.Context, creds hrmapi.Credentials) (*hrmapi.AuthResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.result, nil
}

func (m *MockAuthenticator) Logout(ctx context.Context, token string) error {
	select {
	case m.logoutDone <- token:
	default:
	}
	return nil
}

var _ = Describe("Session Store", func() {
	var (
		db     *gorm.DB
		repo   session.Repository
		auth   *MockAuthenticator
		store  *session.Store
		logger *slog.Logger
	)

	employeeID := int64(7)

	newStore := func() *session.Store {
		return session.NewStore(
			repo,
			auth,
			session.NewTokenIssuer(testSecret, time.Hour),
			session.NewCipher(testSecret),
			logger,
		)
	}

	BeforeEach(func() {
		var err error
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sessionPostgres.Migrate(db)).To(Succeed())

		repo = sessionPostgres.NewSessionRepository(db)
		auth = NewMockAuthenticator()
		auth.result = &hrmapi.AuthResult{
			Token: "upstream-bearer-token",
			User: hrmapi.User{
				UserID:      42,
				Username:    "jdoe",
				Role:        "employee",
				Status:      "active",
				EmployeeID:  &employeeID,
				DisplayName: "Jane Doe",
			},
		}

		store = newStore()
	})

	Describe("before initialization", func() {
		It("refuses logins with the loading error", func() {
			_, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).To(MatchError(internal.ErrStoreNotReady))
		})

		It("refuses token resolution with the loading error", func() {
			_, err := store.Resolve("anything")
			Expect(err).To(MatchError(internal.ErrStoreNotReady))
		})

		It("reports not ready", func() {
			Expect(store.Ready()).To(BeFalse())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			Expect(store.Initialize(context.Background())).To(Succeed())
		})

		It("creates a resolvable session carrying the upstream token", func() {
			sess, token, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(sess.Username).To(Equal("jdoe"))
			Expect(sess.Role).To(Equal(session.RoleEmployee))
			Expect(sess.APIToken()).To(Equal("upstream-bearer-token"))

			resolved, err := store.Resolve(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.ID).To(Equal(sess.ID))
		})

		It("persists the session with the upstream token encrypted", func() {
			sess, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())

			persisted, err := repo.LoadAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted).To(HaveLen(1))
			Expect(persisted[0].ID).To(Equal(sess.ID))
			Expect(persisted[0].EncryptedAPIToken).NotTo(BeEmpty())
			Expect(persisted[0].EncryptedAPIToken).NotTo(ContainSubstring("upstream-bearer-token"))
		})

		It("passes the backend rejection message through verbatim", func() {
			auth.loginErr = internal.NewUpstreamError("Password salah", internal.ErrCodeUpstreamRejected, nil)

			_, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
			Expect(appErr.Message).To(Equal("Password salah"))
			Expect(store.Len()).To(BeZero())
		})

		It("reports a backend 401 as rejected credentials with the verbatim message", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Username atau password salah"}`))
			}))
			defer backend.Close()

			client := hrmapi.NewClient(hrmapi.Config{APIBaseURL: backend.URL}, logger)
			direct := session.NewStore(
				repo,
				client,
				session.NewTokenIssuer(testSecret, time.Hour),
				session.NewCipher(testSecret),
				logger,
			)
			Expect(direct.Initialize(context.Background())).To(Succeed())

			_, _, err := direct.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
			Expect(appErr.Message).To(Equal("Username atau password salah"))
			Expect(direct.Len()).To(BeZero())
		})

		It("falls back to the generic message on a bare 401", func() {
			auth.loginErr = internal.ErrSessionExpired

			_, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
			Expect(appErr.Message).To(Equal("invalid credentials"))
		})

		It("leaves nothing behind when authentication fails", func() {
			auth.loginErr = errors.New("connection refused")

			_, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).To(HaveOccurred())

			persisted, err := repo.LoadAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted).To(BeEmpty())
		})
	})

	Describe("Logout", func() {
		BeforeEach(func() {
			Expect(store.Initialize(context.Background())).To(Succeed())
		})

		It("destroys the session in memory and storage and notifies the backend", func() {
			sess, token, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Logout(context.Background(), sess.ID)).To(Succeed())

			_, err = store.Resolve(token)
			Expect(err).To(MatchError(internal.ErrSessionNotFound))

			persisted, err := repo.LoadAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted).To(BeEmpty())

			Eventually(auth.logoutDone).Should(Receive(Equal("upstream-bearer-token")))
		})

		It("returns not found for an unknown session", func() {
			err := store.Logout(context.Background(), "nope")
			Expect(err).To(MatchError(internal.ErrSessionNotFound))
		})
	})

	Describe("Invalidate", func() {
		BeforeEach(func() {
			Expect(store.Initialize(context.Background())).To(Succeed())
		})

		It("removes the session without calling the backend", func() {
			sess, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())

			store.Invalidate(context.Background(), sess.ID)

			Expect(store.Len()).To(BeZero())
			Consistently(auth.logoutDone).ShouldNot(Receive())
		})
	})

	Describe("restart recovery", func() {
		It("revives persisted sessions with a usable upstream token", func() {
			Expect(store.Initialize(context.Background())).To(Succeed())
			sess, _, err := store.Login(context.Background(), hrmapi.Credentials{Username: "jdoe", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())

			restarted := newStore()
			Expect(restarted.Initialize(context.Background())).To(Succeed())

			revived, err := restarted.Get(sess.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(revived.Username).To(Equal("jdoe"))
			Expect(revived.APIToken()).To(Equal("upstream-bearer-token"))
		})
	})

	Describe("token validation", func() {
		BeforeEach(func() {
			Expect(store.Initialize(context.Background())).To(Succeed())
		})

		It("rejects an expired gateway token as an expired session", func() {
			claims := jwt.MapClaims{
				"session_id": "some-session",
				"sub":        strconv.FormatInt(42, 10),
				"iat":        time.Now().Add(-2 * time.Hour).Unix(),
				"exp":        time.Now().Add(-time.Hour).Unix(),
			}
			expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Resolve(expired)
			Expect(err).To(MatchError(internal.ErrSessionExpired))
		})

		It("rejects garbage tokens", func() {
			_, err := store.Resolve("not-a-jwt")
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})
})

var _ = Describe("Session roles", func() {
	employeeID := int64(3)

	It("admits any valid role when the allowed list is empty", func() {
		sess := &session.Session{Role: session.RoleEmployee, EmployeeID: &employeeID}
		Expect(sess.HasRole()).To(BeTrue())
	})

	It("never admits an unknown role", func() {
		sess := &session.Session{Role: "superuser"}
		Expect(sess.HasRole()).To(BeFalse())
		Expect(sess.HasRole(session.RoleAdministrator)).To(BeFalse())
	})

	It("matches against the allowed list", func() {
		sess := &session.Session{Role: session.RoleAdministrator}
		Expect(sess.HasRole(session.RoleAdministrator)).To(BeTrue())
		Expect(sess.HasRole(session.RoleEmployee)).To(BeFalse())
	})
})
