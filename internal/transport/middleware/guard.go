package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	AdminHomePath    = "/admin/dashboard"
	EmployeeHomePath = "/employee/dashboard"
)

// SessionResolver is the slice of the session store the guards need.
type SessionResolver interface {
	Resolve(tokenString string) (*session.Session, error)
	Invalidate(ctx context.Context, sessionID string)
	Ready() bool
}

// Guard gates grouped routes by role. Screens behind it perform zero
// authorization checks of their own; this is the only place redirects are
// decided.
type Guard struct {
	store  SessionResolver
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewGuard(store SessionResolver, logger *slog.Logger) *Guard {
	return &Guard{
		store:  store,
		base:   transport.NewBaseHandler(logger),
		logger: logger,
	}
}

// Store exposes the resolver for readiness reporting.
func (g *Guard) Store() SessionResolver {
	return g.store
}

// Protected admits sessions whose role is in the allowed list; an empty list
// admits any authenticated session. While the store is loading the response
// is a neutral placeholder, never a redirect.
func (g *Guard) Protected(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.store.Ready() {
				g.placeholder(w)
				return
			}

			sess, err := g.store.Resolve(g.base.ExtractToken(r))
			if err != nil || sess == nil {
				g.redirect(w, r, LoginPath)
				return
			}

			if sess.Status == session.StatusPending {
				g.logger.Warn("access denied: account pending activation",
					"session_id", sess.ID,
					"path", r.URL.Path)
				g.redirect(w, r, UnauthorizedPath)
				return
			}

			if !sess.HasRole(roles...) {
				g.logger.Warn("access denied: role not permitted",
					"session_id", sess.ID,
					"role", sess.Role,
					"path", r.URL.Path)
				g.redirect(w, r, UnauthorizedPath)
				return
			}

			ctx := session.NewContext(r.Context(), sess)
			wrapped := &expiryInterceptor{
				ResponseWriter: w,
				guard:          g,
				request:        r,
				sessionID:      sess.ID,
			}
			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

// PublicOnly keeps authenticated users away from public screens: admins go to
// the admin home, everyone else to the employee portal home.
func (g *Guard) PublicOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.store.Ready() {
				g.placeholder(w)
				return
			}

			if sess, err := g.store.Resolve(g.base.ExtractToken(r)); err == nil && sess != nil {
				if sess.IsAdmin() {
					g.redirect(w, r, AdminHomePath)
				} else {
					g.redirect(w, r, EmployeeHomePath)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) placeholder(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	g.base.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
}

func (g *Guard) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// expiryInterceptor watches a protected screen's response. When the handler
// answers 401 the upstream rejected a token the gateway still considered
// live, so the session is torn down and the client is sent back to the login
// screen. Public routes are never wrapped, which gives the "except on /login
// and /" carve-out for free.
type expiryInterceptor struct {
	http.ResponseWriter
	guard       *Guard
	request     *http.Request
	sessionID   string
	intercepted bool
	wroteHeader bool
}

func (e *expiryInterceptor) WriteHeader(status int) {
	if e.wroteHeader {
		return
	}
	e.wroteHeader = true

	if status == http.StatusUnauthorized {
		e.intercepted = true
		e.guard.store.Invalidate(e.request.Context(), e.sessionID)
		e.Header().Del("Content-Type")
		e.Header().Set("Location", LoginPath)
		e.ResponseWriter.WriteHeader(http.StatusSeeOther)
		return
	}

	e.ResponseWriter.WriteHeader(status)
}

func (e *expiryInterceptor) Write(b []byte) (int, error) {
	if !e.wroteHeader {
		e.WriteHeader(http.StatusOK)
	}
	if e.intercepted {
		// drop the original error body; the redirect already went out
		return len(b), nil
	}
	return e.ResponseWriter.Write(b)
}
