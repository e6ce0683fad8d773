package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
)

// Authenticator is the slice of the upstream client the store needs.
type Authenticator interface {
	Login(ctx context.Context, creds hrmapi.Credentials) (*hrmapi.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// Store is the single source of truth for who is logged in. It is owned by
// the application root and injected everywhere; there is no package-level
// session state. Readiness is a third state distinct from authenticated and
// unauthenticated: until Initialize resolves, lookups return ErrStoreNotReady
// and guards must render a placeholder instead of redirecting.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ready     bool
	readyOnce sync.Once

	repo   Repository
	auth   Authenticator
	tokens *TokenIssuer
	cipher *Cipher
	logger *slog.Logger
}

func NewStore(repo Repository, auth Authenticator, tokens *TokenIssuer, cipher *Cipher, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		repo:     repo,
		auth:     auth,
		tokens:   tokens,
		cipher:   cipher,
		logger:   logger,
	}
}

// Initialize restores persisted sessions into memory and flips the ready flag
// exactly once. A load failure leaves the store empty but still ready:
// unauthenticated, not broken.
func (s *Store) Initialize(ctx context.Context) error {
	var loadErr error
	s.readyOnce.Do(func() {
		persisted, err := s.repo.LoadAll(ctx)
		if err != nil {
			s.logger.Error("failed to restore persisted sessions", "error", err)
			loadErr = err
		}

		s.mu.Lock()
		for _, p := range persisted {
			sess, err := s.revive(p)
			if err != nil {
				s.logger.Warn("dropping unrecoverable session", "session_id", p.ID, "error", err)
				continue
			}
			s.sessions[sess.ID] = sess
		}
		s.ready = true
		s.mu.Unlock()

		s.logger.Info("session store initialized", "restored", len(s.sessions))
	})
	return loadErr
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) revive(p *Persisted) (*Session, error) {
	token, err := s.cipher.Decrypt(p.EncryptedAPIToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:          p.ID,
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		EmployeeID:  p.EmployeeID,
		Role:        Role(p.Role),
		Status:      Status(p.Status),
		CreatedAt:   p.CreatedAt,
		apiToken:    token,
	}, nil
}

// Login authenticates against the backend and creates the session. All or
// nothing: any failure leaves both memory and the repository untouched, and
// the backend's error message is passed through verbatim.
func (s *Store) Login(ctx context.Context, creds hrmapi.Credentials) (*Session, string, error) {
	if !s.Ready() {
		return nil, "", internal.ErrStoreNotReady
	}

	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			// The login endpoint answers bad credentials with a 401, which
			// the client reports as session expiry. There is no session yet,
			// so rewrite it; the backend's own message wins when it sent one.
			if appErr.Code == internal.ErrCodeSessionExpired {
				message := ""
				if appErr != internal.ErrSessionExpired {
					message = appErr.Message
				}
				return nil, "", internal.ErrInvalidCredentials.WithMessage(message)
			}
			if appErr.Type == internal.ErrorTypeUpstream {
				return nil, "", internal.ErrInvalidCredentials.WithMessage(appErr.Message)
			}
		}
		return nil, "", err
	}

	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      result.User.UserID,
		Username:    result.User.Username,
		DisplayName: result.User.DisplayName,
		EmployeeID:  result.User.EmployeeID,
		Role:        Role(result.User.Role),
		Status:      Status(result.User.Status),
		CreatedAt:   time.Now(),
		apiToken:    result.Token,
	}

	encrypted, err := s.cipher.Encrypt(result.Token)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to protect session token", err)
	}

	gatewayToken, err := s.tokens.Issue(sess.ID, sess.UserID)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to issue session token", err)
	}

	if err := s.repo.Create(ctx, &Persisted{
		ID:                sess.ID,
		UserID:            sess.UserID,
		Username:          sess.Username,
		DisplayName:       sess.DisplayName,
		EmployeeID:        sess.EmployeeID,
		Role:              string(sess.Role),
		Status:            string(sess.Status),
		EncryptedAPIToken: encrypted,
		CreatedAt:         sess.CreatedAt,
	}); err != nil {
		return nil, "", internal.NewInternalError("failed to persist session", err)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session created",
		"session_id", sess.ID,
		"user_id", sess.UserID,
		"role", sess.Role)

	return sess, gatewayToken, nil
}

// Logout destroys the session in memory and storage together, then notifies
// the backend without waiting for it.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.remove(ctx, sessionID)
	if err != nil {
		return err
	}

	go func(token string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Debug("upstream logout failed", "error", err)
		}
	}(sess.APIToken())

	s.logger.Info("session destroyed", "session_id", sessionID)
	return nil
}

// Invalidate tears a session down after the backend answered 401. No upstream
// logout: the token is already dead.
func (s *Store) Invalidate(ctx context.Context, sessionID string) {
	if _, err := s.remove(ctx, sessionID); err != nil {
		s.logger.Debug("invalidate: session already gone", "session_id", sessionID)
		return
	}
	s.logger.Info("session invalidated after upstream 401", "session_id", sessionID)
}

func (s *Store) remove(ctx context.Context, sessionID string) (*Session, error) {
	if !s.Ready() {
		return nil, internal.ErrStoreNotReady
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return nil, internal.ErrSessionNotFound
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete persisted session", "session_id", sessionID, "error", err)
		return nil, internal.NewInternalError("failed to delete session", err)
	}
	return sess, nil
}

// Resolve maps a gateway token back to its live session.
func (s *Store) Resolve(tokenString string) (*Session, error) {
	if !s.Ready() {
		return nil, internal.ErrStoreNotReady
	}

	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, ok := s.sessions[claims.SessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Get(sessionID string) (*Session, error) {
	if !s.Ready() {
		return nil, internal.ErrStoreNotReady
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	return sess, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
