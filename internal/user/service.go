package user

import (
	"context"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

type API interface {
	ListUsers(ctx context.Context, token string) ([]hrmapi.User, error)
	CreateUser(ctx context.Context, token string, body interface{}) (*hrmapi.User, error)
	UpdateUser(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
}

type Service struct {
	client API
	logger *slog.Logger
}

func NewService(client API, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) List(ctx context.Context, sess *session.Session) ([]hrmapi.User, error) {
	return s.client.ListUsers(ctx, sess.APIToken())
}

func (s *Service) Create(ctx context.Context, sess *session.Session, body map[string]interface{}) (*hrmapi.User, error) {
	return s.client.CreateUser(ctx, sess.APIToken(), body)
}

func (s *Service) Update(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*hrmapi.User, error) {
	return s.client.UpdateUser(ctx, sess.APIToken(), id, body)
}

// Delete refuses the session's own account; the portal must not saw off the
// branch it is sitting on.
func (s *Service) Delete(ctx context.Context, sess *session.Session, id int64) error {
	if sess.UserID == id {
		return internal.NewValidationError("cannot delete the signed-in account", internal.ErrCodeValidationFailed)
	}
	return s.client.DeleteUser(ctx, sess.APIToken(), id)
}
