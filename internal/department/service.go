package department

import (
	"context"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

// API covers the department and position resources, which share one admin
// area on the portal.
type API interface {
	ListDepartments(ctx context.Context, token string) ([]hrmapi.Department, error)
	CreateDepartment(ctx context.Context, token string, body interface{}) (*hrmapi.Department, error)
	UpdateDepartment(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.Department, error)
	DeleteDepartment(ctx context.Context, token string, id int64) error
	ListPositions(ctx context.Context, token string) ([]hrmapi.Position, error)
	CreatePosition(ctx context.Context, token string, body interface{}) (*hrmapi.Position, error)
	UpdatePosition(ctx context.Context, token string, id int64, body interface{}) (*hrmapi.Position, error)
	DeletePosition(ctx context.Context, token string, id int64) error
}

type Service struct {
	client API
	logger *slog.Logger
}

func NewService(client API, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) List(ctx context.Context, sess *session.Session) ([]hrmapi.Department, error) {
	return s.client.ListDepartments(ctx, sess.APIToken())
}

func (s *Service) Create(ctx context.Context, sess *session.Session, body map[string]interface{}) (*hrmapi.Department, error) {
	return s.client.CreateDepartment(ctx, sess.APIToken(), body)
}

func (s *Service) Update(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*hrmapi.Department, error) {
	return s.client.UpdateDepartment(ctx, sess.APIToken(), id, body)
}

func (s *Service) Delete(ctx context.Context, sess *session.Session, id int64) error {
	return s.client.DeleteDepartment(ctx, sess.APIToken(), id)
}

func (s *Service) ListPositions(ctx context.Context, sess *session.Session) ([]hrmapi.Position, error) {
	return s.client.ListPositions(ctx, sess.APIToken())
}

func (s *Service) CreatePosition(ctx context.Context, sess *session.Session, body map[string]interface{}) (*hrmapi.Position, error) {
	return s.client.CreatePosition(ctx, sess.APIToken(), body)
}

func (s *Service) UpdatePosition(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*hrmapi.Position, error) {
	return s.client.UpdatePosition(ctx, sess.APIToken(), id, body)
}

func (s *Service) DeletePosition(ctx context.Context, sess *session.Session, id int64) error {
	return s.client.DeletePosition(ctx, sess.APIToken(), id)
}
