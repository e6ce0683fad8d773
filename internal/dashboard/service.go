package dashboard

import (
	"context"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

type API interface {
	DashboardStats(ctx context.Context, token string) (*hrmapi.DashboardStats, error)
	DashboardTrends(ctx context.Context, token string) ([]hrmapi.TrendPoint, error)
	DashboardByDepartment(ctx context.Context, token string) ([]hrmapi.DepartmentCount, error)
	DashboardGender(ctx context.Context, token string) ([]hrmapi.GenderCount, error)
	DashboardRecentActivities(ctx context.Context, token string) ([]hrmapi.Activity, error)
}

type Service struct {
	client API
	logger *slog.Logger
}

func NewService(client API, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) Stats(ctx context.Context, sess *session.Session) (*hrmapi.DashboardStats, error) {
	return s.client.DashboardStats(ctx, sess.APIToken())
}

func (s *Service) Trends(ctx context.Context, sess *session.Session) ([]hrmapi.TrendPoint, error) {
	return s.client.DashboardTrends(ctx, sess.APIToken())
}

func (s *Service) ByDepartment(ctx context.Context, sess *session.Session) ([]hrmapi.DepartmentCount, error) {
	return s.client.DashboardByDepartment(ctx, sess.APIToken())
}

func (s *Service) Gender(ctx context.Context, sess *session.Session) ([]hrmapi.GenderCount, error) {
	return s.client.DashboardGender(ctx, sess.APIToken())
}

func (s *Service) RecentActivities(ctx context.Context, sess *session.Session) ([]hrmapi.Activity, error) {
	return s.client.DashboardRecentActivities(ctx, sess.APIToken())
}
