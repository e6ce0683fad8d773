package notification

import (
	"context"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

// API is the slice of the upstream client the notification service needs.
type API interface {
	ListNotifications(ctx context.Context, token string) ([]hrmapi.Notification, error)
	UnreadNotificationCount(ctx context.Context, token string) (int, error)
	MarkNotificationRead(ctx context.Context, token string, id int64) error
	MarkAllNotificationsRead(ctx context.Context, token string) error
}

// Service mediates between the portal and the backend's notification
// resource: a warm unread-count per subscribed session, a lazily fetched
// list, and optimistic mark-read updates reconciled on failure.
type Service struct {
	client  API
	manager *Manager
	logger  *slog.Logger

	// rootCtx outlives any single request; poll tasks hang off it so a
	// request's cancellation cannot kill a subscription.
	rootCtx context.Context
	cancel  context.CancelFunc
}

func NewService(client API, manager *Manager, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		client:  client,
		manager: manager,
		logger:  logger,
		rootCtx: ctx,
		cancel:  cancel,
	}
}

// Subscribe starts the unread-count poll task for a mounted layout. Safe to
// call repeatedly; only the first call per session starts a task.
func (s *Service) Subscribe(sess *session.Session) {
	token := sess.APIToken()
	started := s.manager.Subscribe(s.rootCtx, sess.ID, func(ctx context.Context) (int, error) {
		return s.client.UnreadNotificationCount(ctx, token)
	})
	if started {
		s.logger.Info("notification poller started", "session_id", sess.ID)
	}
}

// Unsubscribe stops the session's poll task when the layout unmounts or the
// session ends.
func (s *Service) Unsubscribe(sessionID string) {
	s.manager.Unsubscribe(sessionID)
}

// UnreadCount serves the cached count for subscribed sessions and falls back
// to a direct fetch otherwise. The fallback is not kept warm.
func (s *Service) UnreadCount(ctx context.Context, sess *session.Session) (int, error) {
	if p, ok := s.manager.Get(sess.ID); ok {
		return p.Count(), nil
	}
	return s.client.UnreadNotificationCount(ctx, sess.APIToken())
}

// List fetches the full notification list on demand only.
func (s *Service) List(ctx context.Context, sess *session.Session) ([]hrmapi.Notification, error) {
	return s.client.ListNotifications(ctx, sess.APIToken())
}

// MarkRead applies the optimistic decrement before the backend confirms. On
// failure the cached count is reconciled with a fresh fetch and the error is
// returned for the caller's toast.
func (s *Service) MarkRead(ctx context.Context, sess *session.Session, id int64) error {
	p, subscribed := s.manager.Get(sess.ID)
	if subscribed {
		p.Add(-1)
	}

	if err := s.client.MarkNotificationRead(ctx, sess.APIToken(), id); err != nil {
		s.logger.Warn("mark-read failed, reconciling count", "session_id", sess.ID, "notification_id", id, "error", err)
		if subscribed {
			p.Refresh(ctx)
		}
		return err
	}
	return nil
}

// MarkAllRead zeroes the cached count optimistically; idempotent, the count
// never goes negative however often it is called.
func (s *Service) MarkAllRead(ctx context.Context, sess *session.Session) error {
	p, subscribed := s.manager.Get(sess.ID)
	if subscribed {
		p.SetCount(0)
	}

	if err := s.client.MarkAllNotificationsRead(ctx, sess.APIToken()); err != nil {
		s.logger.Warn("mark-all-read failed, reconciling count", "session_id", sess.ID, "error", err)
		if subscribed {
			p.Refresh(ctx)
		}
		return err
	}
	return nil
}

// Shutdown cancels every poll task.
func (s *Service) Shutdown() {
	s.cancel()
	s.manager.Shutdown()
}
