package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	Stats(ctx context.Context, sess *session.Session) (*hrmapi.DashboardStats, error)
	Trends(ctx context.Context, sess *session.Session) ([]hrmapi.TrendPoint, error)
	ByDepartment(ctx context.Context, sess *session.Session) ([]hrmapi.DepartmentCount, error)
	Gender(ctx context.Context, sess *session.Session) ([]hrmapi.GenderCount, error)
	RecentActivities(ctx context.Context, sess *session.Session) ([]hrmapi.Activity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	return sess, true
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	points, err := h.Service.Trends(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if points == nil {
		points = []hrmapi.TrendPoint{}
	}
	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) ByDepartment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	counts, err := h.Service.ByDepartment(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if counts == nil {
		counts = []hrmapi.DepartmentCount{}
	}
	h.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) Gender(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	counts, err := h.Service.Gender(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if counts == nil {
		counts = []hrmapi.GenderCount{}
	}
	h.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) RecentActivities(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	activities, err := h.Service.RecentActivities(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if activities == nil {
		activities = []hrmapi.Activity{}
	}
	h.WriteJSON(w, http.StatusOK, activities)
}
