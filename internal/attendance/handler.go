package attendance

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error)
	Mine(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error)
	Team(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.AttendanceRecord, error)
	CheckIn(ctx context.Context, sess *session.Session) (*hrmapi.AttendanceRecord, error)
	CheckOut(ctx context.Context, sess *session.Session) (*hrmapi.AttendanceRecord, error)
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

// listFilters whitelists the query parameters the backend accepts.
func listFilters(r *http.Request) url.Values {
	filters := url.Values{}
	for _, key := range []string{"date", "start_date", "end_date", "employee_id", "status"} {
		if v := r.URL.Query().Get(key); v != "" {
			filters.Set(key, v)
		}
	}
	return filters
}

func (h *Handler) writeRecords(w http.ResponseWriter, records []hrmapi.AttendanceRecord, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if records == nil {
		records = []hrmapi.AttendanceRecord{}
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	records, err := h.Service.ListAll(r.Context(), sess, listFilters(r))
	h.writeRecords(w, records, err)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	records, err := h.Service.Mine(r.Context(), sess, listFilters(r))
	h.writeRecords(w, records, err)
}

func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	records, err := h.Service.Team(r.Context(), sess, listFilters(r))
	h.writeRecords(w, records, err)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.CheckIn(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.CheckOut(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}
