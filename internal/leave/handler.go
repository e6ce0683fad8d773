package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.LeaveRequest, error)
	Mine(ctx context.Context, sess *session.Session) ([]hrmapi.LeaveRequest, error)
	TeamPending(ctx context.Context, sess *session.Session) ([]hrmapi.LeaveRequest, error)
	Create(ctx context.Context, sess *session.Session, dto CreateRequestDTO) (*hrmapi.LeaveRequest, error)
	Approve(ctx context.Context, sess *session.Session, id int64) (*hrmapi.LeaveRequest, error)
	Reject(ctx context.Context, sess *session.Session, id int64, dto RejectDTO) (*hrmapi.LeaveRequest, error)
	Cancel(ctx context.Context, sess *session.Session, id int64) (*hrmapi.LeaveRequest, error)
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

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) writeRequests(w http.ResponseWriter, requests []hrmapi.LeaveRequest, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []hrmapi.LeaveRequest{}
	}
	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	filters := url.Values{}
	for _, key := range []string{"status", "employee_id", "department_id"} {
		if v := r.URL.Query().Get(key); v != "" {
			filters.Set(key, v)
		}
	}
	requests, err := h.Service.ListAll(r.Context(), sess, filters)
	h.writeRequests(w, requests, err)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.Mine(r.Context(), sess)
	h.writeRequests(w, requests, err)
}

func (h *Handler) TeamPending(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.TeamPending(r.Context(), sess)
	h.writeRequests(w, requests, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lr, err := h.Service.Create(r.Context(), sess, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, lr)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave request id")
		return
	}

	lr, err := h.Service.Approve(r.Context(), sess, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lr)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave request id")
		return
	}

	var dto RejectDTO
	if r.Body != nil {
		// reason is optional, an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	lr, err := h.Service.Reject(r.Context(), sess, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lr)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave request id")
		return
	}

	lr, err := h.Service.Cancel(r.Context(), sess, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lr)
}
