package department

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, sess *session.Session) ([]hrmapi.Department, error)
	Create(ctx context.Context, sess *session.Session, body map[string]interface{}) (*hrmapi.Department, error)
	Update(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*hrmapi.Department, error)
	Delete(ctx context.Context, sess *session.Session, id int64) error
	ListPositions(ctx context.Context, sess *session.Session) ([]hrmapi.Position, error)
	CreatePosition(ctx context.Context, sess *session.Session, body map[string]interface{}) (*hrmapi.Position, error)
	UpdatePosition(ctx context.Context, sess *session.Session, id int64, body map[string]interface{}) (*hrmapi.Position, error)
	DeletePosition(ctx context.Context, sess *session.Session, id int64) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	departments, err := h.Service.List(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if departments == nil {
		departments = []hrmapi.Department{}
	}
	h.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Create(r.Context(), sess, body)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dept)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Update(r.Context(), sess, id, body)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dept)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	if err := h.Service.Delete(r.Context(), sess, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	positions, err := h.Service.ListPositions(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if positions == nil {
		positions = []hrmapi.Position{}
	}
	h.WriteJSON(w, http.StatusOK, positions)
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pos, err := h.Service.CreatePosition(r.Context(), sess, body)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, pos)
}

func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid position id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pos, err := h.Service.UpdatePosition(r.Context(), sess, id, body)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pos)
}

func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid position id")
		return
	}

	if err := h.Service.DeletePosition(r.Context(), sess, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
