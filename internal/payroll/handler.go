package payroll

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
	ListAll(ctx context.Context, sess *session.Session, filters url.Values) ([]hrmapi.PayrollRecord, error)
	Mine(ctx context.Context, sess *session.Session) ([]hrmapi.PayrollRecord, error)
	Calculate(ctx context.Context, sess *session.Session, period string) ([]hrmapi.PayrollRecord, error)
	Approve(ctx context.Context, sess *session.Session, id int64) (*hrmapi.PayrollRecord, error)
	Pay(ctx context.Context, sess *session.Session, id int64) (*hrmapi.PayrollRecord, error)
	Reject(ctx context.Context, sess *session.Session, id int64, reason string) (*hrmapi.PayrollRecord, error)
	Allowances(ctx context.Context, sess *session.Session) ([]hrmapi.Allowance, error)
	Deductions(ctx context.Context, sess *session.Session) ([]hrmapi.Deduction, error)
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

func (h *Handler) writeRecords(w http.ResponseWriter, records []hrmapi.PayrollRecord, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if records == nil {
		records = []hrmapi.PayrollRecord{}
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	filters := url.Values{}
	for _, key := range []string{"period", "status", "employee_id"} {
		if v := r.URL.Query().Get(key); v != "" {
			filters.Set(key, v)
		}
	}
	records, err := h.Service.ListAll(r.Context(), sess, filters)
	h.writeRecords(w, records, err)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	records, err := h.Service.Mine(r.Context(), sess)
	h.writeRecords(w, records, err)
}

type calculateDTO struct {
	Period string `json:"period"`
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var dto calculateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, err := h.Service.Calculate(r.Context(), sess, dto.Period)
	h.writeRecords(w, records, err)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	rec, err := h.Service.Approve(r.Context(), sess, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	rec, err := h.Service.Pay(r.Context(), sess, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

type rejectDTO struct {
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	var dto rejectDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	rec, err := h.Service.Reject(r.Context(), sess, id, dto.Reason)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) Allowances(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	allowances, err := h.Service.Allowances(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if allowances == nil {
		allowances = []hrmapi.Allowance{}
	}
	h.WriteJSON(w, http.StatusOK, allowances)
}

func (h *Handler) Deductions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	deductions, err := h.Service.Deductions(r.Context(), sess)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if deductions == nil {
		deductions = []hrmapi.Deduction{}
	}
	h.WriteJSON(w, http.StatusOK, deductions)
}
