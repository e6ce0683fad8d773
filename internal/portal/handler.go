package portal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	Capabilities(ctx context.Context, sess *session.Session) Capabilities
	Navigation(ctx context.Context, sess *session.Session) NavigationView
	SetViewMode(ctx context.Context, sess *session.Session, mode ViewMode) (NavigationView, error)
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

func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess == nil {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Navigation(r.Context(), sess))
}

type setViewModeDTO struct {
	Mode string `json:"mode"`
}

func (h *Handler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess == nil {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	var dto setViewModeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SetViewMode(r.Context(), sess, ViewMode(dto.Mode))
	if err != nil {
		h.Logger.Error("view mode change rejected", "session_id", sess.ID, "mode", dto.Mode, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}
