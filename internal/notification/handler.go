package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type ServiceAPI interface {
	Subscribe(sess *session.Session)
	Unsubscribe(sessionID string)
	UnreadCount(ctx context.Context, sess *session.Session) (int, error)
	List(ctx context.Context, sess *session.Session) ([]hrmapi.Notification, error)
	MarkRead(ctx context.Context, sess *session.Session, id int64) error
	MarkAllRead(ctx context.Context, sess *session.Session) error
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

func (h *Handler) sessionFrom(r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	return sess, ok && sess != nil
}

// Subscribe marks the layout as mounted: one immediate fetch, then the poll
// interval takes over.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	h.Service.Subscribe(sess)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	h.Service.Unsubscribe(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), sess)
	if err != nil {
		h.Logger.Error("unread count fetch failed", "session_id", sess.ID, "error", err)
		// degrade to zero rather than failing the badge
		h.WriteJSON(w, http.StatusOK, map[string]int{"count": 0})
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	notifications, err := h.Service.List(r.Context(), sess)
	if err != nil {
		h.Logger.Error("notification list fetch failed", "session_id", sess.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if notifications == nil {
		notifications = []hrmapi.Notification{}
	}
	h.WriteJSON(w, http.StatusOK, notifications)
}

// MarkRead flips one notification and answers with the navigation target the
// client should follow: the explicit link when present, otherwise the keyword
// fallback, otherwise empty (panel just closes).
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(r.Context(), sess, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Click handles a notification click from the panel: unread notifications
// get exactly one mark-read call, and the response carries the navigation
// target (explicit link first, keyword fallback second, empty for none).
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	var n hrmapi.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n.ID = id

	if !n.Read {
		if err := h.Service.MarkRead(r.Context(), sess, id); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"target": ResolveLink(n)})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFrom(r)
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}

	if err := h.Service.MarkAllRead(r.Context(), sess); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
