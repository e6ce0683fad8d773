package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

type StoreAPI interface {
	Login(ctx context.Context, creds hrmapi.Credentials) (*Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(tokenString string) (*Session, error)
	Ready() bool
}

type Handler struct {
	*transport.BaseHandler
	Store StoreAPI

	// cleanup hooks run after a successful logout so other components can
	// drop their per-session state
	cleanup []func(sessionID string)
}

func NewHandler(store StoreAPI, cleanup ...func(sessionID string)) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Store:       store,
		cleanup:     cleanup,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, token, err := h.Store.Login(r.Context(), hrmapi.Credentials{
		Username: dto.Username,
		Password: dto.Password,
	})
	if err != nil {
		h.Logger.Error("authentication failed", "username", dto.Username, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     transport.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  sess.ToView(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractToken(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing session token")
		return
	}

	sess, err := h.Store.Resolve(token)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Store.Logout(r.Context(), sess.ID); err != nil {
		h.Logger.Error("logout failed", "session_id", sess.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	for _, fn := range h.cleanup {
		fn(sess.ID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     transport.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := FromContext(r.Context())
	if !ok || sess == nil {
		h.HandleServiceError(w, internal.ErrSessionNotFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, sess.ToView())
}
