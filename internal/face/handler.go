package face

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
	"github.com/satriadw/hrm-portal/internal/transport"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

// maxImageSize caps uploaded frames at 8 MiB.
const maxImageSize = 8 << 20

type ServiceAPI interface {
	AttendanceCheck(ctx context.Context, sess *session.Session, filename string, image io.Reader) (*hrmapi.FaceMatch, error)
	UploadPhoto(ctx context.Context, sess *session.Session, employeeCode, filename string, image io.Reader) error
	HasPhoto(ctx context.Context, sess *session.Session, employeeCode string) (bool, error)
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

func (h *Handler) imageFromForm(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return nil, "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "image file is required")
		return nil, "", false
	}
	return file, header.Filename, true
}

func (h *Handler) AttendanceCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	file, filename, ok := h.imageFromForm(w, r)
	if !ok {
		return
	}
	defer file.Close()

	match, err := h.Service.AttendanceCheck(r.Context(), sess, filename, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, match)
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	file, filename, ok := h.imageFromForm(w, r)
	if !ok {
		return
	}
	defer file.Close()

	code := r.URL.Query().Get("employee_code")
	if err := h.Service.UploadPhoto(r.Context(), sess, code, filename, file); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HasPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	hasPhoto, err := h.Service.HasPhoto(r.Context(), sess, code)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, hrmapi.HasPhoto{HasPhoto: hasPhoto})
}
