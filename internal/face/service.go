package face

import (
	"context"
	"io"
	"log/slog"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/session"
)

type API interface {
	AttendanceCheck(ctx context.Context, token, filename string, image io.Reader) (*hrmapi.FaceMatch, error)
	UploadEmployeePhoto(ctx context.Context, token, employeeCode, filename string, image io.Reader) error
	EmployeeHasPhoto(ctx context.Context, token, employeeCode string) (bool, error)
}

type Service struct {
	client API
	logger *slog.Logger
}

func NewService(client API, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// AttendanceCheck relays a captured frame to the recognition service. An
// unmatched face is a normal outcome for the camera screen, so it comes back
// as a typed error rather than a bare match result.
func (s *Service) AttendanceCheck(ctx context.Context, sess *session.Session, filename string, image io.Reader) (*hrmapi.FaceMatch, error) {
	match, err := s.client.AttendanceCheck(ctx, sess.APIToken(), filename, image)
	if err != nil {
		return nil, err
	}
	if !match.Matched {
		return nil, internal.NewUpstreamError("face not recognized", internal.ErrCodeFaceNotRecognized, nil)
	}
	return match, nil
}

func (s *Service) UploadPhoto(ctx context.Context, sess *session.Session, employeeCode, filename string, image io.Reader) error {
	if employeeCode == "" {
		return internal.NewValidationError("employee_code is required", internal.ErrCodeValidationFailed)
	}
	return s.client.UploadEmployeePhoto(ctx, sess.APIToken(), employeeCode, filename, image)
}

func (s *Service) HasPhoto(ctx context.Context, sess *session.Session, employeeCode string) (bool, error) {
	if employeeCode == "" {
		return false, internal.NewValidationError("employee_code is required", internal.ErrCodeValidationFailed)
	}
	return s.client.EmployeeHasPhoto(ctx, sess.APIToken(), employeeCode)
}
