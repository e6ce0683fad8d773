package leave

import (
	"time"

	"github.com/satriadw/hrm-portal/internal"
)

const dateLayout = "2006-01-02"

type CreateRequestDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

func (d CreateRequestDTO) Validate() error {
	if d.LeaveType == "" {
		return internal.NewValidationError("leave_type is required", internal.ErrCodeValidationFailed)
	}

	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return internal.NewValidationError("start_date must be YYYY-MM-DD", internal.ErrCodeValidationFailed)
	}
	end, err := time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return internal.NewValidationError("end_date must be YYYY-MM-DD", internal.ErrCodeValidationFailed)
	}
	if end.Before(start) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RejectDTO struct {
	Reason string `json:"reason,omitempty"`
}
