package session

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// UserView is what the client gets back after login: identity plus the role
// the guards will enforce. The upstream token is never part of it.
type UserView struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	EmployeeID  *int64 `json:"employee_id,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func (s *Session) ToView() UserView {
	return UserView{
		UserID:      s.UserID,
		Username:    s.Username,
		DisplayName: s.DisplayName,
		EmployeeID:  s.EmployeeID,
		Role:        string(s.Role),
		Status:      string(s.Status),
	}
}
