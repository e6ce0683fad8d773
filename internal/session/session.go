package session

import (
	"context"
	"time"
)

// Role is the closed set of account roles the backend can mint. The manager
// role exists on the wire but the gateway never branches on it: managerial
// capability is always derived from department ownership (see internal/portal).
type Role string

const (
	RoleAdministrator Role = "admin"
	RoleManager       Role = "manager"
	RoleEmployee      Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

// Session is the authenticated identity. It is created only by Login,
// destroyed only by Logout (or a forced logout on upstream 401), and never
// mutated in between.
type Session struct {
	ID          string
	UserID      int64
	Username    string
	DisplayName string
	EmployeeID  *int64
	Role        Role
	Status      Status
	CreatedAt   time.Time

	apiToken string
}

// APIToken is the upstream bearer token, held decrypted in memory only.
func (s *Session) APIToken() string {
	return s.apiToken
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdministrator
}

// IsManager checks the literal role field only. Nothing in the gateway relies
// on it; the live department scan in internal/portal is authoritative.
func (s *Session) IsManager() bool {
	return s != nil && s.Role == RoleManager
}

func (s *Session) IsEmployee() bool {
	return s != nil && s.Role == RoleEmployee
}

// HasRole reports whether the session's role is in the allowed list. An empty
// list admits any authenticated session with a valid role; a session without
// a role never passes.
func (s *Session) HasRole(allowed ...Role) bool {
	if s == nil || !s.Role.Valid() {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if s.Role == r {
			return true
		}
	}
	return false
}

// Persisted is the storable form of a session: same identity fields plus the
// upstream token encrypted at rest.
type Persisted struct {
	ID                string
	UserID            int64
	Username          string
	DisplayName       string
	EmployeeID        *int64
	Role              string
	Status            string
	EncryptedAPIToken string
	CreatedAt         time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Persisted) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]*Persisted, error)
}
