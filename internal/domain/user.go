package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the coarse lifecycle state of a user account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountInactive  AccountStatus = "INACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// User is the canonical authentication identity aggregate.
// It keeps only auth-relevant state so downstream profile services stay
// the source of truth for everything else.
type User struct {
	UserID             uuid.UUID
	FirstName          string
	LastName           string
	Username           string
	Email              string
	Mobile             string
	PasswordHash       string
	AccountStatus      AccountStatus
	AccountLocked      bool
	AccountExpired     bool
	CredentialsExpired bool
	FailedAttempts     int
	Roles              []Role
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RoleNames projects the attached roles to their names, preserving order.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// UserRole is the many-to-many join record between users and roles.
type UserRole struct {
	UserID    uuid.UUID
	RoleID    uuid.UUID
	CreatedAt time.Time
}
