package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is static reference data assigned to users at registration time.
type Role struct {
	RoleID      uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// The closed set of role names the service accepts at its boundary.
// Unknown names fail resolution instead of silently producing empty roles.
const (
	RoleUser       = "ROLE_USER"
	RoleAdmin      = "ROLE_ADMIN"
	RoleSales      = "ROLE_SALES"
	RoleOperations = "ROLE_OPERATIONS"
)

var knownRoles = map[string]struct{}{
	RoleUser:       {},
	RoleAdmin:      {},
	RoleSales:      {},
	RoleOperations: {},
}

// IsKnownRole reports whether name belongs to the closed role set.
func IsKnownRole(name string) bool {
	_, ok := knownRoles[name]
	return ok
}
