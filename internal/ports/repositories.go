package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnforge/identity-service/internal/domain"
)

// CreateUserParams captures the persisted shape of a newly registered user.
// Role IDs are included so the user row and its join records commit in a
// single transaction, closing the orphaned-user window.
type CreateUserParams struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Mobile       string
	PasswordHash string
	RoleIDs      []uuid.UUID
	RegisteredAt time.Time
}

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	CreateWithRolesTx(ctx context.Context, params CreateUserParams) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByMobile(ctx context.Context, mobile string) (domain.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
}

// RoleRepository resolves static role reference data.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (domain.Role, error)
	FindByID(ctx context.Context, roleID uuid.UUID) (domain.Role, error)
}

// UserRoleRepository manages the user-to-role join records.
type UserRoleRepository interface {
	Save(ctx context.Context, userID, roleID uuid.UUID) error
	FindRolesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Role, error)
}
