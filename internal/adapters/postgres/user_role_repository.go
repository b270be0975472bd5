package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnforge/identity-service/internal/domain"
)

type userRoleRepository struct {
	db *gorm.DB
}

func (r *userRoleRepository) Save(ctx context.Context, userID, roleID uuid.UUID) error {
	join := userRoleModel{
		UserID:    userID,
		RoleID:    roleID,
		CreatedAt: time.Now().UTC(),
	}
	// Re-assigning an already held role is a no-op, not a failure.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&join).Error
}

func (r *userRoleRepository) FindRolesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	return loadRolesTx(r.db.WithContext(ctx), userID)
}
