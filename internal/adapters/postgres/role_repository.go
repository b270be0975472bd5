package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnforge/identity-service/internal/domain"
)

type roleRepository struct {
	db *gorm.DB
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (domain.Role, error) {
	var rec roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Role{}, domain.ErrNotFound
		}
		return domain.Role{}, err
	}
	return toDomainRole(rec), nil
}

func (r *roleRepository) FindByID(ctx context.Context, roleID uuid.UUID) (domain.Role, error) {
	var rec roleModel
	if err := r.db.WithContext(ctx).Where("role_id = ?", roleID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Role{}, domain.ErrNotFound
		}
		return domain.Role{}, err
	}
	return toDomainRole(rec), nil
}
