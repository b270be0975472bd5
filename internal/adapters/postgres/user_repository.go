package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

type userRepository struct {
	db *gorm.DB
}

// CreateWithRolesTx persists the user row and its role join records in a
// single transaction. Either the whole registration commits or none of it
// does, so a user can never exist without roles.
func (r *userRepository) CreateWithRolesTx(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := userModel{
			FirstName:     params.FirstName,
			LastName:      params.LastName,
			Username:      params.Username,
			Email:         params.Email,
			Mobile:        params.Mobile,
			PasswordHash:  params.PasswordHash,
			AccountStatus: string(domain.AccountActive),
			CreatedAt:     params.RegisteredAt,
			UpdatedAt:     params.RegisteredAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		for _, roleID := range params.RoleIDs {
			join := userRoleModel{
				UserID:    rec.UserID,
				RoleID:    roleID,
				CreatedAt: params.RegisteredAt,
			}
			if err := tx.Create(&join).Error; err != nil {
				return fmt.Errorf("create user role: %w", err)
			}
		}

		roles, err := loadRolesTx(tx, rec.UserID)
		if err != nil {
			return err
		}
		result = toDomainUser(rec, roles)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findBy(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *userRepository) FindByMobile(ctx context.Context, mobile string) (domain.User, error) {
	return r.findBy(ctx, "mobile = ?", mobile)
}

func (r *userRepository) FindByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return r.findBy(ctx, "user_id = ?", userID)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "username = ?", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "email = ?", email)
}

func (r *userRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return r.existsBy(ctx, "mobile = ?", mobile)
}

func (r *userRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	updates := map[string]any{
		"first_name":          user.FirstName,
		"last_name":           user.LastName,
		"account_status":      string(user.AccountStatus),
		"account_locked":      user.AccountLocked,
		"account_expired":     user.AccountExpired,
		"credentials_expired": user.CredentialsExpired,
		"failed_attempts":     user.FailedAttempts,
		"password_hash":       user.PasswordHash,
		"updated_at":          user.UpdatedAt,
	}
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", user.UserID).
		Updates(updates)
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, user.UserID)
}

func (r *userRepository) findBy(ctx context.Context, query string, arg any) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	roles, err := loadRolesTx(r.db.WithContext(ctx), rec.UserID)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(rec, roles), nil
}

func (r *userRepository) existsBy(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func loadRolesTx(tx *gorm.DB, userID uuid.UUID) ([]domain.Role, error) {
	var rows []roleModel
	err := tx.
		Joins("JOIN user_roles ON user_roles.role_id = roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	roles := make([]domain.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, toDomainRole(row))
	}
	return roles, nil
}
