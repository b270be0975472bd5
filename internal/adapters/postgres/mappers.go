package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/learnforge/identity-service/internal/domain"
)

func toDomainUser(row userModel, roles []domain.Role) domain.User {
	return domain.User{
		UserID:             row.UserID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Username:           row.Username,
		Email:              row.Email,
		Mobile:             row.Mobile,
		PasswordHash:       row.PasswordHash,
		AccountStatus:      domain.AccountStatus(row.AccountStatus),
		AccountLocked:      row.AccountLocked,
		AccountExpired:     row.AccountExpired,
		CredentialsExpired: row.CredentialsExpired,
		FailedAttempts:     row.FailedAttempts,
		Roles:              roles,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toDomainRole(row roleModel) domain.Role {
	return domain.Role{
		RoleID:      row.RoleID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
