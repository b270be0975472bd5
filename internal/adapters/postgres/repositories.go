package postgres

import (
	"gorm.io/gorm"

	"github.com/learnforge/identity-service/internal/ports"
)

type Repositories struct {
	Users     ports.UserRepository
	Roles     ports.RoleRepository
	UserRoles ports.UserRoleRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:     &userRepository{db: db},
		Roles:     &roleRepository{db: db},
		UserRoles: &userRoleRepository{db: db},
	}
}
