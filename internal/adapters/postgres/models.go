package postgres

import (
	"time"

	"github.com/google/uuid"
)

type roleModel struct {
	RoleID      uuid.UUID `gorm:"column:role_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (roleModel) TableName() string { return "roles" }

type userModel struct {
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName          string    `gorm:"column:first_name"`
	LastName           string    `gorm:"column:last_name"`
	Username           string    `gorm:"column:username"`
	Email              string    `gorm:"column:email"`
	Mobile             string    `gorm:"column:mobile"`
	PasswordHash       string    `gorm:"column:password_hash"`
	AccountStatus      string    `gorm:"column:account_status"`
	AccountLocked      bool      `gorm:"column:account_locked"`
	AccountExpired     bool      `gorm:"column:account_expired"`
	CredentialsExpired bool      `gorm:"column:credentials_expired"`
	FailedAttempts     int       `gorm:"column:failed_attempts"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type userRoleModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRoleModel) TableName() string { return "user_roles" }
