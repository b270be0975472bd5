package application

import (
	"time"

	"github.com/learnforge/identity-service/internal/domain"
)

type RegisterRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	Mobile    string   `json:"mobile"`
	RoleNames []string `json:"roles"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserProfile is the public view of a persisted account. The password hash
// and internal lock flags are deliberately absent.
type UserProfile struct {
	UserID        string    `json:"user_id"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Mobile        string    `json:"mobile"`
	AccountStatus string    `json:"account_status"`
	Roles         []string  `json:"roles"`
	CreatedAt     time.Time `json:"created_at"`
}

type AuthenticationResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toProfile(user domain.User) UserProfile {
	return UserProfile{
		UserID:        user.UserID.String(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		Email:         user.Email,
		Mobile:        user.Mobile,
		AccountStatus: string(user.AccountStatus),
		Roles:         user.RoleNames(),
		CreatedAt:     user.CreatedAt,
	}
}
