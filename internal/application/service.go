package application

import (
	"time"

	"github.com/learnforge/identity-service/internal/ports"
)

// Config carries the application-level knobs resolved at bootstrap.
type Config struct {
	DefaultRole          string
	FailedLoginThreshold int
	LockoutDuration      time.Duration
}

// Service orchestrates registration, authentication, and token renewal over
// the repository, cache, and security ports.
type Service struct {
	cfg       Config
	users     ports.UserRepository
	roles     ports.RoleRepository
	userRoles ports.UserRoleRepository
	lockouts  ports.LockoutStore
	hasher    ports.PasswordHasher
	codec     ports.TokenCodec
	publisher ports.EventPublisher
	validator *RegistrationValidator
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Users     ports.UserRepository
	Roles     ports.RoleRepository
	UserRoles ports.UserRoleRepository
	Lockouts  ports.LockoutStore
	Hasher    ports.PasswordHasher
	Codec     ports.TokenCodec
	Publisher ports.EventPublisher
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:       deps.Config,
		users:     deps.Users,
		roles:     deps.Roles,
		userRoles: deps.UserRoles,
		lockouts:  deps.Lockouts,
		hasher:    deps.Hasher,
		codec:     deps.Codec,
		publisher: deps.Publisher,
		validator: NewRegistrationValidator(deps.Users),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}
