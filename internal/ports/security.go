package ports

import (
	"time"

	"github.com/learnforge/identity-service/internal/domain"
)

// PasswordHasher is the opaque one-way hash+verify capability.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims is the adapter-neutral view of a parsed token payload.
type TokenClaims struct {
	Subject       string
	UserID        string
	AccountStatus string
	Roles         []string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// TokenCodec builds and parses signed tokens. Validation is two-tiered:
// IsValid is a boolean fast path for gating, Parse raises typed errors for
// claim extraction once validity is already known.
type TokenCodec interface {
	IssueAccessToken(user domain.User, roles []string, now time.Time) (string, error)
	IssueRefreshToken(user domain.User, now time.Time) (string, error)
	Parse(token string) (TokenClaims, error)
	IsValid(token string) bool
	Subject(token string) (string, error)
	Roles(token string) []string
}
