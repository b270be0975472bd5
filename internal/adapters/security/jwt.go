package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

// JWTCodec implements HS256 token issuance and parsing.
// The secret is held at adapter level so the application layer stays
// crypto-library agnostic; it is read-only after construction and safe to
// share across goroutines.
type JWTCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFn      func() time.Time
}

// NewJWTCodec builds a codec from the configured signing secret and TTLs.
// A missing secret is a fatal configuration error, not a per-request one.
func NewJWTCodec(secret string, accessTTL, refreshTTL time.Duration) (*JWTCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token signing secret is required", domain.ErrConfiguration)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", domain.ErrConfiguration)
	}
	return &JWTCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}, nil
}

type tokenClaims struct {
	UserID        string   `json:"userId,omitempty"`
	AccountStatus string   `json:"accountStatus,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccessToken embeds the user's identity, account status, and the roles
// held at issuance time. Role staleness until expiry is an accepted tradeoff
// of the stateless design.
func (c *JWTCodec) IssueAccessToken(user domain.User, roles []string, now time.Time) (string, error) {
	return c.sign(tokenClaims{
		UserID:        user.UserID.String(),
		AccountStatus: string(user.AccountStatus),
		Roles:         roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	})
}

// IssueRefreshToken carries only the subject and expiry.
func (c *JWTCodec) IssueRefreshToken(user domain.User, now time.Time) (string, error) {
	return c.sign(tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	})
}

func (c *JWTCodec) sign(claims tokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the embedded claims.
// An expiry exactly equal to now counts as expired.
func (c *JWTCodec) Parse(raw string) (ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.nowFn), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenClaims{}, domain.ErrTokenExpired
		}
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}

	out := ports.TokenClaims{
		Subject:       claims.Subject,
		UserID:        claims.UserID,
		AccountStatus: claims.AccountStatus,
		Roles:         claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

// IsValid is the boolean gate used by the request filter: true iff the token
// parses, the signature verifies, and the expiry is in the future. Every
// failure mode is swallowed to false.
func (c *JWTCodec) IsValid(raw string) bool {
	_, err := c.Parse(raw)
	return err == nil
}

// Subject projects the sub claim out of a parsed token.
func (c *JWTCodec) Subject(raw string) (string, error) {
	claims, err := c.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Roles projects the roles claim. A token without roles (refresh tokens, or
// a malformed claim) yields an empty slice rather than an error.
func (c *JWTCodec) Roles(raw string) []string {
	claims, err := c.Parse(raw)
	if err != nil || len(claims.Roles) == 0 {
		return []string{}
	}
	return claims.Roles
}
