package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnforge/identity-service/internal/domain"
)

// Authenticate verifies credentials and issues an access/refresh token pair.
// Account-state checks run before the password compare so a locked or
// disabled account never burns a bcrypt round.
func (s *Service) Authenticate(ctx context.Context, username, password string) (AuthenticationResponse, error) {
	now := s.nowFn()

	lockKey := "login:" + username
	lockState, err := s.lockouts.Get(ctx, lockKey)
	if err == nil && lockState.LockedUntil != nil && lockState.LockedUntil.After(now) {
		return AuthenticationResponse{}, domain.ErrAccountLocked
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthenticationResponse{}, domain.ErrBadCredentials
		}
		return AuthenticationResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.AccountStatus != domain.AccountActive {
		return AuthenticationResponse{}, domain.ErrAccountDisabled
	}
	if user.AccountLocked {
		return AuthenticationResponse{}, domain.ErrAccountLocked
	}
	if user.AccountExpired {
		return AuthenticationResponse{}, domain.ErrAccountExpired
	}
	if user.CredentialsExpired {
		return AuthenticationResponse{}, domain.ErrCredentialsExpired
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		_, _ = s.lockouts.RecordFailure(ctx, lockKey, now, s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
		return AuthenticationResponse{}, domain.ErrBadCredentials
	}
	_ = s.lockouts.Clear(ctx, lockKey)

	return s.issueTokens(ctx, user, now)
}

// Refresh validates a presented refresh token and rotates the pair. The old
// refresh token stays usable until it expires; the design is stateless and
// keeps no server-side denylist.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthenticationResponse, error) {
	if !s.codec.IsValid(refreshToken) {
		return AuthenticationResponse{}, domain.ErrInvalidRefreshToken
	}

	subject, err := s.codec.Subject(refreshToken)
	if err != nil {
		// The token already passed IsValid; a claim failure here is a
		// programming error, surfaced as an auth failure, never retried.
		return AuthenticationResponse{}, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthenticationResponse{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, subject)
		}
		return AuthenticationResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	return s.issueTokens(ctx, user, s.nowFn())
}

// IsValidJWT is the standalone validation entry point; it never fails, it
// only answers.
func (s *Service) IsValidJWT(_ context.Context, token string) bool {
	return s.codec.IsValid(token)
}

// ValidateToken gates a bearer token and derives the request principal from
// its claims. Used by the request filter and the internal gRPC surface.
func (s *Service) ValidateToken(_ context.Context, raw string) (domain.Principal, error) {
	if !s.codec.IsValid(raw) {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	claims, err := s.codec.Parse(raw)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	return domain.Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Roles:    roles,
	}, nil
}

// issueTokens re-reads role assignments so a grant or revoke between login
// and refresh is reflected in the next access token.
func (s *Service) issueTokens(ctx context.Context, user domain.User, now time.Time) (AuthenticationResponse, error) {
	roles, err := s.userRoles.FindRolesForUser(ctx, user.UserID)
	if err != nil {
		return AuthenticationResponse{}, fmt.Errorf("load roles: %w", err)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	accessToken, err := s.codec.IssueAccessToken(user, names, now)
	if err != nil {
		return AuthenticationResponse{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.codec.IssueRefreshToken(user, now)
	if err != nil {
		return AuthenticationResponse{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return AuthenticationResponse{
		UserID:       user.UserID.String(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
