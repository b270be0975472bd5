package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

// Register validates the request, resolves the requested roles, and persists
// the user together with its role join records in one transaction. No user
// row exists if any uniqueness or policy check fails.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (UserProfile, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Mobile = strings.TrimSpace(req.Mobile)

	fieldErrors, err := s.validator.Validate(ctx, req)
	if err != nil {
		return UserProfile{}, fmt.Errorf("validate registration: %w", err)
	}
	if len(fieldErrors) > 0 {
		return UserProfile{}, &domain.ValidationError{Fields: fieldErrors}
	}

	roleNames := req.RoleNames
	if len(roleNames) == 0 {
		roleNames = []string{s.cfg.DefaultRole}
	}
	roleIDs, err := s.resolveRoles(ctx, roleNames)
	if err != nil {
		return UserProfile{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserProfile{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	user, err := s.users.CreateWithRolesTx(ctx, ports.CreateUserParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: passwordHash,
		RoleIDs:      roleIDs,
		RegisteredAt: now,
	})
	if err != nil {
		return UserProfile{}, err
	}

	payload, _ := json.Marshal(map[string]any{
		"user_id":       user.UserID.String(),
		"username":      user.Username,
		"registered_at": now,
	})
	_ = s.publisher.Publish(ctx, "user.registered", payload)

	return toProfile(user), nil
}

// resolveRoles maps role names to stored role ids. Names outside the closed
// role set, or names without a stored row, fail fast.
func (s *Service) resolveRoles(ctx context.Context, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if !domain.IsKnownRole(name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
		}
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
			}
			return nil, fmt.Errorf("resolve role %s: %w", name, err)
		}
		ids = append(ids, role.RoleID)
	}
	return ids, nil
}
