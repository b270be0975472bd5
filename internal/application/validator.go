package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

// RegistrationValidator composes the uniqueness lookups and the password
// policy into one batched result. Checks fan out concurrently and all settle
// before the aggregate is produced; callers never see a partial list.
type RegistrationValidator struct {
	users ports.UserRepository
}

func NewRegistrationValidator(users ports.UserRepository) *RegistrationValidator {
	return &RegistrationValidator{users: users}
}

// Validate returns every failed check as a field error. An empty slice means
// the request is acceptable. Only lookup failures surface as an error.
func (v *RegistrationValidator) Validate(ctx context.Context, req RegisterRequest) ([]domain.FieldError, error) {
	var (
		usernameTaken bool
		emailTaken    bool
		mobileTaken   bool
		passwordWeak  bool
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		taken, err := v.users.ExistsByUsername(ctx, req.Username)
		usernameTaken = taken
		return err
	})
	g.Go(func() error {
		taken, err := v.users.ExistsByEmail(ctx, req.Email)
		emailTaken = taken
		return err
	})
	g.Go(func() error {
		taken, err := v.users.ExistsByMobile(ctx, req.Mobile)
		mobileTaken = taken
		return err
	})
	g.Go(func() error {
		passwordWeak = !domain.IsAcceptablePassword(req.Password)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fieldErrors := make([]domain.FieldError, 0, 4)
	if usernameTaken {
		fieldErrors = append(fieldErrors, domain.FieldError{
			Field:   "username",
			Value:   req.Username,
			Message: "Username already taken.",
		})
	}
	if emailTaken {
		fieldErrors = append(fieldErrors, domain.FieldError{
			Field:   "email",
			Value:   req.Email,
			Message: "Email already taken.",
		})
	}
	if mobileTaken {
		fieldErrors = append(fieldErrors, domain.FieldError{
			Field:   "mobile",
			Value:   req.Mobile,
			Message: "Mobile number already taken.",
		})
	}
	if passwordWeak {
		// The submitted password is never echoed back.
		fieldErrors = append(fieldErrors, domain.FieldError{
			Field:   "password",
			Message: "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one digit.",
		})
	}
	return fieldErrors, nil
}
