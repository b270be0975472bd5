package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrBadCredentials hides whether the username or the password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrAccountDisabled signals a non-ACTIVE account status at login.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountLocked covers both the persistent lock flag and temporary
	// lockout after repeated failed attempts.
	ErrAccountLocked        = errors.New("account locked")
	ErrAccountExpired       = errors.New("account expired")
	ErrCredentialsExpired   = errors.New("credentials expired")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrRoleNotFound         = errors.New("role not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	// ErrConfiguration marks fatal misconfiguration such as a missing signing
	// secret. It is not recoverable per-request.
	ErrConfiguration = errors.New("configuration error")
)

// FieldError is one failed check against a registration field.
// Errors are collected, never raised per-field.
type FieldError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationError aggregates every failed registration check into a single
// failure value so callers see all problems in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%v: invalid fields: %s", ErrInvalidInput, strings.Join(names, ", "))
}

// Unwrap ties the aggregate to ErrInvalidInput for errors.Is matching.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
