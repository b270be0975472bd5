package domain

import "unicode"

const minPasswordLength = 8

// IsAcceptablePassword enforces the baseline password policy: length >= 8
// with at least one uppercase letter, one lowercase letter, and one digit.
// Pure function; hashing and verification are an adapter concern.
func IsAcceptablePassword(password string) bool {
	var (
		hasUpper bool
		hasLower bool
		hasDigit bool
	)

	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return length >= minPasswordLength && hasUpper && hasLower && hasDigit
}
