package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the root cause of every value-object construction failure.
var ErrValidation = errors.New("validation failed")

const (
	passwordMinLength = 8
	passwordMaxLength = 128

	passwordSpecials = "@$!%*?&"
)

// Password is a validated plaintext password candidate. It only exists
// between the request boundary and the credential store; the hashed form is
// an opaque string owned by the store and never passes through here.
type Password struct {
	value string
}

// NewPassword validates a plaintext candidate against the complexity policy:
// at least one upper-case letter, one lower-case letter, one digit and one
// special character, 8-128 characters total, drawn only from those four
// classes.
func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength || len(raw) > passwordMaxLength {
		return Password{}, fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, passwordMinLength, passwordMaxLength)
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return Password{}, fmt.Errorf("%w: password contains an unsupported character", ErrValidation)
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return Password{}, fmt.Errorf("%w: password must contain upper, lower, digit and special characters", ErrValidation)
	}
	return Password{value: raw}, nil
}

// Plaintext exposes the raw password for hashing or comparison.
// Callers must not persist or log the returned value.
func (p Password) Plaintext() string {
	return p.value
}

// String masks the password value so it never leaks into logs.
func (p Password) String() string {
	return "[PROTECTED]"
}
