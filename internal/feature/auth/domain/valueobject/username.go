// Package valueobject defines validated value types for the auth feature.
// Construction is the only place validation happens: once a value exists,
// it is known to be well-formed.
package valueobject

import (
	"fmt"
	"regexp"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Username is a validated login name.
type Username struct {
	value string
}

// NewUsername validates and wraps a raw username string.
func NewUsername(raw string) (Username, error) {
	if len(raw) < usernameMinLength || len(raw) > usernameMaxLength {
		return Username{}, fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, usernameMinLength, usernameMaxLength)
	}
	if !usernamePattern.MatchString(raw) {
		return Username{}, fmt.Errorf("%w: username may only contain letters, digits and underscores", ErrValidation)
	}
	return Username{value: raw}, nil
}

// String returns the underlying username value.
func (u Username) String() string {
	return u.value
}
