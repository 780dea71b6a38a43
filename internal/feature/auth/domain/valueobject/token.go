package valueobject

import (
	"fmt"
	"regexp"
)

// tokenPattern matches the three dot-separated base64url segments of a
// compact JWS. Only the shape is checked here; signature and claims are the
// token codec's concern.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+$`)

// Token is a structurally valid bearer token string. Equality beyond string
// identity is meaningless; claims are extracted only through the codec.
type Token struct {
	value string
}

// NewToken validates the structural shape of a raw token string.
func NewToken(raw string) (Token, error) {
	if raw == "" {
		return Token{}, fmt.Errorf("%w: token must not be empty", ErrValidation)
	}
	if !tokenPattern.MatchString(raw) {
		return Token{}, fmt.Errorf("%w: token is not a three-segment compact JWS", ErrValidation)
	}
	return Token{value: raw}, nil
}

// String returns the raw token string.
func (t Token) String() string {
	return t.value
}
