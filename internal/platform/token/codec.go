// Package token issues and verifies the signed, self-contained bearer
// tokens used by the auth feature. Verification is purely computational:
// no store access, so any number of instances can validate concurrently.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes the two token types carried in the "type" claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const minSecretLen = 32 // 256-bit key floor for the HMAC secret

// Typed verification failures. Callers branch with errors.Is.
var (
	ErrExpired               = errors.New("token expired")
	ErrMalformed             = errors.New("token malformed")
	ErrBadSignature          = errors.New("token signature invalid")
	ErrWrongType             = errors.New("token type mismatch")
	ErrWrongIssuerOrAudience = errors.New("token issuer or audience mismatch")
)

// Claims is the verified content of a token.
type Claims struct {
	UserID    uint
	Username  string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// jwtClaims is the wire shape: registered claims plus username and type.
type jwtClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS512-signed tokens. It holds the server
// symmetric key and the configured TTLs; it is safe for concurrent use.
type Codec struct {
	secret      []byte
	issuer      string
	audience    string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	fallbackTTL time.Duration
}

// NewCodec creates a codec. The secret must be at least 32 bytes; fallbackTTL
// is the conservative remaining-TTL estimate used when a token cannot be
// parsed (so a revoked-but-unparseable token is never under-protected).
func NewCodec(secret string, issuer, audience string, accessTTL, refreshTTL, fallbackTTL time.Duration) (*Codec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive: access=%s refresh=%s", accessTTL, refreshTTL)
	}
	if fallbackTTL <= 0 {
		fallbackTTL = time.Hour
	}
	return &Codec{
		secret:      []byte(secret),
		issuer:      issuer,
		audience:    audience,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		fallbackTTL: fallbackTTL,
	}, nil
}

// TTL returns the configured lifetime for the given token kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue creates a signed token of the given kind for the user. Every token
// carries a unique jti: iat/exp have second granularity, so without it two
// issuances for the same user inside one second would sign identical bytes
// and a rotation could hand back the pair it just denied.
func (c *Codec) Issue(kind Kind, userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Username:  username,
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer, audience and token type, and
// returns the extracted claims. The failures are the typed errors above.
func (c *Codec) Verify(raw string, want Kind) (*Claims, error) {
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithAudience(c.audience), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrWrongIssuerOrAudience
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if claims.TokenType != string(want) {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrWrongType, want, claims.TokenType)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric subject", ErrMalformed)
	}

	out := &Claims{
		UserID:   uint(userID),
		Username: claims.Username,
		Kind:     Kind(claims.TokenType),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// RemainingTTL reports how long the token would stay naturally valid.
// Claims validation is skipped so an expired-but-wellformed token still
// reports from its exp; on any parse or signature failure the configured
// fallback is returned instead of zero.
func (c *Codec) RemainingTTL(raw string) time.Duration {
	var claims jwtClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || claims.ExpiresAt == nil {
		return c.fallbackTTL
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
