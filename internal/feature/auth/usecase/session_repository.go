package usecase

import (
	"context"
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/platform/token"
)

// SessionRepository abstracts the persistence layer for session aggregates.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// FindByAccessToken retrieves the session currently holding the given access token.
	FindByAccessToken(ctx context.Context, tok string) (*entity.Session, error)

	// FindByRefreshToken retrieves the session currently holding the given refresh token.
	FindByRefreshToken(ctx context.Context, tok string) (*entity.Session, error)

	// FindByUserID retrieves one page of a user's sessions ordered by last
	// activity descending, plus the total count.
	FindByUserID(ctx context.Context, userID uint, page, size int) ([]*entity.Session, int64, error)

	// Update writes a mutated session back, guarded by its version: a write
	// whose expected version does not match the stored row fails with
	// domain.ErrConcurrencyConflict instead of clobbering.
	Update(ctx context.Context, session *entity.Session) error

	// DeleteByUserID soft-deletes all sessions for a user. Returns the count removed.
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)

	// DeleteExpiredBefore soft-deletes sessions whose access token expired
	// before the cutoff. Returns the count removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CredentialStore checks login credentials. The store itself (user service,
// directory, local table) is an external collaborator.
type CredentialStore interface {
	// Verify returns the user ID for a correct username/password pair and
	// domain.ErrInvalidCredentials otherwise.
	Verify(ctx context.Context, username, password string) (uint, error)
}

// TokenCodec issues and verifies signed tokens. Verification is stateless.
type TokenCodec interface {
	Issue(kind token.Kind, userID uint, username string) (string, error)
	Verify(raw string, want token.Kind) (*token.Claims, error)
	TTL(kind token.Kind) time.Duration
}

// RevocationRegistry is the TTL-bounded denylist plus the per-user index of
// outstanding tokens consulted by bulk revocation.
type RevocationRegistry interface {
	Deny(ctx context.Context, tok string) error
	IsDenied(ctx context.Context, tok string) (bool, error)
	Register(ctx context.Context, userID uint, tokens ...string) error
	DenyAllForUser(ctx context.Context, userID uint) (int, error)
}

// EventSink receives lifecycle notifications after a write commits.
// Dispatch must not fail the calling operation.
type EventSink interface {
	Dispatch(ctx context.Context, events []entity.Event)
}
