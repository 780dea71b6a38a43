// Package usecase implements the session lifecycle business logic for the
// auth feature: login, refresh, logout, validation, administrative
// suspension and the expired-session sweep.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/domain/valueobject"
	"auth_backend/internal/platform/token"
)

// TokenBundle is the result of a successful login or refresh.
type TokenBundle struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	ExpiresIn        int64
	RefreshExpiresIn int64
	UserID           uint
	Username         string
	SessionID        string
	CreatedAt        time.Time
}

// SessionPage is one page of a user's sessions.
type SessionPage struct {
	Sessions []*entity.Session
	Total    int64
	Page     int
	Size     int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// authUsecase implements the session lifecycle service.
type authUsecase struct {
	credentials CredentialStore
	sessions    SessionRepository
	codec       TokenCodec
	registry    RevocationRegistry
	events      EventSink
}

// NewAuthUsecase wires the lifecycle service from its collaborators.
func NewAuthUsecase(credentials CredentialStore, sessions SessionRepository, codec TokenCodec, registry RevocationRegistry, events EventSink) *authUsecase {
	return &authUsecase{
		credentials: credentials,
		sessions:    sessions,
		codec:       codec,
		registry:    registry,
		events:      events,
	}
}

// Login authenticates the user and opens a new session with a freshly
// issued token pair. The new tokens are indexed in the revocation registry
// before they are returned, so a concurrent revoke-all cannot miss them.
func (u *authUsecase) Login(ctx context.Context, username, rawPassword, clientIP, userAgent string) (*TokenBundle, error) {
	name, err := valueobject.NewUsername(username)
	if err != nil {
		return nil, err
	}
	if _, err := valueobject.NewPassword(rawPassword); err != nil {
		return nil, err
	}

	userID, err := u.credentials.Verify(ctx, name.String(), rawPassword)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		// A transient outage must never be reported as a wrong password.
		return nil, storeUnavailable(err)
	}

	access, refresh, err := u.issuePair(userID, name.String())
	if err != nil {
		return nil, err
	}
	if err := u.registry.Register(ctx, userID, access, refresh); err != nil {
		return nil, storeUnavailable(err)
	}

	session := entity.NewSession(
		uuid.NewString(), userID, name.String(), access, refresh,
		clientIP, userAgent,
		u.codec.TTL(token.KindAccess), u.codec.TTL(token.KindRefresh),
	)
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, storeUnavailable(err)
	}
	u.dispatch(ctx, session)

	slog.Info("login successful", "user_id", userID, "username", name.String(), "session_id", session.ID, "client_ip", clientIP)
	return u.bundle(session), nil
}

// Refresh exchanges a valid refresh token for a brand-new token pair and
// rotates the session. The rotated-out pair is denied so it stops passing
// validation even though its signatures remain cryptographically sound.
// A concurrency conflict is retried once with a fresh read.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken, clientIP, userAgent string) (*TokenBundle, error) {
	tok, err := valueobject.NewToken(refreshToken)
	if err != nil {
		return nil, err
	}

	claims, err := u.codec.Verify(tok.String(), token.KindRefresh)
	if err != nil {
		return nil, invalidToken(err)
	}
	denied, err := u.registry.IsDenied(ctx, tok.String())
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if denied {
		return nil, fmt.Errorf("%w: token has been revoked", domain.ErrInvalidToken)
	}

	bundle, err := u.rotate(ctx, tok.String(), claims)
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		slog.Warn("refresh hit a concurrent update, retrying once", "user_id", claims.UserID)
		bundle, err = u.rotate(ctx, tok.String(), claims)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("tokens refreshed", "user_id", claims.UserID, "session_id", bundle.SessionID, "client_ip", clientIP)
	return bundle, nil
}

// rotate performs one read-then-write refresh attempt.
func (u *authUsecase) rotate(ctx context.Context, refreshToken string, claims *token.Claims) (*TokenBundle, error) {
	session, err := u.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, storeUnavailable(err)
	}
	if !session.IsValid() {
		return nil, fmt.Errorf("%w: status=%s", domain.ErrSessionInvalid, session.Status)
	}

	oldAccess, oldRefresh := session.AccessToken, session.RefreshToken

	access, refresh, err := u.issuePair(session.UserID, session.Username)
	if err != nil {
		return nil, err
	}
	if err := u.registry.Register(ctx, session.UserID, access, refresh); err != nil {
		return nil, storeUnavailable(err)
	}

	if err := session.RefreshTokens(access, refresh, u.codec.TTL(token.KindAccess), u.codec.TTL(token.KindRefresh)); err != nil {
		return nil, err
	}
	if err := u.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, storeUnavailable(err)
	}

	// The previous pair is rotated out; deny it for its remaining lifetime.
	if err := u.registry.Deny(ctx, oldAccess); err != nil {
		slog.Warn("failed to deny rotated access token", "error", err, "session_id", session.ID)
	}
	if err := u.registry.Deny(ctx, oldRefresh); err != nil {
		slog.Warn("failed to deny rotated refresh token", "error", err, "session_id", session.ID)
	}

	u.dispatch(ctx, session)
	return u.bundle(session), nil
}

// Logout denies the presented tokens and revokes their session. The tokens
// are denied even when no session row is found: a structurally valid token
// that was presented must become unusable regardless of store state.
func (u *authUsecase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	access, err := valueobject.NewToken(accessToken)
	if err != nil {
		return err
	}

	if err := u.registry.Deny(ctx, access.String()); err != nil {
		return storeUnavailable(err)
	}
	if refreshToken != "" {
		refresh, err := valueobject.NewToken(refreshToken)
		if err != nil {
			return err
		}
		if err := u.registry.Deny(ctx, refresh.String()); err != nil {
			return storeUnavailable(err)
		}
	}

	session, err := u.sessions.FindByAccessToken(ctx, access.String())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Token already denied above; nothing left to revoke.
			slog.Info("logout for token without session row")
			return nil
		}
		return storeUnavailable(err)
	}

	session.Revoke()
	if err := u.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			// Another request revoked or rotated concurrently; the denylist
			// entry already makes the presented tokens unusable.
			slog.Warn("logout lost a concurrent update", "session_id", session.ID)
			return nil
		}
		return storeUnavailable(err)
	}
	u.dispatch(ctx, session)

	slog.Info("logout successful", "user_id", session.UserID, "session_id", session.ID)
	return nil
}

// Validate checks a presented access token and returns the owning user ID.
// The denylist is consulted first, then the signature and claims. Touching
// the session's last-activity timestamp is advisory telemetry: its failure
// never fails validation.
func (u *authUsecase) Validate(ctx context.Context, accessToken string) (uint, error) {
	tok, err := valueobject.NewToken(accessToken)
	if err != nil {
		return 0, err
	}

	denied, err := u.registry.IsDenied(ctx, tok.String())
	if err != nil {
		return 0, storeUnavailable(err)
	}
	if denied {
		return 0, fmt.Errorf("%w: token has been revoked", domain.ErrInvalidToken)
	}

	claims, err := u.codec.Verify(tok.String(), token.KindAccess)
	if err != nil {
		return 0, invalidToken(err)
	}

	if session, err := u.sessions.FindByAccessToken(ctx, tok.String()); err == nil {
		session.Touch()
		if err := u.sessions.Update(ctx, session); err != nil {
			slog.Debug("failed to persist session touch", "error", err, "session_id", session.ID)
		}
	}

	return claims.UserID, nil
}

// ListSessions returns one page of the user's sessions, most recently
// active first.
func (u *authUsecase) ListSessions(ctx context.Context, userID uint, page, size int) (*SessionPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	sessions, total, err := u.sessions.FindByUserID(ctx, userID, page, size)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return &SessionPage{Sessions: sessions, Total: total, Page: page, Size: size}, nil
}

// RevokeAllSessions denies every outstanding token recorded for the user,
// then removes all of the user's session rows. Returns the number of tokens
// denied.
func (u *authUsecase) RevokeAllSessions(ctx context.Context, userID uint) (int, error) {
	denied, err := u.registry.DenyAllForUser(ctx, userID)
	if err != nil {
		return denied, storeUnavailable(err)
	}
	removed, err := u.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return denied, storeUnavailable(err)
	}

	slog.Info("revoked all sessions", "user_id", userID, "tokens_denied", denied, "sessions_removed", removed)
	return denied, nil
}

// Suspend administratively pauses a session.
func (u *authUsecase) Suspend(ctx context.Context, sessionID string) error {
	return u.transition(ctx, sessionID, (*entity.Session).Suspend)
}

// Activate lifts an administrative suspension.
func (u *authUsecase) Activate(ctx context.Context, sessionID string) error {
	return u.transition(ctx, sessionID, (*entity.Session).Activate)
}

// transition applies an administrative state change with a single retry on
// a concurrent update.
func (u *authUsecase) transition(ctx context.Context, sessionID string, apply func(*entity.Session) error) error {
	attempt := func() error {
		session, err := u.sessions.FindByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return domain.ErrSessionNotFound
			}
			return storeUnavailable(err)
		}
		if err := apply(session); err != nil {
			return err
		}
		if err := u.sessions.Update(ctx, session); err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return domain.ErrConcurrencyConflict
			}
			return storeUnavailable(err)
		}
		u.dispatch(ctx, session)
		return nil
	}

	err := attempt()
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		err = attempt()
	}
	return err
}

// CleanupExpired soft-deletes sessions whose access token expired more than
// graceDays ago. Returns the count removed. Safe to run concurrently with
// live traffic: it only touches rows long past their grace window.
func (u *authUsecase) CleanupExpired(ctx context.Context, graceDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -graceDays)
	removed, err := u.sessions.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, storeUnavailable(err)
	}

	slog.Info("expired session cleanup finished", "removed", removed, "cutoff", cutoff)
	return removed, nil
}

func (u *authUsecase) issuePair(userID uint, username string) (access, refresh string, err error) {
	access, err = u.codec.Issue(token.KindAccess, userID, username)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err = u.codec.Issue(token.KindRefresh, userID, username)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return access, refresh, nil
}

func (u *authUsecase) bundle(s *entity.Session) *TokenBundle {
	return &TokenBundle{
		AccessToken:      s.AccessToken,
		RefreshToken:     s.RefreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(u.codec.TTL(token.KindAccess).Seconds()),
		RefreshExpiresIn: int64(u.codec.TTL(token.KindRefresh).Seconds()),
		UserID:           s.UserID,
		Username:         s.Username,
		SessionID:        s.ID,
		CreatedAt:        s.CreatedAt,
	}
}

// dispatch hands pending lifecycle events to the sink after the write
// committed.
func (u *authUsecase) dispatch(ctx context.Context, s *entity.Session) {
	if events := s.PullEvents(); len(events) > 0 && u.events != nil {
		u.events.Dispatch(ctx, events)
	}
}

func storeUnavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func invalidToken(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
}
