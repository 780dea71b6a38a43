// Package entity defines the domain entities for the auth feature.
package entity

import (
	"fmt"
	"time"

	"auth_backend/internal/feature/auth/domain"
)

// Status is the lifecycle state of a session. Expiry is never a status:
// it is always derived from the expiry timestamps at observation time.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	// StatusRevoked is terminal. The only way forward is a brand-new session.
	StatusRevoked Status = "REVOKED"
)

// Auditable carries the shared bookkeeping fields composed into persisted
// aggregates. Version is the optimistic-concurrency counter: it increments
// on every mutation and is compared at write time by the store.
type Auditable struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
	Deleted   bool
}

// touch records a mutation on the audit fields.
func (a *Auditable) touch(now time.Time) {
	a.UpdatedAt = now
	a.Version++
}

// Session is the aggregate root for one login session. It owns the state
// machine and its invariants: both tokens are always set together, and
// status plus the two expiry timestamps are the only source of truth for
// validity.
type Session struct {
	ID           string
	UserID       uint
	Username     string
	AccessToken  string
	RefreshToken string
	ClientIP     string
	UserAgent    string
	Status       Status

	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	LastActivityAt        time.Time

	Auditable

	events []Event
}

// NewSession is the only way a session comes into existence: both tokens are
// issued atomically and the session starts ACTIVE with expiries computed
// from the configured TTLs.
func NewSession(id string, userID uint, username, accessToken, refreshToken, clientIP, userAgent string, accessTTL, refreshTTL time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:                    id,
		UserID:                userID,
		Username:              username,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		ClientIP:              clientIP,
		UserAgent:             userAgent,
		Status:                StatusActive,
		AccessTokenExpiresAt:  now.Add(accessTTL),
		RefreshTokenExpiresAt: now.Add(refreshTTL),
		LastActivityAt:        now,
		Auditable: Auditable{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
		},
	}
	s.record(EventSessionCreated, now)
	return s
}

// IsAccessTokenExpired returns true if the access token has passed its expiry.
func (s *Session) IsAccessTokenExpired() bool {
	return time.Now().After(s.AccessTokenExpiresAt)
}

// IsRefreshTokenExpired returns true if the refresh token has passed its expiry.
func (s *Session) IsRefreshTokenExpired() bool {
	return time.Now().After(s.RefreshTokenExpiresAt)
}

// IsValid is a derived predicate, never stored: ACTIVE and neither token expired.
func (s *Session) IsValid() bool {
	return s.Status == StatusActive && !s.IsAccessTokenExpired() && !s.IsRefreshTokenExpired()
}

// RefreshTokens replaces the token pair and pushes both expiries forward.
// Legal only while the session is valid; the precondition is checked before
// any field is mutated.
func (s *Session) RefreshTokens(newAccessToken, newRefreshToken string, accessTTL, refreshTTL time.Duration) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: cannot refresh tokens in status %s", domain.ErrSessionInvalid, s.Status)
	}
	now := time.Now()
	s.AccessToken = newAccessToken
	s.RefreshToken = newRefreshToken
	s.AccessTokenExpiresAt = now.Add(accessTTL)
	s.RefreshTokenExpiresAt = now.Add(refreshTTL)
	s.LastActivityAt = now
	s.touch(now)
	s.record(EventTokensRefreshed, now)
	return nil
}

// Revoke moves the session to its terminal state. Revoking an already
// revoked session is a no-op, not an error.
func (s *Session) Revoke() {
	if s.Status == StatusRevoked {
		return
	}
	now := time.Now()
	s.Status = StatusRevoked
	s.LastActivityAt = now
	s.touch(now)
	s.record(EventSessionRevoked, now)
}

// Suspend administratively pauses an active session. Suspending a session
// that is already suspended is a no-op; a revoked session cannot transition.
func (s *Session) Suspend() error {
	if s.Status == StatusRevoked {
		return fmt.Errorf("%w: cannot suspend a revoked session", domain.ErrSessionInvalid)
	}
	if s.Status == StatusSuspended {
		return nil
	}
	now := time.Now()
	s.Status = StatusSuspended
	s.LastActivityAt = now
	s.touch(now)
	s.record(EventSessionSuspended, now)
	return nil
}

// Activate lifts an administrative suspension. Activating an already active
// session is a no-op; a revoked session cannot transition.
func (s *Session) Activate() error {
	if s.Status == StatusRevoked {
		return fmt.Errorf("%w: cannot activate a revoked session", domain.ErrSessionInvalid)
	}
	if s.Status == StatusActive {
		return nil
	}
	now := time.Now()
	s.Status = StatusActive
	s.LastActivityAt = now
	s.touch(now)
	s.record(EventSessionActivated, now)
	return nil
}

// Touch updates the last-activity timestamp only. It never changes status.
func (s *Session) Touch() {
	now := time.Now()
	s.LastActivityAt = now
	s.touch(now)
}

// MarkDeleted sets the soft-delete flag. Rows are removed logically, never
// physically, so the cleanup sweep stays reversible for auditing.
func (s *Session) MarkDeleted() {
	now := time.Now()
	s.Deleted = true
	s.touch(now)
}

func (s *Session) record(t EventType, at time.Time) {
	s.events = append(s.events, Event{
		Type:       t,
		SessionID:  s.ID,
		UserID:     s.UserID,
		OccurredAt: at,
	})
}

// PullEvents returns the pending lifecycle notifications and clears them.
// The orchestration layer calls this after the write commits.
func (s *Session) PullEvents() []Event {
	evs := s.events
	s.events = nil
	return evs
}
