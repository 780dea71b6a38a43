package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth_backend/internal/feature/auth/domain"
)

// newTestSession creates a fresh ACTIVE session with generous TTLs.
func newTestSession() *Session {
	return NewSession(
		"session-001", 42, "alice",
		"access.token.one", "refresh.token.one",
		"127.0.0.1", "test-agent",
		24*time.Hour, 7*24*time.Hour,
	)
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	s := newTestSession()

	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, "access.token.one", s.AccessToken)
	assert.Equal(t, "refresh.token.one", s.RefreshToken)
	assert.True(t, s.IsValid())
	assert.Equal(t, 1, s.Version)
	assert.False(t, s.Deleted)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), s.AccessTokenExpiresAt, time.Second)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), s.RefreshTokenExpiresAt, time.Second)

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventSessionCreated, events[0].Type)
	assert.Equal(t, "session-001", events[0].SessionID)
	assert.Equal(t, uint(42), events[0].UserID)

	// Pulling again yields nothing.
	assert.Empty(t, s.PullEvents())
}

func TestSession_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Session)
		want   bool
	}{
		{name: "active and unexpired", mutate: func(s *Session) {}, want: true},
		{name: "suspended", mutate: func(s *Session) { _ = s.Suspend() }, want: false},
		{name: "revoked", mutate: func(s *Session) { s.Revoke() }, want: false},
		{
			name:   "access token expired",
			mutate: func(s *Session) { s.AccessTokenExpiresAt = time.Now().Add(-time.Second) },
			want:   false,
		},
		{
			name:   "refresh token expired",
			mutate: func(s *Session) { s.RefreshTokenExpiresAt = time.Now().Add(-time.Second) },
			want:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			tt.mutate(s)

			// The predicate is always derived from status plus expiries.
			expected := s.Status == StatusActive && !s.IsAccessTokenExpired() && !s.IsRefreshTokenExpired()
			assert.Equal(t, expected, s.IsValid())
			assert.Equal(t, tt.want, s.IsValid())
		})
	}
}

func TestSession_RefreshTokens(t *testing.T) {
	t.Parallel()

	t.Run("success: rotates pair and pushes expiries forward", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()
		s.PullEvents()
		oldVersion := s.Version
		oldAccessExpiry := s.AccessTokenExpiresAt

		time.Sleep(10 * time.Millisecond)
		err := s.RefreshTokens("access.token.two", "refresh.token.two", 24*time.Hour, 7*24*time.Hour)
		require.NoError(t, err)

		assert.Equal(t, "access.token.two", s.AccessToken)
		assert.Equal(t, "refresh.token.two", s.RefreshToken)
		assert.True(t, s.AccessTokenExpiresAt.After(oldAccessExpiry))
		assert.Equal(t, oldVersion+1, s.Version)

		events := s.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTokensRefreshed, events[0].Type)
	})

	t.Run("failure: revoked session", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()
		s.Revoke()
		before := *s

		err := s.RefreshTokens("a.b.c", "d.e.f", time.Hour, 2*time.Hour)
		assert.ErrorIs(t, err, domain.ErrSessionInvalid)

		// No partial mutation on precondition failure.
		assert.Equal(t, before.AccessToken, s.AccessToken)
		assert.Equal(t, before.RefreshToken, s.RefreshToken)
		assert.Equal(t, before.Version, s.Version)
	})

	t.Run("failure: expired session", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()
		s.AccessTokenExpiresAt = time.Now().Add(-time.Minute)

		err := s.RefreshTokens("a.b.c", "d.e.f", time.Hour, 2*time.Hour)
		assert.ErrorIs(t, err, domain.ErrSessionInvalid)
	})
}

func TestSession_Revoke(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	s.PullEvents()

	s.Revoke()
	assert.Equal(t, StatusRevoked, s.Status)
	versionAfterFirst := s.Version

	// Second revoke is a no-op, not an error.
	s.Revoke()
	assert.Equal(t, StatusRevoked, s.Status)
	assert.Equal(t, versionAfterFirst, s.Version)

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventSessionRevoked, events[0].Type)
}

func TestSession_SuspendActivate(t *testing.T) {
	t.Parallel()

	t.Run("suspend then activate", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()

		require.NoError(t, s.Suspend())
		assert.Equal(t, StatusSuspended, s.Status)
		assert.False(t, s.IsValid())

		// Suspending again is a no-op.
		version := s.Version
		require.NoError(t, s.Suspend())
		assert.Equal(t, version, s.Version)

		require.NoError(t, s.Activate())
		assert.Equal(t, StatusActive, s.Status)
		assert.True(t, s.IsValid())
	})

	t.Run("revoked is terminal", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()
		s.Revoke()

		assert.ErrorIs(t, s.Suspend(), domain.ErrSessionInvalid)
		assert.ErrorIs(t, s.Activate(), domain.ErrSessionInvalid)
		assert.Equal(t, StatusRevoked, s.Status)
	})
}

func TestSession_Touch(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	before := s.LastActivityAt
	version := s.Version

	time.Sleep(10 * time.Millisecond)
	s.Touch()

	assert.True(t, s.LastActivityAt.After(before))
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, version+1, s.Version)
}

func TestSession_MarkDeleted(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	version := s.Version

	s.MarkDeleted()

	assert.True(t, s.Deleted)
	assert.Equal(t, version+1, s.Version)
}
