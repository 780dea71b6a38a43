package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

// setupSessionTestDB prepares an in-memory SQLite database for session testing.
func setupSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&SessionModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedSession creates and persists a session for the given user.
func seedSession(t *testing.T, db *gorm.DB, id string, userID uint, access, refresh string) *entity.Session {
	t.Helper()

	s := entity.NewSession(id, userID, "alice", access, refresh, "127.0.0.1", "test-agent", 24*time.Hour, 7*24*time.Hour)
	s.PullEvents()

	repo := NewSessionMySQL(db)
	require.NoError(t, repo.Create(context.Background(), s), "failed to seed session")
	return s
}

func TestNewSessionMySQL(t *testing.T) {
	db := setupSessionTestDB(t)

	repo := NewSessionMySQL(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestSessionMySQL_CreateAndFind(t *testing.T) {
	t.Parallel()

	db := setupSessionTestDB(t)
	repo := NewSessionMySQL(db)
	ctx := context.Background()

	seeded := seedSession(t, db, "session-001", 42, "a.one.sig", "r.one.sig")

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, "session-001")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, got.ID)
		assert.Equal(t, seeded.UserID, got.UserID)
		assert.Equal(t, entity.StatusActive, got.Status)
		assert.Equal(t, seeded.Version, got.Version)
	})

	t.Run("find by access token", func(t *testing.T) {
		got, err := repo.FindByAccessToken(ctx, "a.one.sig")
		require.NoError(t, err)
		assert.Equal(t, "session-001", got.ID)
	})

	t.Run("find by refresh token", func(t *testing.T) {
		got, err := repo.FindByRefreshToken(ctx, "r.one.sig")
		require.NoError(t, err)
		assert.Equal(t, "session-001", got.ID)
	})

	t.Run("unknown keys yield not-found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "no-such-id")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		_, err = repo.FindByAccessToken(ctx, "no.such.token")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		_, err = repo.FindByRefreshToken(ctx, "no.such.token")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionMySQL_FindByUserID(t *testing.T) {
	t.Parallel()

	db := setupSessionTestDB(t)
	repo := NewSessionMySQL(db)
	ctx := context.Background()

	// Three sessions with strictly increasing last activity.
	for i, id := range []string{"s-1", "s-2", "s-3"} {
		s := seedSession(t, db, id, 42, "a."+id+".sig", "r."+id+".sig")
		s.Touch() // bumps version so the guarded update applies
		s.LastActivityAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Update(ctx, s))
	}
	seedSession(t, db, "other", 7, "a.other.sig", "r.other.sig")

	t.Run("orders by last activity descending", func(t *testing.T) {
		sessions, total, err := repo.FindByUserID(ctx, 42, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, sessions, 3)
		assert.Equal(t, "s-3", sessions[0].ID)
		assert.Equal(t, "s-1", sessions[2].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		sessions, total, err := repo.FindByUserID(ctx, 42, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, sessions, 1)
		assert.Equal(t, "s-1", sessions[0].ID)
	})
}

func TestSessionMySQL_Update(t *testing.T) {
	t.Parallel()

	t.Run("success: persists a mutation", func(t *testing.T) {
		t.Parallel()

		db := setupSessionTestDB(t)
		repo := NewSessionMySQL(db)
		ctx := context.Background()

		s := seedSession(t, db, "session-001", 42, "a.one.sig", "r.one.sig")
		require.NoError(t, s.RefreshTokens("a.two.sig", "r.two.sig", 24*time.Hour, 7*24*time.Hour))

		require.NoError(t, repo.Update(ctx, s))

		got, err := repo.FindByID(ctx, "session-001")
		require.NoError(t, err)
		assert.Equal(t, "a.two.sig", got.AccessToken)
		assert.Equal(t, "r.two.sig", got.RefreshToken)
		assert.Equal(t, s.Version, got.Version)
	})

	t.Run("failure: stale version is a conflict, not an overwrite", func(t *testing.T) {
		t.Parallel()

		db := setupSessionTestDB(t)
		repo := NewSessionMySQL(db)
		ctx := context.Background()

		seedSession(t, db, "session-001", 42, "a.one.sig", "r.one.sig")

		// Two readers load the same version.
		first, err := repo.FindByID(ctx, "session-001")
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, "session-001")
		require.NoError(t, err)

		require.NoError(t, first.RefreshTokens("a.two.sig", "r.two.sig", 24*time.Hour, 7*24*time.Hour))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.RefreshTokens("a.three.sig", "r.three.sig", 24*time.Hour, 7*24*time.Hour))
		assert.ErrorIs(t, repo.Update(ctx, second), domain.ErrConcurrencyConflict)

		// The winner's token pair survives.
		got, err := repo.FindByID(ctx, "session-001")
		require.NoError(t, err)
		assert.Equal(t, "a.two.sig", got.AccessToken)
	})

	t.Run("failure: missing row", func(t *testing.T) {
		t.Parallel()

		db := setupSessionTestDB(t)
		repo := NewSessionMySQL(db)

		s := entity.NewSession("ghost", 42, "alice", "a.g.s", "r.g.s", "127.0.0.1", "ua", time.Hour, 2*time.Hour)
		s.Touch()
		assert.ErrorIs(t, repo.Update(context.Background(), s), domain.ErrSessionNotFound)
	})
}

func TestSessionMySQL_DeleteByUserID(t *testing.T) {
	t.Parallel()

	db := setupSessionTestDB(t)
	repo := NewSessionMySQL(db)
	ctx := context.Background()

	seedSession(t, db, "s-1", 42, "a.1.s", "r.1.s")
	seedSession(t, db, "s-2", 42, "a.2.s", "r.2.s")
	seedSession(t, db, "other", 7, "a.3.s", "r.3.s")

	removed, err := repo.DeleteByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// Soft-deleted rows disappear from every lookup.
	_, err = repo.FindByID(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	sessions, total, err := repo.FindByUserID(ctx, 42, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Equal(t, int64(0), total)

	// The other user's session survives.
	_, err = repo.FindByID(ctx, "other")
	assert.NoError(t, err)
}

func TestSessionMySQL_DeleteExpiredBefore(t *testing.T) {
	t.Parallel()

	db := setupSessionTestDB(t)
	repo := NewSessionMySQL(db)
	ctx := context.Background()

	stale := seedSession(t, db, "stale", 42, "a.s.s", "r.s.s")
	// Age the access-token expiry eight days into the past.
	require.NoError(t, db.Model(&SessionModel{}).
		Where("id = ?", stale.ID).
		Update("access_token_expires_at", time.Now().AddDate(0, 0, -8)).Error)

	seedSession(t, db, "fresh", 42, "a.f.s", "r.f.s")

	removed, err := repo.DeleteExpiredBefore(ctx, time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByID(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.FindByID(ctx, "fresh")
	assert.NoError(t, err)

	sessions, _, err := repo.FindByUserID(ctx, 42, 0, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "fresh", sessions[0].ID)
}
