// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"

	"gorm.io/gorm"
)

// sessionMySQL is a MySQL implementation of the SessionRepository interface.
// Rows are only ever soft-deleted; every query filters on the deleted flag.
type sessionMySQL struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionMySQL implements SessionRepository.
var _ usecase.SessionRepository = (*sessionMySQL)(nil)

// NewSessionMySQL creates a new instance of sessionMySQL.
func NewSessionMySQL(db *gorm.DB) *sessionMySQL {
	return &sessionMySQL{db: db}
}

// Create persists a new session.
func (r *sessionMySQL) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a session by its ID.
func (r *sessionMySQL) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByAccessToken retrieves the session currently holding the access token.
func (r *sessionMySQL) FindByAccessToken(ctx context.Context, tok string) (*entity.Session, error) {
	return r.findOne(ctx, "access_token = ?", tok)
}

// FindByRefreshToken retrieves the session currently holding the refresh token.
func (r *sessionMySQL) FindByRefreshToken(ctx context.Context, tok string) (*entity.Session, error) {
	return r.findOne(ctx, "refresh_token = ?", tok)
}

func (r *sessionMySQL) findOne(ctx context.Context, query string, arg interface{}) (*entity.Session, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Where("deleted = ?", false).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByUserID retrieves one page of a user's sessions ordered by last
// activity descending, plus the total count.
func (r *sessionMySQL) FindByUserID(ctx context.Context, userID uint, page, size int) ([]*entity.Session, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND deleted = ?", userID, false).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []SessionModel
	if err := base.
		Order("last_activity_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]*entity.Session, len(models))
	for i := range models {
		sessions[i] = models[i].ToEntity()
	}
	return sessions, total, nil
}

// Update writes a mutated session back. The WHERE clause asserts the version
// the mutation was based on; zero rows affected means either a concurrent
// writer won (conflict) or the row is gone.
func (r *sessionMySQL) Update(ctx context.Context, session *entity.Session) error {
	expectedVersion := session.Version - 1

	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND version = ? AND deleted = ?", session.ID, expectedVersion, false).
		Updates(map[string]interface{}{
			"access_token":             session.AccessToken,
			"refresh_token":            session.RefreshToken,
			"status":                   string(session.Status),
			"access_token_expires_at":  session.AccessTokenExpiresAt,
			"refresh_token_expires_at": session.RefreshTokenExpiresAt,
			"last_activity_at":         session.LastActivityAt,
			"updated_at":               session.UpdatedAt,
			"version":                  session.Version,
			"deleted":                  session.Deleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&SessionModel{}).
			Where("id = ? AND deleted = ?", session.ID, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConcurrencyConflict
		}
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteByUserID soft-deletes all sessions for a user.
func (r *sessionMySQL) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND deleted = ?", userID, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// DeleteExpiredBefore soft-deletes sessions whose access token expired
// before the cutoff.
func (r *sessionMySQL) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("access_token_expires_at < ? AND deleted = ?", cutoff, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}
