package adapters

import (
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table. Token columns are
// capped at 2000 characters with prefix indexes for the exact-match lookups;
// the composite index backs the per-user listing and bulk operations.
type SessionModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	UserID       uint   `gorm:"not null;index:idx_sessions_user_status_created,priority:1"`
	Username     string `gorm:"size:50;not null"`
	AccessToken  string `gorm:"size:2000;not null;index:idx_sessions_access_token,length:255"`
	RefreshToken string `gorm:"size:2000;not null;index:idx_sessions_refresh_token,length:255"`
	ClientIP     string `gorm:"size:45"` // IPv6 max length
	UserAgent    string `gorm:"size:500"`
	Status       string `gorm:"size:20;not null;index:idx_sessions_user_status_created,priority:2"`

	AccessTokenExpiresAt  time.Time `gorm:"not null;index"`
	RefreshTokenExpiresAt time.Time `gorm:"not null"`
	LastActivityAt        time.Time `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null;index:idx_sessions_user_status_created,priority:3"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null"`
	Deleted   bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain aggregate.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:                    m.ID,
		UserID:                m.UserID,
		Username:              m.Username,
		AccessToken:           m.AccessToken,
		RefreshToken:          m.RefreshToken,
		ClientIP:              m.ClientIP,
		UserAgent:             m.UserAgent,
		Status:                entity.Status(m.Status),
		AccessTokenExpiresAt:  m.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		LastActivityAt:        m.LastActivityAt,
		Auditable: entity.Auditable{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
			Deleted:   m.Deleted,
		},
	}
}

// SessionModelFromEntity converts a domain aggregate to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:                    s.ID,
		UserID:                s.UserID,
		Username:              s.Username,
		AccessToken:           s.AccessToken,
		RefreshToken:          s.RefreshToken,
		ClientIP:              s.ClientIP,
		UserAgent:             s.UserAgent,
		Status:                string(s.Status),
		AccessTokenExpiresAt:  s.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: s.RefreshTokenExpiresAt,
		LastActivityAt:        s.LastActivityAt,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
		Version:               s.Version,
		Deleted:               s.Deleted,
	}
}
