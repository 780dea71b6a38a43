// Package di provides dependency injection factories for assembling the
// session lifecycle service from its platform pieces.
package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	authusecase "auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/revocation"
	"auth_backend/internal/platform/token"
)

// AuthService is the full lifecycle surface: the HTTP operations plus the
// expired-session sweep run by the background ticker and the cleanup binary.
type AuthService interface {
	authhandler.AuthUsecase
	CleanupExpired(ctx context.Context, graceDays int) (int64, error)
}

// NewAuthUsecase wires the fully configured lifecycle service. The codec and
// registry are built from resolved config; nothing reads the environment
// past this point.
func NewAuthUsecase(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (AuthService, error) {
	codec, err := token.NewCodec(cfg.JWTSecret, cfg.Issuer, cfg.Audience, cfg.AccessTTL, cfg.RefreshTTL, cfg.FallbackTTL)
	if err != nil {
		return nil, err
	}

	// The user index must outlive every refresh token it records.
	registry := revocation.NewRegistry(rdb, cfg.RevocationPrefix, codec, cfg.RefreshTTL)

	return authusecase.NewAuthUsecase(
		authadapters.NewUserMySQL(db, cfg.BcryptCost),
		authadapters.NewSessionMySQL(db),
		codec,
		registry,
		authadapters.NewSlogEventSink(),
	), nil
}
