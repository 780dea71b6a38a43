// Package config resolves process configuration from the environment once
// at startup. Resolved values are passed explicitly into constructors;
// nothing here is read again after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	defaultAccessTokenTTL   = 24 * time.Hour
	defaultRefreshTokenTTL  = 7 * 24 * time.Hour
	defaultDenyFallbackTTL  = time.Hour
	defaultCleanupGraceDays = 7
	defaultCleanupInterval  = time.Hour
	defaultBcryptCost       = 12
	defaultIssuer           = "auth_backend"
	defaultAudience         = "auth_backend-clients"
	defaultListenAddr       = ":8080"
	defaultRevocationPrefix = "auth"
)

// Config holds everything the service needs at startup.
type Config struct {
	ListenAddr string

	JWTSecret   string
	Issuer      string
	Audience    string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	FallbackTTL time.Duration

	RevocationPrefix string

	CleanupGraceDays int
	CleanupInterval  time.Duration

	BcryptCost int
}

// Load reads configuration from the environment. JWT_SECRET is the only
// required variable; everything else has a default.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg := &Config{
		ListenAddr:       envOr("LISTEN_ADDR", defaultListenAddr),
		JWTSecret:        secret,
		Issuer:           envOr("JWT_ISSUER", defaultIssuer),
		Audience:         envOr("JWT_AUDIENCE", defaultAudience),
		RevocationPrefix: envOr("REVOCATION_PREFIX", defaultRevocationPrefix),
	}

	var err error
	if cfg.AccessTTL, err = envDuration("ACCESS_TOKEN_TTL", defaultAccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = envDuration("REFRESH_TOKEN_TTL", defaultRefreshTokenTTL); err != nil {
		return nil, err
	}
	if cfg.FallbackTTL, err = envDuration("DENY_FALLBACK_TTL", defaultDenyFallbackTTL); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = envDuration("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.CleanupGraceDays, err = envInt("CLEANUP_GRACE_DAYS", defaultCleanupGraceDays); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = envInt("BCRYPT_COST", defaultBcryptCost); err != nil {
		return nil, err
	}

	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL (%s) must be shorter than REFRESH_TOKEN_TTL (%s)", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.CleanupGraceDays < 0 {
		return nil, fmt.Errorf("CLEANUP_GRACE_DAYS must not be negative")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
