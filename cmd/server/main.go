package main

import (
	"context"
	"log"
	"time"

	"auth_backend/internal/app/di"
	"auth_backend/internal/app/router"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/platform/config"
	platformdb "auth_backend/internal/platform/db"
	platformredis "auth_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// db
	db := platformdb.OpenDB()

	// Redis. The denylist is load-bearing: without it a revoked token
	// would stay usable until natural expiry, so startup fails hard.
	rdb, err := platformredis.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	authUC, err := di.NewAuthUsecase(cfg, db, rdb)
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}

	// Periodic expired-session sweep, independent of request traffic.
	go runCleanup(authUC, cfg.CleanupInterval, cfg.CleanupGraceDays)

	// Handler and routes
	authH := authhandler.NewAuthHandler(authUC)
	r := router.NewRouter(authH)

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// cleaner is the slice of the usecase the sweep needs.
type cleaner interface {
	CleanupExpired(ctx context.Context, graceDays int) (int64, error)
}

func runCleanup(uc cleaner, interval time.Duration, graceDays int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := uc.CleanupExpired(ctx, graceDays); err != nil {
			log.Printf("[WARN] expired session cleanup failed: %v", err)
		}
		cancel()
	}
}
