package main

import (
	"context"
	"log"
	"time"

	"auth_backend/internal/app/di"
	"auth_backend/internal/platform/config"
	platformdb "auth_backend/internal/platform/db"
	platformredis "auth_backend/internal/platform/redis"
)

// One-shot expired-session sweep, for running from cron or a job runner
// instead of (or in addition to) the in-process ticker.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db := platformdb.OpenDB()
	rdb, err := platformredis.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	uc, err := di.NewAuthUsecase(cfg, db, rdb)
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := uc.CleanupExpired(ctx, cfg.CleanupGraceDays)
	if err != nil {
		log.Fatal("cleanup failed:", err)
	}
	log.Printf("cleanup ok: removed %d sessions", removed)
}
