package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookadmin/internal/config"
	"bookadmin/internal/session"
	"bookadmin/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	pingTimeout     = 2 * time.Second
	cleanupInterval = 10 * time.Minute
)

// openSessionStore returns the configured server-side store, or nil for
// cookie sessions. The returned func releases its connections.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.StoreCookie:
		return nil, func() {}, nil

	case config.StoreMemory:
		mem := session.NewMemoryStore()
		go janitor(ctx, logger, "memory", func(context.Context) (int64, error) {
			return int64(mem.CleanupExpired()), nil
		})
		return mem, func() {}, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("cannot ping redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("redis connection OK", zap.String("addr", cfg.RedisAddr))
		return store.NewSessionRedis(client), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := openDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("database connection OK", zap.String("dsn", redactDSN(cfg.DatabaseURL)))
		pg := store.NewSessionPG(pool)
		go janitor(ctx, logger, "postgres", pg.CleanupExpired)
		return pg, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

// janitor drops expired sessions until ctx is cancelled.
func janitor(ctx context.Context, logger *zap.Logger, name string, cleanup func(context.Context) (int64, error)) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cleanup(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", zap.String("store", name), zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("expired sessions removed", zap.String("store", name), zap.Int64("count", n))
			}
		}
	}
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
