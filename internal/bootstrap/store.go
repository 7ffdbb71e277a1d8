package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/config"
	"github.com/osse101/CampusQuest_Go/internal/database"
	"github.com/osse101/CampusQuest_Go/internal/database/memory"
	"github.com/osse101/CampusQuest_Go/internal/database/postgres"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// InitializeStore opens the record store selected by STORE_DRIVER. For
// postgres the schema is migrated before the pool is opened.
func InitializeStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.UsesMemoryStore() {
		slog.Warn(LogMsgUsingMemoryStore)
		return memory.NewStore(), nil
	}

	connString := cfg.GetDBConnString()
	if err := database.Migrate(ctx, connString); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgMigrationsApplied)

	pool, err := database.NewPool(ctx, connString, cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	slog.Info(LogMsgDatabaseConnected, "host", cfg.DBHost, "database", cfg.DBName)

	return postgres.NewStore(pool), nil
}

// InitializeCache returns a Redis cache when REDIS_ADDR is set and an
// in-process LRU otherwise. The RedisCache return is nil for the LRU.
func InitializeCache(ctx context.Context, cfg *config.Config) (cache.Cache, *cache.RedisCache, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgUsingMemoryCache, "size", cfg.CacheSize)
		return cache.NewMemoryCache(cfg.CacheSize, cache.ParticipantStatsTTL), nil, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     RedisPoolSize,
		DialTimeout:  RedisDialTimeout,
		ReadTimeout:  RedisIOTimeout,
		WriteTimeout: RedisIOTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}
	slog.Info(LogMsgUsingRedisCache, "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	return redisCache, redisCache, nil
}
