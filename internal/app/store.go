package app

import (
	"context"
	"fmt"

	"github.com/team-divops/backend/internal/cache"
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/db"
	"github.com/team-divops/backend/internal/repository"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

// OpenRepositories connects the session store selected by cfg.SessionStore.
// The returned func closes the connection.
func OpenRepositories(cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisClient, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, nil, fmt.Errorf("redis connect failed: %w", err)
		}
		logger.Info("redis connection done")

		return repository.NewRedisRepositories(redisClient), closer(config.SessionStoreRedis, redisClient.Close), nil
	case config.SessionStoreMySQL:
		dbMySQL, err := db.New(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("mysql connection done")

		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.QueryTimeout)
			defer cancel()
			if err := db.Migrate(ctx, dbMySQL); err != nil {
				_ = dbMySQL.Close()
				return nil, nil, err
			}
		}

		return repository.NewRepositories(dbMySQL), closer(config.SessionStoreMySQL, dbMySQL.Close), nil
	}

	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

func closer(store string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Error("error when closing", zap.String("store", store), zap.Error(err))
		}
	}
}
