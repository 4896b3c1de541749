package config

import (
	"database/sql"
	"fmt"

	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/cache"
	"github.com/RezaEskandarii/recordgrid/internal/lock"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/internal/store/memory"
	"github.com/RezaEskandarii/recordgrid/internal/store/postgres"
	"github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/redis/go-redis/v9"
)

func CreateUserStore(driver config.StorageDriver, db *sql.DB) (store.UserStore, error) {
	switch driver {
	case config.Memory:
		return memory.NewMemoryUserStore(), nil
	case config.Postgres:
		if db == nil {
			return nil, fmt.Errorf("postgres user store: no database connection")
		}
		return postgres.NewPostgresUserStore(db), nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", driver)
}

// CreatePageCache returns nil when caching is disabled.
func CreatePageCache(cfg *config.ConsoleConfig, redisClient *redis.Client) (cache.PageCache, error) {
	switch cfg.CacheDriver {
	case config.NoCache:
		return nil, nil
	case config.MemoryCache:
		return cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL), nil
	case config.RedisCache:
		if redisClient == nil {
			return nil, fmt.Errorf("redis cache: no client")
		}
		return cache.NewRedisCache(redisClient, cfg.RedisConfig.Prefix, cfg.CacheTTL), nil
	}
	return nil, fmt.Errorf("%w: %s", cache.ErrUnknownDriver, cfg.CacheDriver)
}

// CreateMessageBroker returns nil when broadcasting is disabled.
func CreateMessageBroker(cfg *config.ConsoleConfig) (broker.MessageBroker, error) {
	switch cfg.MQDriver {
	case config.NoBroker:
		return nil, nil
	case config.MemoryBroker:
		return broker.NewMemory(), nil
	case config.RabbitMQ:
		mb, err := broker.NewRabbitMQ(cfg.RabbitMQConfig.URL, cfg.RabbitMQConfig.Exchange)
		if err != nil {
			return nil, fmt.Errorf("init rabbitmq: %w", err)
		}
		return mb, nil
	}
	return nil, fmt.Errorf("unsupported broker driver: %s", cfg.MQDriver)
}

func CreateDistributedLockManager(db *sql.DB) lock.DistributedLockManager {
	return lock.NewPostgresDistributedLockManager(db)
}
