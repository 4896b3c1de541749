package app

import (
	"database/sql"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// ContainerOption configures Container creation. Used for testing and customization.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	// Optional: inject connections instead of creating them from config
	db      *sql.DB
	redis   *redis.Client
	broker  broker.MessageBroker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithDB injects a custom database connection. Useful for testing.
func WithDB(db *sql.DB) ContainerOption {
	return func(c *containerConfig) {
		c.db = db
	}
}

// WithRedis injects a custom Redis client. Useful for testing.
func WithRedis(redis *redis.Client) ContainerOption {
	return func(c *containerConfig) {
		c.redis = redis
	}
}

// WithMessageBroker injects the invalidation broker instead of dialing one.
func WithMessageBroker(mb broker.MessageBroker) ContainerOption {
	return func(c *containerConfig) {
		c.broker = mb
	}
}

func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *containerConfig) {
		c.logger = logger
	}
}

// WithMetrics shares one collector set between containers.
func WithMetrics(m *metrics.Metrics) ContainerOption {
	return func(c *containerConfig) {
		c.metrics = m
	}
}
