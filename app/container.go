package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/config"
	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/api"
	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/cache"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/invalidation"
	"github.com/RezaEskandarii/recordgrid/internal/metrics"
	"github.com/RezaEskandarii/recordgrid/internal/mutation"
	"github.com/RezaEskandarii/recordgrid/internal/session"
	"github.com/RezaEskandarii/recordgrid/types"
	consoleconfig "github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/redis/go-redis/v9"
)

// Container holds the dependencies of a console host. It is the single
// source of truth for dependency injection and ensures connections and
// services are created once.
type Container struct {
	Config  *consoleconfig.ConsoleConfig
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Shared connections
	Redis         *redis.Client
	MessageBroker broker.MessageBroker

	// Remote collection
	Client *api.Client
	Users  *api.Resource[types.User]

	// Source serves list pages, through the page cache when one is configured.
	Source    fetcher.Source[types.User]
	PageCache cache.PageCache

	Bus     *invalidation.Bus
	Gateway *mutation.Gateway

	ownsRedis  bool
	ownsBroker bool
}

// NewContainer creates and wires all dependencies. Single entry point for DI.
// Call this once per application lifecycle.
func NewContainer(ctx context.Context, cfg *consoleconfig.ConsoleConfig, opts ...ContainerOption) (*Container, error) {
	opt := &containerConfig{}
	for _, o := range opts {
		o(opt)
	}
	logger := opt.logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opt.metrics
	if m == nil {
		m = metrics.New()
	}

	c := &Container{Config: cfg, Logger: logger, Metrics: m}

	client, err := api.NewClient(api.Config{
		BaseURL:     cfg.API.BaseURL,
		Token:       cfg.API.Token,
		Timeout:     cfg.API.Timeout,
		RetryMax:    cfg.API.RetryMax,
		MaxInFlight: cfg.API.MaxInFlight,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	c.Client = client
	c.Users = api.NewResource[types.User](client, cfg.API.ListPath, cfg.API.CollectionPath)

	c.Redis = opt.redis
	if c.Redis == nil && cfg.CacheDriver == consoleconfig.RedisCache {
		if c.Redis, err = config.SetupRedis(ctx, cfg.RedisConfig); err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		c.ownsRedis = true
	}

	if c.PageCache, err = config.CreatePageCache(cfg, c.Redis); err != nil {
		c.Close()
		return nil, err
	}

	c.MessageBroker = opt.broker
	if c.MessageBroker == nil {
		if c.MessageBroker, err = config.CreateMessageBroker(cfg); err != nil {
			c.Close()
			return nil, err
		}
		c.ownsBroker = c.MessageBroker != nil
	}

	c.Source = c.Users
	if c.PageCache != nil {
		c.Source = cache.NewCachedSource[types.User](c.Users, c.PageCache, c.Users.ListRoute(), logger, m)
	}

	c.Bus = invalidation.NewBus(c.PageCache, c.MessageBroker, logger)
	c.Gateway = mutation.NewGateway(c.Users,
		mutation.WithInvalidator(c.Bus),
		mutation.WithListRoute(c.Users.ListRoute()),
		mutation.WithLogger(logger),
		mutation.WithRecorder(m),
	)
	return c, nil
}

// NewSession binds a grid session for the user collection to store.
func (c *Container) NewSession(store *address.Store, opts ...session.Option) *session.Session[types.User] {
	base := []session.Option{
		session.WithLogger(c.Logger),
		session.WithFetcherOptions(
			fetcher.WithTimeout(c.Config.FetchTimeout),
			fetcher.WithRecorder(c.Metrics),
		),
	}
	return session.New[types.User](store, c.Config.Grid, c.Source, append(base, opts...)...)
}

// Close releases the connections the container opened itself.
func (c *Container) Close() error {
	var errs []error
	if c.ownsBroker && c.MessageBroker != nil {
		errs = append(errs, c.MessageBroker.Close())
	}
	if c.ownsRedis && c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
