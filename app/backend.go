package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/config"
	"github.com/RezaEskandarii/recordgrid/internal/apiserver"
	"github.com/RezaEskandarii/recordgrid/internal/constants"
	"github.com/RezaEskandarii/recordgrid/internal/db"
	"github.com/RezaEskandarii/recordgrid/internal/lock"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	consoleconfig "github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/gin-gonic/gin"
)

// Backend is the reference API: a user store behind the gin router.
type Backend struct {
	DB          *sql.DB
	Users       store.UserStore
	LockManager lock.DistributedLockManager
	Router      *gin.Engine

	ownsDB bool
}

// NewBackend opens storage, migrates and seeds it, and builds the router.
func NewBackend(ctx context.Context, cfg *consoleconfig.ConsoleConfig, opts ...ContainerOption) (*Backend, error) {
	opt := &containerConfig{}
	for _, o := range opts {
		o(opt)
	}
	logger := opt.logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Backend{DB: opt.db}
	if cfg.Server.StorageDriver == consoleconfig.Postgres {
		if b.DB == nil {
			conn, err := config.SetupPostgres(ctx, cfg.Server.PostgresConfig)
			if err != nil {
				return nil, err
			}
			b.DB = conn
			b.ownsDB = true
		}
		b.LockManager = config.CreateDistributedLockManager(b.DB)
		if err := db.Init(ctx, b.DB, b.LockManager, logger); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	users, err := config.CreateUserStore(cfg.Server.StorageDriver, b.DB)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Users = users

	if cfg.Server.Seed > 0 {
		if err := b.seed(ctx, cfg.Server.Seed, logger); err != nil {
			b.Close()
			return nil, err
		}
	}

	b.Router = apiserver.NewRouter(users, cfg.API.CollectionPath, logger)
	return b, nil
}

func (b *Backend) seed(ctx context.Context, n int, logger *slog.Logger) error {
	if b.LockManager != nil {
		if err := b.LockManager.Acquire(ctx, constants.SeedLock); err != nil {
			return err
		}
		defer b.LockManager.Release(context.WithoutCancel(ctx), constants.SeedLock)
	}
	created, err := store.Seed(ctx, b.Users, n)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	logger.Info("seeded users", "created", created, "requested", n)
	return nil
}

// Run serves the API until ctx is done.
func (b *Backend) Run(ctx context.Context, addr string, logger *slog.Logger) error {
	return apiserver.Run(ctx, addr, b.Router, logger)
}

func (b *Backend) Close() error {
	if b.ownsDB && b.DB != nil {
		return b.DB.Close()
	}
	return nil
}
