package config

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/db"
	"github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/redis/go-redis/v9"
)

// SetupLogger builds the process logger. Unknown levels fall back to info.
func SetupLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func setupPostgres(ctx context.Context, pg config.PostgresConfig) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	conn, err := db.Open(ctx, pg.ConnectionUrl)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return conn, nil
}

func setupRedis(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", rc.Address, err)
	}
	return rdb, nil
}

// SetupPostgres opens the reference API database.
func SetupPostgres(ctx context.Context, pg config.PostgresConfig) (*sql.DB, error) {
	return setupPostgres(ctx, pg)
}

// SetupRedis connects the shared page cache client.
func SetupRedis(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	return setupRedis(ctx, rc)
}
