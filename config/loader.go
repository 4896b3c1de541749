// Package config loads the console configuration from a YAML file, the
// environment and command flags, and builds the shared infrastructure.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "RECORDGRID"

// File mirrors the YAML layout. Keys are snake_case; environment variables
// replace dots with underscores, e.g. RECORDGRID_API_BASE_URL.
type File struct {
	API       APISection       `mapstructure:"api"`
	Grid      GridSection      `mapstructure:"grid"`
	Cache     CacheSection     `mapstructure:"cache"`
	Broker    BrokerSection    `mapstructure:"broker"`
	Refresh   RefreshSection   `mapstructure:"refresh"`
	Dashboard DashboardSection `mapstructure:"dashboard"`
	Server    ServerSection    `mapstructure:"server"`
	Log       LogSection       `mapstructure:"log"`
}

type APISection struct {
	BaseURL        string        `mapstructure:"base_url"`
	Token          string        `mapstructure:"token"`
	ListPath       string        `mapstructure:"list_path"`
	CollectionPath string        `mapstructure:"collection_path"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
	MaxInFlight    int64         `mapstructure:"max_in_flight"`
}

type GridSection struct {
	DefaultSort  string        `mapstructure:"default_sort"`
	DefaultOrder string        `mapstructure:"default_order"`
	PageSize     int           `mapstructure:"page_size"`
	PageSizes    []int         `mapstructure:"page_sizes"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type CacheSection struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
	Size   int           `mapstructure:"size"`
	Redis  RedisSection  `mapstructure:"redis"`
}

type RedisSection struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type BrokerSection struct {
	Driver   string          `mapstructure:"driver"`
	RabbitMQ RabbitMQSection `mapstructure:"rabbitmq"`
}

type RabbitMQSection struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type RefreshSection struct {
	Schedule string `mapstructure:"schedule"`
}

type DashboardSection struct {
	Port uint `mapstructure:"port"`
}

type ServerSection struct {
	Listen   string          `mapstructure:"listen"`
	Storage  string          `mapstructure:"storage"`
	Postgres PostgresSection `mapstructure:"postgres"`
	Seed     int             `mapstructure:"seed"`
}

type PostgresSection struct {
	ConnectionURL string `mapstructure:"connection_url"`
}

type LogSection struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"api-url":      "api.base_url",
	"token":        "api.token",
	"cache":        "cache.driver",
	"broker":       "broker.driver",
	"refresh":      "refresh.schedule",
	"port":         "dashboard.port",
	"listen":       "server.listen",
	"storage":      "server.storage",
	"postgres-url": "server.postgres.connection_url",
	"seed":         "server.seed",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := query.DefaultDefaults()
	v.SetDefault("api.base_url", config.DefaultBaseURL)
	v.SetDefault("api.list_path", config.DefaultListPath)
	v.SetDefault("api.collection_path", config.DefaultCollectionPath)
	v.SetDefault("api.timeout", config.DefaultAPITimeout)
	v.SetDefault("api.retry_max", 0)
	v.SetDefault("api.max_in_flight", config.DefaultMaxInFlight)
	v.SetDefault("grid.default_sort", d.SortField)
	v.SetDefault("grid.default_order", string(d.SortDir))
	v.SetDefault("grid.page_size", d.PageSize)
	v.SetDefault("grid.page_sizes", d.PageSizes)
	v.SetDefault("grid.fetch_timeout", config.DefaultFetchTimeout)
	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.ttl", config.DefaultCacheTTL)
	v.SetDefault("cache.size", config.DefaultCacheSize)
	v.SetDefault("cache.redis.address", config.DefaultRedisAddress)
	v.SetDefault("cache.redis.prefix", config.DefaultRedisPrefix)
	v.SetDefault("broker.driver", "none")
	v.SetDefault("broker.rabbitmq.exchange", config.DefaultExchange)
	v.SetDefault("dashboard.port", config.DefaultDashboardPort)
	v.SetDefault("server.listen", config.DefaultServerListen)
	v.SetDefault("server.storage", "memory")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindFlags lets the command's flags override file and environment values.
// Only flags the command defines are bound.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads path, or recordgrid.yaml from the working directory or
// $HOME/.config/recordgrid when path is empty. A missing default file is not an error.
func (l *Loader) Load(path string) (*config.ConsoleConfig, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("recordgrid")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME/.config/recordgrid")
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var f File
	if err := l.v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return Build(f)
}

// Build validates f and turns it into a ConsoleConfig.
func Build(f File) (*config.ConsoleConfig, error) {
	opts := []config.ConsoleOption{
		config.WithAPI(config.APIConfig{
			BaseURL:        f.API.BaseURL,
			Token:          f.API.Token,
			ListPath:       f.API.ListPath,
			CollectionPath: f.API.CollectionPath,
			Timeout:        f.API.Timeout,
			RetryMax:       f.API.RetryMax,
			MaxInFlight:    f.API.MaxInFlight,
		}),
		config.WithGrid(query.Defaults{
			SortField: f.Grid.DefaultSort,
			SortDir:   query.SortDir(f.Grid.DefaultOrder),
			PageSize:  f.Grid.PageSize,
			PageSizes: f.Grid.PageSizes,
		}),
		config.WithFetchTimeout(f.Grid.FetchTimeout),
		config.WithRefreshSchedule(f.Refresh.Schedule),
		config.WithDashboardPort(f.Dashboard.Port),
		config.WithLogging(f.Log.Level, f.Log.Format),
	}

	var pre []error
	switch driver, err := config.ParseCacheDriver(f.Cache.Driver); {
	case err != nil:
		pre = append(pre, err)
	case driver == config.MemoryCache:
		opts = append(opts, config.WithMemoryCache(f.Cache.Size, f.Cache.TTL))
	case driver == config.RedisCache:
		opts = append(opts, config.WithRedisCache(config.RedisConfig{
			Address:  f.Cache.Redis.Address,
			Password: f.Cache.Redis.Password,
			DB:       f.Cache.Redis.DB,
			Prefix:   f.Cache.Redis.Prefix,
		}, f.Cache.TTL))
	}

	switch driver, err := config.ParseMQDriver(f.Broker.Driver); {
	case err != nil:
		pre = append(pre, err)
	case driver == config.MemoryBroker:
		opts = append(opts, config.WithMemoryBroker())
	case driver == config.RabbitMQ:
		opts = append(opts, config.WithRabbitMQConfig(config.RabbitMQConfig{
			URL:      f.Broker.RabbitMQ.URL,
			Exchange: f.Broker.RabbitMQ.Exchange,
		}))
	}

	storage, err := config.ParseStorageDriver(f.Server.Storage)
	if err != nil {
		pre = append(pre, err)
	} else {
		opts = append(opts, config.WithServer(config.ServerConfig{
			Listen:         f.Server.Listen,
			StorageDriver:  storage,
			PostgresConfig: config.PostgresConfig{ConnectionUrl: f.Server.Postgres.ConnectionURL},
			Seed:           f.Server.Seed,
		}))
	}

	for _, e := range pre {
		opts = append(opts, func(*config.ConsoleConfig) error { return e })
	}
	return config.NewConsoleConfig(opts...)
}
