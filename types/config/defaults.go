package config

import "time"

const (
	DefaultBaseURL        = "http://localhost:8081"
	DefaultListPath       = "/api/users/paginated"
	DefaultCollectionPath = "/api/users"
	DefaultAPITimeout     = 10 * time.Second
	DefaultMaxInFlight    = 8
	DefaultFetchTimeout   = 15 * time.Second

	DefaultCacheTTL     = 30 * time.Second
	DefaultCacheSize    = 256
	DefaultRedisAddress = "localhost:6379"
	DefaultRedisPrefix  = "recordgrid"
	DefaultExchange     = "recordgrid.invalidate"

	DefaultDashboardPort = 8080
	DefaultServerListen  = ":8081"
)
