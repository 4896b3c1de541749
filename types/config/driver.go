package config

import "fmt"

// StorageDriver selects the reference API backend.
type StorageDriver int

const (
	Memory StorageDriver = iota + 1
	Postgres
)

// String converts the StorageDriver enum to a human-readable string.
func (d StorageDriver) String() string {
	switch d {
	case Memory:
		return "memory"
	case Postgres:
		return "postgres"
	}
	return "unknown"
}

func ParseStorageDriver(s string) (StorageDriver, error) {
	switch s {
	case "", "memory":
		return Memory, nil
	case "postgres":
		return Postgres, nil
	}
	return 0, fmt.Errorf("unknown storage driver %q", s)
}

// CacheDriver selects the page cache in front of the list endpoint.
type CacheDriver int

const (
	NoCache CacheDriver = iota
	MemoryCache
	RedisCache
)

func (d CacheDriver) String() string {
	switch d {
	case NoCache:
		return "none"
	case MemoryCache:
		return "memory"
	case RedisCache:
		return "redis"
	}
	return "unknown"
}

func ParseCacheDriver(s string) (CacheDriver, error) {
	switch s {
	case "", "none":
		return NoCache, nil
	case "memory":
		return MemoryCache, nil
	case "redis":
		return RedisCache, nil
	}
	return 0, fmt.Errorf("unknown cache driver %q", s)
}

// MQDriver selects how invalidations are broadcast to other console instances.
type MQDriver int

const (
	NoBroker MQDriver = iota
	MemoryBroker
	RabbitMQ
)

func (d MQDriver) String() string {
	switch d {
	case NoBroker:
		return "none"
	case MemoryBroker:
		return "memory"
	case RabbitMQ:
		return "rabbitmq"
	}
	return "unknown"
}

func ParseMQDriver(s string) (MQDriver, error) {
	switch s {
	case "", "none":
		return NoBroker, nil
	case "memory":
		return MemoryBroker, nil
	case "rabbitmq":
		return RabbitMQ, nil
	}
	return 0, fmt.Errorf("unknown broker driver %q", s)
}
