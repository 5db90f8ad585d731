package cache

import (
	"fmt"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMemcache = "memcache"
)

// Config selects and tunes the cache backend.
type Config struct {
	Backend   string         `mapstructure:"backend"`
	Namespace string         `mapstructure:"namespace"`
	Codec     string         `mapstructure:"codec"`
	Memory    MemoryConfig   `mapstructure:"memory"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Memcache  MemcacheConfig `mapstructure:"memcache"`
}

// MemoryConfig mirrors the sturdyc constructor arguments.
type MemoryConfig struct {
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	TTL                time.Duration `mapstructure:"ttl"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
}

// RedisConfig holds the go-redis connection options.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MemcacheConfig lists the memcached servers.
type MemcacheConfig struct {
	Servers []string `mapstructure:"servers"`
}

// DefaultConfig returns an in-process msgpack cache.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Codec:   CodecMsgpack,
		Memory: MemoryConfig{
			Capacity:           10000,
			NumShards:          256,
			TTL:                24 * time.Hour,
			EvictionPercentage: 10,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Memcache: MemcacheConfig{
			Servers: []string{"127.0.0.1:11211"},
		},
	}
}

// Validate checks the settings of the selected backend only.
func (c Config) Validate() error {
	if _, err := CodecByName(c.Codec); err != nil {
		return &ConfigError{Field: "Codec", Message: err.Error()}
	}

	switch c.Backend {
	case BackendMemory:
		return c.Memory.Validate()
	case BackendRedis:
		if c.Redis.Addr == "" {
			return &ConfigError{Field: "Redis.Addr", Message: "must not be empty"}
		}
		if c.Redis.DB < 0 {
			return &ConfigError{Field: "Redis.DB", Message: "must be non-negative"}
		}
	case BackendMemcache:
		if len(c.Memcache.Servers) == 0 {
			return &ConfigError{Field: "Memcache.Servers", Message: "must list at least one server"}
		}
	default:
		return &ConfigError{Field: "Backend", Message: fmt.Sprintf("unknown backend %q", c.Backend)}
	}

	return nil
}

// Validate checks the sturdyc constructor arguments.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Memory.Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "Memory.NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "Memory.TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "Memory.EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
