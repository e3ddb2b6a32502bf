/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import "fmt"

// AppConfig is the config definition for this app
type AppConfig struct {
	// Debug mode enabled or not
	Debug bool `mapstructure:"debug"`

	// Port of the HTTP server
	Port int `mapstructure:"port"`

	// DB configuration
	DB *DatabaseConfig `mapstructure:"db"`

	// Mongo configuration for the audit event store
	Mongo *MongoConfig `mapstructure:"mongo"`

	// Redis configuration for caching and request throttling
	Redis *RedisConfig `mapstructure:"redis"`

	// Cache configuration for the user read-through cache
	Cache *CacheConfig `mapstructure:"cache"`

	// Pagination configuration for cursor tokens and page sizes
	Pagination *PaginationConfig `mapstructure:"pagination"`

	// RateLimit configuration for the per-client request throttle
	RateLimit *RateLimitConfig `mapstructure:"ratelimit"`
}

// DatabaseConfig is the config definition for the relational store,
// postgres for real deployments and sqlite for local runs
type DatabaseConfig struct {
	// Driver selects the backend, either "postgres" or "sqlite"
	Driver string `mapstructure:"driver"`

	// Host of the database server
	Host string `mapstructure:"host"`

	// Port of the database server
	Port int `mapstructure:"port"`

	// Username for database authentication
	Username string `mapstructure:"username"`

	// Password for database authentication
	Password string `mapstructure:"password"`

	// Database name
	Database string `mapstructure:"database"`

	// Path of the sqlite database file, only used by the sqlite driver
	Path string `mapstructure:"path"`
}

// MongoConfig is the config definition for the mongo connection
// holding the user audit trail
type MongoConfig struct {
	// URI is the mongo connection string
	URI string `mapstructure:"uri"`

	// Database name holding the event collections
	Database string `mapstructure:"database"`
}

// RedisConfig is the config definition for the redis connection
type RedisConfig struct {
	// Address of the redis server, host:port
	Address string `mapstructure:"address"`

	// Password for redis authentication, empty when auth is disabled
	Password string `mapstructure:"password"`

	// DB is the redis logical database number
	DB int `mapstructure:"db"`
}

// CacheConfig is the config definition for the user read-through cache
type CacheConfig struct {
	// Enabled indicates whether user lookups go through redis
	Enabled bool `mapstructure:"enabled"`

	// TTLSeconds is the lifetime of a cached entry
	TTLSeconds int `mapstructure:"ttlSeconds"`
}

// PaginationConfig is the config definition for cursor pagination
type PaginationConfig struct {
	// Secret seals cursor tokens; rotating it invalidates all
	// outstanding cursors
	Secret string `mapstructure:"secret"`

	// DefaultLimit is the page size used when the client sends none
	DefaultLimit int `mapstructure:"defaultLimit"`

	// MaxLimit caps the page size a client may request
	MaxLimit int `mapstructure:"maxLimit"`
}

// RateLimitConfig is the config definition for the fixed-window
// request throttle, with separate budgets for reads and writes
type RateLimitConfig struct {
	// Enabled indicates whether requests are throttled at all
	Enabled bool `mapstructure:"enabled"`

	// ReadLimit is the number of GET requests allowed per window
	ReadLimit int `mapstructure:"readLimit"`

	// ReadWindowSeconds is the length of the read window
	ReadWindowSeconds int `mapstructure:"readWindowSeconds"`

	// WriteLimit is the number of mutating requests allowed per window
	WriteLimit int `mapstructure:"writeLimit"`

	// WriteWindowSeconds is the length of the write window
	WriteWindowSeconds int `mapstructure:"writeWindowSeconds"`
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = "postgres"
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	if c.Driver == "sqlite" {
		if c.Path == "" {
			c.Path = "userd.db"
		}
		return nil
	}

	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 5432
	}
	if c.Username == "" {
		c.Username = "postgres"
	}
	if c.Password == "" {
		return fmt.Errorf("database password is required")
	}
	if c.Database == "" {
		c.Database = "userd"
	}
	return nil
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "userd"
	}
	return nil
}

func (c *RedisConfig) Validate() error {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	if c.DB < 0 {
		c.DB = 0
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if c.TTLSeconds <= 0 {
		c.TTLSeconds = 300
	}
	return nil
}

func (c *PaginationConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("pagination secret is required")
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 100
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("pagination defaultLimit %d exceeds maxLimit %d", c.DefaultLimit, c.MaxLimit)
	}
	return nil
}

func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = 60
	}
	if c.ReadWindowSeconds <= 0 {
		c.ReadWindowSeconds = 60
	}
	if c.WriteLimit <= 0 {
		c.WriteLimit = 20
	}
	if c.WriteWindowSeconds <= 0 {
		c.WriteWindowSeconds = 60
	}
	return nil
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}

	if c.DB == nil {
		c.DB = &DatabaseConfig{}
	}
	if c.Mongo == nil {
		c.Mongo = &MongoConfig{}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Cache == nil {
		c.Cache = &CacheConfig{}
	}
	if c.Pagination == nil {
		c.Pagination = &PaginationConfig{}
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{}
	}

	if err := c.DB.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	if err := c.Mongo.Validate(); err != nil {
		return fmt.Errorf("invalid mongo config: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("invalid redis config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("invalid cache config: %w", err)
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("invalid pagination config: %w", err)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}
	return nil
}
