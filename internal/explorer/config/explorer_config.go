package config

import (
	"errors"
	"net"
	"time"

	"github.com/caarlos0/env/v6"
)

// ConnectionConfig holds the account the explorer browses.
type ConnectionConfig struct {
	// Endpoint is the account URI, e.g. "mongodb://localhost:10255"
	Endpoint   string `env:"DOCDB_ENDPOINT" json:"endpoint"`
	Credential string `env:"DOCDB_KEY" json:"-"`
	IsEmulator bool   `env:"DOCDB_IS_EMULATOR" envDefault:"false" json:"is_emulator"`
}

// TreeConfig holds tree presentation and paging settings.
type TreeConfig struct {
	PageSize     int    `env:"DOCDB_PAGE_SIZE" envDefault:"50" json:"page_size"`
	ResourcesDir string `env:"DOCDB_RESOURCES_DIR" envDefault:"resources" json:"resources_dir"`
	// MetadataCollection stores partition key declarations per collection
	MetadataCollection string `env:"DOCDB_METADATA_COLLECTION" envDefault:"__collections" json:"metadata_collection"`
}

// RedisConfig holds the optional Redis stream that records tree changes.
type RedisConfig struct {
	Enabled         bool          `env:"REDIS_ENABLED" envDefault:"false" json:"enabled"`
	Host            string        `env:"REDIS_HOST" envDefault:"localhost" json:"host"`
	Port            string        `env:"REDIS_PORT" envDefault:"6379" json:"port"`
	Password        string        `env:"REDIS_PASSWORD" json:"-"`
	Database        int           `env:"REDIS_DB" envDefault:"0" json:"database"`
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3" json:"max_retries"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10" json:"pool_size"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2" json:"min_idle_conns"`
	EnableTLS       bool          `env:"REDIS_TLS" envDefault:"false" json:"enable_tls"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m" json:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h" json:"conn_max_lifetime"`
	// WriteTimeout bounds one event append; tree operations wait on it
	WriteTimeout    time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"500ms" json:"write_timeout"`
	Stream          string        `env:"REDIS_STREAM" envDefault:"docdb-explorer:tree-events" json:"stream"`
	StreamMaxLength int64         `env:"REDIS_STREAM_MAX_LEN" envDefault:"10000" json:"stream_max_length"`
}

// GetAddr returns host:port for the Redis client.
func (r RedisConfig) GetAddr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// ServerConfig holds the HTTP host settings
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost" json:"host"`
	Port string `env:"SERVER_PORT" envDefault:"3000" json:"port"`
}

// ExplorerConfig holds all configuration for the explorer module.
type ExplorerConfig struct {
	Connection ConnectionConfig `json:"connection"`
	Tree       TreeConfig       `json:"tree"`
	Redis      RedisConfig      `json:"redis"`
	Server     ServerConfig     `json:"server"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*ExplorerConfig, error) {
	cfg := &ExplorerConfig{}

	if err := env.Parse(&cfg.Connection); err != nil {
		return nil, errors.New("failed to load connection configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Tree); err != nil {
		return nil, errors.New("failed to load tree configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return nil, errors.New("failed to load server configuration from environment: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and repairs out-of-range ones.
func (c *ExplorerConfig) Validate() error {
	if c.Connection.Endpoint == "" {
		return errors.New("DOCDB_ENDPOINT environment variable is not set")
	}
	if c.Tree.PageSize <= 0 {
		c.Tree.PageSize = 50
	}
	if c.Tree.MetadataCollection == "" {
		c.Tree.MetadataCollection = "__collections"
	}
	if c.Redis.WriteTimeout <= 0 {
		c.Redis.WriteTimeout = 500 * time.Millisecond
	}
	if c.Redis.Enabled && c.Redis.Stream == "" {
		return errors.New("REDIS_STREAM must be set when REDIS_ENABLED is true")
	}
	return nil
}

// DefaultExplorerConfig returns an ExplorerConfig for local development against an emulator.
func DefaultExplorerConfig() *ExplorerConfig {
	return &ExplorerConfig{
		Connection: ConnectionConfig{
			Endpoint:   "mongodb://localhost:27017",
			IsEmulator: true,
		},
		Tree: TreeConfig{
			PageSize:           50,
			ResourcesDir:       "resources",
			MetadataCollection: "__collections",
		},
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: 30 * time.Minute,
			ConnMaxLifetime: time.Hour,
			WriteTimeout:    500 * time.Millisecond,
			Stream:          "docdb-explorer:tree-events",
			StreamMaxLength: 10000,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "3000",
		},
	}
}
