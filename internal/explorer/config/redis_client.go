package config

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisClientName = "docdb-explorer"

// ClientOptions maps the settings onto go-redis options. Reads serve the
// events endpoint and may wait longer than the appends made inline with
// tree operations.
func (r RedisConfig) ClientOptions() *redis.Options {
	opts := &redis.Options{
		Addr:            r.GetAddr(),
		ClientName:      redisClientName,
		Password:        r.Password,
		DB:              r.Database,
		MaxRetries:      r.MaxRetries,
		PoolSize:        r.PoolSize,
		MinIdleConns:    r.MinIdleConns,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    r.WriteTimeout,
		PoolTimeout:     r.WriteTimeout + time.Second,
		ConnMaxIdleTime: orDefault(r.ConnMaxIdleTime, 30*time.Minute),
		ConnMaxLifetime: orDefault(r.ConnMaxLifetime, time.Hour),
	}
	if r.EnableTLS {
		opts.TLSConfig = &tls.Config{ServerName: r.Host, MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient creates the client backing the tree event stream.
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(cfg.ClientOptions())
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
