package testkit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisModule wraps one Redis testcontainer. The name cache and the task queue
// share it through separate logical databases.
type RedisModule struct {
	container testcontainers.Container
	addr      string
	cacheDB   int
	queueDB   int
}

// Addr returns the host:port string for the Redis instance.
func (r *RedisModule) Addr() string { return r.addr }

// CacheClient opens a client on the name cache database.
func (r *RedisModule) CacheClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: r.addr, DB: r.cacheDB})
}

// QueueClient opens a client on the Asynq database, for inspection and flushing.
func (r *RedisModule) QueueClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: r.addr, DB: r.queueDB})
}

// QueueOpt returns the Asynq connection options for the queue database.
func (r *RedisModule) QueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: r.addr, DB: r.queueDB}
}

// Terminate stops the container.
func (r *RedisModule) Terminate(ctx context.Context) error {
	if r.container == nil {
		return nil
	}
	return r.container.Terminate(ctx)
}

// StartRedis starts a Redis container and returns a RedisModule.
// If cfg.RedisAddr is set, no container is started and that addr is used directly.
func StartRedis(ctx context.Context, cfg *Config) (*RedisModule, error) {
	if cfg.RedisAddr != "" {
		return &RedisModule{addr: cfg.RedisAddr, cacheDB: cfg.CacheDB, queueDB: cfg.QueueDB}, nil
	}

	ctr, err := tcredis.Run(ctx, cfg.RedisImage)
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get redis connection string: %w", err)
	}

	addr, err := extractAddr(connStr)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("parse redis connection string %q: %w", connStr, err)
	}

	return &RedisModule{
		container: ctr,
		addr:      addr,
		cacheDB:   cfg.CacheDB,
		queueDB:   cfg.QueueDB,
	}, nil
}

// extractAddr parses a redis:// URL and returns host:port.
func extractAddr(connStr string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", err
	}
	return u.Host, nil
}
