package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis is the persistent Driver backing the key-value store in real
// deployments. Values are whole JSON documents, one per key.
type Redis struct {
	redisdb *redis.Client
}

func NewRedis(cfg RedisConfig) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Redis{redisdb: redisdb}
}

func (d *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := d.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return raw, nil
}

func (d *Redis) Set(ctx context.Context, key string, value []byte) error {
	// documents live until explicitly removed, no TTL
	return d.redisdb.Set(ctx, key, value, 0).Err()
}

func (d *Redis) Del(ctx context.Context, key string) error {
	return d.redisdb.Del(ctx, key).Err()
}

// Ping checks redis connectivity, used by the readiness probe.
func (d *Redis) Ping(ctx context.Context) error {
	return d.redisdb.Ping(ctx).Err()
}

func (d *Redis) Close() error {
	return d.redisdb.Close()
}
