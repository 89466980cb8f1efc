package setupstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// DefaultKeyPrefix namespaces setup keys when no prefix is configured.
const DefaultKeyPrefix = "smc:setup:"

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// redisClient is the subset of the go-redis client used by RedisStore.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// RedisStore shares claims between processes with SET NX and a TTL.
type RedisStore struct {
	client redisClient
	prefix string
}

// NewRedisStore connects to Redis and pings it.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "redis ping %s", cfg.Addr)
	}

	return newRedisStore(client, cfg.KeyPrefix), nil
}

func newRedisStore(client redisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisStore{client: client, prefix: prefix}
}

// Claim implements SetupStore.
func (s *RedisStore) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+id, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeSetupStoreFailed, err, "claim setup %s", id)
	}

	return ok, nil
}

// Close implements SetupStore.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
