package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection settings for the store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStore implements Store using Redis. Membership of each scope is
// tracked in a Redis set so that a scope can be dropped without SCAN.
type RedisStore struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
	logger     *zap.Logger
}

// RedisStoreOption is a functional option for configuring the store
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces every key written by the store.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithStoreLogger sets the logger for the store
func WithStoreLogger(logger *zap.Logger) RedisStoreOption {
	return func(s *RedisStore) {
		s.logger = logger
	}
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, opts ...RedisStoreOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewRedisStoreWithClient(client, opts...)
	s.ownsClient = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisStoreWithClient(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "dashboard:view:",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) valueKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) scopeKey(scope string) string {
	return s.prefix + "scope:" + scope
}

func (s *RedisStore) scopesKey() string {
	return s.prefix + "scopes"
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return data, true, nil
}

// Set records key in its scope set. The set lives as long as its
// longest-lived member, so scopes that are never invalidated still expire.
func (s *RedisStore) Set(ctx context.Context, scope, key string, value []byte, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.valueKey(key), value, ttl)
		pipe.SAdd(ctx, s.scopeKey(scope), s.valueKey(key))
		if ttl > 0 {
			pipe.ExpireNX(ctx, s.scopeKey(scope), ttl)
			pipe.ExpireGT(ctx, s.scopeKey(scope), ttl)
		}
		pipe.SAdd(ctx, s.scopesKey(), scope)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.valueKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to put %s in cache: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, scope string) error {
	scopes, err := s.client.SMembers(ctx, s.scopesKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list cache scopes: %w", err)
	}

	for _, member := range scopes {
		if !covers(scope, member) {
			continue
		}
		keys, err := s.client.SMembers(ctx, s.scopeKey(member)).Result()
		if err != nil {
			return fmt.Errorf("failed to list keys of scope %s: %w", member, err)
		}

		_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(keys) > 0 {
				pipe.Del(ctx, keys...)
			}
			pipe.Del(ctx, s.scopeKey(member))
			pipe.SRem(ctx, s.scopesKey(), member)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to invalidate scope %s: %w", member, err)
		}
		s.logger.Debug("Invalidated cache scope",
			zap.String("scope", member),
			zap.Int("keys", len(keys)))
	}
	return nil
}

// Close closes the client when the store created it.
func (s *RedisStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
