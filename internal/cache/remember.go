package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/logger"
)

// Remember returns the cached value for key, or calls load and caches its
// result under scope. Cache failures are logged and fall through to load.
// Load errors are returned as is and never cached.
func Remember[T any](ctx context.Context, store Store, scope, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if store == nil || ttl <= 0 {
		return load(ctx)
	}
	log := logger.FromContext(ctx)

	data, ok, err := store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn("View cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn("View not cacheable", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := store.Set(ctx, scope, key, encoded, ttl); err != nil {
		log.Warn("View cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
