// Package cache holds the redis-backed read-through cache for trending
// categories. The cache is a display optimization only; the store remains
// the source of truth and a disabled or failing cache degrades to a live
// query.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medvoyage/community-backend/internal/logger"
	"github.com/medvoyage/community-backend/internal/mapper"
)

const (
	trendingKey = "trending:categories"
	trendingTTL = 2 * time.Minute
)

type Trending struct {
	rdb *redis.Client
}

// NewTrending connects to redis at addr. An empty addr disables the cache.
func NewTrending(addr, password string, db int) *Trending {
	if addr == "" {
		return &Trending{}
	}
	return &Trending{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Enabled reports whether a redis backend was configured.
func (t *Trending) Enabled() bool { return t.rdb != nil }

// Get returns the cached trending list, with ok=false on miss, disabled
// cache, or any redis failure.
func (t *Trending) Get(ctx context.Context) ([]mapper.Category, bool) {
	if t.rdb == nil {
		return nil, false
	}
	raw, err := t.rdb.Get(ctx, trendingKey).Bytes()
	if err != nil {
		if err != redis.Nil && logger.Log != nil {
			logger.Log.Warn("trending cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var cats []mapper.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, false
	}
	return cats, true
}

// Set stores the trending list best-effort.
func (t *Trending) Set(ctx context.Context, cats []mapper.Category) {
	if t.rdb == nil {
		return
	}
	raw, err := json.Marshal(cats)
	if err != nil {
		return
	}
	if err := t.rdb.Set(ctx, trendingKey, raw, trendingTTL).Err(); err != nil && logger.Log != nil {
		logger.Log.Warn("trending cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached list after writes that change the ranking.
func (t *Trending) Invalidate(ctx context.Context) {
	if t.rdb == nil {
		return
	}
	_ = t.rdb.Del(ctx, trendingKey).Err()
}

// Close releases the redis connection.
func (t *Trending) Close() error {
	if t.rdb == nil {
		return nil
	}
	return t.rdb.Close()
}
