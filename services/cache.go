package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	orderCacheKeyPrefix = "garage:order:token:"
	// invalidationGuard is how long an invalidated token refuses new
	// writes, covering readers that loaded the order before the change
	invalidationGuard = 10 * time.Second
)

// guardedSet stores ARGV[1] at KEYS[1] unless KEYS[2] marks the token as
// recently invalidated. ARGV[2] is the TTL in milliseconds, 0 for none.
var guardedSet = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// ViewCache caches assembled order views by public token. Caching is
// best-effort: implementations log failures and report a miss.
type ViewCache interface {
	Get(ctx context.Context, token string) (*models.OrderView, bool)
	Set(ctx context.Context, view *models.OrderView)
	Invalidate(ctx context.Context, tokens ...string)
}

// NoopViewCache never stores anything
type NoopViewCache struct{}

func (NoopViewCache) Get(ctx context.Context, token string) (*models.OrderView, bool) { return nil, false }

func (NoopViewCache) Set(ctx context.Context, view *models.OrderView) {}

func (NoopViewCache) Invalidate(ctx context.Context, tokens ...string) {}

// redisCommander is the subset of *redis.Client the cache uses
type redisCommander interface {
	redis.Scripter
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisViewCache stores JSON-encoded views in redis
type RedisViewCache struct {
	rdb redisCommander
	ttl time.Duration
	log *zap.Logger
}

func NewRedisViewCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisViewCache {
	return &RedisViewCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisViewCache) Get(ctx context.Context, token string) (*models.OrderView, bool) {
	raw, err := c.rdb.Get(ctx, orderCacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Order cache read failed", zap.String("token", token), zap.Error(err))
		return nil, false
	}

	var view models.OrderView
	if err := json.Unmarshal(raw, &view); err != nil {
		c.log.Warn("Discarding undecodable cached order", zap.String("token", token), zap.Error(err))
		c.Invalidate(ctx, token)
		return nil, false
	}
	return &view, true
}

func (c *RedisViewCache) Set(ctx context.Context, view *models.OrderView) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.log.Warn("Order cache encode failed", zap.Uint("order_id", view.OrderID), zap.Error(err))
		return
	}
	keys := []string{orderCacheKey(view.Token), invalidationKey(view.Token)}
	stored, err := guardedSet.Run(ctx, c.rdb, keys, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn("Order cache write failed", zap.Uint("order_id", view.OrderID), zap.Error(err))
		return
	}
	if stored == 0 {
		c.log.Debug("Skipped caching recently changed order", zap.Uint("order_id", view.OrderID))
	}
}

func (c *RedisViewCache) Invalidate(ctx context.Context, tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	// mark first so a reader cannot repopulate between the two steps
	keys := make([]string, len(tokens))
	for i, token := range tokens {
		if err := c.rdb.Set(ctx, invalidationKey(token), 1, invalidationGuard).Err(); err != nil {
			c.log.Warn("Order cache invalidation mark failed", zap.String("token", token), zap.Error(err))
		}
		keys[i] = orderCacheKey(token)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Order cache invalidation failed", zap.Strings("tokens", tokens), zap.Error(err))
	}
}

func orderCacheKey(token string) string {
	return orderCacheKeyPrefix + token
}

func invalidationKey(token string) string {
	return orderCacheKeyPrefix + token + ":invalidated"
}
