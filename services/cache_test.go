package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRedis keeps values in a map and can be told to fail
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	fail   error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.fail != nil {
		return redis.NewStringResult("", f.fail)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.fail != nil {
		return redis.NewStatusResult("", f.fail)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	default:
		f.values[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

// EvalSha runs the guarded set script against the map
func (f *fakeRedis) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	if f.fail != nil {
		return redis.NewCmdResult(nil, f.fail)
	}
	if _, marked := f.values[keys[1]]; marked {
		return redis.NewCmdResult(int64(0), nil)
	}
	f.values[keys[0]] = string(args[0].([]byte))
	f.ttls[keys[0]] = time.Duration(args[1].(int64)) * time.Millisecond
	return redis.NewCmdResult(int64(1), nil)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.EvalSha(ctx, "", keys, args...)
}

func (f *fakeRedis) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("not supported"))
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("not supported"))
}

func (f *fakeRedis) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (f *fakeRedis) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.fail != nil {
		return redis.NewIntResult(0, f.fail)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisViewCacheRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	cache := &RedisViewCache{rdb: fake, ttl: time.Minute, log: zap.NewNop()}
	ctx := context.Background()

	_, ok := cache.Get(ctx, "abc")
	assert.False(t, ok)

	view := &models.OrderView{
		OrderID:    3,
		Token:      "abc",
		Status:     models.OrderStatusInProgress,
		TotalPrice: decimal.RequireFromString("45.10"),
		Services: []models.ServiceLineView{
			{ServiceID: 1, Name: "Oil Change", Status: models.ServiceStatusCompleted, Completed: true},
		},
	}
	cache.Set(ctx, view)
	assert.Equal(t, time.Minute, fake.ttls["garage:order:token:abc"])

	got, ok := cache.Get(ctx, "abc")
	require.True(t, ok)
	assert.Equal(t, uint(3), got.OrderID)
	assert.True(t, view.TotalPrice.Equal(got.TotalPrice))
	assert.Equal(t, view.Services, got.Services)

	cache.Invalidate(ctx, "abc")
	_, ok = cache.Get(ctx, "abc")
	assert.False(t, ok)
}

func TestRedisViewCacheFailuresAreMisses(t *testing.T) {
	fake := newFakeRedis()
	cache := &RedisViewCache{rdb: fake, ttl: time.Minute, log: zap.NewNop()}
	ctx := context.Background()

	fake.values["garage:order:token:bad"] = "{not json"
	_, ok := cache.Get(ctx, "bad")
	assert.False(t, ok)
	assert.NotContains(t, fake.values, "garage:order:token:bad")

	fake.fail = errors.New("connection refused")
	cache.Set(ctx, &models.OrderView{Token: "abc"})
	_, ok = cache.Get(ctx, "abc")
	assert.False(t, ok)
	cache.Invalidate(ctx, "abc")
}

func TestRedisViewCacheRefusesWritesAfterInvalidation(t *testing.T) {
	fake := newFakeRedis()
	cache := &RedisViewCache{rdb: fake, ttl: time.Minute, log: zap.NewNop()}
	ctx := context.Background()

	// a reader loaded the order before the change committed
	stale := &models.OrderView{OrderID: 5, Token: "abc", Status: models.OrderStatusReceived}

	cache.Invalidate(ctx, "abc")
	assert.Equal(t, invalidationGuard, fake.ttls["garage:order:token:abc:invalidated"])

	cache.Set(ctx, stale)
	_, ok := cache.Get(ctx, "abc")
	assert.False(t, ok, "stale view must not be cached while the mark lives")

	// once the mark expires the cache fills again
	delete(fake.values, "garage:order:token:abc:invalidated")
	cache.Set(ctx, stale)
	got, ok := cache.Get(ctx, "abc")
	require.True(t, ok)
	assert.Equal(t, uint(5), got.OrderID)
}
