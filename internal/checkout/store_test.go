package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	val, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCache) CartKey(cartID string) string {
	return "cp:cart:" + cartID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	cache := newFakeCache()
	store := &RedisStore{cache: cache, ttl: 12 * time.Hour}
	ctx := context.Background()

	cart := NewCart()
	item := catalogItem("28.50", 10)
	cart.AddItem(item)
	cart.AddItem(item)

	require.NoError(t, store.Save(ctx, "register-1", cart.Lines()))
	require.Equal(t, 12*time.Hour, cache.ttls[cache.CartKey("register-1")])

	lines, err := store.Load(ctx, "register-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, item.ID, lines[0].Item.ID)
	require.Equal(t, 2, lines[0].Quantity)
	require.True(t, lines[0].Item.UnitPrice.Equal(item.UnitPrice))

	require.NoError(t, store.Drop(ctx, "register-1"))
	lines, err = store.Load(ctx, "register-1")
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestRedisStoreMissingCartIsNil(t *testing.T) {
	store := &RedisStore{cache: newFakeCache(), ttl: time.Hour}
	lines, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestRedisStoreRequiresRegisterID(t *testing.T) {
	store := &RedisStore{cache: newFakeCache(), ttl: time.Hour}
	ctx := context.Background()
	require.Error(t, store.Save(ctx, "", nil))
	_, err := store.Load(ctx, "")
	require.Error(t, err)
	require.Error(t, store.Drop(ctx, ""))
}
