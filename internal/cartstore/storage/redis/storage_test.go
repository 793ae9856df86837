package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/pkg/cache"
)

func setup(t *testing.T, ttl time.Duration) (*Storage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c := cache.NewRedisCacheWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "catalog")
	t.Cleanup(func() { _ = c.Close() })
	return New(c, ttl), mr
}

func TestLoad_MissingSlot(t *testing.T) {
	s, _ := setup(t, 0)

	_, err := s.Load(context.Background(), cartstore.StoreName)
	assert.ErrorIs(t, err, cartstore.ErrSlotNotFound)
}

func TestSaveLoad(t *testing.T) {
	s, mr := setup(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cart-storage:s1", []byte(`{"state":{"items":[]},"version":0}`)))

	assert.True(t, mr.Exists("catalog:slot:cart-storage:s1"))
	assert.Equal(t, 24*time.Hour, mr.TTL("catalog:slot:cart-storage:s1"))

	data, err := s.Load(ctx, "cart-storage:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"items":[]},"version":0}`, string(data))
}

func TestPersistentRoundTrip(t *testing.T) {
	s, _ := setup(t, 0)
	ctx := context.Background()

	cart, err := cartstore.Open(ctx, s, cartstore.StoreName)
	require.NoError(t, err)
	require.NoError(t, cart.AddToCart(ctx, "1"))
	require.NoError(t, cart.AddToCart(ctx, "2"))
	require.NoError(t, cart.AddToCart(ctx, "1"))

	reloaded, err := cartstore.Open(ctx, s, cartstore.StoreName)
	require.NoError(t, err)
	assert.Equal(t, cart.State().Items, reloaded.State().Items)
}

func TestCorruptSlotFallsBackToEmpty(t *testing.T) {
	s, mr := setup(t, 0)
	require.NoError(t, mr.Set("catalog:slot:"+cartstore.StoreName, "{not json"))

	cart, err := cartstore.Open(context.Background(), s, cartstore.StoreName)
	require.NoError(t, err)
	assert.Empty(t, cart.State().Items)
}

func TestServerDownStillMutatesInMemory(t *testing.T) {
	s, mr := setup(t, 0)
	ctx := context.Background()
	cart, err := cartstore.Open(ctx, s, cartstore.StoreName)
	require.NoError(t, err)

	mr.Close()

	err = cart.AddToCart(ctx, "x")
	assert.Error(t, err)
	assert.Equal(t, 1, cart.GetQuantity("x"))
}

func TestServerDownOnOpenKeepsSavedCart(t *testing.T) {
	s, mr := setup(t, 0)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, cartstore.SlotName("s1"), []byte(`{"state":{"items":[{"id":"a","quantity":3}]},"version":0}`)))

	sessions, err := cartstore.NewSessions(s, 0)
	require.NoError(t, err)

	mr.SetError("ERR injected failure")
	_, err = sessions.Cart(ctx, "s1")
	require.Error(t, err)

	mr.SetError("")
	cart, err := sessions.Cart(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, cart.AddToCart(ctx, "b"))

	data, err := s.Load(ctx, cartstore.SlotName("s1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"items":[{"id":"a","quantity":3},{"id":"b","quantity":1}]},"version":0}`, string(data))
}
