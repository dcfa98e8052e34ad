package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-booking/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	cfg := config.Load()
	client := NewClient(&cfg.Redis)
	if err := Ping(context.Background(), client); err != nil {
		client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPriceCache_GetPriceList(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewPriceCache(client)
	ctx := context.Background()

	// 前のテストのキャッシュを消しておく
	require.NoError(t, cache.Invalidate(ctx))

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		_, err := cache.GetPriceList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした価格リストを取得できる", func(t *testing.T) {
		err := cache.SetPriceList(ctx, []float64{100, 75.5, 50}, 30*time.Second)
		require.NoError(t, err)

		prices, err := cache.GetPriceList(ctx)
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 75.5, 50}, prices)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetPriceList(ctx, []float64{200}, 30*time.Second)
		require.NoError(t, err)

		err = cache.Invalidate(ctx)
		require.NoError(t, err)

		_, err = cache.GetPriceList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestPriceCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewPriceCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Invalidate(ctx))

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetPriceList(ctx, []float64{100}, 100*time.Millisecond)
		require.NoError(t, err)

		// TTL経過前
		prices, err := cache.GetPriceList(ctx)
		require.NoError(t, err)
		assert.Equal(t, []float64{100}, prices)

		// TTL経過後
		time.Sleep(150 * time.Millisecond)
		_, err = cache.GetPriceList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
