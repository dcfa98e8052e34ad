package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const priceListKey = "catalog:prices"

// PriceCache は価格リストのキャッシュを管理する
// 価格はカタログ再投入まで不変なので、キャッシュ対象は価格リストのみとする
// 座席・予約の状態はトランザクション外でキャッシュしてはならない
type PriceCache struct {
	client *redis.Client
}

// NewPriceCache は新しいPriceCacheインスタンスを作成する
func NewPriceCache(client *redis.Client) *PriceCache {
	return &PriceCache{client: client}
}

// GetPriceList は価格リストをキャッシュから取得する（カテゴリID昇順）
func (c *PriceCache) GetPriceList(ctx context.Context) ([]float64, error) {
	val, err := c.client.Get(ctx, priceListKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var prices []float64
	if err := json.Unmarshal([]byte(val), &prices); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return prices, nil
}

// SetPriceList は価格リストをキャッシュに保存する
func (c *PriceCache) SetPriceList(ctx context.Context, prices []float64, ttl time.Duration) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, priceListKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は価格リストのキャッシュを無効化する（カタログ再投入時に呼ぶ）
func (c *PriceCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, priceListKey).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}
