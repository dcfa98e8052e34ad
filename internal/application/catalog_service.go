package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/metrics"
)

const (
	// 価格表は再投入まで不変なので、長めのTTL＋再投入時の明示的な無効化で運用する
	priceCacheTTL = 5 * time.Minute

	reseedLockKey = "catalog:reseed"
	reseedLockTTL = 30 * time.Second
)

// CatalogService は座席カタログ（座席数と価格表）の投入と参照を司る
type CatalogService struct {
	txManager    transaction.Manager
	categoryRepo category.Repository
	seatRepo     seat.Repository
	bookingRepo  booking.Repository
	priceCache   *redisinfra.PriceCache
	lockManager  redisinfra.LockManagerInterface
}

func NewCatalogService(txm transaction.Manager, cr category.Repository, sr seat.Repository, br booking.Repository, cache *redisinfra.PriceCache, lm redisinfra.LockManagerInterface) *CatalogService {
	return &CatalogService{
		txManager:    txm,
		categoryRepo: cr,
		seatRepo:     sr,
		bookingRepo:  br,
		priceCache:   cache,
		lockManager:  lm,
	}
}

type InitCatalogInput struct {
	SeatCount int
	PriceList []float64
}

// InitCatalog はカタログを再投入する
// 既存の予約・座席・カテゴリをすべて破棄し、座席1..SeatCountとカテゴリ0..len(PriceList)-1を作り直す
// 再投入の多重実行は分散ロックで防ぐ（割当・取消はこのロックを一切使わない）
func (s *CatalogService) InitCatalog(ctx context.Context, input InitCatalogInput) ([]*category.Category, error) {
	if input.SeatCount < 0 {
		return nil, seat.ErrInvalidSeatCount
	}
	if len(input.PriceList) == 0 {
		return nil, category.ErrEmptyPriceList
	}

	categories := make([]*category.Category, 0, len(input.PriceList))
	for i, price := range input.PriceList {
		c := category.NewCategory(i, price)
		if err := c.Validate(); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLock(ctx, reseedLockKey, reseedLockTTL)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, category.ErrReseedInProgress
			}
			return nil, fmt.Errorf("再投入ロックの取得に失敗: %w", err)
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				logger.Warn("再投入ロックの解放エラー", zap.Error(err))
			}
		}()
	}

	if err := s.reseed(ctx, categories, input.SeatCount); err != nil {
		return nil, err
	}

	if s.priceCache != nil {
		if err := s.priceCache.Invalidate(ctx); err != nil {
			logger.Warn("価格表キャッシュの無効化エラー", zap.Error(err))
		}
	}
	if m := metrics.Get(); m != nil {
		m.CatalogReseedsTotal.Inc()
		m.AvailableSeats.Set(float64(input.SeatCount))
	}
	logger.Info("カタログを再投入しました",
		zap.Int("seat_count", input.SeatCount),
		zap.Int("category_count", len(categories)))
	return categories, nil
}

func (s *CatalogService) reseed(ctx context.Context, categories []*category.Category, seatCount int) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 外部キーの依存順に消す（予約 → 座席 → カテゴリ）
	if err := s.bookingRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := s.seatRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}

	if err := s.categoryRepo.CreateBulk(ctx, tx, categories); err != nil {
		return err
	}

	seats := make([]*seat.Seat, 0, seatCount)
	for id := 1; id <= seatCount; id++ {
		seats = append(seats, seat.NewSeat(id))
	}
	if err := s.seatRepo.CreateBulk(ctx, tx, seats); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// GetPriceList はカテゴリID順の価格表を返す
func (s *CatalogService) GetPriceList(ctx context.Context) ([]float64, error) {
	// キャッシュから取得を試みる
	if s.priceCache != nil {
		prices, err := s.priceCache.GetPriceList(ctx)
		if err == nil {
			logger.Debug("価格表キャッシュヒット", zap.Int("category_count", len(prices)))
			return prices, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("価格表キャッシュの取得エラー", zap.Error(err))
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, len(categories))
	for i, c := range categories {
		prices[i] = c.Price
	}

	if s.priceCache != nil {
		if cacheErr := s.priceCache.SetPriceList(ctx, prices, priceCacheTTL); cacheErr != nil {
			logger.Warn("価格表キャッシュの保存エラー", zap.Error(cacheErr))
		}
	}

	return prices, nil
}
