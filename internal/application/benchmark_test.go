//go:build integration
// +build integration

package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-booking/internal/config"
	"github.com/sanosuguru/go-seat-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-seat-booking/internal/infrastructure/redis"
)

// TestBenchmark_LargeScaleCatalog は大規模座席数でのパフォーマンスを計測するベンチマークテスト
// 10万座席のカタログ投入、検索、割当のパフォーマンスを実証します
func TestBenchmark_LargeScaleCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	cfg := config.Load()
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}

	if err := postgres.RunMigrations(db.DB, "../../migrations"); err != nil {
		db.Close()
		t.Fatalf("マイグレーションエラー: %v", err)
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		db.Close()
		t.Skipf("Redis接続エラー: %v", err)
	}

	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	priceCache := redisinfra.NewPriceCache(redisClient)
	lockManager := redisinfra.NewLockManager(redisClient)

	catalogService := NewCatalogService(txManager, categoryRepo, seatRepo, bookingRepo, priceCache, lockManager)
	seatService := NewSeatService(txManager, seatRepo)
	bookingService := NewBookingService(txManager, bookingRepo, seatRepo, categoryRepo)

	cleanup := func() {
		db.Exec("DELETE FROM bookings")
		db.Exec("DELETE FROM seats")
		db.Exec("DELETE FROM categories")
		priceCache.Invalidate(context.Background())
		redisClient.Close()
		db.Close()
	}
	defer cleanup()

	ctx := context.Background()

	t.Run("10万座席ベンチマーク", func(t *testing.T) {
		const totalSeats = 100000

		// 1. 10万座席のカタログ投入
		t.Log("=== 10万座席のカタログ投入開始 ===")
		startSeed := time.Now()

		categories, err := catalogService.InitCatalog(ctx, InitCatalogInput{
			SeatCount: totalSeats,
			PriceList: []float64{12000, 8000, 5000, 3000},
		})
		require.NoError(t, err)
		require.Len(t, categories, 4)

		seedDuration := time.Since(startSeed)
		seedRate := float64(totalSeats) / seedDuration.Seconds()
		t.Logf("✅ カタログ投入完了: %v (%.0f 席/秒)", seedDuration, seedRate)

		// 2. 空席数カウントのパフォーマンス
		t.Log("=== 空席数カウントのパフォーマンス計測 ===")
		startCount := time.Now()

		count, err := seatService.CountAvailableSeats(ctx)
		require.NoError(t, err)
		require.Equal(t, totalSeats, count)

		countDuration := time.Since(startCount)
		t.Logf("✅ 空席数カウント: %v (COUNT: %d)", countDuration, count)

		// 3. 空席一覧取得のパフォーマンス
		t.Log("=== 空席一覧取得のパフォーマンス計測 ===")
		startList := time.Now()

		available, err := seatService.GetAvailableSeats(ctx, false)
		require.NoError(t, err)
		require.Len(t, available, totalSeats)

		listDuration := time.Since(startList)
		t.Logf("✅ 空席一覧取得: %v (%d席)", listDuration, len(available))

		// 4. 並行割当パフォーマンス（1000人が同時に異なる座席を割当）
		t.Log("=== 1000人同時割当のパフォーマンス計測 ===")
		const concurrentUsers = 1000
		var successCount int32
		var errorCount int32
		var wg sync.WaitGroup

		startAllocate := time.Now()

		for i := 0; i < concurrentUsers; i++ {
			wg.Add(1)
			go func(userNum int) {
				defer wg.Done()

				// 各ユーザーは1席ずつ割当（衝突を避けるため100席間隔）
				seatID := userNum*100 + 1

				_, err := bookingService.AllocateSeats(ctx, AllocateSeatsInput{
					Customer:        fmt.Sprintf("user-%05d", userNum),
					SeatsByCategory: [][]int{{seatID}},
				})

				if err == nil {
					atomic.AddInt32(&successCount, 1)
				} else {
					atomic.AddInt32(&errorCount, 1)
				}
			}(i)
		}
		wg.Wait()

		allocateDuration := time.Since(startAllocate)
		allocateRate := float64(successCount) / allocateDuration.Seconds()
		t.Logf("✅ 並行割当完了: %v", allocateDuration)
		t.Logf("   成功: %d, エラー: %d", successCount, errorCount)
		t.Logf("   割当処理速度: %.0f 割当/秒", allocateRate)

		require.Equal(t, int32(concurrentUsers), successCount, "異なる座席への割当は全て成功するべき")

		// 5. 同一座席への競合割当（100人が同じ座席を割当）
		t.Log("=== 100人同時競合割当のパフォーマンス計測 ===")
		const competingUsers = 100
		const targetSeatID = 50000 // 中央の座席を対象
		var competitionSuccess int32
		var competitionConflict int32

		startCompete := time.Now()

		var wg2 sync.WaitGroup
		for i := 0; i < competingUsers; i++ {
			wg2.Add(1)
			go func(userNum int) {
				defer wg2.Done()

				_, err := bookingService.AllocateSeats(ctx, AllocateSeatsInput{
					Customer:        fmt.Sprintf("compete-user-%03d", userNum),
					SeatsByCategory: [][]int{{targetSeatID}},
				})

				if err == nil {
					atomic.AddInt32(&competitionSuccess, 1)
				} else {
					atomic.AddInt32(&competitionConflict, 1)
				}
			}(i)
		}
		wg2.Wait()

		competeDuration := time.Since(startCompete)
		t.Logf("✅ 競合割当完了: %v", competeDuration)
		t.Logf("   成功: %d, 競合/エラー: %d", competitionSuccess, competitionConflict)

		// 検証
		require.Equal(t, int32(1), competitionSuccess, "競合割当では1人だけ成功するべき")
		require.Equal(t, int32(competingUsers-1), competitionConflict, "残りは全て失敗するべき")

		// 6. 最終結果サマリー
		t.Log("=================================================")
		t.Log("📊 ベンチマーク結果サマリー")
		t.Log("=================================================")
		t.Logf("総座席数: %d", totalSeats)
		t.Logf("カタログ投入: %v (%.0f 席/秒)", seedDuration, seedRate)
		t.Logf("空席カウント: %v", countDuration)
		t.Logf("空席一覧取得: %v", listDuration)
		t.Logf("並行割当 (%d人): %v (%.0f 割当/秒)", concurrentUsers, allocateDuration, allocateRate)
		t.Logf("競合割当 (%d人→1人成功): %v", competingUsers, competeDuration)
		t.Log("=================================================")
	})
}

// BenchmarkSeatQueries は座席クエリのベンチマークを計測
func BenchmarkSeatQueries(b *testing.B) {
	cfg := config.Load()
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		b.Skipf("DB接続エラー: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, "../../migrations"); err != nil {
		b.Fatalf("マイグレーションエラー: %v", err)
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		b.Skipf("Redis接続エラー: %v", err)
	}
	defer redisClient.Close()

	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	priceCache := redisinfra.NewPriceCache(redisClient)
	lockManager := redisinfra.NewLockManager(redisClient)

	catalogService := NewCatalogService(txManager, categoryRepo, seatRepo, bookingRepo, priceCache, lockManager)
	seatService := NewSeatService(txManager, seatRepo)

	ctx := context.Background()

	// テストデータ準備
	catalogService.InitCatalog(ctx, InitCatalogInput{
		SeatCount: 1000, PriceList: []float64{5000},
	})

	b.Run("CountAvailableSeats", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			seatService.CountAvailableSeats(ctx)
		}
	})

	b.Run("GetAvailableSeats", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			seatService.GetAvailableSeats(ctx, false)
		}
	})

	b.Run("GetPriceList", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			catalogService.GetPriceList(ctx)
		}
	})
}
