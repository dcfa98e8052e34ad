package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking/internal/api"
	"github.com/sanosuguru/go-seat-booking/internal/api/handler"
	appmiddleware "github.com/sanosuguru/go-seat-booking/internal/api/middleware"
	"github.com/sanosuguru/go-seat-booking/internal/application"
	"github.com/sanosuguru/go-seat-booking/internal/config"
	"github.com/sanosuguru/go-seat-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.Log.Level, cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays)
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		pingCancel()
		logger.Fatal("Redis接続に失敗しました", zap.Error(err))
	}
	pingCancel()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	priceCache := redisinfra.NewPriceCache(redisClient)
	lockManager := redisinfra.NewLockManager(redisClient)

	// サービス
	catalogService := application.NewCatalogService(txManager, categoryRepo, seatRepo, bookingRepo, priceCache, lockManager)
	seatService := application.NewSeatService(txManager, seatRepo)
	bookingService := application.NewBookingService(txManager, bookingRepo, seatRepo, categoryRepo)

	// 空席監査ワーカー
	auditorCtx, auditorCancel := context.WithCancel(context.Background())
	defer auditorCancel()
	auditor := worker.NewAvailabilityAuditor(seatService, cfg.Worker.AuditInterval)
	go auditor.Start(auditorCtx)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	appmiddleware.SetupMiddleware(e)
	e.Use(appmiddleware.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler(db, redisClient)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	seatHandler := handler.NewSeatHandler(seatService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// ルーティング
	e.GET("/health", healthHandler.Check)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()),
		appmiddleware.MetricsBasicAuth(cfg.Server.MetricsUser, cfg.Server.MetricsPassword))

	v1 := e.Group("/api/v1")
	v1.POST("/catalog", catalogHandler.Init)
	v1.GET("/catalog/prices", catalogHandler.GetPriceList)
	v1.GET("/seats/available", seatHandler.GetAvailable)
	v1.GET("/seats/available/count", seatHandler.CountAvailable)
	v1.POST("/bookings", bookingHandler.Allocate)
	v1.POST("/bookings/seats", bookingHandler.AllocateSeats)
	v1.GET("/bookings", bookingHandler.GetBookings)
	v1.POST("/bookings/cancel", bookingHandler.Cancel)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	auditor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
