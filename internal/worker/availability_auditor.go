package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/metrics"
)

// SeatAuditor は座席状態の監査に必要な参照操作のインターフェース
type SeatAuditor interface {
	CountAvailableSeats(ctx context.Context) (int, error)
	CountInconsistentSeats(ctx context.Context) (int, error)
}

// AvailabilityAuditor は空席数と整合性を定期的に検査するワーカー
// availableフラグと予約の有無の食い違いは割当・取消の原子性が破れた兆候であり、
// 検出した場合はエラーログとメトリクスで知らせる
type AvailabilityAuditor struct {
	seatService SeatAuditor
	interval    time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewAvailabilityAuditor は新しい監査ワーカーを作成
func NewAvailabilityAuditor(ss SeatAuditor, interval time.Duration) *AvailabilityAuditor {
	return &AvailabilityAuditor{
		seatService: ss,
		interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start は監査ワーカーを開始
func (a *AvailabilityAuditor) Start(ctx context.Context) {
	logger.Info("空席監査ワーカー開始", zap.Duration("interval", a.interval))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer close(a.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席監査ワーカー停止（コンテキストキャンセル）")
			return
		case <-a.stopCh:
			logger.Info("空席監査ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			a.audit(ctx)
		}
	}
}

// Stop は監査ワーカーを停止
func (a *AvailabilityAuditor) Stop() {
	close(a.stopCh)
	<-a.doneCh
}

// audit は空席数と整合性を1回検査する
func (a *AvailabilityAuditor) audit(ctx context.Context) {
	log := logger.Get()
	log.Debug("空席監査開始")

	available, err := a.seatService.CountAvailableSeats(ctx)
	if err != nil {
		log.Error("空席数の取得失敗", zap.Error(err))
		return
	}

	inconsistent, err := a.seatService.CountInconsistentSeats(ctx)
	if err != nil {
		log.Error("整合性検査の実行失敗", zap.Error(err))
		return
	}

	if m := metrics.Get(); m != nil {
		m.AvailableSeats.Set(float64(available))
		m.AuditInconsistencies.Set(float64(inconsistent))
	}

	if inconsistent > 0 {
		log.Error("空席フラグと予約が矛盾しています",
			zap.Int("inconsistent", inconsistent),
			zap.Int("available", available),
		)
		return
	}
	log.Debug("空席監査完了", zap.Int("available", available))
}
