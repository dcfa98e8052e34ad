package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

// SeatService は空席状況の参照を司る
type SeatService struct {
	txManager transaction.Manager
	seatRepo  seat.Repository
}

func NewSeatService(txm transaction.Manager, sr seat.Repository) *SeatService {
	return &SeatService{txManager: txm, seatRepo: sr}
}

// GetAvailableSeats は空席IDを昇順で返す
// stable が真のときはトランザクション内で行ロック付きの読み取りを行う
// ロックはこの呼び出しのコミットで解放されるため、割当と組み合わせない限り固定効果は持続しない
func (s *SeatService) GetAvailableSeats(ctx context.Context, stable bool) ([]int, error) {
	if !stable {
		return s.seatRepo.ListAvailableIDs(ctx)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	ids, err := s.seatRepo.ListAvailableIDsForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return ids, nil
}

// CountAvailableSeats は空席数を返す
func (s *SeatService) CountAvailableSeats(ctx context.Context) (int, error) {
	return s.seatRepo.CountAvailable(ctx)
}

// CountInconsistentSeats は空席フラグと予約の有無が食い違う座席数を返す
// 0以外は割当・取消の原子性が破れている兆候
func (s *SeatService) CountInconsistentSeats(ctx context.Context) (int, error) {
	return s.seatRepo.CountInconsistent(ctx)
}
