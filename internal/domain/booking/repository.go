package booking

import (
	"context"

	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
// 取得系はすべてカテゴリとの結合によってPriceを導出した予約を返す
type Repository interface {
	// CreateBulk は複数の予約を一括登録し、採番されたIDと作成時刻を反映する（トランザクション必須）
	// 座席の一意制約に違反した場合はErrSeatConflictを返す
	CreateBulk(ctx context.Context, tx transaction.Tx, bookings []*Booking) error

	// GetBySeatForUpdate は座席IDから予約を取得し、行ロックする（トランザクション必須）
	// 予約が存在しない場合はErrBookingNotFoundを返す
	GetBySeatForUpdate(ctx context.Context, tx transaction.Tx, seatID int) (*Booking, error)

	// ListByCustomer は顧客の予約を座席ID昇順で取得する
	// 顧客名が空文字列の場合は全顧客の予約を返す
	ListByCustomer(ctx context.Context, customer string) ([]*Booking, error)

	// DeleteBySeatIDs は座席IDに対応する予約を削除する（トランザクション必須）
	// 削除件数がlen(seatIDs)と一致しない場合はErrBookingNotFoundを返す
	DeleteBySeatIDs(ctx context.Context, tx transaction.Tx, seatIDs []int) error

	// DeleteAll は全予約を削除する（カタログ再投入用、トランザクション必須）
	DeleteAll(ctx context.Context, tx transaction.Tx) error
}
