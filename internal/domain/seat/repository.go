package seat

import (
	"context"

	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

// Repository は座席リポジトリのインターフェース
type Repository interface {
	// CreateBulk は複数の座席を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// ListAvailableIDs は空席のIDを昇順で取得する
	// スナップショット読み取りであり、返却後の状態は保証されない
	ListAvailableIDs(ctx context.Context) ([]int, error)

	// ListAvailableIDsForUpdate は空席のIDを昇順で取得し、
	// トランザクション終了まで対象行のロックを保持する
	ListAvailableIDsForUpdate(ctx context.Context, tx transaction.Tx) ([]int, error)

	// GetForUpdate は指定IDの座席を昇順で取得し、行ロックする（トランザクション必須）
	// 存在しないIDは結果に含まれない
	GetForUpdate(ctx context.Context, tx transaction.Tx, ids []int) ([]*Seat, error)

	// ReserveSeats は空席を確保済みに更新する（トランザクション必須）
	// 1席でも確保済みだった場合はErrSeatUnavailableを返す
	ReserveSeats(ctx context.Context, tx transaction.Tx, ids []int) error

	// ReleaseSeats は座席を空席に戻す（トランザクション必須）
	ReleaseSeats(ctx context.Context, tx transaction.Tx, ids []int) error

	// CountAvailable は現在の空席数を返す
	CountAvailable(ctx context.Context) (int, error)

	// CountInconsistent はavailableフラグと予約の有無が矛盾している座席数を返す
	CountInconsistent(ctx context.Context) (int, error)

	// DeleteAll は全座席を削除する（カタログ再投入用、トランザクション必須）
	DeleteAll(ctx context.Context, tx transaction.Tx) error
}
