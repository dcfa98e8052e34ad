package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

type seatRow struct {
	ID        int  `db:"id"`
	Available bool `db:"available"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{ID: r.ID, Available: r.Available}
}

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, etx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でマルチバリューINSERTを実行
func (r *SeatRepository) createBulkBatch(ctx context.Context, tx *sqlx.Tx, seats []*seat.Seat) error {
	query := `INSERT INTO seats (id, available) VALUES `
	args := make([]interface{}, 0, len(seats)*2)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 2
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, s.ID, s.Available)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) ListAvailableIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0)
	query := `SELECT id FROM seats WHERE available ORDER BY id`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("空席一覧取得に失敗: %w", err)
	}
	return ids, nil
}

func (r *SeatRepository) ListAvailableIDsForUpdate(ctx context.Context, tx transaction.Tx) ([]int, error) {
	etx := UnwrapTx(tx)
	if etx == nil {
		return nil, ErrInvalidTx
	}
	ids := make([]int, 0)
	query := `SELECT id FROM seats WHERE available ORDER BY id FOR UPDATE`
	if err := etx.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("空席一覧のロック取得に失敗: %w", err)
	}
	return ids, nil
}

func (r *SeatRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, ids []int) ([]*seat.Seat, error) {
	if len(ids) == 0 {
		return []*seat.Seat{}, nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return nil, ErrInvalidTx
	}
	var rows []seatRow
	query := `SELECT id, available FROM seats WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	if err := etx.SelectContext(ctx, &rows, query, int64Array(ids)); err != nil {
		return nil, fmt.Errorf("座席のロック取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	query := `UPDATE seats SET available = false WHERE id = ANY($1) AND available`
	result, err := etx.ExecContext(ctx, query, int64Array(ids))
	if err != nil {
		return fmt.Errorf("座席確保に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(ids) {
		return seat.ErrSeatUnavailable
	}
	return nil
}

func (r *SeatRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	query := `UPDATE seats SET available = true WHERE id = ANY($1)`
	if _, err := etx.ExecContext(ctx, query, int64Array(ids)); err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE available`)
	return count, err
}

// CountInconsistent はavailableフラグと予約の有無が矛盾する座席数を返す
// available=trueなのに予約がある、またはavailable=falseなのに予約がない座席が対象
func (r *SeatRepository) CountInconsistent(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM seats s LEFT JOIN bookings b ON b.seat_id = s.id WHERE s.available = (b.id IS NOT NULL)`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

func (r *SeatRepository) DeleteAll(ctx context.Context, tx transaction.Tx) error {
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	if _, err := etx.ExecContext(ctx, `DELETE FROM seats`); err != nil {
		return fmt.Errorf("座席全削除に失敗: %w", err)
	}
	return nil
}

// int64Array は []int を lib/pq のANY($1)に渡せる配列型へ変換する
func int64Array(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return arr
}

var _ seat.Repository = (*SeatRepository)(nil)
