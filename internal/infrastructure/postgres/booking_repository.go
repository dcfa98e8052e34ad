package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

type bookingRow struct {
	ID         int64     `db:"id"`
	SeatID     int       `db:"seat_id"`
	Customer   string    `db:"customer"`
	CategoryID int       `db:"category_id"`
	Price      float64   `db:"price"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, SeatID: r.SeatID, Customer: r.Customer,
		CategoryID: r.CategoryID, Price: r.Price, CreatedAt: r.CreatedAt,
	}
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBulk は予約を登録し、採番されたIDと作成時刻を各エンティティに反映する
// bookings.seat_idの一意制約違反は並行予約に敗れた合図でありErrSeatConflictを返す
func (r *BookingRepository) CreateBulk(ctx context.Context, tx transaction.Tx, bookings []*booking.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	query := `INSERT INTO bookings (seat_id, customer, category_id) VALUES ($1, $2, $3) RETURNING id, created_at`
	for _, b := range bookings {
		if err := etx.QueryRowContext(ctx, query, b.SeatID, b.Customer, b.CategoryID).Scan(&b.ID, &b.CreatedAt); err != nil {
			if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
				return booking.ErrSeatConflict
			}
			return fmt.Errorf("予約登録に失敗: %w", err)
		}
	}
	return nil
}

// GetBySeatForUpdate は座席IDから予約を取得し、予約行のみをロックする
// カテゴリ行はロックしない（FOR UPDATE OF b）
func (r *BookingRepository) GetBySeatForUpdate(ctx context.Context, tx transaction.Tx, seatID int) (*booking.Booking, error) {
	etx := UnwrapTx(tx)
	if etx == nil {
		return nil, ErrInvalidTx
	}
	var row bookingRow
	query := `SELECT b.id, b.seat_id, b.customer, b.category_id, c.price, b.created_at
		FROM bookings b
		JOIN categories c ON c.id = b.category_id
		WHERE b.seat_id = $1
		FOR UPDATE OF b`
	if err := etx.GetContext(ctx, &row, query, seatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByCustomer は顧客の予約を座席ID昇順で取得する（空文字列は全件）
func (r *BookingRepository) ListByCustomer(ctx context.Context, customer string) ([]*booking.Booking, error) {
	var rows []bookingRow
	var err error
	if customer == "" {
		query := `SELECT b.id, b.seat_id, b.customer, b.category_id, c.price, b.created_at
			FROM bookings b JOIN categories c ON c.id = b.category_id ORDER BY b.seat_id`
		err = r.db.SelectContext(ctx, &rows, query)
	} else {
		query := `SELECT b.id, b.seat_id, b.customer, b.category_id, c.price, b.created_at
			FROM bookings b JOIN categories c ON c.id = b.category_id WHERE b.customer = $1 ORDER BY b.seat_id`
		err = r.db.SelectContext(ctx, &rows, query, customer)
	}
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *BookingRepository) DeleteBySeatIDs(ctx context.Context, tx transaction.Tx, seatIDs []int) error {
	if len(seatIDs) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	result, err := etx.ExecContext(ctx, `DELETE FROM bookings WHERE seat_id = ANY($1)`, int64Array(seatIDs))
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) DeleteAll(ctx context.Context, tx transaction.Tx) error {
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	if _, err := etx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("予約全削除に失敗: %w", err)
	}
	return nil
}

var _ booking.Repository = (*BookingRepository)(nil)
