package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-seat-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking/internal/pkg/metrics"
)

// BookingService は座席の割当と取消を司る
// 1回の割当・取消は必ず1つのトランザクションに束ねられ、途中失敗は全体を巻き戻す
type BookingService struct {
	txManager    transaction.Manager
	bookingRepo  booking.Repository
	seatRepo     seat.Repository
	categoryRepo category.Repository
}

func NewBookingService(txm transaction.Manager, br booking.Repository, sr seat.Repository, cr category.Repository) *BookingService {
	return &BookingService{txManager: txm, bookingRepo: br, seatRepo: sr, categoryRepo: cr}
}

type AllocateByCategoryInput struct {
	Customer  string
	Counts    []int
	Adjoining bool
}

// AllocateByCategory はカテゴリ別の枚数指定で座席を割当てる
// Adjoining指定時は全カテゴリ合計枚数ぶんの連続ブロックを1つ確保し、カテゴリ順に分配する
// 競合による失敗は1回だけ全体を再試行し、それでも失敗すれば競合エラーを返す
// 戻り値の予約は座席ID昇順
func (s *BookingService) AllocateByCategory(ctx context.Context, input AllocateByCategoryInput) ([]*booking.Booking, error) {
	if input.Customer == "" {
		countAllocation("validation_rejected")
		return nil, booking.ErrCustomerRequired
	}
	if err := booking.ValidateCounts(input.Counts); err != nil {
		countAllocation("validation_rejected")
		return nil, err
	}
	total := 0
	for _, n := range input.Counts {
		total += n
	}
	if total == 0 {
		// 0席の割当は自明な成功
		return []*booking.Booking{}, nil
	}

	bookings, err := s.allocateByCategoryOnce(ctx, input, total)
	if err != nil && isContention(err) {
		// 競合時は全体を1回だけやり直す
		logger.Info("割当が競合したため再試行します", zap.String("customer", input.Customer))
		if m := metrics.Get(); m != nil {
			m.AllocationRetriesTotal.Inc()
		}
		bookings, err = s.allocateByCategoryOnce(ctx, input, total)
	}
	if err != nil {
		countAllocation(allocationStatus(err))
		return nil, normalizeTxError(err)
	}
	countAllocation("booked")
	return bookings, nil
}

func (s *BookingService) allocateByCategoryOnce(ctx context.Context, input AllocateByCategoryInput, total int) ([]*booking.Booking, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	categories, err := s.categoryRepo.ListTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(input.Counts) > len(categories) {
		return nil, category.ErrUnknownCategory
	}

	// 空席を昇順で読み、この割当が終わるまで行ロックを保持する
	available, err := s.seatRepo.ListAvailableIDsForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	var selected []int
	if input.Adjoining {
		selected, err = seat.SelectAdjoining(available, total)
	} else {
		selected, err = seat.SelectFirst(available, total)
	}
	if err != nil {
		return nil, err
	}

	// カテゴリ0が最小のID区間を受け取る。区間の連結は座席ID昇順になる
	parts := seat.PartitionByCategory(selected, input.Counts)
	bookings := make([]*booking.Booking, 0, total)
	for i, ids := range parts {
		for _, id := range ids {
			bookings = append(bookings, booking.NewBooking(id, input.Customer, categories[i].ID, categories[i].Price))
		}
	}

	if err := s.seatRepo.ReserveSeats(ctx, tx, selected); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.CreateBulk(ctx, tx, bookings); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return bookings, nil
}

type AllocateSeatsInput struct {
	Customer        string
	SeatsByCategory [][]int
}

// AllocateSeats は座席を直接指定して割当てる
// 指定座席の1つでも存在しない・空いていない場合は全体を中止する
// 競合で敗れた場合の再試行は行わない（同じ座席は既に取られており結果は変わらない）
func (s *BookingService) AllocateSeats(ctx context.Context, input AllocateSeatsInput) ([]*booking.Booking, error) {
	if input.Customer == "" {
		countAllocation("validation_rejected")
		return nil, booking.ErrCustomerRequired
	}
	if err := booking.ValidateSeatSelection(input.SeatsByCategory); err != nil {
		countAllocation("validation_rejected")
		return nil, err
	}
	total := 0
	for _, ids := range input.SeatsByCategory {
		total += len(ids)
	}
	if total == 0 {
		return []*booking.Booking{}, nil
	}

	bookings, err := s.allocateSeatsOnce(ctx, input, total)
	if err != nil {
		countAllocation(allocationStatus(err))
		return nil, normalizeTxError(err)
	}
	countAllocation("booked")
	return bookings, nil
}

func (s *BookingService) allocateSeatsOnce(ctx context.Context, input AllocateSeatsInput, total int) ([]*booking.Booking, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	categories, err := s.categoryRepo.ListTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(input.SeatsByCategory) > len(categories) {
		return nil, category.ErrUnknownCategory
	}

	allIDs := make([]int, 0, total)
	for _, ids := range input.SeatsByCategory {
		allIDs = append(allIDs, ids...)
	}

	// 指定された座席だけを行ロックし、存在と空席を確認する
	seats, err := s.seatRepo.GetForUpdate(ctx, tx, allIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(allIDs) {
		return nil, seat.ErrSeatNotFound
	}
	for _, se := range seats {
		if !se.IsAvailable() {
			return nil, seat.ErrSeatUnavailable
		}
	}

	bookings := make([]*booking.Booking, 0, total)
	for i, ids := range input.SeatsByCategory {
		for _, id := range ids {
			bookings = append(bookings, booking.NewBooking(id, input.Customer, categories[i].ID, categories[i].Price))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].SeatID < bookings[j].SeatID })

	if err := s.seatRepo.ReserveSeats(ctx, tx, allIDs); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.CreateBulk(ctx, tx, bookings); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return bookings, nil
}

// GetBookings は顧客の予約を座席ID昇順で返す（顧客名が空なら全件）
func (s *BookingService) GetBookings(ctx context.Context, customer string) ([]*booking.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customer)
}

// CancelBookings は指定された予約をすべて取消すか、1件も取消さない
// 各要求の座席・顧客・カテゴリが登録内容と完全一致しなければ、最初の不一致で全体を中止する
func (s *BookingService) CancelBookings(ctx context.Context, reqs []booking.CancelRequest) error {
	if len(reqs) == 0 {
		// 取消対象なしは自明な成功
		return nil
	}
	if err := booking.ValidateCancelRequests(reqs); err != nil {
		countCancellation("validation_rejected")
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		countCancellation("error")
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	seatIDs := make([]int, 0, len(reqs))
	for _, req := range reqs {
		stored, err := s.bookingRepo.GetBySeatForUpdate(ctx, tx, req.SeatID)
		if err != nil {
			countCancellation(cancellationStatus(err))
			return normalizeTxError(err)
		}
		if !stored.Matches(req) {
			countCancellation("mismatch")
			return booking.ErrBookingMismatch
		}
		seatIDs = append(seatIDs, req.SeatID)
	}

	if err := s.bookingRepo.DeleteBySeatIDs(ctx, tx, seatIDs); err != nil {
		countCancellation(cancellationStatus(err))
		return normalizeTxError(err)
	}
	if err := s.seatRepo.ReleaseSeats(ctx, tx, seatIDs); err != nil {
		countCancellation("error")
		return normalizeTxError(err)
	}
	if err := tx.Commit(); err != nil {
		countCancellation(cancellationStatus(err))
		return normalizeTxError(fmt.Errorf("コミットに失敗: %w", err))
	}
	countCancellation("canceled")
	return nil
}

// isContention は並行する別の割当・取消に敗れたことを示すエラーかを返す
func isContention(err error) bool {
	return errors.Is(err, booking.ErrSeatConflict) ||
		errors.Is(err, booking.ErrTxConflict) ||
		errors.Is(err, seat.ErrSeatUnavailable) ||
		postgres.IsTxConflict(err)
}

// normalizeTxError はストア固有の競合エラーをドメインエラーへ写し替える
func normalizeTxError(err error) error {
	if postgres.IsTxConflict(err) {
		return booking.ErrTxConflict
	}
	return err
}

func allocationStatus(err error) string {
	switch {
	case errors.Is(err, seat.ErrInsufficientSeats),
		errors.Is(err, seat.ErrNoAdjoiningBlock):
		return "capacity_rejected"
	case errors.Is(err, seat.ErrSeatNotFound),
		errors.Is(err, category.ErrUnknownCategory):
		return "validation_rejected"
	case isContention(err):
		return "conflict"
	default:
		return "error"
	}
}

func cancellationStatus(err error) string {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, booking.ErrBookingMismatch):
		return "mismatch"
	case isContention(err):
		return "conflict"
	default:
		return "error"
	}
}

func countAllocation(status string) {
	if m := metrics.Get(); m != nil {
		m.AllocationsTotal.WithLabelValues(status).Inc()
	}
}

func countCancellation(status string) {
	if m := metrics.Get(); m != nil {
		m.CancellationsTotal.WithLabelValues(status).Inc()
	}
}
