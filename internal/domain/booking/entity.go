package booking

import "time"

// Booking は1座席・1顧客・1カテゴリを結びつける予約レコードを表す
// IDはストアが採番する。Priceは予約時点のカテゴリ価格であり、保存されず
// 常にカテゴリとの結合によって導出される（カタログ再投入は全予約を破棄するため安全）
// 予約は割当トランザクションでのみ作成され、取消トランザクションでのみ破棄される
type Booking struct {
	ID         int64
	SeatID     int
	Customer   string
	CategoryID int
	Price      float64
	CreatedAt  time.Time
}

// NewBooking は新しい予約を作成する
// IDとCreatedAtはストアへの登録時に採番される
func NewBooking(seatID int, customer string, categoryID int, price float64) *Booking {
	return &Booking{
		SeatID:     seatID,
		Customer:   customer,
		CategoryID: categoryID,
		Price:      price,
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.Customer == "" {
		return ErrCustomerRequired
	}
	if b.SeatID < 1 {
		return ErrInvalidSeat
	}
	if b.CategoryID < 0 {
		return ErrInvalidCategory
	}
	return nil
}

// Matches は取消要求が登録済みの予約内容と完全一致するかを返す
func (b *Booking) Matches(req CancelRequest) bool {
	return b.SeatID == req.SeatID &&
		b.Customer == req.Customer &&
		b.CategoryID == req.CategoryID
}
