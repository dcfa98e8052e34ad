package seat

// Seat は座席エンティティを表す
// IDはカタログ初期化時に1..seatCountの連番で割り当てられ、以後再利用も再採番もされない
// Availableは派生状態であり、この座席を参照する予約が存在しないときに限りtrueとなる
type Seat struct {
	ID        int
	Available bool
}

// NewSeat は空席状態の新しい座席を作成する
func NewSeat(id int) *Seat {
	return &Seat{
		ID:        id,
		Available: true,
	}
}

// IsAvailable は座席が確保可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Available
}

// Book は座席を確保済みにする
func (s *Seat) Book() error {
	if !s.Available {
		return ErrSeatUnavailable
	}
	s.Available = false
	return nil
}

// Release は座席を空席に戻す
func (s *Seat) Release() {
	s.Available = true
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.ID < 1 {
		return ErrInvalidSeatID
	}
	return nil
}
