package booking

// CancelRequest は取消対象の予約を座席・顧客・カテゴリの組で指定する
// 座席は予約の一意な検索キーであり、3項目すべてが登録内容と一致したときのみ取消できる
type CancelRequest struct {
	SeatID     int
	Customer   string
	CategoryID int
}

// Validate は取消要求1件の形式検証を行う
func (r CancelRequest) Validate() error {
	if r.SeatID < 1 {
		return ErrInvalidSeat
	}
	if r.Customer == "" {
		return ErrCustomerRequired
	}
	if r.CategoryID < 0 {
		return ErrInvalidCategory
	}
	return nil
}

// ValidateCancelRequests は取消要求列の事前検証を行う
// 同一座席の重複指定は2件目の照合結果が削除順に依存して不定になるため、
// ストアに触れる前に決定的に拒否する
func ValidateCancelRequests(reqs []CancelRequest) error {
	seen := make(map[int]struct{}, len(reqs))
	for _, r := range reqs {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := seen[r.SeatID]; ok {
			return ErrDuplicateSeat
		}
		seen[r.SeatID] = struct{}{}
	}
	return nil
}

// ValidateCounts はカテゴリ別枚数指定の事前検証を行う
// 枚数0は有効（そのカテゴリを割当てない）、負数は不正
func ValidateCounts(counts []int) error {
	for _, n := range counts {
		if n < 0 {
			return ErrNegativeCount
		}
	}
	return nil
}

// ValidateSeatSelection は座席直接指定の事前検証を行う
// 全カテゴリを通して座席番号に重複があってはならない
func ValidateSeatSelection(seatsByCategory [][]int) error {
	seen := make(map[int]struct{})
	for _, ids := range seatsByCategory {
		for _, id := range ids {
			if id < 1 {
				return ErrInvalidSeat
			}
			if _, ok := seen[id]; ok {
				return ErrDuplicateSeat
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}
