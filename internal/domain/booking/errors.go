package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound  = errors.New("予約が見つかりません")
	ErrBookingMismatch  = errors.New("取消要求が登録済みの予約内容と一致しません")
	ErrSeatConflict     = errors.New("座席は並行する別の予約で確保されました")
	ErrTxConflict       = errors.New("トランザクションが競合したためロールバックされました")
	ErrCustomerRequired = errors.New("顧客名は必須です")
	ErrInvalidSeat      = errors.New("座席番号は1以上である必要があります")
	ErrInvalidCategory  = errors.New("カテゴリIDは0以上である必要があります")
	ErrNegativeCount    = errors.New("枚数は0以上である必要があります")
	ErrDuplicateSeat    = errors.New("同一座席が複数回指定されています")
)
