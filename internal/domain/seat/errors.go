package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound      = errors.New("座席が見つかりません")
	ErrSeatUnavailable   = errors.New("座席は既に確保されています")
	ErrInvalidSeatID     = errors.New("座席番号が不正です")
	ErrInvalidSeatCount  = errors.New("座席数は0以上である必要があります")
	ErrInsufficientSeats = errors.New("空席数が不足しています")
	ErrNoAdjoiningBlock  = errors.New("必要な数の連続した空席がありません")
)
