package category

import "errors"

// Category ドメインのエラー定義
var (
	ErrCategoryNotFound  = errors.New("カテゴリが見つかりません")
	ErrUnknownCategory   = errors.New("存在しないカテゴリが指定されています")
	ErrInvalidCategoryID = errors.New("カテゴリIDは0以上である必要があります")
	ErrNameRequired      = errors.New("カテゴリ名は必須です")
	ErrInvalidPrice      = errors.New("価格は0より大きい必要があります")
	ErrEmptyPriceList    = errors.New("価格リストが空です")
	ErrReseedInProgress  = errors.New("カタログ再投入が実行中です")
)
