package category

import (
	"context"

	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

// Repository は価格カテゴリリポジトリのインターフェース
type Repository interface {
	// CreateBulk は複数のカテゴリを一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, categories []*Category) error

	// List は全カテゴリをID昇順で取得する
	List(ctx context.Context) ([]*Category, error)

	// ListTx はトランザクション内で全カテゴリをID昇順で取得する
	ListTx(ctx context.Context, tx transaction.Tx) ([]*Category, error)

	// DeleteAll は全カテゴリを削除する（カタログ再投入用、トランザクション必須）
	DeleteAll(ctx context.Context, tx transaction.Tx) error
}
