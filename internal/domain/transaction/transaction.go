package transaction

import "context"

// Tx は1回の割当・取消を束ねるトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
// 共有ストアの分離レベルが唯一の順序保証であり、全操作はTxの境界内で完結する
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	// コミット済みのTxに対する呼び出しは無害でなければならない
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}
