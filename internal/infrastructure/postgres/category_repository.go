package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
	"github.com/sanosuguru/go-seat-booking/internal/domain/transaction"
)

type categoryRow struct {
	ID    int     `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

func (r *categoryRow) toEntity() *category.Category {
	return &category.Category{ID: r.ID, Name: r.Name, Price: r.Price}
}

type CategoryRepository struct{ db *sqlx.DB }

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) CreateBulk(ctx context.Context, tx transaction.Tx, categories []*category.Category) error {
	if len(categories) == 0 {
		return nil
	}
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}

	query := `INSERT INTO categories (id, name, price) VALUES `
	args := make([]interface{}, 0, len(categories)*3)
	placeholders := make([]string, 0, len(categories))

	for i, c := range categories {
		base := i * 3
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, c.ID, c.Name, c.Price)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := etx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("カテゴリ一括作成に失敗: %w", err)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var rows []categoryRow
	query := `SELECT id, name, price FROM categories ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧取得に失敗: %w", err)
	}
	categories := make([]*category.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.toEntity()
	}
	return categories, nil
}

func (r *CategoryRepository) ListTx(ctx context.Context, tx transaction.Tx) ([]*category.Category, error) {
	etx := UnwrapTx(tx)
	if etx == nil {
		return nil, ErrInvalidTx
	}
	var rows []categoryRow
	query := `SELECT id, name, price FROM categories ORDER BY id`
	if err := etx.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧取得に失敗: %w", err)
	}
	categories := make([]*category.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.toEntity()
	}
	return categories, nil
}

func (r *CategoryRepository) DeleteAll(ctx context.Context, tx transaction.Tx) error {
	etx := UnwrapTx(tx)
	if etx == nil {
		return ErrInvalidTx
	}
	if _, err := etx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("カテゴリ全削除に失敗: %w", err)
	}
	return nil
}

var _ category.Repository = (*CategoryRepository)(nil)
