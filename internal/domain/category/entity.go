package category

import "fmt"

// Category は価格カテゴリエンティティを表す
// IDはカタログ初期化時に0..categoryCount-1の連番で割り当てられ、以後変更されない
// 価格の変更はカタログ全体の再投入によってのみ行われる
type Category struct {
	ID    int
	Name  string
	Price float64
}

// NewCategory は新しい価格カテゴリを作成する
// 名称は初期化入力に含まれないため、IDから生成する
func NewCategory(id int, price float64) *Category {
	return &Category{
		ID:    id,
		Name:  fmt.Sprintf("category-%d", id),
		Price: price,
	}
}

// Validate はカテゴリの検証を行う
func (c *Category) Validate() error {
	if c.ID < 0 {
		return ErrInvalidCategoryID
	}
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
