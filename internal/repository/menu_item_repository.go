package repository

import (
	"context"

	"littlelemon/internal/domain/model"
)

type MenuItemListQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	Featured   *bool
}

// メニューは読み取りのみ。
type MenuItemRepository interface {
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)
	List(ctx context.Context, q MenuItemListQuery) ([]model.MenuItem, int64, error)
}
