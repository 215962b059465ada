package usecase

import (
	"context"
	"errors"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"
)

// メニューの参照のみ。
type CatalogUsecase struct {
	menu repo.MenuItemRepository
	inst instruments
}

func NewCatalogUsecase(menu repo.MenuItemRepository) *CatalogUsecase {
	return &CatalogUsecase{menu: menu, inst: newInstruments()}
}

type MenuListInput struct {
	Page       int
	Limit      int
	CategoryID *int64
	Featured   *bool
}

type MenuListOutput struct {
	Items []model.MenuItem `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *CatalogUsecase) List(ctx context.Context, p model.Principal, in MenuListInput) (MenuListOutput, error) {
	if err := u.inst.authorize(ctx, p, access.ActionCatalogRead, nil); err != nil {
		return MenuListOutput{}, err
	}

	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 20
	}
	if in.Page < 1 {
		return MenuListOutput{}, InvalidInput("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return MenuListOutput{}, InvalidInput("invalid limit")
	}

	items, total, err := u.menu.List(ctx, repo.MenuItemListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		CategoryID: in.CategoryID,
		Featured:   in.Featured,
	})
	if err != nil {
		return MenuListOutput{}, Internal("db error", err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return MenuListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *CatalogUsecase) Get(ctx context.Context, p model.Principal, id int64) (model.MenuItem, error) {
	if err := u.inst.authorize(ctx, p, access.ActionCatalogRead, nil); err != nil {
		return model.MenuItem{}, err
	}
	if id <= 0 {
		return model.MenuItem{}, InvalidInput("invalid id")
	}

	item, err := u.menu.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.MenuItem{}, NotFound("menu item not found")
	}
	if err != nil {
		return model.MenuItem{}, Internal("db error", err)
	}
	return item, nil
}
