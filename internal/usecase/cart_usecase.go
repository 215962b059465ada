package usecase

import (
	"context"
	"errors"
	"fmt"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CartUsecase は /cart/menu-items の業務ロジック。
// カートは顧客本人のものしか触れない。
type CartUsecase struct {
	carts repo.CartRepository
	menu  repo.MenuItemRepository
	clock Clock
	inst  instruments
}

func NewCartUsecase(carts repo.CartRepository, menu repo.MenuItemRepository, clock Clock) *CartUsecase {
	return &CartUsecase{carts: carts, menu: menu, clock: clock, inst: newInstruments()}
}

type CartOutput struct {
	Items []model.CartLine `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type AddLineInput struct {
	MenuItemID int64
	Quantity   int64
}

func (u *CartUsecase) ListCart(ctx context.Context, p model.Principal) (CartOutput, error) {
	if err := u.inst.authorize(ctx, p, access.ActionCartAccess, nil); err != nil {
		return CartOutput{}, err
	}

	lines, err := u.carts.ListByUserID(ctx, p.UserID)
	if err != nil {
		return CartOutput{}, Internal("db error", err)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return CartOutput{Items: lines, Total: model.SumPrices(lines)}, nil
}

// AddLine は価格をその時点で固定して明細を1行追加する。
// 同じ商品でもまとめない。
func (u *CartUsecase) AddLine(ctx context.Context, p model.Principal, in AddLineInput) (model.CartLine, error) {
	ctx, span := tracer.Start(ctx, "CartUsecase.AddLine", trace.WithAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.Int64("menuitem.id", in.MenuItemID),
	))
	defer span.End()

	if err := u.inst.authorize(ctx, p, access.ActionCartAccess, nil); err != nil {
		return model.CartLine{}, err
	}
	if in.Quantity <= 0 {
		return model.CartLine{}, InvalidInput("quantity must be greater than zero")
	}
	if in.Quantity > model.MaxLineQuantity {
		return model.CartLine{}, InvalidInput(fmt.Sprintf("quantity must be at most %d", model.MaxLineQuantity))
	}

	item, err := u.menu.FindByID(ctx, in.MenuItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartLine{}, NotFound("menu item not found")
	}
	if err != nil {
		return model.CartLine{}, Internal("db error", err)
	}

	line := model.NewCartLine(p.UserID, item.ID, in.Quantity, item.Price, u.clock.Now())
	if model.ExceedsMaxMoney(line.Price) {
		return model.CartLine{}, InvalidInput("line price is too large")
	}
	created, err := u.carts.Create(ctx, line)
	if err != nil {
		span.RecordError(err)
		return model.CartLine{}, Internal("db error", fmt.Errorf("create cart line: %w", err))
	}
	return created, nil
}

// ClearCart は空でも成功し、削除件数を返す。
func (u *CartUsecase) ClearCart(ctx context.Context, p model.Principal) (int64, error) {
	if err := u.inst.authorize(ctx, p, access.ActionCartAccess, nil); err != nil {
		return 0, err
	}

	n, err := u.carts.DeleteByUserID(ctx, p.UserID)
	if err != nil {
		return 0, Internal("db error", err)
	}
	return n, nil
}

// 他人の明細も「無い」として扱う
func (u *CartUsecase) DeleteLine(ctx context.Context, p model.Principal, lineID int64) error {
	if err := u.inst.authorize(ctx, p, access.ActionCartAccess, nil); err != nil {
		return err
	}
	if lineID <= 0 {
		return InvalidInput("invalid id")
	}

	err := u.carts.DeleteOwned(ctx, p.UserID, lineID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("cart line not found")
	}
	if err != nil {
		return Internal("db error", err)
	}
	return nil
}
