package repository

import (
	"context"
	"time"

	"littlelemon/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 並び順
const (
	OrderSortDateDesc  = "-date"
	OrderSortDateAsc   = "date"
	OrderSortTotalDesc = "-total"
	OrderSortTotalAsc  = "total"
)

type OrderListFilter struct {
	Page  int
	Limit int

	// 見える範囲（nilなら絞らない）
	UserID         *int64
	DeliveryCrewID *int64

	Status   *model.OrderStatus
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
	From     *time.Time
	To       *time.Time
	Sort     string
}

// 作成後に変えてよいのは status と delivery_crew_id だけ。
type OrderUpdate struct {
	Status         model.OrderStatus
	DeliveryCrewID *int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	// 現在の status が expected のときだけ書き込む。変わっていたら ErrConflict。
	CompareAndUpdate(ctx context.Context, orderID int64, expected model.OrderStatus, next OrderUpdate) error
	Delete(ctx context.Context, orderID int64) error
}
