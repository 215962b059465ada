package repository

import (
	"context"

	"littlelemon/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 注文確定用。行ロック（FOR UPDATE）付きで取得する。Tx内で使う。
	LockByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	Create(ctx context.Context, line model.CartLine) (model.CartLine, error)
	// 削除件数を返す
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteByIDs(ctx context.Context, userID int64, lineIDs []int64) (int64, error)
	// 他人の明細は ErrNotFound
	DeleteOwned(ctx context.Context, userID int64, lineID int64) error
}
