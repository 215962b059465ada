package repository

import (
	"context"

	"littlelemon/internal/domain/model"
)

// ユーザーとグループ所属の保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（重複は ErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	//リクエストごとに呼ばれる。キャッシュしない。
	RolesOf(ctx context.Context, userID int64) (model.RoleSet, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	// 追加したらtrue、既に所属していればfalse
	AddRole(ctx context.Context, userID int64, role model.Role) (bool, error)
	// 削除したらtrue、所属していなければfalse
	RemoveRole(ctx context.Context, userID int64, role model.Role) (bool, error)
	// 管理者にしたらtrue、既に管理者ならfalse
	GrantSuperAdmin(ctx context.Context, userID int64) (bool, error)
}
