package repository

import (
	"context"
	"errors"

	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//見える範囲
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.DeliveryCrewID != nil {
		q = q.Where("delivery_crew_id = ?", *f.DeliveryCrewID)
	}

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.MinTotal != nil {
		q = q.Where("total >= ?", *f.MinTotal)
	}
	if f.MaxTotal != nil {
		q = q.Where("total <= ?", *f.MaxTotal)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	switch f.Sort {
	case repo.OrderSortTotalAsc:
		q = q.Order("total asc").Order("id asc")
	case repo.OrderSortTotalDesc:
		q = q.Order("total desc").Order("id desc")
	case repo.OrderSortDateAsc:
		q = q.Order("created_at asc").Order("id asc")
	default:
		q = q.Order("created_at desc").Order("id desc")
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// status が expected のままなら書き込む。0件なら存在確認して NotFound / Conflict を分ける。
func (r *OrderGormRepository) CompareAndUpdate(ctx context.Context, orderID int64, expected model.OrderStatus, next repo.OrderUpdate) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, expected).
		Updates(map[string]interface{}{
			"status":           next.Status,
			"delivery_crew_id": next.DeliveryCrewID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, orderID); err != nil {
		return err
	}
	return repo.ErrConflict
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
