package model

import "github.com/shopspring/decimal"

// 注文作成時にカート明細からコピーされ、以後は変更しない。
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64           `gorm:"not null;index" json:"order_id"`
	MenuItemID int64           `gorm:"not null;index" json:"menuitem_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}

func OrderItemFromCartLine(l CartLine) OrderItem {
	return OrderItem{
		MenuItemID: l.MenuItemID,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		Price:      l.Price,
	}
}
