package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の価格を必ず保存。同じ商品を追加しても別の行になる。
type CartLine struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"user"`
	MenuItemID int64           `gorm:"not null;index" json:"menuitem_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

// 1明細の数量上限
const MaxLineQuantity int64 = 32767

// numeric(10,2) に入る最大値。明細の price と注文の total はこれを超えられない。
var MaxMoney = decimal.RequireFromString("99999999.99")

func ExceedsMaxMoney(v decimal.Decimal) bool {
	return v.GreaterThan(MaxMoney)
}

func NewCartLine(userID, menuItemID, quantity int64, unitPrice decimal.Decimal, now time.Time) CartLine {
	return CartLine{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Price:      LinePrice(quantity, unitPrice),
		CreatedAt:  now,
	}
}

func LinePrice(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// SumPrices は明細の price の合計。
func SumPrices(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price)
	}
	return total
}
