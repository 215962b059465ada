package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusDelivered OrderStatus = 1
)

var (
	ErrInvalidOrderStatus = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

func ParseOrderStatus(v int) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOrderStatus, v)
	}
	return s, nil
}

func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusDelivered
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusDelivered:
		return "delivered"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CanTransitionTo は遷移表。
//
//	Pending   -> Pending / Delivered
//	Delivered -> Delivered
//
// Delivered から Pending には戻せない。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == OrderStatusDelivered {
		return next == OrderStatusDelivered
	}
	return true
}

type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user_id"`
	DeliveryCrewID *int64          `gorm:"index" json:"delivery_crew_id"`
	Status         OrderStatus     `gorm:"type:smallint;not null;default:0;index" json:"status"`
	Total          decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"total"`
	CreatedAt      time.Time       `gorm:"not null;index" json:"date"`
}

func (o Order) IsAssignedTo(userID int64) bool {
	return o.DeliveryCrewID != nil && *o.DeliveryCrewID == userID
}
