package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
	OrderEventDeleted       OrderEventType = "order.deleted"
)

// 外部に流す注文イベント。commit後に送る。
type OrderEvent struct {
	ID             string          `json:"id"`
	Type           OrderEventType  `json:"type"`
	OrderID        int64           `json:"order_id"`
	UserID         int64           `json:"user_id"`
	DeliveryCrewID *int64          `json:"delivery_crew_id,omitempty"`
	Status         OrderStatus     `json:"status"`
	Total          decimal.Decimal `json:"total"`
	ActorUserID    int64           `json:"actor_user_id"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func NewOrderEvent(id string, typ OrderEventType, o Order, actorUserID int64, now time.Time) OrderEvent {
	return OrderEvent{
		ID:             id,
		Type:           typ,
		OrderID:        o.ID,
		UserID:         o.UserID,
		DeliveryCrewID: o.DeliveryCrewID,
		Status:         o.Status,
		Total:          o.Total,
		ActorUserID:    actorUserID,
		OccurredAt:     now,
	}
}

// Kafkaのキー / RabbitMQのルーティングキー
func (e OrderEvent) RoutingKey() string {
	return string(e.Type)
}
