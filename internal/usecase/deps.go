package usecase

import (
	"context"
	"time"

	"littlelemon/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// commit後に注文イベントを流す。失敗してもusecaseは成功扱い。
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}
