package events

import (
	"context"

	"littlelemon/internal/domain/model"
)

// EVENT_BROKER未設定のとき用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
