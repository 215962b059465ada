package events

import (
	"context"
	"fmt"

	"littlelemon/internal/config"
	"littlelemon/internal/domain/model"
)

// Publisher は usecase.EventPublisher に Close を足したもの。
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// New は EVENT_BROKER に応じて実装を選ぶ。未設定なら何もしない。
func New(cfg config.Config) (Publisher, error) {
	switch cfg.EventBroker {
	case config.BrokerKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.BrokerRabbitMQ:
		p, err := NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return p, nil
	case config.BrokerNone:
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}
