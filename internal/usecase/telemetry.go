package usecase

import (
	"context"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("littlelemon/usecase")

type instruments struct {
	ordersCreated metric.Int64Counter
	transitions   metric.Int64Counter
	denials       metric.Int64Counter
}

// メーターが無い環境（テスト）でもnoopで動く。
func newInstruments() instruments {
	meter := otel.Meter("littlelemon/usecase")

	created, err := meter.Int64Counter("littlelemon.orders.created",
		metric.WithDescription("orders created from carts"))
	if err != nil {
		otel.Handle(err)
	}
	transitions, err := meter.Int64Counter("littlelemon.orders.transitions",
		metric.WithDescription("order status/crew updates"))
	if err != nil {
		otel.Handle(err)
	}
	denials, err := meter.Int64Counter("littlelemon.authz.denied",
		metric.WithDescription("authorization denials"))
	if err != nil {
		otel.Handle(err)
	}

	return instruments{ordersCreated: created, transitions: transitions, denials: denials}
}

func (i instruments) orderCreated(ctx context.Context) {
	if i.ordersCreated != nil {
		i.ordersCreated.Add(ctx, 1)
	}
}

func (i instruments) transitioned(ctx context.Context, from, to model.OrderStatus) {
	if i.transitions != nil {
		i.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", from.String()),
			attribute.String("to", to.String()),
		))
	}
}

func (i instruments) denied(ctx context.Context, action access.Action) {
	if i.denials != nil {
		i.denials.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action.String())))
	}
}

// authorize は access.Authorize の結果を Forbidden に変換する。
func (i instruments) authorize(ctx context.Context, p model.Principal, action access.Action, t *access.Target) error {
	d := access.Authorize(p, action, t)
	if d.Allowed {
		return nil
	}
	i.denied(ctx, action)
	return Forbidden(d.Reason)
}
