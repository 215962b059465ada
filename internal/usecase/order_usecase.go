package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	publisher EventPublisher
	ids       IDGenerator
	clock     Clock
	logger    *slog.Logger
	inst      instruments
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	publisher EventPublisher,
	ids IDGenerator,
	clock Clock,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		items:     items,
		publisher: publisher,
		ids:       ids,
		clock:     clock,
		logger:    logger,
		inst:      newInstruments(),
	}
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"order_items"`
}

type OrderListInput struct {
	Page     int
	Limit    int
	Status   *int
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
	From     *time.Time
	To       *time.Time
	Sort     string
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// PATCH 用。nil のフィールドは変更しない。
type OrderPatchInput struct {
	Status         *int
	DeliveryCrewID *int64
}

// PUT 用。status は必須、DeliveryCrewID が nil なら担当を外す。
type OrderReplaceInput struct {
	Status         *int
	DeliveryCrewID *int64
}

const (
	defaultOrderPage  = 1
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

// CreateFromCart はカートを注文に変換する。
// 明細の行ロック→注文作成→注文明細作成→カート削除を1つのTxで行う。
func (u *OrderUsecase) CreateFromCart(ctx context.Context, p model.Principal) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.CreateFromCart",
		trace.WithAttributes(attribute.Int64("user.id", p.UserID)))
	defer span.End()

	if err := u.inst.authorize(ctx, p, access.ActionOrderCreate, nil); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().LockByUserID(ctx, p.UserID)
		if err != nil {
			return Internal("db error", fmt.Errorf("lock cart: %w", err))
		}
		if len(lines) == 0 {
			return EmptyCart()
		}
		total := model.SumPrices(lines)
		if model.ExceedsMaxMoney(total) {
			return InvalidInput("order total is too large")
		}

		order := model.Order{
			UserID: p.UserID,
			Status: model.OrderStatusPending,
			Total:  total,
			// DBの精度に合わせる
			CreatedAt: u.clock.Now().UTC().Truncate(time.Microsecond),
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return Internal("db error", fmt.Errorf("create order: %w", err))
		}
		order.ID = orderID

		items := make([]model.OrderItem, 0, len(lines))
		lineIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			it := model.OrderItemFromCartLine(l)
			it.OrderID = orderID
			items = append(items, it)
			lineIDs = append(lineIDs, l.ID)
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return Internal("db error", fmt.Errorf("create order items: %w", err))
		}

		// 消した行数が読んだ行数と違えば途中で誰かが触っている
		n, err := r.Carts().DeleteByIDs(ctx, p.UserID, lineIDs)
		if err != nil {
			return Internal("db error", fmt.Errorf("delete cart lines: %w", err))
		}
		if n != int64(len(lineIDs)) {
			return Conflict("cart changed while placing the order")
		}

		out = OrderOutput{Order: order, Items: items}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return OrderOutput{}, err
	}

	span.SetAttributes(attribute.Int64("order.id", out.ID))
	u.inst.orderCreated(ctx)
	u.publish(ctx, model.OrderEventCreated, out.Order, p.UserID)
	return out, nil
}

func (u *OrderUsecase) List(ctx context.Context, p model.Principal, in OrderListInput) (OrderListOutput, error) {
	if err := u.inst.authorize(ctx, p, access.ActionOrderList, nil); err != nil {
		return OrderListOutput{}, err
	}

	f, err := buildOrderListFilter(in)
	if err != nil {
		return OrderListOutput{}, err
	}
	scope := access.VisibleOrders(p)
	if !scope.All {
		f.UserID = scope.UserID
		f.DeliveryCrewID = scope.DeliveryCrewID
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, Internal("db error", err)
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemsByOrder := map[int64][]model.OrderItem{}
	if len(ids) > 0 {
		itemsByOrder, err = u.items.ListByOrderIDs(ctx, ids)
		if err != nil {
			return OrderListOutput{}, Internal("db error", err)
		}
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items := itemsByOrder[o.ID]
		if items == nil {
			items = []model.OrderItem{}
		}
		outs = append(outs, OrderOutput{Order: o, Items: items})
	}
	return OrderListOutput{Items: outs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func buildOrderListFilter(in OrderListInput) (repo.OrderListFilter, error) {
	f := repo.OrderListFilter{
		Page:     in.Page,
		Limit:    in.Limit,
		MinTotal: in.MinTotal,
		MaxTotal: in.MaxTotal,
		From:     in.From,
		To:       in.To,
		Sort:     in.Sort,
	}
	if f.Page == 0 {
		f.Page = defaultOrderPage
	}
	if f.Limit == 0 {
		f.Limit = defaultOrderLimit
	}
	if f.Page < 1 {
		return repo.OrderListFilter{}, InvalidInput("invalid page")
	}
	if f.Limit < 1 || f.Limit > maxOrderLimit {
		return repo.OrderListFilter{}, InvalidInput("invalid limit")
	}

	if in.Status != nil {
		s, err := model.ParseOrderStatus(*in.Status)
		if err != nil {
			return repo.OrderListFilter{}, InvalidInput("invalid status")
		}
		f.Status = &s
	}
	if f.MinTotal != nil && f.MaxTotal != nil && f.MinTotal.GreaterThan(*f.MaxTotal) {
		return repo.OrderListFilter{}, InvalidInput("min_total must not exceed max_total")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return repo.OrderListFilter{}, InvalidInput("from must not be after to")
	}

	switch f.Sort {
	case "":
		f.Sort = repo.OrderSortDateDesc
	case repo.OrderSortDateDesc, repo.OrderSortDateAsc, repo.OrderSortTotalDesc, repo.OrderSortTotalAsc:
	default:
		return repo.OrderListFilter{}, InvalidInput("invalid sort")
	}
	return f, nil
}

// UpdatePartial は status / delivery_crew_id の部分更新。
// 配達担当は自分に割り当てられた注文の status しか変えられない。
func (u *OrderUsecase) UpdatePartial(ctx context.Context, p model.Principal, orderID int64, in OrderPatchInput) (model.Order, error) {
	// 顧客はここで弾く（注文の存在も漏らさない）
	if err := u.inst.authorize(ctx, p, access.ActionOrderSetStatus, nil); err != nil {
		return model.Order{}, err
	}
	if in.Status == nil && in.DeliveryCrewID == nil {
		return model.Order{}, InvalidInput("no fields to update")
	}
	return u.mutate(ctx, p, orderID, orderChange{
		status:  in.Status,
		crew:    in.DeliveryCrewID,
		setCrew: in.DeliveryCrewID != nil,
	})
}

func (u *OrderUsecase) Replace(ctx context.Context, p model.Principal, orderID int64, in OrderReplaceInput) (model.Order, error) {
	if err := u.inst.authorize(ctx, p, access.ActionOrderReplace, nil); err != nil {
		return model.Order{}, err
	}
	if in.Status == nil {
		return model.Order{}, InvalidInput("status is required")
	}
	return u.mutate(ctx, p, orderID, orderChange{
		status:  in.Status,
		crew:    in.DeliveryCrewID,
		setCrew: true,
	})
}

type orderChange struct {
	status  *int
	crew    *int64
	setCrew bool
}

func (u *OrderUsecase) mutate(ctx context.Context, p model.Principal, orderID int64, ch orderChange) (model.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.mutate", trace.WithAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	if orderID <= 0 {
		return model.Order{}, InvalidInput("invalid id")
	}

	var before, after model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		current, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return Internal("db error", err)
		}

		target := access.OrderTarget(current)
		if ch.status != nil {
			if err := u.inst.authorize(ctx, p, access.ActionOrderSetStatus, target); err != nil {
				return err
			}
		}
		if ch.setCrew {
			if err := u.inst.authorize(ctx, p, access.ActionOrderAssignCrew, target); err != nil {
				return err
			}
		}

		next := repo.OrderUpdate{Status: current.Status, DeliveryCrewID: current.DeliveryCrewID}
		if ch.status != nil {
			s, err := model.ParseOrderStatus(*ch.status)
			if err != nil {
				return InvalidInput("invalid status")
			}
			next.Status = s
		}
		if ch.setCrew {
			if ch.crew != nil {
				roles, err := r.Users().RolesOf(ctx, *ch.crew)
				if err != nil {
					return Internal("db error", err)
				}
				if !roles.Has(model.RoleDeliveryCrew) {
					return InvalidInput("delivery_crew must be a delivery crew member")
				}
			}
			next.DeliveryCrewID = ch.crew
		}

		if !current.Status.CanTransitionTo(next.Status) {
			return InvalidInput(model.ErrInvalidTransition.Error())
		}

		err = r.Orders().CompareAndUpdate(ctx, orderID, current.Status, next)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if errors.Is(err, repo.ErrConflict) {
			return Conflict("order was modified concurrently")
		}
		if err != nil {
			return Internal("db error", err)
		}

		before = current
		after = current
		after.Status = next.Status
		after.DeliveryCrewID = next.DeliveryCrewID

		now := u.clock.Now()
		if ch.status != nil {
			if err := writeOrderAudit(ctx, r, p.UserID, model.AuditActionUpdateOrderStatus, before, after, now); err != nil {
				return err
			}
		}
		if ch.setCrew {
			if err := writeOrderAudit(ctx, r, p.UserID, model.AuditActionAssignDeliveryCrew, before, after, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return model.Order{}, err
	}

	u.inst.transitioned(ctx, before.Status, after.Status)
	u.publish(ctx, model.OrderEventStatusChanged, after, p.UserID)
	return after, nil
}

func (u *OrderUsecase) Delete(ctx context.Context, p model.Principal, orderID int64) error {
	ctx, span := tracer.Start(ctx, "OrderUsecase.Delete", trace.WithAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	if err := u.inst.authorize(ctx, p, access.ActionOrderDelete, nil); err != nil {
		return err
	}
	if orderID <= 0 {
		return InvalidInput("invalid id")
	}

	var deleted model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return Internal("db error", err)
		}

		if _, err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return Internal("db error", fmt.Errorf("delete order items: %w", err))
		}
		err = r.Orders().Delete(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return Internal("db error", fmt.Errorf("delete order: %w", err))
		}

		deleted = o
		return writeOrderAudit(ctx, r, p.UserID, model.AuditActionDeleteOrder, o, model.Order{}, u.clock.Now())
	})
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	u.publish(ctx, model.OrderEventDeleted, deleted, p.UserID)
	return nil
}

// GetDetail は注文明細を返す。顧客本人のみ。
// 判定順はロール→存在→所有者。
func (u *OrderUsecase) GetDetail(ctx context.Context, p model.Principal, orderID int64) ([]model.OrderItem, error) {
	if err := u.inst.authorize(ctx, p, access.ActionOrderDetail, nil); err != nil {
		return nil, err
	}
	if orderID <= 0 {
		return nil, InvalidInput("invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NotFound("order not found")
	}
	if err != nil {
		return nil, Internal("db error", err)
	}
	if err := u.inst.authorize(ctx, p, access.ActionOrderDetail, access.OrderTarget(o)); err != nil {
		return nil, err
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if items == nil {
		items = []model.OrderItem{}
	}
	return items, nil
}

// commit後に送る。失敗はログだけ残す。
func (u *OrderUsecase) publish(ctx context.Context, typ model.OrderEventType, o model.Order, actorID int64) {
	if u.publisher == nil {
		return
	}
	ev := model.NewOrderEvent(u.ids.NewID(), typ, o, actorID, u.clock.Now())
	if err := u.publisher.Publish(ctx, ev); err != nil {
		u.logger.WarnContext(ctx, "publish order event failed",
			slog.String("event_id", ev.ID),
			slog.String("type", string(ev.Type)),
			slog.Int64("order_id", ev.OrderID),
			slog.Any("error", err),
		)
	}
}

type orderSnapshot struct {
	Status         model.OrderStatus `json:"status"`
	DeliveryCrewID *int64            `json:"delivery_crew_id"`
}

func writeOrderAudit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, before, after model.Order, now time.Time) error {
	beforeJSON, err := json.Marshal(orderSnapshot{Status: before.Status, DeliveryCrewID: before.DeliveryCrewID})
	if err != nil {
		return Internal("audit encode", err)
	}
	afterJSON := []byte("{}")
	if action != model.AuditActionDeleteOrder {
		afterJSON, err = json.Marshal(orderSnapshot{Status: after.Status, DeliveryCrewID: after.DeliveryCrewID})
		if err != nil {
			return Internal("audit encode", err)
		}
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   before.ID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    now,
	}); err != nil {
		return Internal("db error", fmt.Errorf("write audit log: %w", err))
	}
	return nil
}

// 業務エラー（403/404など）は span のエラーにしない
func recordSpanError(span trace.Span, err error) {
	if e, ok := AsError(err); ok && e.Kind != KindInternal {
		span.SetAttributes(attribute.String("error.kind", e.Kind.String()))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
