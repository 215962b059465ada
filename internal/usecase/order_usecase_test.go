package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"
	"littlelemon/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	tx     *TxManagerMock
	orders *OrderRepoMock
	items  *OrderItemRepoMock
	carts  *CartRepoMock
	users  *UserRepoMock
	audit  *AuditRepoMock
	pub    *PublisherMock
	uc     *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		tx:     new(TxManagerMock),
		orders: new(OrderRepoMock),
		items:  new(OrderItemRepoMock),
		carts:  new(CartRepoMock),
		users:  new(UserRepoMock),
		audit:  new(AuditRepoMock),
		pub:    new(PublisherMock),
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		carts:      f.carts,
		users:      f.users,
		auditLogs:  f.audit,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.uc = usecase.NewOrderUsecase(f.tx, f.orders, f.items, f.pub, fixedIDs{}, fixedClock{now: testNow}, logger)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =====================
// CreateFromCart
// =====================

func burgerAndSoda(userID int64) []model.CartLine {
	burger := model.NewCartLine(userID, 1, 2, dec("9.00"), testNow)
	burger.ID = 11
	soda := model.NewCartLine(userID, 2, 1, dec("2.50"), testNow)
	soda.ID = 12
	return []model.CartLine{burger, soda}
}

func TestOrderUsecase_CreateFromCart_BurgerAndSoda(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return(burgerAndSoda(7), nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.Status == model.OrderStatusPending &&
			o.DeliveryCrewID == nil &&
			o.Total.Equal(dec("20.50"))
	})).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].OrderID == 100 && items[0].Price.Equal(dec("18.00")) &&
			items[1].OrderID == 100 && items[1].Price.Equal(dec("2.50"))
	})).Return(nil)
	f.carts.On("DeleteByIDs", mock.Anything, int64(7), []int64{11, 12}).Return(int64(2), nil)
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.OrderEvent) bool {
		return ev.Type == model.OrderEventCreated && ev.OrderID == 100 && ev.Total.Equal(dec("20.50"))
	})).Return(nil)

	out, err := f.uc.CreateFromCart(ctx, customerP(7))
	require.NoError(t, err)

	assert.Equal(t, int64(100), out.ID)
	assert.True(t, out.Total.Equal(dec("20.50")), "total=%s", out.Total)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Nil(t, out.DeliveryCrewID)
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].Price.Equal(dec("18.00")))
	assert.True(t, out.Items[1].Price.Equal(dec("2.50")))

	f.tx.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.pub.AssertExpectations(t)
}

func TestOrderUsecase_CreateFromCart_EmptyCart(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return([]model.CartLine{}, nil)

	_, err := f.uc.CreateFromCart(context.Background(), customerP(7))
	assert.True(t, usecase.IsKind(err, usecase.KindEmptyCart), "err=%v", err)

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// 1行ずつは収まっても合計が numeric(10,2) を超えるカート
func TestOrderUsecase_CreateFromCart_TotalTooLarge(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return([]model.CartLine{
		{ID: 11, UserID: 7, MenuItemID: 1, Quantity: 6000, UnitPrice: dec("9999.99"), Price: dec("59999940.00")},
		{ID: 12, UserID: 7, MenuItemID: 1, Quantity: 6000, UnitPrice: dec("9999.99"), Price: dec("59999940.00")},
	}, nil)

	_, err := f.uc.CreateFromCart(context.Background(), customerP(7))
	assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateFromCart_StaffForbidden(t *testing.T) {
	f := newOrderFixture()

	for _, p := range []model.Principal{managerP(1), crewP(2)} {
		_, err := f.uc.CreateFromCart(context.Background(), p)
		assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)
	}
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// 読んだ行と消せた行の数が違えば Conflict（Txはrollback）
func TestOrderUsecase_CreateFromCart_ConcurrentChangeConflicts(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return(burgerAndSoda(7), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.carts.On("DeleteByIDs", mock.Anything, int64(7), []int64{11, 12}).Return(int64(1), nil)

	_, err := f.uc.CreateFromCart(context.Background(), customerP(7))
	assert.True(t, usecase.IsKind(err, usecase.KindConflict), "err=%v", err)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateFromCart_PublishFailureIsNotReturned(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return(burgerAndSoda(7), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.carts.On("DeleteByIDs", mock.Anything, int64(7), mock.Anything).Return(int64(2), nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := f.uc.CreateFromCart(context.Background(), customerP(7))
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
}

func TestOrderUsecase_CreateFromCart_DBErrorIsInternal(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("LockByUserID", mock.Anything, int64(7)).Return(nil, errors.New("connection reset"))

	_, err := f.uc.CreateFromCart(context.Background(), customerP(7))
	assert.True(t, usecase.IsKind(err, usecase.KindInternal), "err=%v", err)
}

// =====================
// UpdatePartial
// =====================

func pendingOrder(id, owner int64, crew *int64) model.Order {
	return model.Order{ID: id, UserID: owner, DeliveryCrewID: crew, Status: model.OrderStatusPending, Total: dec("20.50")}
}

func TestOrderUsecase_UpdatePartial_ManagerSetsStatusAndCrew(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)
	f.users.On("RolesOf", mock.Anything, int64(5)).Return(model.NewRoleSet(model.RoleDeliveryCrew), nil)
	f.orders.On("CompareAndUpdate", mock.Anything, int64(10), model.OrderStatusPending, repo.OrderUpdate{
		Status:         model.OrderStatusDelivered,
		DeliveryCrewID: i64(5),
	}).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 10 && l.ActorUserID == 1
	})).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionAssignDeliveryCrew && l.AfterJSON == `{"status":1,"delivery_crew_id":5}`
	})).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.OrderEvent) bool {
		return ev.Type == model.OrderEventStatusChanged && ev.Status == model.OrderStatusDelivered
	})).Return(nil)

	o, err := f.uc.UpdatePartial(context.Background(), managerP(1), 10, usecase.OrderPatchInput{
		Status:         intp(1),
		DeliveryCrewID: i64(5),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusDelivered, o.Status)
	if assert.NotNil(t, o.DeliveryCrewID) {
		assert.Equal(t, int64(5), *o.DeliveryCrewID)
	}
	f.orders.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.pub.AssertExpectations(t)
}

func TestOrderUsecase_UpdatePartial_CrewNotAssignedForbidden(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, i64(6)), nil)

	_, err := f.uc.UpdatePartial(context.Background(), crewP(5), 10, usecase.OrderPatchInput{Status: intp(1)})
	assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)
	assertErrContains(t, err, "not assigned")

	f.orders.AssertNotCalled(t, "CompareAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdatePartial_AssignedCrewMarksDelivered(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, i64(5)), nil)
	f.orders.On("CompareAndUpdate", mock.Anything, int64(10), model.OrderStatusPending, repo.OrderUpdate{
		Status:         model.OrderStatusDelivered,
		DeliveryCrewID: i64(5),
	}).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	o, err := f.uc.UpdatePartial(context.Background(), crewP(5), 10, usecase.OrderPatchInput{Status: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)
	f.audit.AssertExpectations(t)
}

func TestOrderUsecase_UpdatePartial_CrewCannotAssignCrew(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, i64(5)), nil)

	_, err := f.uc.UpdatePartial(context.Background(), crewP(5), 10, usecase.OrderPatchInput{
		Status:         intp(1),
		DeliveryCrewID: i64(8),
	})
	assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)
}

func TestOrderUsecase_UpdatePartial_CustomerForbiddenBeforeLookup(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.UpdatePartial(context.Background(), customerP(7), 10, usecase.OrderPatchInput{Status: intp(1)})
	assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)

	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdatePartial_NoReverseTransition(t *testing.T) {
	f := newOrderFixture()

	delivered := pendingOrder(10, 7, i64(5))
	delivered.Status = model.OrderStatusDelivered

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(delivered, nil)

	for _, p := range []model.Principal{managerP(1), crewP(5)} {
		_, err := f.uc.UpdatePartial(context.Background(), p, 10, usecase.OrderPatchInput{Status: intp(0)})
		assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
		assertErrContains(t, err, "invalid status transition")
	}
	f.orders.AssertNotCalled(t, "CompareAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdatePartial_DeliveredAgainIsNoop(t *testing.T) {
	f := newOrderFixture()

	delivered := pendingOrder(10, 7, i64(5))
	delivered.Status = model.OrderStatusDelivered

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(delivered, nil)
	f.orders.On("CompareAndUpdate", mock.Anything, int64(10), model.OrderStatusDelivered, repo.OrderUpdate{
		Status:         model.OrderStatusDelivered,
		DeliveryCrewID: i64(5),
	}).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	o, err := f.uc.UpdatePartial(context.Background(), crewP(5), 10, usecase.OrderPatchInput{Status: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)
}

func TestOrderUsecase_UpdatePartial_InvalidInputs(t *testing.T) {
	t.Run("empty field set", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.UpdatePartial(context.Background(), managerP(1), 10, usecase.OrderPatchInput{})
		assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)

		_, err := f.uc.UpdatePartial(context.Background(), managerP(1), 10, usecase.OrderPatchInput{Status: intp(5)})
		assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
	})

	t.Run("crew id is not a delivery crew member", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)
		f.users.On("RolesOf", mock.Anything, int64(7)).Return(model.NewRoleSet(), nil)

		_, err := f.uc.UpdatePartial(context.Background(), managerP(1), 10, usecase.OrderPatchInput{DeliveryCrewID: i64(7)})
		assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
	})
}

func TestOrderUsecase_UpdatePartial_NotFound(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.UpdatePartial(context.Background(), managerP(1), 404, usecase.OrderPatchInput{Status: intp(1)})
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound), "err=%v", err)
}

func TestOrderUsecase_UpdatePartial_ConcurrentWriteConflicts(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)
	f.orders.On("CompareAndUpdate", mock.Anything, int64(10), model.OrderStatusPending, mock.Anything).Return(repo.ErrConflict)

	_, err := f.uc.UpdatePartial(context.Background(), managerP(1), 10, usecase.OrderPatchInput{Status: intp(1)})
	assert.True(t, usecase.IsKind(err, usecase.KindConflict), "err=%v", err)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// =====================
// Replace
// =====================

func TestOrderUsecase_Replace_NilCrewUnassigns(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, i64(5)), nil)
	f.orders.On("CompareAndUpdate", mock.Anything, int64(10), model.OrderStatusPending, repo.OrderUpdate{
		Status: model.OrderStatusPending,
	}).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	o, err := f.uc.Replace(context.Background(), managerP(1), 10, usecase.OrderReplaceInput{Status: intp(0)})
	require.NoError(t, err)
	assert.Nil(t, o.DeliveryCrewID)
	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_Replace_Rules(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.Replace(context.Background(), crewP(5), 10, usecase.OrderReplaceInput{Status: intp(1)})
	assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)

	_, err = f.uc.Replace(context.Background(), managerP(1), 10, usecase.OrderReplaceInput{DeliveryCrewID: i64(5)})
	assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
	assertErrContains(t, err, "status is required")
}

// =====================
// Delete
// =====================

func TestOrderUsecase_Delete_ManagerDeletesItemsThenOrder(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)
	f.items.On("DeleteByOrderID", mock.Anything, int64(10)).Return(int64(2), nil)
	f.orders.On("Delete", mock.Anything, int64(10)).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteOrder && l.ResourceID == 10 && l.AfterJSON == "{}"
	})).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.OrderEvent) bool {
		return ev.Type == model.OrderEventDeleted
	})).Return(nil)

	require.NoError(t, f.uc.Delete(context.Background(), managerP(1), 10))

	f.items.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestOrderUsecase_Delete_Rules(t *testing.T) {
	f := newOrderFixture()

	err := f.uc.Delete(context.Background(), crewP(5), 10)
	assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

	err = f.uc.Delete(context.Background(), managerP(1), 404)
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound), "err=%v", err)
	f.items.AssertNotCalled(t, "DeleteByOrderID", mock.Anything, mock.Anything)
}

// =====================
// GetDetail
// =====================

func TestOrderUsecase_GetDetail(t *testing.T) {
	items := []model.OrderItem{{ID: 1, OrderID: 10, MenuItemID: 1, Quantity: 2, UnitPrice: dec("9.00"), Price: dec("18.00")}}

	t.Run("owner sees items", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)
		f.items.On("ListByOrderID", mock.Anything, int64(10)).Return(items, nil)

		got, err := f.uc.GetDetail(context.Background(), customerP(7), 10)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10, 7, nil), nil)

		_, err := f.uc.GetDetail(context.Background(), customerP(8), 10)
		assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)
		f.items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
	})

	t.Run("staff are forbidden before lookup", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.uc.GetDetail(context.Background(), managerP(1), 10)
		assert.True(t, usecase.IsKind(err, usecase.KindForbidden), "err=%v", err)
		f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

		_, err := f.uc.GetDetail(context.Background(), customerP(7), 404)
		assert.True(t, usecase.IsKind(err, usecase.KindNotFound), "err=%v", err)
	})
}

// =====================
// List
// =====================

func TestOrderUsecase_List_ScopesByRole(t *testing.T) {
	cases := []struct {
		name  string
		p     model.Principal
		match func(repo.OrderListFilter) bool
	}{
		{"manager sees all", managerP(1), func(f repo.OrderListFilter) bool {
			return f.UserID == nil && f.DeliveryCrewID == nil
		}},
		{"crew sees assigned", crewP(5), func(f repo.OrderListFilter) bool {
			return f.UserID == nil && f.DeliveryCrewID != nil && *f.DeliveryCrewID == 5
		}},
		{"customer sees own", customerP(7), func(f repo.OrderListFilter) bool {
			return f.DeliveryCrewID == nil && f.UserID != nil && *f.UserID == 7
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture()
			orders := []model.Order{pendingOrder(10, 7, i64(5))}
			f.orders.On("List", mock.Anything, mock.MatchedBy(tc.match)).Return(orders, int64(1), nil)
			f.items.On("ListByOrderIDs", mock.Anything, []int64{10}).Return(map[int64][]model.OrderItem{
				10: {{ID: 1, OrderID: 10}},
			}, nil)

			out, err := f.uc.List(context.Background(), tc.p, usecase.OrderListInput{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), out.Total)
			require.Len(t, out.Items, 1)
			assert.Len(t, out.Items[0].Items, 1)
			f.orders.AssertExpectations(t)
		})
	}
}

func TestOrderUsecase_List_Defaults(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("List", mock.Anything, mock.MatchedBy(func(fl repo.OrderListFilter) bool {
		return fl.Page == 1 && fl.Limit == 20 && fl.Sort == repo.OrderSortDateDesc
	})).Return([]model.Order{}, int64(0), nil)

	out, err := f.uc.List(context.Background(), managerP(1), usecase.OrderListInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	f.items.AssertNotCalled(t, "ListByOrderIDs", mock.Anything, mock.Anything)
}

func TestOrderUsecase_List_InvalidFilters(t *testing.T) {
	lo, hi := dec("30"), dec("10")
	cases := map[string]usecase.OrderListInput{
		"sort":   {Sort: "price"},
		"status": {Status: intp(3)},
		"limit":  {Limit: 1000},
		"page":   {Page: -1},
		"totals": {MinTotal: &lo, MaxTotal: &hi},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newOrderFixture()
			_, err := f.uc.List(context.Background(), managerP(1), in)
			assert.True(t, usecase.IsKind(err, usecase.KindInvalidInput), "err=%v", err)
		})
	}
}
