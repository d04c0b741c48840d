package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func buildOrderSvc() (OrderService, *stubOrderRepo, *stubProductRepo, *stubUserRepo, *stubMovementRepo, *stubAlertRepo) {
	orderRepo := newStubOrderRepo()
	productRepo := newStubProductRepo()
	userRepo := newStubUserRepo()
	movementRepo := &stubMovementRepo{}
	alertRepo := newStubAlertRepo()
	svc := NewOrderService(orderRepo, productRepo, userRepo, movementRepo, alertRepo, nil, "")
	return svc, orderRepo, productRepo, userRepo, movementRepo, alertRepo
}

func TestCreateOrder_TotalsAndNumber(t *testing.T) {
	svc, orderRepo, productRepo, userRepo, movementRepo, _ := buildOrderSvc()
	customer := seedUser(userRepo, "alice@example.com", model.RoleCustomer)
	p1 := seedProduct(productRepo, "Widget", "WID-001", 50, 5)
	p1.Price = decimal.NewFromFloat(19.90)
	p2 := seedProduct(productRepo, "Gadget", "GAD-001", 30, 5)
	p2.Price = decimal.NewFromFloat(4.50)

	resp, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: p1.ID.String(), Quantity: 2},
			{ProductID: p2.ID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 2×19.90 + 3×4.50 = 53.30
	assert.Equal(t, "53.3", resp.TotalAmount.String())
	assert.Equal(t, fmt.Sprintf("ORD-%d-000001", time.Now().UTC().Year()), resp.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, resp.Status)

	// Unit price snapshot
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "19.9", resp.Items[0].UnitPrice.String())

	// Stock decremented
	assert.Equal(t, 48, productRepo.products[p1.ID].StockQuantity)
	assert.Equal(t, 27, productRepo.products[p2.ID].StockQuantity)

	// One outbound ledger entry per item, referencing the order number
	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, -2, movementRepo.movements[0].Quantity)
	assert.Equal(t, model.MovementOut, movementRepo.movements[0].Type)
	assert.Equal(t, "Order "+resp.OrderNumber, movementRepo.movements[0].Reason)
	assert.Equal(t, resp.OrderNumber, movementRepo.movements[0].Reference)
	assert.Equal(t, customer.ID, movementRepo.movements[0].UserID)

	assert.Len(t, orderRepo.orders, 1)
}

func TestCreateOrder_SequencePerYear(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	customer := seedUser(userRepo, "bob@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-002", 100, 5)

	year := time.Now().UTC().Year()
	for i := 1; i <= 3; i++ {
		resp, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%d-%06d", year, i), resp.OrderNumber)
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	customer := seedUser(userRepo, "carol@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Scarce", "SCR-001", 2, 0)

	_, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 5}},
	})
	var stockErr *apierror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "SCR-001", stockErr.Product)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc, orderRepo, productRepo, userRepo, movementRepo, _ := buildOrderSvc()
	customer := seedUser(userRepo, "nina@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-013", 10, 0)

	_, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: p.ID.String(), Quantity: 1},
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)

	// Nothing committed: no order, no movement, stock untouched
	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, movementRepo.movements)
	assert.Equal(t, 10, productRepo.products[p.ID].StockQuantity)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	svc, orderRepo, productRepo, userRepo, movementRepo, _ := buildOrderSvc()
	admin := seedUser(userRepo, "admin0@example.com", model.RoleAdmin)
	p := seedProduct(productRepo, "Widget", "WID-014", 10, 0)

	_, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: uuid.NewString(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Entity)

	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, movementRepo.movements)
	assert.Equal(t, 10, productRepo.products[p.ID].StockQuantity)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	customer := seedUser(userRepo, "dave@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Retired", "RET-001", 10, 0)
	p.IsActive = false

	_, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var valErr *apierror.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestCreateOrder_CustomerCannotOrderForOthers(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	customer := seedUser(userRepo, "eve@example.com", model.RoleCustomer)
	other := seedUser(userRepo, "someone@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-003", 10, 0)

	_, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		CustomerID: other.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var forbidden *apierror.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestCreateOrder_StaffAssignedToOrder(t *testing.T) {
	svc, orderRepo, productRepo, userRepo, _, _ := buildOrderSvc()
	staff := seedUser(userRepo, "staff@example.com", model.RoleStaff)
	customer := seedUser(userRepo, "frank@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-004", 10, 0)

	resp, err := svc.Create(context.Background(), staff.ID, model.RoleStaff, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	stored := orderRepo.orders[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored.AssignedStaffID)
	assert.Equal(t, staff.ID, *stored.AssignedStaffID)
	assert.Equal(t, customer.ID, stored.CustomerID)
}

func TestCreateOrder_StaffMustNameCustomer(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	staff := seedUser(userRepo, "staff2@example.com", model.RoleStaff)
	p := seedProduct(productRepo, "Widget", "WID-005", 10, 0)

	_, err := svc.Create(context.Background(), staff.ID, model.RoleStaff, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var valErr *apierror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "customer_id", valErr.Field)
}

func TestCreateOrder_LowStockOpensAlert(t *testing.T) {
	svc, _, productRepo, userRepo, _, alertRepo := buildOrderSvc()
	customer := seedUser(userRepo, "grace@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Dwindling", "DWN-001", 6, 5)

	// 6 - 2 = 4 ≤ reorder level 5 → alert opens
	_, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	alert, err := alertRepo.FindUnreadByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, alert.CurrentStock)
	assert.Equal(t, model.SeverityLow, alert.Severity)

	// A second order refreshes the open alert instead of duplicating it
	_, err = svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Len(t, alertRepo.alerts, 1)

	alert, err = alertRepo.FindUnreadByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, alert.CurrentStock)
	assert.Equal(t, model.SeverityOutOfStock, alert.Severity)
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	admin := seedUser(userRepo, "admin@example.com", model.RoleAdmin)
	customer := seedUser(userRepo, "henry@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-006", 10, 0)

	created, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	for _, next := range []string{model.OrderStatusConfirmed, model.OrderStatusShipped, model.OrderStatusDelivered} {
		resp, err := svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, next)
		require.NoError(t, err)
		assert.Equal(t, next, resp.Status)
	}

	// Delivered is terminal
	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusCancelled)
	var transErr *apierror.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestUpdateStatus_CannotCancelShipped(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	admin := seedUser(userRepo, "admin2@example.com", model.RoleAdmin)
	customer := seedUser(userRepo, "iris@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-007", 10, 0)

	created, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusShipped)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusCancelled)
	var transErr *apierror.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	svc, _, productRepo, userRepo, movementRepo, _ := buildOrderSvc()
	admin := seedUser(userRepo, "admin3@example.com", model.RoleAdmin)
	customer := seedUser(userRepo, "judy@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-008", 10, 0)

	created, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, productRepo.products[p.ID].StockQuantity)

	resp, err := svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, uuid.MustParse(created.ID), model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, resp.Status)
	assert.Equal(t, 10, productRepo.products[p.ID].StockQuantity)

	// Compensating inbound movement referencing the order
	var restored *model.StockMovement
	for i, m := range movementRepo.movements {
		if m.Type == model.MovementIn && m.Quantity == 3 && m.Reference == created.OrderNumber {
			restored = &movementRepo.movements[i]
		}
	}
	require.NotNil(t, restored)
	assert.Equal(t, fmt.Sprintf("Order %s cancelled", created.OrderNumber), restored.Reason)
}

// contendedOrderRepo injects a rival write between the stale read and the
// guarded status update, mimicking a second request racing on the same order.
type contendedOrderRepo struct {
	*stubOrderRepo
	beforeUpdate func()
}

func (r *contendedOrderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (int64, error) {
	if r.beforeUpdate != nil {
		hook := r.beforeUpdate
		r.beforeUpdate = nil
		hook()
	}
	return r.stubOrderRepo.UpdateStatusTx(tx, id, from, to)
}

func TestUpdateStatus_ConcurrentCancelRestoresOnce(t *testing.T) {
	orderRepo := &contendedOrderRepo{stubOrderRepo: newStubOrderRepo()}
	productRepo := newStubProductRepo()
	userRepo := newStubUserRepo()
	movementRepo := &stubMovementRepo{}
	svc := NewOrderService(orderRepo, productRepo, userRepo, movementRepo, newStubAlertRepo(), nil, "")

	admin := seedUser(userRepo, "admin7@example.com", model.RoleAdmin)
	customer := seedUser(userRepo, "mia@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-015", 10, 0)

	created, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, productRepo.products[p.ID].StockQuantity)
	id := uuid.MustParse(created.ID)

	// The rival cancel commits after this request read the order but
	// before its guarded status write.
	orderRepo.beforeUpdate = func() {
		_, err := svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusCancelled)
		require.NoError(t, err)
	}

	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, id, model.OrderStatusCancelled)
	var transErr *apierror.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)

	// Stock restored exactly once, with a single compensating movement
	assert.Equal(t, 10, productRepo.products[p.ID].StockQuantity)
	var inbound int
	for _, m := range movementRepo.movements {
		if m.Type == model.MovementIn {
			inbound++
		}
	}
	assert.Equal(t, 1, inbound)
}

func TestUpdateStatus_CustomerMayOnlyCancel(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	customer := seedUser(userRepo, "kate@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-009", 10, 0)

	created, err := svc.Create(context.Background(), customer.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.UpdateStatus(context.Background(), customer.ID, model.RoleCustomer, id, model.OrderStatusConfirmed)
	var forbidden *apierror.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	resp, err := svc.UpdateStatus(context.Background(), customer.ID, model.RoleCustomer, id, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, resp.Status)
}

func TestGetByID_OutOfScopeReadsAsMissing(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	alice := seedUser(userRepo, "alice2@example.com", model.RoleCustomer)
	mallory := seedUser(userRepo, "mallory@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-010", 10, 0)

	created, err := svc.Create(context.Background(), alice.ID, model.RoleCustomer, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// Owner sees it
	_, err = svc.GetByID(context.Background(), alice.ID, model.RoleCustomer, id)
	require.NoError(t, err)

	// Another customer gets a 404-shaped error, not a 403
	_, err = svc.GetByID(context.Background(), mallory.ID, model.RoleCustomer, id)
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// Unassigned staff cannot see it either
	staff := seedUser(userRepo, "staff3@example.com", model.RoleStaff)
	_, err = svc.GetByID(context.Background(), staff.ID, model.RoleStaff, id)
	require.ErrorAs(t, err, &notFound)

	// Admin always can
	admin := seedUser(userRepo, "admin4@example.com", model.RoleAdmin)
	_, err = svc.GetByID(context.Background(), admin.ID, model.RoleAdmin, id)
	require.NoError(t, err)
}

func TestList_ScopedByRole(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	alice := seedUser(userRepo, "alice3@example.com", model.RoleCustomer)
	bob := seedUser(userRepo, "bob3@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-011", 100, 0)

	for _, c := range []*model.User{alice, alice, bob} {
		_, err := svc.Create(context.Background(), c.ID, model.RoleCustomer, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), alice.ID, model.RoleCustomer, dto.OrderFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	admin := seedUser(userRepo, "admin5@example.com", model.RoleAdmin)
	resp, err = svc.List(context.Background(), admin.ID, model.RoleAdmin, dto.OrderFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
}

func TestSummary_ExcludesCancelledRevenue(t *testing.T) {
	svc, _, productRepo, userRepo, _, _ := buildOrderSvc()
	admin := seedUser(userRepo, "admin6@example.com", model.RoleAdmin)
	customer := seedUser(userRepo, "leo@example.com", model.RoleCustomer)
	p := seedProduct(productRepo, "Widget", "WID-012", 100, 0)
	p.Price = decimal.NewFromFloat(100)

	first, err := svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), admin.ID, model.RoleAdmin, dto.CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), admin.ID, model.RoleAdmin, uuid.MustParse(first.ID), model.OrderStatusCancelled)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, "200", summary.TotalRevenue.String())
	assert.Equal(t, int64(1), summary.PendingOrders)
}
