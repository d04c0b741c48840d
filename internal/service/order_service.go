package service

import (
	"context"
	"fmt"
	"time"

	"invtrack/internal/apierror"
	"invtrack/internal/authz"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"
	"invtrack/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderTransitions is the status state machine. Cancellation is only
// possible before shipment; delivered and cancelled are terminal.
var orderTransitions = map[string][]string{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

func transitionAllowed(from, to string) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type OrderService interface {
	Create(ctx context.Context, actorID uuid.UUID, role string, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, actorID uuid.UUID, role string, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID, status string) (*dto.OrderResponse, error)
	Summary(ctx context.Context) (*dto.OrderSummaryResponse, error)
}

type orderService struct {
	repo       repository.OrderRepository
	products   repository.ProductRepository
	users      repository.UserRepository
	movements  repository.StockMovementRepository
	alerts     repository.AlertRepository
	dispatcher *worker.Dispatcher
	alertEmail string
}

func NewOrderService(
	repo repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	movements repository.StockMovementRepository,
	alerts repository.AlertRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) OrderService {
	return &orderService{
		repo:       repo,
		products:   products,
		users:      users,
		movements:  movements,
		alerts:     alerts,
		dispatcher: dispatcher,
		alertEmail: alertEmail,
	}
}

// Create registers an order in one transaction: mint the order number,
// persist the order with priced items, decrement stock with the
// quantity-guarded update, and append ledger movements. Any failed step
// rolls the whole order back; notifications go out only after commit.
func (s *orderService) Create(ctx context.Context, actorID uuid.UUID, role string, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customerID, assignedStaff, err := s.resolveParties(ctx, actorID, role, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// Resolve products and snapshot prices (pre-flight, outside TX).
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		sku       string
		unitPrice decimal.Decimal
		quantity  int
		lineTotal decimal.Decimal
	}

	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &apierror.ValidationError{Field: "product_id", Message: "invalid uuid"}
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound("product")
		}
		if !p.IsActive {
			return nil, &apierror.ValidationError{Field: "product_id", Message: fmt.Sprintf("product %s is inactive", p.SKU)}
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			sku:       p.SKU,
			unitPrice: p.Price,
			quantity:  item.Quantity,
			lineTotal: lineTotal,
		})
	}

	now := time.Now().UTC()
	var order model.Order
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequenceTx(tx, now.Year())
		if err != nil {
			return err
		}

		order = model.Order{
			OrderNumber:     fmt.Sprintf("ORD-%d-%06d", now.Year(), seq),
			OrderDate:       now,
			Status:          model.OrderStatusPending,
			TotalAmount:     total,
			Notes:           req.Notes,
			CustomerID:      customerID,
			AssignedStaffID: assignedStaff,
		}
		for _, r := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
				TotalPrice: r.lineTotal,
			})
		}
		if err := s.repo.CreateTx(tx, &order); err != nil {
			return err
		}

		for _, r := range resolved {
			rows, err := s.products.DecrementStockTx(tx, r.productID, r.quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				// Stock changed since pre-flight; abort the whole order.
				return &apierror.InsufficientStockError{Product: r.sku}
			}

			mov := &model.StockMovement{
				ProductID: r.productID,
				UserID:    actorID,
				Quantity:  -r.quantity,
				Type:      model.MovementOut,
				Reason:    fmt.Sprintf("Order %s", order.OrderNumber),
				Reference: order.OrderNumber,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit: alerts and async notifications. Best effort — the
	// committed order is never affected, and the sweep backstops misses.
	for _, r := range resolved {
		if p, err := s.products.FindByID(ctx, r.productID); err == nil {
			_ = reconcileAlert(ctx, s.alerts, s.dispatcher, s.alertEmail, p, p.StockQuantity)
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueConfirmation(ctx, worker.ConfirmationJobPayload{
			OrderID: order.ID.String(),
		})
		_ = s.dispatcher.EnqueueWebhook(ctx, worker.WebhookJobPayload{
			Event: "order.created",
			At:    now.Format(time.RFC3339),
			Data: map[string]interface{}{
				"order_id":     order.ID.String(),
				"order_number": order.OrderNumber,
				"customer_id":  customerID.String(),
				"total_amount": total.StringFixed(2),
			},
		})
	}

	resp := orderToResponse(&order)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.name
	}
	return resp, nil
}

// resolveParties determines whose order this is. Customers always order
// for themselves; admin and staff must name the customer. Staff creating
// an order gets assigned to it.
func (s *orderService) resolveParties(ctx context.Context, actorID uuid.UUID, role, reqCustomerID string) (uuid.UUID, *uuid.UUID, error) {
	if role == model.RoleCustomer {
		if reqCustomerID != "" && reqCustomerID != actorID.String() {
			return uuid.Nil, nil, &apierror.ForbiddenError{Reason: "customers can only order for themselves"}
		}
		return actorID, nil, nil
	}

	if reqCustomerID == "" {
		return uuid.Nil, nil, &apierror.ValidationError{Field: "customer_id", Message: "required"}
	}
	customerID, err := uuid.Parse(reqCustomerID)
	if err != nil {
		return uuid.Nil, nil, &apierror.ValidationError{Field: "customer_id", Message: "invalid uuid"}
	}
	if _, err := s.users.FindByID(ctx, customerID); err != nil {
		return uuid.Nil, nil, apierror.NotFound("customer")
	}

	var assignedStaff *uuid.UUID
	if role == model.RoleStaff {
		assignedStaff = &actorID
	}
	return customerID, assignedStaff, nil
}

func (s *orderService) GetByID(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("order")
	}
	// Out-of-scope orders read as missing so ids cannot be probed.
	if !authz.ScopeFor(role, actorID).Covers(order) {
		return nil, apierror.NotFound("order")
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, actorID uuid.UUID, role string, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.repo.List(ctx, authz.ScopeFor(role, actorID), filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data[i] = *orderToResponse(&orders[i])
	}
	return resp, nil
}

// UpdateStatus moves an order through the state machine. Cancelling
// restores stock and writes compensating ledger movements in the same
// transaction as the status change.
func (s *orderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID, status string) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("order")
	}
	if !authz.ScopeFor(role, actorID).Covers(order) {
		return nil, apierror.NotFound("order")
	}
	if role == model.RoleCustomer && status != model.OrderStatusCancelled {
		return nil, &apierror.ForbiddenError{Reason: "customers can only cancel orders"}
	}
	if !transitionAllowed(order.Status, status) {
		return nil, &apierror.InvalidTransitionError{From: order.Status, To: status}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The guarded write goes first: zero rows means a concurrent
		// request already moved the order past the status we read, so
		// the pre-checked transition no longer holds. The stock restore
		// only runs when this request won the transition.
		rows, err := s.repo.UpdateStatusTx(tx, id, order.Status, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &apierror.InvalidTransitionError{From: order.Status, To: status}
		}

		if status == model.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.products.IncrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				mov := &model.StockMovement{
					ProductID: item.ProductID,
					UserID:    actorID,
					Quantity:  item.Quantity,
					Type:      model.MovementIn,
					Reason:    fmt.Sprintf("Order %s cancelled", order.OrderNumber),
					Reference: order.OrderNumber,
				}
				if err := s.movements.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = status
	return orderToResponse(order), nil
}

func (s *orderService) Summary(ctx context.Context) (*dto.OrderSummaryResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CountByStatus(ctx, model.OrderStatusDelivered)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayOrders, err := s.repo.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	todayRevenue, err := s.repo.RevenueSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	return &dto.OrderSummaryResponse{
		TotalOrders:     total,
		PendingOrders:   pending,
		CompletedOrders: completed,
		TotalRevenue:    revenue,
		TodayOrders:     todayOrders,
		TodayRevenue:    todayRevenue,
	}, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		OrderDate:   o.OrderDate.UTC().Format(time.RFC3339),
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Notes:       o.Notes,
		CustomerID:  o.CustomerID.String(),
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.FullName()
	}
	for _, item := range o.Items {
		ir := dto.OrderItemResponse{
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
