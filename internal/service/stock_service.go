package service

import (
	"context"
	"time"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"
	"invtrack/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockService interface {
	// Adjust sets a product's stock to an absolute quantity and records
	// the delta in the movement ledger.
	Adjust(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListAlerts(ctx context.Context, filter dto.AlertFilter) (*dto.AlertListResponse, error)
	MarkAlertRead(ctx context.Context, id uuid.UUID) error
}

type stockService struct {
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	alerts     repository.AlertRepository
	dispatcher *worker.Dispatcher
	alertEmail string
}

func NewStockService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	alerts repository.AlertRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) StockService {
	return &stockService{
		products:   products,
		movements:  movements,
		alerts:     alerts,
		dispatcher: dispatcher,
		alertEmail: alertEmail,
	}
}

func (s *stockService) Adjust(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apierror.NotFound("product")
	}

	prevStock := p.StockQuantity
	delta := req.Quantity - prevStock
	if delta != 0 {
		movType := model.MovementIn
		if delta < 0 {
			movType = model.MovementOut
		}
		txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
			if err := s.products.SetStockTx(tx, productID, req.Quantity); err != nil {
				return err
			}
			return s.movements.CreateTx(tx, &model.StockMovement{
				ProductID: productID,
				UserID:    actorID,
				Quantity:  delta,
				Type:      movType,
				Reason:    req.Reason,
			})
		})
		if txErr != nil {
			return nil, txErr
		}
		p.StockQuantity = req.Quantity

		if s.dispatcher != nil {
			_ = s.dispatcher.EnqueueWebhook(ctx, worker.WebhookJobPayload{
				Event: "stock.adjusted",
				At:    time.Now().UTC().Format(time.RFC3339),
				Data: map[string]interface{}{
					"product_id":     p.ID.String(),
					"sku":            p.SKU,
					"previous_stock": prevStock,
					"current_stock":  p.StockQuantity,
					"reason":         req.Reason,
				},
			})
		}
	}

	if err := reconcileAlert(ctx, s.alerts, s.dispatcher, s.alertEmail, p, p.StockQuantity); err != nil {
		return nil, err
	}

	resp := productToResponse(p)
	return &resp, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, len(movements)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movements {
		m := &movements[i]
		mr := dto.MovementResponse{
			ID:        m.ID.String(),
			ProductID: m.ProductID.String(),
			Quantity:  m.Quantity,
			Type:      m.Type,
			Reason:    m.Reason,
			Reference: m.Reference,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
		if m.Product != nil {
			mr.ProductName = m.Product.Name
		}
		resp.Data[i] = mr
	}
	return resp, nil
}

func (s *stockService) ListAlerts(ctx context.Context, filter dto.AlertFilter) (*dto.AlertListResponse, error) {
	alerts, total, err := s.alerts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.AlertListResponse{
		Data:  make([]dto.AlertResponse, len(alerts)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range alerts {
		a := &alerts[i]
		ar := dto.AlertResponse{
			ID:           a.ID.String(),
			ProductID:    a.ProductID.String(),
			CurrentStock: a.CurrentStock,
			ReorderLevel: a.ReorderLevel,
			Severity:     a.Severity,
			IsRead:       a.IsRead,
			CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if a.Product != nil {
			ar.ProductName = a.Product.Name
		}
		resp.Data[i] = ar
	}
	return resp, nil
}

// MarkAlertRead dismisses an alert. Unknown ids are an error; marking an
// already-read alert again is a silent no-op.
func (s *stockService) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("alert")
	}
	if alert.IsRead {
		return nil
	}
	return s.alerts.MarkRead(ctx, id)
}
