package service

import (
	"context"
	"testing"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStockSvc() (StockService, *stubProductRepo, *stubMovementRepo, *stubAlertRepo) {
	productRepo := newStubProductRepo()
	movementRepo := &stubMovementRepo{}
	alertRepo := newStubAlertRepo()
	svc := NewStockService(productRepo, movementRepo, alertRepo, nil, "")
	return svc, productRepo, movementRepo, alertRepo
}

func TestAdjustStock_RecordsDelta(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildStockSvc()
	actor := uuid.New()
	p := seedProduct(productRepo, "Widget", "ADJ-001", 10, 2)

	resp, err := svc.Adjust(context.Background(), actor, p.ID, dto.AdjustStockRequest{
		Quantity: 4,
		Reason:   "stocktake correction",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.StockQuantity)
	assert.Equal(t, 4, productRepo.products[p.ID].StockQuantity)

	require.Len(t, movementRepo.movements, 1)
	m := movementRepo.movements[0]
	assert.Equal(t, -6, m.Quantity)
	assert.Equal(t, model.MovementOut, m.Type)
	assert.Equal(t, "stocktake correction", m.Reason)
	assert.Equal(t, actor, m.UserID)
}

func TestAdjustStock_NoChangeNoMovement(t *testing.T) {
	svc, productRepo, movementRepo, _ := buildStockSvc()
	p := seedProduct(productRepo, "Widget", "ADJ-002", 10, 2)

	_, err := svc.Adjust(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Quantity: 10,
		Reason:   "no-op",
	})
	require.NoError(t, err)
	assert.Empty(t, movementRepo.movements)
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	svc, _, _, _ := buildStockSvc()

	_, err := svc.Adjust(context.Background(), uuid.New(), uuid.New(), dto.AdjustStockRequest{
		Quantity: 5,
		Reason:   "whatever",
	})
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdjustStock_AlertSeverities(t *testing.T) {
	cases := []struct {
		name     string
		reorder  int
		quantity int
		severity string
	}{
		{"at reorder level", 10, 10, model.SeverityLow},
		{"half reorder level", 10, 5, model.SeverityCritical},
		{"zero stock", 10, 0, model.SeverityOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, productRepo, _, alertRepo := buildStockSvc()
			p := seedProduct(productRepo, "Widget", "SEV-"+tc.name, 50, tc.reorder)

			_, err := svc.Adjust(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
				Quantity: tc.quantity,
				Reason:   "adjustment",
			})
			require.NoError(t, err)

			alert, err := alertRepo.FindUnreadByProduct(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.severity, alert.Severity)
			assert.Equal(t, tc.quantity, alert.CurrentStock)
		})
	}
}

func TestAdjustStock_AboveReorderNoAlert(t *testing.T) {
	svc, productRepo, _, alertRepo := buildStockSvc()
	p := seedProduct(productRepo, "Widget", "ADJ-003", 3, 5)

	// 3 → 20 restores stock; no new alert opens
	_, err := svc.Adjust(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Quantity: 20,
		Reason:   "restock",
	})
	require.NoError(t, err)
	assert.Empty(t, alertRepo.alerts)
}

func TestAdjustStock_RefreshesOpenAlert(t *testing.T) {
	svc, productRepo, _, alertRepo := buildStockSvc()
	p := seedProduct(productRepo, "Widget", "ADJ-004", 20, 10)

	_, err := svc.Adjust(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{Quantity: 8, Reason: "shrinkage"})
	require.NoError(t, err)
	_, err = svc.Adjust(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{Quantity: 2, Reason: "shrinkage"})
	require.NoError(t, err)

	// One open alert, updated in place
	assert.Len(t, alertRepo.alerts, 1)
	alert, err := alertRepo.FindUnreadByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, alert.CurrentStock)
	assert.Equal(t, model.SeverityCritical, alert.Severity)
}

func TestMarkAlertRead(t *testing.T) {
	svc, _, _, alertRepo := buildStockSvc()

	alert := &model.LowStockAlert{ProductID: uuid.New(), CurrentStock: 1, ReorderLevel: 5, Severity: model.SeverityCritical}
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	require.NoError(t, svc.MarkAlertRead(context.Background(), alert.ID))
	assert.True(t, alertRepo.alerts[alert.ID].IsRead)

	// Marking again is a silent no-op
	require.NoError(t, svc.MarkAlertRead(context.Background(), alert.ID))

	// Unknown id is an error
	err := svc.MarkAlertRead(context.Background(), uuid.New())
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListAlerts_UnreadOnly(t *testing.T) {
	svc, _, _, alertRepo := buildStockSvc()

	read := &model.LowStockAlert{ProductID: uuid.New(), Severity: model.SeverityLow, IsRead: true}
	open := &model.LowStockAlert{ProductID: uuid.New(), Severity: model.SeverityLow}
	require.NoError(t, alertRepo.Create(context.Background(), read))
	require.NoError(t, alertRepo.Create(context.Background(), open))

	resp, err := svc.ListAlerts(context.Background(), dto.AlertFilter{UnreadOnly: true, Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.False(t, resp.Data[0].IsRead)
}

func TestListAlerts_FilterBySeverity(t *testing.T) {
	svc, _, _, alertRepo := buildStockSvc()

	low := &model.LowStockAlert{ProductID: uuid.New(), Severity: model.SeverityLow}
	critical := &model.LowStockAlert{ProductID: uuid.New(), Severity: model.SeverityCritical}
	out := &model.LowStockAlert{ProductID: uuid.New(), Severity: model.SeverityOutOfStock}
	for _, a := range []*model.LowStockAlert{low, critical, out} {
		require.NoError(t, alertRepo.Create(context.Background(), a))
	}

	resp, err := svc.ListAlerts(context.Background(), dto.AlertFilter{Severity: model.SeverityCritical, Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, model.SeverityCritical, resp.Data[0].Severity)

	// No severity filter returns everything
	resp, err = svc.ListAlerts(context.Background(), dto.AlertFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
}
