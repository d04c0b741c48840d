package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invtrack/internal/model"
	"invtrack/internal/repository"
	"invtrack/internal/worker"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// reconcileAlert keeps the one-unread-alert-per-product invariant after a
// stock change. When the new stock is at or below the reorder level it
// opens an alert (or refreshes the open one with the new stock and
// severity) and fans out notifications. Stock recovering above the
// reorder level leaves the open alert in place for a human to dismiss.
func reconcileAlert(
	ctx context.Context,
	alerts repository.AlertRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
	p *model.Product,
	stock int,
) error {
	if stock > p.ReorderLevel {
		return nil
	}
	severity := model.SeverityFor(stock, p.ReorderLevel)

	existing, err := alerts.FindUnreadByProduct(ctx, p.ID)
	switch {
	case err == nil:
		existing.CurrentStock = stock
		existing.ReorderLevel = p.ReorderLevel
		existing.Severity = severity
		if err := alerts.Update(ctx, existing); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		alert := &model.LowStockAlert{
			ProductID:    p.ID,
			CurrentStock: stock,
			ReorderLevel: p.ReorderLevel,
			Severity:     severity,
		}
		if err := alerts.Create(ctx, alert); err != nil {
			return err
		}
	default:
		return err
	}

	if dispatcher != nil {
		event := "stock.low"
		if severity == model.SeverityOutOfStock {
			event = "stock.out"
		}
		_ = dispatcher.EnqueueWebhook(ctx, worker.WebhookJobPayload{
			Event: event,
			At:    time.Now().UTC().Format(time.RFC3339),
			Data: map[string]interface{}{
				"product_id":    p.ID.String(),
				"sku":           p.SKU,
				"current_stock": stock,
				"reorder_level": p.ReorderLevel,
				"severity":      severity,
			},
		})
		if alertEmail != "" {
			_ = dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
				ToEmail: alertEmail,
				Subject: fmt.Sprintf("Low stock: %s (%s)", p.Name, p.SKU),
				Body: fmt.Sprintf("Product %s (%s) is down to %d units (reorder level %d, severity %s).",
					p.Name, p.SKU, stock, p.ReorderLevel, severity),
			})
		}
	}
	return nil
}
