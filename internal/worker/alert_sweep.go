package worker

// alert_sweep.go
// Background goroutine that periodically scans for products at or below
// their reorder level and opens alerts that the write paths may have
// missed (direct SQL imports, crashed requests). Each product keeps at
// most one unread alert, so the sweep is idempotent.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invtrack/internal/model"
	"invtrack/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AlertSweepConfig holds all dependencies for the sweep goroutine.
type AlertSweepConfig struct {
	ProductRepo repository.ProductRepository
	AlertRepo   repository.AlertRepository
	Dispatcher  *Dispatcher
	AlertEmail  string
	Interval    time.Duration
}

// StartAlertSweep launches a background goroutine that ticks on the
// configured interval and reconciles low-stock alerts. It respects the
// context for graceful shutdown.
func StartAlertSweep(ctx context.Context, cfg AlertSweepConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("alert_sweep: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_sweep: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

func runSweep(ctx context.Context, cfg AlertSweepConfig) {
	products, err := cfg.ProductRepo.FindBelowReorder(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alert_sweep: failed to query products")
		return
	}
	if len(products) == 0 {
		return
	}

	opened := 0
	for i := range products {
		p := &products[i]

		if _, err := cfg.AlertRepo.FindUnreadByProduct(ctx, p.ID); err == nil {
			continue // open alert already exists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("product", p.SKU).Msg("alert_sweep: alert lookup failed")
			continue
		}

		alert := &model.LowStockAlert{
			ProductID:    p.ID,
			CurrentStock: p.StockQuantity,
			ReorderLevel: p.ReorderLevel,
			Severity:     model.SeverityFor(p.StockQuantity, p.ReorderLevel),
		}
		if err := cfg.AlertRepo.Create(ctx, alert); err != nil {
			log.Error().Err(err).Str("product", p.SKU).Msg("alert_sweep: failed to create alert")
			continue
		}
		opened++

		event := "stock.low"
		if alert.Severity == model.SeverityOutOfStock {
			event = "stock.out"
		}
		if cfg.Dispatcher != nil {
			_ = cfg.Dispatcher.EnqueueWebhook(ctx, WebhookJobPayload{
				Event: event,
				At:    time.Now().UTC().Format(time.RFC3339),
				Data: map[string]interface{}{
					"product_id":    p.ID.String(),
					"sku":           p.SKU,
					"current_stock": p.StockQuantity,
					"reorder_level": p.ReorderLevel,
					"severity":      alert.Severity,
				},
			})
			if cfg.AlertEmail != "" {
				_ = cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
					ToEmail: cfg.AlertEmail,
					Subject: fmt.Sprintf("Low stock: %s (%s)", p.Name, p.SKU),
					Body: fmt.Sprintf("Product %s (%s) is down to %d units (reorder level %d, severity %s).",
						p.Name, p.SKU, p.StockQuantity, p.ReorderLevel, alert.Severity),
				})
			}
		}
	}

	if opened > 0 {
		log.Info().Int("opened", opened).Int("below_reorder", len(products)).Msg("alert_sweep: alerts reconciled")
	}
}
