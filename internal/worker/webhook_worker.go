package worker

// webhook_worker.go
// Delivers inventory events (order.created, stock.low, stock.out) to the
// configured webhook endpoint. Uses exponential backoff (max 3 attempts)
// behind a circuit breaker; exhausted jobs go to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"invtrack/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxWebhookAttempts = 3

// WebhookJobPayload is the job envelope sent to QueueWebhook.
type WebhookJobPayload struct {
	Event string                 `json:"event"`
	At    string                 `json:"at"` // RFC 3339
	Data  map[string]interface{} `json:"data"`
}

// WebhookWorker posts events to the external endpoint.
type WebhookWorker struct {
	client *infra.WebhookClient
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewWebhookWorker(client *infra.WebhookClient, cb *infra.CircuitBreaker, rdb *redis.Client) *WebhookWorker {
	return &WebhookWorker{client: client, cb: cb, rdb: rdb}
}

// Process delivers a single event with retries. A tripped circuit breaker
// fails fast; the job lands in the DLQ for later replay.
func (w *WebhookWorker) Process(ctx context.Context, raw json.RawMessage) {
	if !w.client.Enabled() {
		return
	}

	var payload WebhookJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("webhook_worker: invalid payload")
		return
	}

	ev := infra.WebhookEvent{
		Event:      payload.Event,
		OccurredAt: payload.At,
		Data:       payload.Data,
	}

	err := withRetry(ctx, maxWebhookAttempts, func(attempt int) error {
		return w.cb.Execute(func() error {
			if err := w.client.Deliver(ctx, ev); err != nil {
				log.Warn().
					Err(err).
					Int("attempt", attempt+1).
					Str("event", payload.Event).
					Msg("webhook_worker: delivery attempt failed, retrying")
				return err
			}
			return nil
		})
	})
	if err != nil {
		log.Error().Err(err).Str("event", payload.Event).Msg("webhook_worker: delivery failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueWebhook, "webhook", raw,
			fmt.Sprintf("max retries (%d) exceeded: %v", maxWebhookAttempts, err),
			maxWebhookAttempts)
		return
	}
	log.Info().Str("event", payload.Event).Msg("webhook_worker: event delivered")
}
