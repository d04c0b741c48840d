package worker

// confirmation_worker.go
// Processes order confirmation jobs from QueueConfirmation:
// generates the confirmation PDF and chains an email job to the customer.
// Runs after the order transaction commits; failures never touch the order.

import (
	"context"
	"encoding/json"
	"fmt"

	"invtrack/internal/infra"
	"invtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ConfirmationJobPayload is the job envelope sent to QueueConfirmation.
type ConfirmationJobPayload struct {
	OrderID string `json:"order_id"`
}

// ConfirmationWorker generates order confirmation PDFs and enqueues the
// customer email.
type ConfirmationWorker struct {
	orderRepo      repository.OrderRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewConfirmationWorker(orderRepo repository.OrderRepository, dispatcher *Dispatcher, pdfStoragePath string) *ConfirmationWorker {
	return &ConfirmationWorker{
		orderRepo:      orderRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single confirmation job:
//  1. Parse ConfirmationJobPayload from the job envelope
//  2. Fetch the order (with customer and items) from DB
//  3. Generate the confirmation PDF
//  4. Enqueue the email job with the PDF attached
func (w *ConfirmationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ConfirmationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("confirmation_worker: invalid payload")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("confirmation_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("confirmation_worker: order not found")
		return
	}

	pdfPath, err := infra.GenerateOrderPDF(order, w.pdfStoragePath)
	if err != nil {
		log.Warn().Err(err).Str("order", order.OrderNumber).Msg("confirmation_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("order", order.OrderNumber).Msg("confirmation_worker: PDF generated")

	if order.Customer == nil || order.Customer.Email == "" {
		log.Warn().Str("order", order.OrderNumber).Msg("confirmation_worker: no customer email — skipping")
		return
	}

	emailJob := EmailJobPayload{
		ToEmail:        order.Customer.Email,
		Subject:        fmt.Sprintf("Order confirmation — %s", order.OrderNumber),
		Body:           fmt.Sprintf("Thank you for your order.\nOrder number: %s\nTotal: $%s", order.OrderNumber, order.TotalAmount.StringFixed(2)),
		AttachmentPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", order.Customer.Email).Msg("confirmation_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", order.Customer.Email).Msg("confirmation_worker: email job enqueued")
}
