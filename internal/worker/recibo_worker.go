package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibos: generates the PDF receipt for a
// confirmed order and chains an email job to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce/internal/infra"
	"ecommerce/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	OrdenID string `json:"orden_id"`
}

type ReciboWorker struct {
	ordenRepo      repository.OrdenRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReciboWorker(ordenRepo repository.OrdenRepository, dispatcher *Dispatcher, pdfStoragePath string) *ReciboWorker {
	return &ReciboWorker{
		ordenRepo:      ordenRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process generates the PDF and enqueues the customer email. A missing order
// is not retried; PDF or enqueue failures are.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	ordenID, err := uuid.Parse(payload.OrdenID)
	if err != nil {
		log.Error().Str("orden_id", payload.OrdenID).Msg("recibo_worker: invalid orden_id")
		return nil
	}

	orden, err := w.ordenRepo.FindByID(ctx, ordenID)
	if err != nil {
		log.Error().Err(err).Str("orden_id", payload.OrdenID).Msg("recibo_worker: orden not found")
		return nil
	}

	pdfPath, err := infra.GenerarReciboPDF(orden, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("recibo_worker: generate pdf: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("orden", orden.NumeroOrden).Msg("recibo_worker: PDF generated")

	if orden.Cliente == nil || orden.Cliente.Email == "" {
		log.Warn().Str("orden", orden.NumeroOrden).Msg("recibo_worker: cliente has no email, skipping send")
		return nil
	}

	emailJob := EmailJobPayload{
		ToEmail: orden.Cliente.Email,
		Subject: "Confirmación de orden #" + orden.NumeroOrden,
		Body: fmt.Sprintf("Tu orden #%s fue confirmada.\nTotal: $%s\nAdjuntamos el comprobante.",
			orden.NumeroOrden, orden.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueAlertaEmail(ctx, emailJob); err != nil {
		return fmt.Errorf("recibo_worker: enqueue email: %w", err)
	}
	return nil
}
