package worker

// email_worker.go
// Processes email jobs from QueueEmail: order receipts to customers and stock
// alert notifications to the back-office address.

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail. ToEmail empty means
// the message is an internal notification and goes to the configured
// back-office address.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	// alertasEmail receives stock alert notifications.
	alertasEmail string
}

func NewEmailWorker(mailer *infra.Mailer, alertasEmail string) *EmailWorker {
	return &EmailWorker{mailer: mailer, alertasEmail: alertasEmail}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}

	to := payload.ToEmail
	if to == "" {
		to = w.alertasEmail
	}
	if to == "" {
		log.Warn().Msg("email_worker: no destination address — skipping")
		return nil
	}

	if err := w.mailer.Send(to, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", to, err)
	}
	log.Info().Str("to", to).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
