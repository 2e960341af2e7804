package worker

// factura_pdf_worker.go renders the invoice PDF after the sale commits and,
// when the cashier captured an email, chains an email job with the attachment.
// Retries with exponential backoff before parking the job in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paintpos/internal/infra"
	"paintpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxPDFAttempts = 3

// FacturaPDFWorker processes invoice rendering jobs from QueueFacturaPDF.
type FacturaPDFWorker struct {
	facturaRepo    repository.FacturaRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
	empresaNombre  string
}

func NewFacturaPDFWorker(
	facturaRepo repository.FacturaRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath, empresaNombre string,
) *FacturaPDFWorker {
	return &FacturaPDFWorker{
		facturaRepo:    facturaRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		empresaNombre:  empresaNombre,
	}
}

// Process handles one rendering job:
//  1. Fetch the factura with lines, payments and serie
//  2. Render the PDF, retrying with backoff
//  3. Enqueue the email job when a customer address was captured
func (w *FacturaPDFWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FacturaPDFPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("factura_pdf_worker: invalid payload")
		return
	}

	facturaID, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("factura_pdf_worker: invalid factura_id")
		return
	}

	factura, err := w.facturaRepo.FindByID(ctx, facturaID)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_pdf_worker: factura not found")
		return
	}

	var pdfPath string
	renderErr := withRetry(ctx, maxPDFAttempts, func(attempt int) error {
		path, err := infra.GenerateFacturaPDF(factura, w.empresaNombre, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).
				Int("attempt", attempt+1).
				Str("factura", factura.NumeroMostrado()).
				Msg("factura_pdf_worker: render attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if renderErr != nil {
		log.Error().Err(renderErr).Str("factura", factura.NumeroMostrado()).Msg("factura_pdf_worker: render failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueFacturaPDF, "factura_pdf", raw, renderErr.Error(), maxPDFAttempts)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("factura", factura.NumeroMostrado()).Msg("factura_pdf_worker: PDF generated")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: *payload.ClienteEmail,
		Subject: fmt.Sprintf("%s — Factura %s", w.empresaNombre, factura.NumeroMostrado()),
		Body:    fmt.Sprintf("Adjunto encontrará su factura.\nTotal: Q%s", factura.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *payload.ClienteEmail).Msg("factura_pdf_worker: failed to enqueue email")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (immediate, 1s, 2s). Returns nil on the first success.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
