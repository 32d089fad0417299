package worker

// comprobante_worker.go
// Processes receipt jobs from QueueComprobantes: renders the sale PDF and,
// when the order belongs to a customer, enqueues the email that carries it.

import (
	"context"
	"encoding/json"
	"fmt"

	"almacen/internal/infra"
	"almacen/internal/repository"

	"github.com/rs/zerolog/log"
)

// ComprobanteJobPayload is the job envelope sent to QueueComprobantes.
// The customer address is read from the order when the job runs.
type ComprobanteJobPayload struct {
	VentaID uint `json:"venta_id"`
}

type emailEncolador interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type ComprobanteWorker struct {
	ventaRepo      repository.VentaRepository
	emails         emailEncolador
	nombreTienda   string
	pdfStoragePath string
}

func NewComprobanteWorker(
	ventaRepo repository.VentaRepository,
	emails emailEncolador,
	nombreTienda string,
	pdfStoragePath string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		ventaRepo:      ventaRepo,
		emails:         emails,
		nombreTienda:   nombreTienda,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single comprobante job:
//  1. Fetch the Venta with its Pedido, lines and products
//  2. Generate the PDF receipt
//  3. Enqueue the email job when the order belongs to a customer
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}

	venta, err := w.ventaRepo.FindByID(ctx, payload.VentaID)
	if err != nil {
		return fmt.Errorf("comprobante_worker: venta %d: %w", payload.VentaID, err)
	}

	pdfPath, err := infra.GenerarComprobantePDF(venta, w.nombreTienda, w.pdfStoragePath)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", pdfPath).Uint("venta_id", venta.ID).Msg("comprobante_worker: PDF generated")

	cliente := venta.Pedido.Cliente
	if cliente == nil || cliente.Correo == "" || w.emails == nil {
		return nil
	}
	emailJob := EmailJobPayload{
		ToEmail: cliente.Correo,
		Subject: fmt.Sprintf("Comprobante %s, pedido #%d", w.nombreTienda, venta.CodigoPedido),
		Body:    fmt.Sprintf("Adjunto encontrarás tu comprobante de compra.\nTotal: $%s", venta.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", cliente.Correo).Msg("comprobante_worker: failed to enqueue email")
	}
	return nil
}
