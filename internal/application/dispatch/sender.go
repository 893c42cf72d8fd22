package dispatch

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/pkg/logger"
)

// SendReport resume una corrida de envío masivo.
type SendReport struct {
	Sent   int
	Failed []string // IDs de documentos que fallaron
}

// BulkSenderUseCase envía por correo los documentos de un período: renderiza
// PDF y XML de cada uno y los despacha como adjuntos. Un documento que falla
// no corta la corrida; queda reportado y se sigue con el próximo.
type BulkSenderUseCase struct {
	docs     *billing.DocumentQueryUseCase
	renderer DocumentRenderer
	exporter DocumentExporter
	mailer   Mailer
	log      *logger.Logger
}

func NewBulkSenderUseCase(docs *billing.DocumentQueryUseCase, renderer DocumentRenderer, exporter DocumentExporter, mailer Mailer, log *logger.Logger) *BulkSenderUseCase {
	return &BulkSenderUseCase{docs: docs, renderer: renderer, exporter: exporter, mailer: mailer, log: log}
}

// SendPeriod envía todas las facturas de un año a la dirección dada.
func (uc *BulkSenderUseCase) SendPeriod(ctx context.Context, companyID string, year int, to string) (*SendReport, error) {
	documents, err := uc.docs.List(companyID, entity.DocumentTypeInvoice, year, 0, 0)
	if err != nil {
		return nil, err
	}

	report := &SendReport{}
	for _, doc := range documents {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := uc.sendOne(companyID, doc.ID, to); err != nil {
			uc.log.Error().Err(err).Str("document_id", doc.ID).Str("number", doc.Number).Msg("envío de documento falló")
			report.Failed = append(report.Failed, doc.ID)
			continue
		}
		report.Sent++
	}
	uc.log.Info().Int("sent", report.Sent).Int("failed", len(report.Failed)).Int("year", year).Msg("corrida de envío masivo terminada")
	return report, nil
}

func (uc *BulkSenderUseCase) sendOne(companyID, documentID, to string) error {
	view, err := uc.docs.Get(companyID, documentID)
	if err != nil {
		return err
	}

	pdfData, err := uc.renderer.Render(view)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	xmlData, err := uc.exporter.Export(view)
	if err != nil {
		return fmt.Errorf("exportar xml: %w", err)
	}

	subject := fmt.Sprintf("Documento %s", view.Document.Number)
	body := fmt.Sprintf("Adjuntamos el documento %s del %s.", view.Document.Number, view.Document.Date.Format("2006-01-02"))
	attachments := []Attachment{
		{Filename: view.Document.Number + ".pdf", ContentType: "application/pdf", Data: pdfData},
		{Filename: view.Document.Number + ".xml", ContentType: "application/xml", Data: xmlData},
	}
	return uc.mailer.Send(to, subject, body, attachments)
}
