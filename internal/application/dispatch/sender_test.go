package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/memory"
	"github.com/tu-usuario/taller-erp/pkg/logger"
)

const senderCompanyID = "empresa-dispatch"

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test para los puertos de despacho
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	calls   int
	failFor string // número de documento que debe fallar
}

func (f *fakeRenderer) Render(view *billing.DocumentView) ([]byte, error) {
	f.calls++
	if f.failFor != "" && view.Document.Number == f.failFor {
		return nil, errors.New("pdf roto")
	}
	return []byte("%PDF-fake " + view.Document.Number), nil
}

type fakeExporter struct{ calls int }

func (f *fakeExporter) Export(view *billing.DocumentView) ([]byte, error) {
	f.calls++
	return []byte("<Invoice>" + view.Document.Number + "</Invoice>"), nil
}

type sentMail struct {
	to          string
	subject     string
	attachments []dispatch.Attachment
}

type fakeMailer struct {
	sent    []sentMail
	failFor string // asunto que debe fallar
}

func (f *fakeMailer) Send(to, subject, body string, attachments []dispatch.Attachment) error {
	if f.failFor != "" && subject == "Documento "+f.failFor {
		return errors.New("smtp rechazado")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, attachments: attachments})
	return nil
}

// seedInvoice crea una factura mínima de 2025 directamente en el store.
func seedInvoice(t *testing.T, store *memory.Store, id, number string) {
	t.Helper()
	docs := store.Documents()
	require.NoError(t, docs.Create(&entity.Document{
		ID:        id,
		CompanyID: senderCompanyID,
		Type:      entity.DocumentTypeInvoice,
		Number:    number,
		Currency:  "EUR",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, docs.CreateLineItem(&entity.LineItem{
		ID:         id + "-li",
		DocumentID: id,
		MaterialID: "mat-1",
		Price:      decimal.NewFromInt(100),
		Amount:     decimal.NewFromInt(1),
		TaxRate:    decimal.NewFromInt(21),
	}))
}

func newSenderFixture(t *testing.T, renderer *fakeRenderer, mailer *fakeMailer) (*dispatch.BulkSenderUseCase, *fakeExporter) {
	t.Helper()
	store := memory.NewStore()
	seedInvoice(t, store, "doc-1", "2025-0000001")
	seedInvoice(t, store, "doc-2", "2025-0000002")
	seedInvoice(t, store, "doc-3", "2025-0000003")

	query := billing.NewDocumentQueryUseCase(store.Documents(), store.Payments())
	exporter := &fakeExporter{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return dispatch.NewBulkSenderUseCase(query, renderer, exporter, mailer, log), exporter
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSendPeriod_EnviaTodasLasFacturasConAdjuntos(t *testing.T) {
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	sender, exporter := newSenderFixture(t, renderer, mailer)

	report, err := sender.SendPeriod(context.Background(), senderCompanyID, 2025, "cliente@taller.example")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Sent)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 3, renderer.calls)
	assert.Equal(t, 3, exporter.calls)
	require.Len(t, mailer.sent, 3)

	first := mailer.sent[0]
	assert.Equal(t, "cliente@taller.example", first.to)
	require.Len(t, first.attachments, 2, "cada correo lleva PDF y XML")
	assert.Equal(t, "application/pdf", first.attachments[0].ContentType)
	assert.Equal(t, "application/xml", first.attachments[1].ContentType)
	assert.Contains(t, first.attachments[0].Filename, ".pdf")
}

func TestSendPeriod_UnDocumentoQueFallaNoCortaLaCorrida(t *testing.T) {
	renderer := &fakeRenderer{failFor: "2025-0000002"}
	mailer := &fakeMailer{}
	sender, _ := newSenderFixture(t, renderer, mailer)

	report, err := sender.SendPeriod(context.Background(), senderCompanyID, 2025, "cliente@taller.example")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, []string{"doc-2"}, report.Failed)
	assert.Len(t, mailer.sent, 2)
}

func TestSendPeriod_FalloDeSMTPQuedaReportado(t *testing.T) {
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{failFor: "2025-0000003"}
	sender, _ := newSenderFixture(t, renderer, mailer)

	report, err := sender.SendPeriod(context.Background(), senderCompanyID, 2025, "cliente@taller.example")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, []string{"doc-3"}, report.Failed)
}

func TestSendPeriod_SinFacturasEnElAnio(t *testing.T) {
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	sender, _ := newSenderFixture(t, renderer, mailer)

	report, err := sender.SendPeriod(context.Background(), senderCompanyID, 2030, "cliente@taller.example")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Sent)
	assert.Empty(t, report.Failed)
	assert.Empty(t, mailer.sent)
}

func TestSendPeriod_ContextoCanceladoCortaLaCorrida(t *testing.T) {
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	sender, _ := newSenderFixture(t, renderer, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sender.SendPeriod(ctx, senderCompanyID, 2025, "cliente@taller.example")
	assert.ErrorIs(t, err, context.Canceled)
}
