package peppol_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/valuation"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/peppol"
)

func sampleView() *billing.DocumentView {
	doc := &entity.Document{
		ID: "doc-1", CompanyID: "co-1", CustomerID: "cust-9",
		Type: entity.DocumentTypeInvoice, Number: "2025-0000042",
		Currency: "EUR", Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	lines := []*entity.LineItem{
		{ID: "li-1", MaterialID: "m1", Description: "Aceite 5W30", Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(2), TaxRate: decimal.NewFromInt(21)},
		{ID: "li-2", MaterialID: "m2", Description: "Junta de culata", Price: decimal.NewFromInt(50), Amount: decimal.NewFromInt(1), TaxRate: decimal.NewFromInt(21)},
		{ID: "li-3", MaterialID: "m3", Description: "Manual técnico", Price: decimal.NewFromInt(30), Amount: decimal.NewFromInt(1), TaxRate: decimal.NewFromInt(6)},
	}
	return &billing.DocumentView{
		Document: doc,
		Lines:    lines,
		Totals:   valuation.ComputeDocument(doc, lines, nil),
	}
}

func TestExport_UnSubtotalPorTasa(t *testing.T) {
	exporter := peppol.NewUBLExporter(peppol.SupplierInfo{Name: "Taller Norte", TaxID: "ES-B12345678"})
	data, err := exporter.Export(sampleView())
	require.NoError(t, err)

	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromBytes(data))
	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)

	assert.Equal(t, "2025-0000042", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "EUR", root.FindElement("cbc:DocumentCurrencyCode").Text())

	// Tres líneas, dos tasas distintas: dos bloques TaxSubtotal.
	subtotals := root.FindElements("cac:TaxTotal/cac:TaxSubtotal")
	require.Len(t, subtotals, 2)
	// Orden de primera aparición: 21 antes que 6.
	assert.Equal(t, "21", subtotals[0].FindElement("cac:TaxCategory/cbc:Percent").Text())
	assert.Equal(t, "6", subtotals[1].FindElement("cac:TaxCategory/cbc:Percent").Text())
	// 21% sobre 250 = 52.50; 6% sobre 30 = 1.80.
	assert.Equal(t, "52.50", subtotals[0].FindElement("cbc:TaxAmount").Text())
	assert.Equal(t, "1.80", subtotals[1].FindElement("cbc:TaxAmount").Text())

	lines := root.FindElements("cac:InvoiceLine")
	assert.Len(t, lines, 3)

	payable := root.FindElement("cac:LegalMonetaryTotal/cbc:PayableAmount")
	require.NotNil(t, payable)
	assert.Equal(t, "334.30", payable.Text())
	assert.Equal(t, "EUR", payable.SelectAttrValue("currencyID", ""))
}

func TestExport_TasaCeroCategoriaZ(t *testing.T) {
	view := sampleView()
	view.Lines = []*entity.LineItem{
		{ID: "li-1", MaterialID: "m1", Description: "Exento", Price: decimal.NewFromInt(10), Amount: decimal.NewFromInt(1), TaxRate: decimal.Zero},
	}
	view.Totals = valuation.ComputeDocument(view.Document, view.Lines, nil)

	exporter := peppol.NewUBLExporter(peppol.SupplierInfo{Name: "Taller Norte"})
	data, err := exporter.Export(view)
	require.NoError(t, err)

	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromBytes(data))
	cat := tree.Root().FindElement("cac:TaxTotal/cac:TaxSubtotal/cac:TaxCategory/cbc:ID")
	require.NotNil(t, cat)
	assert.Equal(t, "Z", cat.Text())
}
