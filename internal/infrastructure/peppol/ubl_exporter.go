// Package peppol exporta documentos comerciales como UBL 2.1 Invoice para
// intercambio Peppol BIS Billing 3.0.
package peppol

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/domain/valuation"
)

// Namespaces oficiales UBL 2.1.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	profileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

var _ dispatch.DocumentExporter = (*UBLExporter)(nil)

// SupplierInfo datos del emisor que van en AccountingSupplierParty.
type SupplierInfo struct {
	Name  string
	TaxID string
}

// UBLExporter implementa dispatch.DocumentExporter generando UBL 2.1.
type UBLExporter struct {
	supplier SupplierInfo
}

// NewUBLExporter construye el exportador con los datos del emisor.
func NewUBLExporter(supplier SupplierInfo) *UBLExporter {
	return &UBLExporter{supplier: supplier}
}

// Export genera el XML UBL del documento. Los impuestos van agrupados por
// tasa: un cac:TaxSubtotal por cada tasa presente en las líneas.
func (e *UBLExporter) Export(view *billing.DocumentView) ([]byte, error) {
	if view == nil || view.Document == nil {
		return nil, fmt.Errorf("peppol: documento vacío")
	}
	doc := view.Document

	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := tree.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)

	cbc(root, "CustomizationID", customizationID)
	cbc(root, "ProfileID", profileID)
	cbc(root, "ID", doc.Number)
	cbc(root, "IssueDate", doc.Date.Format("2006-01-02"))
	cbc(root, "InvoiceTypeCode", "380")
	cbc(root, "DocumentCurrencyCode", doc.Currency)

	e.writeSupplierParty(root)
	writeCustomerParty(root, doc.CustomerID)
	writeTaxTotal(root, view)
	writeMonetaryTotal(root, view)
	writeLines(root, view)

	tree.Indent(2)
	return tree.WriteToBytes()
}

func (e *UBLExporter) writeSupplierParty(root *etree.Element) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	name := party.CreateElement("cac:PartyName")
	cbc(name, "Name", e.supplier.Name)
	if e.supplier.TaxID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(scheme, "CompanyID", e.supplier.TaxID)
		cbc(scheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
}

func writeCustomerParty(root *etree.Element, customerID string) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	ident := party.CreateElement("cac:PartyIdentification")
	cbc(ident, "ID", customerID)
}

// writeTaxTotal: TaxTotal con un TaxSubtotal por tasa, en orden de primera
// aparición en las líneas.
func writeTaxTotal(root *etree.Element, view *billing.DocumentView) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", view.Totals.TotalTax, view.Document.Currency)

	for _, sub := range valuation.GroupByTaxRate(view.Document, view.Lines) {
		st := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(st, "cbc:TaxableAmount", sub.TotalBeforeTax, view.Document.Currency)
		amount(st, "cbc:TaxAmount", sub.TotalTax, view.Document.Currency)
		cat := st.CreateElement("cac:TaxCategory")
		cbc(cat, "ID", taxCategoryFor(sub.Rate))
		cbc(cat, "Percent", sub.Rate.String())
		cbc(cat.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
}

func writeMonetaryTotal(root *etree.Element, view *billing.DocumentView) {
	t := view.Totals
	cur := view.Document.Currency
	lineExtension := t.Total.Sub(t.TotalTax)

	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "cbc:LineExtensionAmount", lineExtension, cur)
	amount(total, "cbc:TaxExclusiveAmount", lineExtension, cur)
	amount(total, "cbc:TaxInclusiveAmount", t.Total, cur)
	amount(total, "cbc:AllowanceTotalAmount", t.TotalReduction, cur)
	amount(total, "cbc:PrepaidAmount", t.TotalPaid, cur)
	amount(total, "cbc:PayableAmount", t.TotalToPay, cur)
}

func writeLines(root *etree.Element, view *billing.DocumentView) {
	cur := view.Document.Currency
	for i, li := range view.Lines {
		lt := valuation.ComputeLine(li, view.Document.TaxIncluded)

		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", fmt.Sprintf("%d", i+1))
		qty := cbc(line, "InvoicedQuantity", li.Amount.String())
		qty.CreateAttr("unitCode", "C62") // unidad (UN/ECE rec 20)
		amount(line, "cbc:LineExtensionAmount", lt.WithoutTaxAfterReduction, cur)

		item := line.CreateElement("cac:Item")
		cbc(item, "Name", li.Description)
		category := item.CreateElement("cac:ClassifiedTaxCategory")
		cbc(category, "ID", taxCategoryFor(li.TaxRate))
		cbc(category, "Percent", li.TaxRate.String())
		cbc(category.CreateElement("cac:TaxScheme"), "ID", "VAT")

		price := line.CreateElement("cac:Price")
		amount(price, "cbc:PriceAmount", li.Price, cur)
	}
}

// taxCategoryFor: S = tasa estándar, Z = tasa cero (EN 16931).
func taxCategoryFor(rate decimal.Decimal) string {
	if rate.IsZero() {
		return "Z"
	}
	return "S"
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, value decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.SetText(value.StringFixed(2))
	el.CreateAttr("currencyID", currency)
}
