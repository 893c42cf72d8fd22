package valuation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/valuation"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func line(price, amount, tax, reduction string) *entity.LineItem {
	return &entity.LineItem{
		MaterialID:       "mat-1",
		Price:            d(price),
		Amount:           d(amount),
		TaxRate:          d(tax),
		ReductionPercent: d(reduction),
	}
}

// TestComputeLine_EjemploReferencia: precio=100, cantidad=2, IVA 21%,
// descuento 10%, impuesto no incluido. Valores exactos del caso de referencia.
func TestComputeLine_EjemploReferencia(t *testing.T) {
	lt := valuation.ComputeLine(line("100", "2", "21", "10"), false)

	assert.True(t, lt.WithoutTaxBeforeReduction.Equal(d("200")), "sin impuesto antes de descuento: %s", lt.WithoutTaxBeforeReduction)
	assert.True(t, lt.WithTaxBeforeReduction.Equal(d("242")), "con impuesto antes de descuento: %s", lt.WithTaxBeforeReduction)
	assert.True(t, lt.WithoutTaxAfterReduction.Equal(d("180")), "sin impuesto después de descuento: %s", lt.WithoutTaxAfterReduction)
	assert.True(t, lt.WithTaxAfterReduction.Equal(d("217.8")), "con impuesto después de descuento: %s", lt.WithTaxAfterReduction)
	assert.True(t, lt.Tax.Equal(d("37.8")), "impuesto de la línea: %s", lt.Tax)
	assert.True(t, lt.Reduction.Equal(d("20")), "descuento de la línea: %s", lt.Reduction)
}

// TestComputeLine_ImpuestoIncluido: en modo impuesto-incluido la base ES el
// total con impuesto y el neto se deriva dividiendo por (1 + tasa/100).
func TestComputeLine_ImpuestoIncluido(t *testing.T) {
	lt := valuation.ComputeLine(line("121", "1", "21", "0"), true)

	assert.True(t, lt.WithTaxBeforeReduction.Equal(d("121")))
	assert.True(t, lt.WithoutTaxBeforeReduction.Equal(d("100")), "neto derivado: %s", lt.WithoutTaxBeforeReduction)
	assert.True(t, lt.Tax.Equal(d("21")), "impuesto: %s", lt.Tax)
}

// TestComputeLine_IdentidadesImpuesto verifica las identidades de ambos modos
// para varias tasas.
func TestComputeLine_IdentidadesImpuesto(t *testing.T) {
	rates := []string{"0", "5", "6", "12", "21"}
	for _, rate := range rates {
		factor := decimal.NewFromInt(1).Add(d(rate).Div(decimal.NewFromInt(100)))

		excl := valuation.ComputeLine(line("137.5", "3", rate, "0"), false)
		assert.True(t, excl.WithTaxBeforeReduction.Equal(excl.WithoutTaxBeforeReduction.Mul(factor)),
			"tasa %s: conTax = sinTax * (1+t/100)", rate)

		incl := valuation.ComputeLine(line("137.5", "3", rate, "0"), true)
		assert.True(t, incl.WithoutTaxBeforeReduction.Equal(incl.WithTaxBeforeReduction.Div(factor)),
			"tasa %s: sinTax = conTax / (1+t/100)", rate)
	}
}

// TestComputeDocument_Determinista: computar dos veces sobre el mismo input
// produce resultados idénticos (sin estado oculto).
func TestComputeDocument_Determinista(t *testing.T) {
	doc := &entity.Document{Type: entity.DocumentTypeInvoice, Currency: "EUR"}
	lines := []*entity.LineItem{
		line("100", "2", "21", "10"),
		line("49.99", "1", "6", "0"),
	}
	pays := []*entity.Payment{{DocumentID: "doc", CompanyID: "c", Value: d("50"), Type: entity.PaymentTypeCash}}

	a := valuation.ComputeDocument(doc, lines, pays)
	b := valuation.ComputeDocument(doc, lines, pays)

	assert.True(t, a.Total.Equal(b.Total))
	assert.True(t, a.TotalTax.Equal(b.TotalTax))
	assert.True(t, a.TotalReduction.Equal(b.TotalReduction))
	assert.True(t, a.TotalToPay.Equal(b.TotalToPay))
}

// TestComputeDocument_BandaTolerancia: 99.99 pagado sobre 100.00 salda a 0;
// 90.00 pagado deja 10.00 (fuera de banda).
func TestComputeDocument_BandaTolerancia(t *testing.T) {
	doc := &entity.Document{Type: entity.DocumentTypeInvoice, Currency: "EUR"}
	lines := []*entity.LineItem{line("100", "1", "0", "0")}

	casi := []*entity.Payment{{DocumentID: "d", CompanyID: "c", Value: d("99.99"), Type: entity.PaymentTypeCash}}
	totals := valuation.ComputeDocument(doc, lines, casi)
	assert.True(t, totals.TotalToPay.IsZero(), "saldo dentro de la banda debe ser exactamente 0, fue %s", totals.TotalToPay)

	parcial := []*entity.Payment{{DocumentID: "d", CompanyID: "c", Value: d("90.00"), Type: entity.PaymentTypeCash}}
	totals = valuation.ComputeDocument(doc, lines, parcial)
	assert.True(t, totals.TotalToPay.Equal(d("10")), "saldo fuera de banda no se ajusta, fue %s", totals.TotalToPay)
}

// TestComputeDocument_IgnoraEliminados: líneas y pagos con soft delete no
// participan en ningún agregado.
func TestComputeDocument_IgnoraEliminados(t *testing.T) {
	doc := &entity.Document{Type: entity.DocumentTypeSale}
	borrada := line("999", "5", "21", "0")
	borrada.IsDeleted = true
	lines := []*entity.LineItem{line("100", "1", "0", "0"), borrada}
	pays := []*entity.Payment{
		{DocumentID: "d", CompanyID: "c", Value: d("40"), Type: entity.PaymentTypeCash},
		{DocumentID: "d", CompanyID: "c", Value: d("60"), Type: entity.PaymentTypeCash, IsDeleted: true},
	}

	totals := valuation.ComputeDocument(doc, lines, pays)
	assert.True(t, totals.Total.Equal(d("100")), "total: %s", totals.Total)
	assert.True(t, totals.TotalPaid.Equal(d("40")), "pagado: %s", totals.TotalPaid)
	assert.True(t, totals.TotalToPay.Equal(d("60")), "saldo: %s", totals.TotalToPay)
}

// TestGroupByTaxRate: una línea al 21% y dos al 6% producen dos subtotales con
// neto e impuesto por tasa (consumido por el export UBL).
func TestGroupByTaxRate(t *testing.T) {
	doc := &entity.Document{Type: entity.DocumentTypeInvoice}
	lines := []*entity.LineItem{
		line("100", "1", "21", "0"),
		line("50", "2", "6", "0"),
		line("10", "1", "6", "0"),
	}

	groups := valuation.GroupByTaxRate(doc, lines)
	require.Len(t, groups, 2)

	assert.True(t, groups[0].Rate.Equal(d("21")))
	assert.True(t, groups[0].TotalBeforeTax.Equal(d("100")))
	assert.True(t, groups[0].TotalTax.Equal(d("21")))

	assert.True(t, groups[1].Rate.Equal(d("6")))
	assert.True(t, groups[1].TotalBeforeTax.Equal(d("110")))
	assert.True(t, groups[1].TotalTax.Equal(d("6.6")), "impuesto 6%%: %s", groups[1].TotalTax)
}
