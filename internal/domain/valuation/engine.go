// Package valuation calcula los totales de líneas y documentos (servicio de
// dominio puro, sin estado ni efectos). Toda la aritmética es decimal de punto
// fijo; los valores siempre se derivan frescos de líneas y pagos, nunca se
// persisten como estado autoritativo.
package valuation

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// paymentTolerance absorbe el ruido de redondeo acumulado entre líneas,
	// pagos y monedas: |saldo| < 0.02 se considera saldado exacto.
	paymentTolerance = decimal.NewFromFloat(0.02)
)

// LineTotals son los seis derivados de una línea.
type LineTotals struct {
	WithoutTaxBeforeReduction decimal.Decimal
	WithTaxBeforeReduction    decimal.Decimal
	WithoutTaxAfterReduction  decimal.Decimal
	WithTaxAfterReduction     decimal.Decimal
	Tax                       decimal.Decimal // withTaxAfter - withoutTaxAfter
	Reduction                 decimal.Decimal // withoutTaxBefore - withoutTaxAfter
}

// DocumentTotals son los agregados de un documento sobre líneas y pagos no
// eliminados.
type DocumentTotals struct {
	Total          decimal.Decimal // suma de withTaxAfterReduction
	TotalTax       decimal.Decimal
	TotalReduction decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalToPay     decimal.Decimal // Total - TotalPaid, con banda de tolerancia
}

// ComputeLine deriva los totales de una línea según el modo de impuesto del
// documento. Asume entrada validada (precio/cantidad/impuesto no negativos);
// una entrada malformada aquí es un error de programación, no una condición
// recuperable.
func ComputeLine(li *entity.LineItem, taxIncluded bool) LineTotals {
	base := li.Price.Mul(li.Amount)
	taxFactor := one.Add(li.TaxRate.Div(hundred))

	var withTaxBefore, withoutTaxBefore decimal.Decimal
	if taxIncluded {
		withTaxBefore = base
		withoutTaxBefore = base.Div(taxFactor)
	} else {
		withoutTaxBefore = base
		withTaxBefore = base.Mul(taxFactor)
	}

	reductionFactor := one.Sub(li.ReductionPercent.Div(hundred))
	withoutTaxAfter := withoutTaxBefore.Mul(reductionFactor)
	withTaxAfter := withTaxBefore.Mul(reductionFactor)

	return LineTotals{
		WithoutTaxBeforeReduction: withoutTaxBefore,
		WithTaxBeforeReduction:    withTaxBefore,
		WithoutTaxAfterReduction:  withoutTaxAfter,
		WithTaxAfterReduction:     withTaxAfter,
		Tax:                       withTaxAfter.Sub(withoutTaxAfter),
		Reduction:                 withoutTaxBefore.Sub(withoutTaxAfter),
	}
}

// ComputeDocument agrega los totales de un documento: suma líneas y pagos no
// eliminados y deriva el saldo pendiente. Determinista: el mismo input produce
// siempre el mismo resultado.
func ComputeDocument(doc *entity.Document, lines []*entity.LineItem, payments []*entity.Payment) DocumentTotals {
	var totals DocumentTotals
	totals.Total = decimal.Zero
	totals.TotalTax = decimal.Zero
	totals.TotalReduction = decimal.Zero
	totals.TotalPaid = decimal.Zero

	for _, li := range lines {
		if li.IsDeleted {
			continue
		}
		lt := ComputeLine(li, doc.TaxIncluded)
		totals.Total = totals.Total.Add(lt.WithTaxAfterReduction)
		totals.TotalTax = totals.TotalTax.Add(lt.Tax)
		totals.TotalReduction = totals.TotalReduction.Add(lt.Reduction)
	}
	for _, p := range payments {
		if p.IsDeleted {
			continue
		}
		totals.TotalPaid = totals.TotalPaid.Add(p.Value)
	}

	toPay := totals.Total.Sub(totals.TotalPaid)
	if toPay.Abs().LessThan(paymentTolerance) {
		toPay = decimal.Zero
	}
	totals.TotalToPay = toPay
	return totals
}

// TaxRateSubtotal agrupa el total por tasa de impuesto (lo consumen los
// renderizadores UBL: un bloque TaxSubtotal por tasa).
type TaxRateSubtotal struct {
	Rate           decimal.Decimal
	TotalBeforeTax decimal.Decimal
	TotalTax       decimal.Decimal
}

// GroupByTaxRate reparte los totales de las líneas no eliminadas por tasa,
// en orden de primera aparición.
func GroupByTaxRate(doc *entity.Document, lines []*entity.LineItem) []TaxRateSubtotal {
	index := map[string]int{}
	var out []TaxRateSubtotal
	for _, li := range lines {
		if li.IsDeleted {
			continue
		}
		lt := ComputeLine(li, doc.TaxIncluded)
		key := li.TaxRate.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, TaxRateSubtotal{Rate: li.TaxRate, TotalBeforeTax: decimal.Zero, TotalTax: decimal.Zero})
		}
		out[i].TotalBeforeTax = out[i].TotalBeforeTax.Add(lt.WithoutTaxAfterReduction)
		out[i].TotalTax = out[i].TotalTax.Add(lt.Tax)
	}
	return out
}
