// Package pdf implementa la representación gráfica de los documentos
// comerciales (factura, venta, remisión) en A4.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento  │  Número + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Imp% | Desc% | Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto / Impuestos / Descuentos / Pagado / A PAGAR  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	pkgcurrency "github.com/tu-usuario/taller-erp/pkg/currency"
)

var _ dispatch.DocumentRenderer = (*MarotoRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoRenderer implementa dispatch.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct {
	companyName string
}

// NewMarotoRenderer construye el renderer con el nombre de la empresa emisora.
func NewMarotoRenderer(companyName string) *MarotoRenderer {
	return &MarotoRenderer{companyName: companyName}
}

// Render genera el PDF del documento y devuelve sus bytes.
func (g *MarotoRenderer) Render(view *billing.DocumentView) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(view.Document.Type)+" "+view.Document.Number, true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(view.Document))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(view) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(view))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func docTitle(docType string) string {
	switch docType {
	case entity.DocumentTypeQuote:
		return "OFERTA"
	case entity.DocumentTypeSale:
		return "VENTA"
	case entity.DocumentTypeDispatch:
		return "REMISIÓN"
	case entity.DocumentTypeInvoice:
		return "FACTURA"
	case entity.DocumentTypeCreditNote:
		return "NOTA DE CRÉDITO"
	case entity.DocumentTypeDebitNote:
		return "NOTA DE DÉBITO"
	case entity.DocumentTypePurchase:
		return "COMPRA"
	}
	return strings.ToUpper(docType)
}

// headerRow: empresa (izq) y tipo + número + fecha (der).
func (g *MarotoRenderer) headerRow(doc *entity.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(docTitle(doc.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp%", 1, align.Center),
		h("Desc%", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea viva del documento.
func tableDetailRows(view *billing.DocumentView) []core.Row {
	result := make([]core.Row, 0, len(view.Lines))
	for _, li := range view.Lines {
		total := li.Price.Mul(li.Amount)
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				li.Amount.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				li.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				pkgcurrency.Format(li.Price, view.Document.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				li.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				li.ReductionPercent.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				pkgcurrency.Format(total, view.Document.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(view *billing.DocumentView) core.Row {
	cur := view.Document.Currency
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	t := view.Totals
	return row.New(34).Add(
		col.New(3),
		col.New(3).Add(
			label("Total:"),
			label("Impuestos:"),
			label("Descuentos:"),
			label("Pagado:"),
			grandLabel("A PAGAR:"),
		),
		col.New(3).Add(
			value(pkgcurrency.Format(t.Total, cur)),
			value(pkgcurrency.Format(t.TotalTax, cur)),
			value(pkgcurrency.Format(t.TotalReduction, cur)),
			value(pkgcurrency.Format(t.TotalPaid, cur)),
			grandValue(pkgcurrency.Format(t.TotalToPay, cur)),
		),
		col.New(3),
	)
}
