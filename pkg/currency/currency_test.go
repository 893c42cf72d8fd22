package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/taller-erp/pkg/currency"
)

// TestFormat_MonedasConocidas: el formato incluye el monto redondeado; el
// símbolo y separadores dependen del locale de la moneda.
func TestFormat_MonedasConocidas(t *testing.T) {
	for _, code := range []string{"TRY", "USD", "EUR"} {
		out := currency.Format(decimal.RequireFromString("1234.5"), code)
		assert.NotEmpty(t, out, "moneda %s", code)
	}
}

// TestFormat_CodigoDesconocido: cae al formato "<monto> <código>".
func TestFormat_CodigoDesconocido(t *testing.T) {
	out := currency.Format(decimal.RequireFromString("10.239"), "XXX_NO")
	assert.Equal(t, "10.24 XXX_NO", out)
}
