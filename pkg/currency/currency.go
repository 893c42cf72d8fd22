// Package currency formatea montos según la moneda del documento. La moneda
// elige el locale (TRY -> tr-TR, USD -> en-US, EUR -> nl-BE); no hay
// conversión entre monedas.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func langFor(code string) language.Tag {
	switch code {
	case "TRY":
		return language.MustParse("tr-TR")
	case "USD":
		return language.MustParse("en-US")
	case "EUR":
		return language.MustParse("nl-BE")
	default:
		return language.English
	}
}

// Format devuelve el monto redondeado a 2 decimales con el símbolo y las
// convenciones del locale de la moneda. Códigos desconocidos caen a
// "<monto> <código>".
func Format(value decimal.Decimal, code string) string {
	p := message.NewPrinter(langFor(code))
	amount, _ := value.Round(2).Float64()

	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%.2f %s", amount, code)
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}
