// Package numbering define el formato de numeración de documentos:
// AAAA-NNNNNNN (año, guion, secuencia de 7 dígitos con ceros a la izquierda).
// Las secuencias reinician por año calendario y son independientes por tipo
// de documento.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tu-usuario/taller-erp/internal/domain"
)

// Digits es el ancho fijo de la parte secuencial.
const Digits = 7

// Format arma el número para un año y secuencia dados.
func Format(year int, seq int64) string {
	return fmt.Sprintf("%04d-%0*d", year, Digits, seq)
}

// Parse descompone un número AAAA-NNNNNNN. Números con otro formato (ej.
// compras con número externo) devuelven ErrInvalidInput.
func Parse(number string) (year int, seq int64, err error) {
	parts := strings.SplitN(number, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != Digits {
		return 0, 0, domain.ErrInvalidInput
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	seq, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	return year, seq, nil
}

// Next calcula el número siguiente dentro de un año. Con last vacío (no hay
// documentos previos para ese tipo y año) arranca en 0000001.
func Next(last string, year int) (string, error) {
	if last == "" {
		return Format(year, 1), nil
	}
	lastYear, seq, err := Parse(last)
	if err != nil {
		return "", err
	}
	if lastYear != year {
		// El último número pertenece a otro año: la secuencia reinicia.
		return Format(year, 1), nil
	}
	return Format(year, seq+1), nil
}
