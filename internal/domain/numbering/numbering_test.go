package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/numbering"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025-0000001", numbering.Format(2025, 1))
	assert.Equal(t, "2025-0123456", numbering.Format(2025, 123456))
	assert.Equal(t, "2026-9999999", numbering.Format(2026, 9999999))
}

func TestParse(t *testing.T) {
	year, seq, err := numbering.Parse("2025-0000042")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, int64(42), seq)

	// Números externos (compras) no siguen el formato y se rechazan
	for _, bad := range []string{"", "FACT-001", "2025-123", "20250000001", "25-0000001"} {
		_, _, err := numbering.Parse(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "debe rechazar %q", bad)
	}
}

func TestNext(t *testing.T) {
	// Sin documento previo: arranca en 0000001
	n, err := numbering.Next("", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000001", n)

	// Incremento dentro del mismo año
	n, err = numbering.Next("2025-0000009", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000010", n)

	// Cambio de año calendario: la secuencia reinicia
	n, err = numbering.Next("2025-0004567", 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-0000001", n)
}
