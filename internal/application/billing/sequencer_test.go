package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/memory"
)

func TestSequencer_ArranqueYAvance(t *testing.T) {
	store := memory.NewStore()
	seq := billing.NewSequencer()

	num, err := seq.NextNumber(store.Documents(), companyID, entity.DocumentTypeInvoice, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000001", num)

	require.NoError(t, store.Documents().Create(&entity.Document{
		ID: "doc-1", CompanyID: companyID, Type: entity.DocumentTypeInvoice,
		Number: num, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	num, err = seq.NextNumber(store.Documents(), companyID, entity.DocumentTypeInvoice, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000002", num)
}

func TestSequencer_IndependientePorTipoYAno(t *testing.T) {
	store := memory.NewStore()
	seq := billing.NewSequencer()

	require.NoError(t, store.Documents().Create(&entity.Document{
		ID: "doc-1", CompanyID: companyID, Type: entity.DocumentTypeInvoice,
		Number: "2025-0000009", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}))

	// Otro tipo arranca de cero.
	num, err := seq.NextNumber(store.Documents(), companyID, entity.DocumentTypeSale, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000001", num)

	// Otro año reinicia.
	num, err = seq.NextNumber(store.Documents(), companyID, entity.DocumentTypeInvoice, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-0000001", num)

	// Mismo tipo y año continúa.
	num, err = seq.NextNumber(store.Documents(), companyID, entity.DocumentTypeInvoice, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0000010", num)
}

func TestSequenced(t *testing.T) {
	assert.False(t, billing.Sequenced(entity.DocumentTypePurchase, "EXT-1"))
	assert.True(t, billing.Sequenced(entity.DocumentTypePurchase, ""))
	assert.True(t, billing.Sequenced(entity.DocumentTypeInvoice, ""))
}
