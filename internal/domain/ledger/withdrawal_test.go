package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/ledger"
)

func TestPlanWithdrawal_PrimeroEnVencer(t *testing.T) {
	mat, shelf := emptyViews()
	var err error

	mat, shelf, err = ledger.Apply(mat, shelf, mov(entity.MovementIn, "5", date("2025-03-01")))
	require.NoError(t, err)
	mat, shelf, err = ledger.Apply(mat, shelf, mov(entity.MovementIn, "10", date("2025-01-01")))
	require.NoError(t, err)
	mat, _, err = ledger.Apply(mat, shelf, mov(entity.MovementIn, "4", nil))
	require.NoError(t, err)

	// 12 unidades: agota el lote 2025-01-01 (10) y toma 2 del 2025-03-01.
	draws, err := ledger.PlanWithdrawal(mat, "shelf-S", decimal.NewFromInt(12))
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.True(t, draws[0].Expiration.Equal(*date("2025-01-01")))
	assert.True(t, draws[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, draws[1].Expiration.Equal(*date("2025-03-01")))
	assert.True(t, draws[1].Amount.Equal(decimal.NewFromInt(2)))
}

func TestPlanWithdrawal_LoteSinVencimientoAlFinal(t *testing.T) {
	mat, shelf := emptyViews()
	var err error

	mat, shelf, err = ledger.Apply(mat, shelf, mov(entity.MovementIn, "3", nil))
	require.NoError(t, err)
	mat, _, err = ledger.Apply(mat, shelf, mov(entity.MovementIn, "3", date("2025-06-01")))
	require.NoError(t, err)

	draws, err := ledger.PlanWithdrawal(mat, "shelf-S", decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.NotNil(t, draws[0].Expiration)
	assert.Nil(t, draws[1].Expiration)
	assert.True(t, draws[1].Amount.Equal(decimal.NewFromInt(2)))
}

func TestPlanWithdrawal_Insuficiente(t *testing.T) {
	mat, shelf := emptyViews()
	mat, _, err := ledger.Apply(mat, shelf, mov(entity.MovementIn, "4", date("2025-01-01")))
	require.NoError(t, err)

	_, err = ledger.PlanWithdrawal(mat, "shelf-S", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrInconsistentWithdrawal)

	_, err = ledger.PlanWithdrawal(mat, "otro-estante", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInconsistentWithdrawal)
}

func TestPlanWithdrawal_CantidadInvalida(t *testing.T) {
	mat, _ := emptyViews()
	_, err := ledger.PlanWithdrawal(mat, "shelf-S", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
