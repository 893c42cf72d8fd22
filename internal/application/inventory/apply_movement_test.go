package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/application/inventory"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/memory"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

const (
	companyID  = "co-1"
	materialID = "mat-1"
	shelfID    = "shelf-1"
)

func newFixture(t *testing.T) (*memory.Store, *inventory.ApplyMovementUseCase, *inventory.StockQueryUseCase) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Materials().Create(&entity.Material{
		ID: materialID, CompanyID: companyID, Name: "Filtro de aceite", Price: decimal.NewFromInt(10), Status: "active",
	}))
	require.NoError(t, store.Shelves().Create(&entity.Shelf{ID: shelfID, CompanyID: companyID, Name: "A-1"}))

	locks := keylock.New(200 * time.Millisecond)
	apply := inventory.NewApplyMovementUseCase(store, store.Materials(), store.Shelves(), locks, 3)
	query := inventory.NewStockQueryUseCase(store.Views(), store.Movements())
	return store, apply, query
}

func expiration(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestApply_EntradaYSalida(t *testing.T) {
	_, apply, query := newFixture(t)
	ctx := context.Background()

	_, err := apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementIn, Amount: decimal.NewFromInt(10), Expiration: expiration("2025-01-01"),
	})
	require.NoError(t, err)
	_, err = apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementOut, Amount: decimal.NewFromInt(3), Expiration: expiration("2025-01-01"),
	})
	require.NoError(t, err)

	stock, err := query.CurrentStock(companyID, materialID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(7)), "stock: %s", stock)

	// Las dos vistas cuentan lo mismo.
	contents, err := query.ContentsFor(companyID, shelfID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.True(t, contents[0].Amount.Equal(decimal.NewFromInt(7)))
}

func TestApply_RetiroInconsistenteNoDejaRastro(t *testing.T) {
	store, apply, query := newFixture(t)
	ctx := context.Background()

	_, err := apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementIn, Amount: decimal.NewFromInt(5), Expiration: expiration("2025-01-01"),
	})
	require.NoError(t, err)

	// Lote inexistente: otro vencimiento.
	_, err = apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementOut, Amount: decimal.NewFromInt(1), Expiration: expiration("2025-09-09"),
	})
	assert.ErrorIs(t, err, domain.ErrInconsistentWithdrawal)

	// Cantidad insuficiente sobre el lote existente.
	_, err = apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementOut, Amount: decimal.NewFromInt(6), Expiration: expiration("2025-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrInconsistentWithdrawal)

	// Ni el log ni las vistas cambiaron.
	stock, err := query.CurrentStock(companyID, materialID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(5)))
	movs, err := store.Movements().ListByMaterial(companyID, materialID)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestApply_MaterialInexistente(t *testing.T) {
	_, apply, _ := newFixture(t)
	_, err := apply.Apply(context.Background(), inventory.MovementInput{
		CompanyID: companyID, MaterialID: "no-existe", ShelfID: shelfID,
		Direction: entity.MovementIn, Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_MovimientoSinEstante(t *testing.T) {
	_, apply, query := newFixture(t)

	_, err := apply.Apply(context.Background(), inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID,
		Direction: entity.MovementIn, Amount: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	stock, err := query.CurrentStock(companyID, materialID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(4)))

	// Ningún estante quedó tocado.
	contents, err := query.ContentsFor(companyID, shelfID)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestApply_ContencionAcotada(t *testing.T) {
	store, _, _ := newFixture(t)
	ctx := context.Background()

	locks := keylock.New(50 * time.Millisecond)
	apply := inventory.NewApplyMovementUseCase(store, store.Materials(), store.Shelves(), locks, 1)

	release, err := locks.Acquire(ctx, "material:"+materialID)
	require.NoError(t, err)
	defer release()

	_, err = apply.Apply(ctx, inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementIn, Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.True(t, domain.IsRetryable(err))
}

func TestApply_ValidacionDeEntrada(t *testing.T) {
	_, apply, _ := newFixture(t)
	_, err := apply.Apply(context.Background(), inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: "sideways", Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = apply.Apply(context.Background(), inventory.MovementInput{
		CompanyID: companyID, MaterialID: materialID, ShelfID: shelfID,
		Direction: entity.MovementIn, Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
