package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/memory"
)

func TestRun_RollbackDescartaTodo(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Run(context.Background(), func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		require.NoError(t, movRepo.Create(&entity.StockMovement{
			ID: "mov-1", CompanyID: "co-1", MaterialID: "mat-1",
			Direction: entity.MovementIn, Amount: decimal.NewFromInt(1), Date: time.Now(),
		}))
		require.NoError(t, viewRepo.SaveViews(&entity.MaterialStockView{
			CompanyID: "co-1", MaterialID: "mat-1",
			Lots: []entity.Lot{{Amount: decimal.NewFromInt(1)}},
		}, nil))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Movements().GetByID("co-1", "mov-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	view, err := store.Views().GetMaterialView("co-1", "mat-1")
	require.NoError(t, err)
	assert.Empty(t, view.Lots)
}

func TestDocuments_IndiceUnicoDeNumero(t *testing.T) {
	store := memory.NewStore()
	doc := &entity.Document{
		ID: "doc-1", CompanyID: "co-1", Type: entity.DocumentTypeInvoice,
		Number: "2025-0000001", Date: time.Now(),
	}
	require.NoError(t, store.Documents().Create(doc))

	dup := *doc
	dup.ID = "doc-2"
	err := store.Documents().Create(&dup)
	assert.ErrorIs(t, err, domain.ErrSequenceConflict)
	assert.True(t, domain.IsRetryable(err))

	// Mismo número en otra empresa o tipo no choca.
	other := *doc
	other.ID = "doc-3"
	other.CompanyID = "co-2"
	assert.NoError(t, store.Documents().Create(&other))
	another := *doc
	another.ID = "doc-4"
	another.Type = entity.DocumentTypeSale
	assert.NoError(t, store.Documents().Create(&another))
}

func TestViews_DevuelveClones(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Views().SaveViews(&entity.MaterialStockView{
		CompanyID: "co-1", MaterialID: "mat-1",
		Lots: []entity.Lot{{ShelfID: "s1", Amount: decimal.NewFromInt(5)}},
	}, nil))

	view, err := store.Views().GetMaterialView("co-1", "mat-1")
	require.NoError(t, err)
	view.Lots[0].Amount = decimal.NewFromInt(99)

	fresh, err := store.Views().GetMaterialView("co-1", "mat-1")
	require.NoError(t, err)
	assert.True(t, fresh.Lots[0].Amount.Equal(decimal.NewFromInt(5)), "la mutación del clon no debe filtrarse")
}
