package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/ledger"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

// MovementInput es la entrada para registrar un movimiento de stock.
type MovementInput struct {
	CompanyID  string
	UserID     string
	MaterialID string
	ShelfID    string
	Direction  string
	Amount     decimal.Decimal
	Expiration *time.Time
	Date       time.Time
	Note       string
	LineItemID string
}

// ApplyMovementUseCase registra movimientos contra el log y mantiene las dos
// vistas materializadas consistentes entre sí. Es el único escritor de las
// vistas.
type ApplyMovementUseCase struct {
	tx           TxRunner
	materialRepo repository.MaterialRepository
	shelfRepo    repository.ShelfRepository
	locks        *keylock.KeyLock
	maxRetries   int
}

func NewApplyMovementUseCase(tx TxRunner, materialRepo repository.MaterialRepository, shelfRepo repository.ShelfRepository, locks *keylock.KeyLock, maxRetries int) *ApplyMovementUseCase {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ApplyMovementUseCase{tx: tx, materialRepo: materialRepo, shelfRepo: shelfRepo, locks: locks, maxRetries: maxRetries}
}

// LockKeys devuelve las claves de exclusión de un par material/estante, en el
// orden fijo en que deben adquirirse. ShelfID vacío produce una sola clave.
func LockKeys(materialID, shelfID string) []string {
	keys := []string{"material:" + materialID}
	if shelfID != "" {
		keys = append(keys, "shelf:"+shelfID)
	}
	return keys
}

// Apply valida y registra un movimiento. Los errores de contención
// (domain.IsRetryable) se reintentan un número acotado de veces.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		ID:         uuid.New().String(),
		CompanyID:  in.CompanyID,
		MaterialID: in.MaterialID,
		ShelfID:    in.ShelfID,
		Amount:     in.Amount,
		Direction:  in.Direction,
		Expiration: in.Expiration,
		Date:       in.Date,
		LineItemID: in.LineItemID,
		Note:       in.Note,
		CreatedBy:  in.UserID,
		CreatedAt:  time.Now(),
	}
	if mov.Date.IsZero() {
		mov.Date = time.Now()
	}
	if err := mov.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.materialRepo.GetByID(in.CompanyID, in.MaterialID); err != nil {
		return nil, fmt.Errorf("material %s: %w", in.MaterialID, err)
	}
	if in.ShelfID != "" {
		if _, err := uc.shelfRepo.GetByID(in.CompanyID, in.ShelfID); err != nil {
			return nil, fmt.Errorf("estante %s: %w", in.ShelfID, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < uc.maxRetries; attempt++ {
		lastErr = uc.applyOnce(ctx, mov)
		if lastErr == nil {
			return mov, nil
		}
		if !domain.IsRetryable(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (uc *ApplyMovementUseCase) applyOnce(ctx context.Context, mov *entity.StockMovement) error {
	release, err := uc.locks.AcquireMany(ctx, LockKeys(mov.MaterialID, mov.ShelfID)...)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		return ApplyInTx(movRepo, viewRepo, mov)
	})
}

// ApplyInTx aplica un movimiento con repositorios ya ligados a una
// transacción. El llamador debe poseer las claves de exclusión del par
// material/estante (ver LockKeys).
func ApplyInTx(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository, mov *entity.StockMovement) error {
	matView, err := viewRepo.GetMaterialView(mov.CompanyID, mov.MaterialID)
	if err != nil {
		return fmt.Errorf("vista de material: %w", err)
	}
	var shelfView *entity.ShelfContentsView
	if mov.ShelfID != "" {
		shelfView, err = viewRepo.GetShelfView(mov.CompanyID, mov.ShelfID)
		if err != nil {
			return fmt.Errorf("vista de estante: %w", err)
		}
	}

	newMat, newShelf, err := ledger.Apply(matView, shelfView, mov)
	if err != nil {
		return err
	}
	if err := movRepo.Create(mov); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}
	if err := viewRepo.SaveViews(newMat, newShelf); err != nil {
		return fmt.Errorf("guardar vistas: %w", err)
	}
	return nil
}

// WithdrawInTx planifica un retiro primero-en-vencer sobre un estante y lo
// aplica como un movimiento de salida por lote tocado. Devuelve los
// movimientos generados. Mismo contrato de locks que ApplyInTx.
func WithdrawInTx(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository, template *entity.StockMovement, amount decimal.Decimal) ([]*entity.StockMovement, error) {
	matView, err := viewRepo.GetMaterialView(template.CompanyID, template.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("vista de material: %w", err)
	}
	draws, err := ledger.PlanWithdrawal(matView, template.ShelfID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInconsistentWithdrawal) {
			return nil, fmt.Errorf("material %s en estante %s: %w", template.MaterialID, template.ShelfID, err)
		}
		return nil, err
	}

	movs := make([]*entity.StockMovement, 0, len(draws))
	for _, d := range draws {
		mov := *template
		mov.ID = uuid.New().String()
		mov.Direction = entity.MovementOut
		mov.Amount = d.Amount
		mov.Expiration = d.Expiration
		if err := ApplyInTx(movRepo, viewRepo, &mov); err != nil {
			return nil, err
		}
		movs = append(movs, &mov)
	}
	return movs, nil
}
