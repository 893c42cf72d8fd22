package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/application/inventory"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

// LineInput es una línea de un documento nuevo. ShelfID y Expiration guían el
// efecto sobre stock: en salidas sin Expiration el retiro se reparte
// primero-en-vencer entre los lotes del estante.
type LineInput struct {
	MaterialID       string
	Description      string
	Price            decimal.Decimal
	Amount           decimal.Decimal
	TaxRate          decimal.Decimal
	ReductionPercent decimal.Decimal
	ShelfID          string
	Expiration       *time.Time
}

// DocumentInput es la entrada para crear un documento con sus líneas.
type DocumentInput struct {
	CompanyID      string
	UserID         string
	CustomerID     string
	Type           string
	ExternalNumber string // solo compras; vacío = numerar con el secuenciador
	TaxIncluded    bool
	Currency       string
	Date           time.Time
	Items          []LineInput
}

// CreateDocumentUseCase crea documentos comerciales: asigna número, persiste
// cabecera y líneas, y registra los movimientos de stock derivados, todo en
// una transacción. Un conflicto de secuencia reintenta con número fresco.
type CreateDocumentUseCase struct {
	tx           TxRunner
	docRepo      repository.DocumentRepository
	materialRepo repository.MaterialRepository
	shelfRepo    repository.ShelfRepository
	sequencer    *Sequencer
	locks        *keylock.KeyLock
	maxRetries   int
}

func NewCreateDocumentUseCase(tx TxRunner, docRepo repository.DocumentRepository, materialRepo repository.MaterialRepository, shelfRepo repository.ShelfRepository, sequencer *Sequencer, locks *keylock.KeyLock, maxRetries int) *CreateDocumentUseCase {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &CreateDocumentUseCase{
		tx:           tx,
		docRepo:      docRepo,
		materialRepo: materialRepo,
		shelfRepo:    shelfRepo,
		sequencer:    sequencer,
		locks:        locks,
		maxRetries:   maxRetries,
	}
}

// stockDirection devuelve el efecto sobre stock de un tipo de documento:
// salida para ventas, remisiones y facturas; entrada para compras y notas de
// crédito (devolución); ninguno para ofertas y notas de débito.
func stockDirection(docType string) string {
	switch docType {
	case entity.DocumentTypeSale, entity.DocumentTypeDispatch, entity.DocumentTypeInvoice:
		return entity.MovementOut
	case entity.DocumentTypePurchase, entity.DocumentTypeCreditNote:
		return entity.MovementIn
	}
	return ""
}

func (uc *CreateDocumentUseCase) Create(ctx context.Context, in DocumentInput) (*entity.Document, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	release, err := uc.locks.AcquireMany(ctx, lockKeysFor(in.Items)...)
	if err != nil {
		return nil, err
	}
	defer release()

	var lastErr error
	for attempt := 0; attempt < uc.maxRetries; attempt++ {
		doc, err := uc.createOnce(ctx, in)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !domain.IsRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (uc *CreateDocumentUseCase) validate(in DocumentInput) error {
	if !entity.ValidDocumentType(in.Type) {
		return fmt.Errorf("tipo de documento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.CompanyID == "" || len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	if in.ExternalNumber != "" && in.Type != entity.DocumentTypePurchase {
		return fmt.Errorf("número externo solo en compras: %w", domain.ErrInvalidInput)
	}
	for i, item := range in.Items {
		li := entity.LineItem{
			MaterialID:       item.MaterialID,
			Price:            item.Price,
			Amount:           item.Amount,
			TaxRate:          item.TaxRate,
			ReductionPercent: item.ReductionPercent,
		}
		if err := li.Validate(); err != nil {
			return fmt.Errorf("línea %d: %w", i+1, err)
		}
		if _, err := uc.materialRepo.GetByID(in.CompanyID, item.MaterialID); err != nil {
			return fmt.Errorf("línea %d, material %s: %w", i+1, item.MaterialID, err)
		}
		if item.ShelfID != "" {
			if _, err := uc.shelfRepo.GetByID(in.CompanyID, item.ShelfID); err != nil {
				return fmt.Errorf("línea %d, estante %s: %w", i+1, item.ShelfID, err)
			}
		}
	}
	return nil
}

func (uc *CreateDocumentUseCase) createOnce(ctx context.Context, in DocumentInput) (*entity.Document, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	number := in.ExternalNumber
	if Sequenced(in.Type, in.ExternalNumber) {
		var err error
		number, err = uc.sequencer.NextNumber(uc.docRepo, in.CompanyID, in.Type, date.Year())
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	doc := &entity.Document{
		ID:          uuid.New().String(),
		CompanyID:   in.CompanyID,
		CustomerID:  in.CustomerID,
		CreatorID:   in.UserID,
		Type:        in.Type,
		Number:      number,
		TaxIncluded: in.TaxIncluded,
		Currency:    in.Currency,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, _ repository.PaymentRepository, movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		for _, item := range in.Items {
			li := &entity.LineItem{
				ID:               uuid.New().String(),
				DocumentID:       doc.ID,
				MaterialID:       item.MaterialID,
				Description:      item.Description,
				Price:            item.Price,
				Amount:           item.Amount,
				TaxRate:          item.TaxRate,
				ReductionPercent: item.ReductionPercent,
				CreatedAt:        time.Now(),
			}
			if err := docRepo.CreateLineItem(li); err != nil {
				return fmt.Errorf("línea de %s: %w", doc.Number, err)
			}
			if err := applyLineStock(movRepo, viewRepo, doc, li, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// applyLineStock registra el efecto de una línea sobre el ledger dentro de la
// transacción del documento. El llamador posee los locks de material/estante.
func applyLineStock(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository, doc *entity.Document, li *entity.LineItem, item LineInput) error {
	direction := stockDirection(doc.Type)
	if direction == "" {
		return nil
	}

	template := &entity.StockMovement{
		CompanyID:  doc.CompanyID,
		MaterialID: li.MaterialID,
		ShelfID:    item.ShelfID,
		Direction:  direction,
		Amount:     li.Amount,
		Expiration: item.Expiration,
		Date:       doc.Date,
		LineItemID: li.ID,
		Note:       doc.Type + " " + doc.Number,
		CreatedBy:  doc.CreatorID,
		CreatedAt:  time.Now(),
	}

	if direction == entity.MovementOut && item.Expiration == nil {
		_, err := inventory.WithdrawInTx(movRepo, viewRepo, template, li.Amount)
		return err
	}
	template.ID = uuid.New().String()
	return inventory.ApplyInTx(movRepo, viewRepo, template)
}

// lockKeysFor arma las claves de exclusión de todas las líneas: materiales
// primero, estantes después, cada grupo ordenado. El orden fijo evita
// interbloqueos entre creaciones concurrentes.
func lockKeysFor(items []LineInput) []string {
	matSet := make(map[string]struct{})
	shelfSet := make(map[string]struct{})
	for _, item := range items {
		matSet["material:"+item.MaterialID] = struct{}{}
		if item.ShelfID != "" {
			shelfSet["shelf:"+item.ShelfID] = struct{}{}
		}
	}
	keys := make([]string, 0, len(matSet)+len(shelfSet))
	for k := range matSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	shelves := make([]string, 0, len(shelfSet))
	for k := range shelfSet {
		shelves = append(shelves, k)
	}
	sort.Strings(shelves)
	return append(keys, shelves...)
}
