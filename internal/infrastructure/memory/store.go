// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Sirve para desarrollo local y para las pruebas de los casos de
// uso; el contrato es el mismo que el de los adaptadores de postgres.
package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

// Store es el almacén en memoria. Todas las entradas se guardan y devuelven
// clonadas; las transacciones hacen copia de los mapas al entrar y restauran
// esa copia si fn falla.
type Store struct {
	mu sync.Mutex

	materials  map[string]*entity.Material
	shelves    map[string]*entity.Shelf
	users      map[string]*entity.User
	movements  map[string]*entity.StockMovement
	matViews   map[string]*entity.MaterialStockView
	shelfViews map[string]*entity.ShelfContentsView
	documents  map[string]*entity.Document
	lineItems  map[string]*entity.LineItem
	payments   map[string]*entity.Payment
}

func NewStore() *Store {
	return &Store{
		materials:  make(map[string]*entity.Material),
		shelves:    make(map[string]*entity.Shelf),
		users:      make(map[string]*entity.User),
		movements:  make(map[string]*entity.StockMovement),
		matViews:   make(map[string]*entity.MaterialStockView),
		shelfViews: make(map[string]*entity.ShelfContentsView),
		documents:  make(map[string]*entity.Document),
		lineItems:  make(map[string]*entity.LineItem),
		payments:   make(map[string]*entity.Payment),
	}
}

func key(companyID, id string) string { return companyID + "/" + id }

type snapshot struct {
	materials  map[string]*entity.Material
	shelves    map[string]*entity.Shelf
	users      map[string]*entity.User
	movements  map[string]*entity.StockMovement
	matViews   map[string]*entity.MaterialStockView
	shelfViews map[string]*entity.ShelfContentsView
	documents  map[string]*entity.Document
	lineItems  map[string]*entity.LineItem
	payments   map[string]*entity.Payment
}

// take copia los mapas (las entradas son inmutables una vez guardadas: toda
// escritura reemplaza la entrada por un clon, nunca la muta en sitio).
func (s *Store) take() snapshot {
	return snapshot{
		materials:  copyMap(s.materials),
		shelves:    copyMap(s.shelves),
		users:      copyMap(s.users),
		movements:  copyMap(s.movements),
		matViews:   copyMap(s.matViews),
		shelfViews: copyMap(s.shelfViews),
		documents:  copyMap(s.documents),
		lineItems:  copyMap(s.lineItems),
		payments:   copyMap(s.payments),
	}
}

func (s *Store) restore(snap snapshot) {
	s.materials = snap.materials
	s.shelves = snap.shelves
	s.users = snap.users
	s.movements = snap.movements
	s.matViews = snap.matViews
	s.shelfViews = snap.shelfViews
	s.documents = snap.documents
	s.lineItems = snap.lineItems
	s.payments = snap.payments
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.take()
	if err := fn(&movementRepo{s: s}, &viewRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunBilling implementa billing.TxRunner.
func (s *Store) RunBilling(ctx context.Context, fn func(docRepo repository.DocumentRepository, payRepo repository.PaymentRepository, movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.take()
	if err := fn(&documentRepo{s: s}, &paymentRepo{s: s}, &movementRepo{s: s}, &viewRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Los constructores de repositorios fuera de transacción comparten el mismo
// Store; sus métodos toman el mutex por operación.
func (s *Store) Materials() repository.MaterialRepository     { return &lockedMaterialRepo{s: s} }
func (s *Store) Shelves() repository.ShelfRepository          { return &lockedShelfRepo{s: s} }
func (s *Store) Users() repository.UserRepository             { return &lockedUserRepo{s: s} }
func (s *Store) Movements() repository.StockMovementRepository { return &lockedMovementRepo{s: s} }
func (s *Store) Views() repository.StockViewRepository        { return &lockedViewRepo{s: s} }
func (s *Store) Documents() repository.DocumentRepository     { return &lockedDocumentRepo{s: s} }
func (s *Store) Payments() repository.PaymentRepository       { return &lockedPaymentRepo{s: s} }
