package billing

import (
	"fmt"
	"sync"

	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/numbering"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

// Sequencer asigna números de documento AAAA-NNNNNNN: secuencias
// independientes por (empresa, tipo, año), sin huecos mientras el proceso
// vive. El mutex serializa la asignación dentro del proceso; el índice único
// de la persistencia respalda el caso multi-proceso (la inserción duplicada
// sale como domain.ErrSequenceConflict y el llamador reintenta).
type Sequencer struct {
	mu sync.Mutex
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// NextNumber calcula el próximo número consultando el mayor existente. Las
// compras con número externo no participan de la secuencia: el llamador usa
// el número del proveedor tal cual.
func (s *Sequencer) NextNumber(docRepo repository.DocumentRepository, companyID, docType string, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := docRepo.LastNumber(companyID, docType, year)
	if err != nil {
		return "", fmt.Errorf("último número de %s/%d: %w", docType, year, err)
	}
	return numbering.Next(last, year)
}

// Sequenced indica si el tipo de documento recibe número del secuenciador.
// Las compras pueden traer número externo del proveedor.
func Sequenced(docType, externalNumber string) bool {
	return !(docType == entity.DocumentTypePurchase && externalNumber != "")
}
