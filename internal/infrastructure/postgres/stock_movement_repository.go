package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, material_id, shelf_id, amount, direction, expiration, date, line_item_id, note, created_by, created_at`

// Create persiste un movimiento en el log.
func (r *StockMovementRepo) Create(mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.CompanyID, mov.MaterialID, nullIfEmpty(mov.ShelfID), mov.Amount, mov.Direction,
		mov.Expiration, mov.Date, nullIfEmpty(mov.LineItemID), mov.Note, nullIfEmpty(mov.CreatedBy), mov.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND id = $2`
	row := r.q.QueryRow(context.Background(), query, companyID, id)
	mov, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return mov, nil
}

// ListByMaterial devuelve los movimientos del material en orden de replay.
func (r *StockMovementRepo) ListByMaterial(companyID, materialID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND material_id = $2
		ORDER BY date, created_at, id`
	return r.listMovements(query, companyID, materialID)
}

// ListByShelf devuelve los movimientos del estante en orden de replay.
func (r *StockMovementRepo) ListByShelf(companyID, shelfID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND shelf_id = $2
		ORDER BY date, created_at, id`
	return r.listMovements(query, companyID, shelfID)
}

// ListByPeriod devuelve los movimientos de un rango de fechas, paginados.
func (r *StockMovementRepo) ListByPeriod(companyID string, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at, id
		LIMIT $4 OFFSET $5`
	return r.listMovements(query, companyID, from, to, limit, offset)
}

// DeleteByLineItem elimina los movimientos de una línea y devuelve los
// eliminados para reconstruir las vistas afectadas.
func (r *StockMovementRepo) DeleteByLineItem(companyID, lineItemID string) ([]*entity.StockMovement, error) {
	query := `
		DELETE FROM stock_movements
		WHERE company_id = $1 AND line_item_id = $2
		RETURNING ` + movementColumns
	return r.listMovements(query, companyID, lineItemID)
}

func (r *StockMovementRepo) listMovements(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, mov)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var mov entity.StockMovement
	var shelfID, lineItemID, createdBy *string
	err := row.Scan(
		&mov.ID, &mov.CompanyID, &mov.MaterialID, &shelfID, &mov.Amount, &mov.Direction,
		&mov.Expiration, &mov.Date, &lineItemID, &mov.Note, &createdBy, &mov.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	mov.ShelfID = deref(shelfID)
	mov.LineItemID = deref(lineItemID)
	mov.CreatedBy = deref(createdBy)
	return &mov, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
