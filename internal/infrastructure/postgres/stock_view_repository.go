package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

var _ repository.StockViewRepository = (*StockViewRepo)(nil)

// StockViewRepo persiste las dos vistas materializadas. Cada vista es una
// cabecera más sus filas de detalle; el guardado reemplaza el detalle entero
// (las vistas son chicas y el reemplazo mantiene el detalle idéntico al que
// calculó el ledger).
type StockViewRepo struct {
	q Querier
}

// NewStockViewRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockViewRepository(q Querier) *StockViewRepo {
	return &StockViewRepo{q: q}
}

// GetMaterialView obtiene la vista del material, o una vacía si no existe.
func (r *StockViewRepo) GetMaterialView(companyID, materialID string) (*entity.MaterialStockView, error) {
	ctx := context.Background()
	view := &entity.MaterialStockView{CompanyID: companyID, MaterialID: materialID}

	err := r.q.QueryRow(ctx,
		`SELECT earliest_expiration, updated_at FROM material_stock_views WHERE company_id = $1 AND material_id = $2`,
		companyID, materialID,
	).Scan(&view.EarliestExpiration, &view.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get material view: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT shelf_id, expiration, amount FROM material_stock_lots
		WHERE company_id = $1 AND material_id = $2
		ORDER BY expiration ASC NULLS LAST, shelf_id`,
		companyID, materialID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lot entity.Lot
		var shelfID *string
		if err := rows.Scan(&shelfID, &lot.Expiration, &lot.Amount); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lot.ShelfID = deref(shelfID)
		view.Lots = append(view.Lots, lot)
	}
	return view, rows.Err()
}

// GetShelfView obtiene la vista del estante, o una vacía si no existe.
func (r *StockViewRepo) GetShelfView(companyID, shelfID string) (*entity.ShelfContentsView, error) {
	ctx := context.Background()
	view := &entity.ShelfContentsView{CompanyID: companyID, ShelfID: shelfID}

	err := r.q.QueryRow(ctx,
		`SELECT updated_at FROM shelf_contents_views WHERE company_id = $1 AND shelf_id = $2`,
		companyID, shelfID,
	).Scan(&view.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shelf view: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT material_id, expiration, amount FROM shelf_contents
		WHERE company_id = $1 AND shelf_id = $2
		ORDER BY expiration ASC NULLS LAST, material_id`,
		companyID, shelfID)
	if err != nil {
		return nil, fmt.Errorf("list shelf contents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Content
		if err := rows.Scan(&c.MaterialID, &c.Expiration, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan shelf content: %w", err)
		}
		view.Contents = append(view.Contents, c)
	}
	return view, rows.Err()
}

// SaveViews reemplaza el par de vistas. Llamado siempre dentro de una
// transacción del TxRunner: el par queda todo-o-nada.
func (r *StockViewRepo) SaveViews(mat *entity.MaterialStockView, shelf *entity.ShelfContentsView) error {
	ctx := context.Background()
	now := time.Now()

	if mat != nil {
		_, err := r.q.Exec(ctx, `
			INSERT INTO material_stock_views (company_id, material_id, earliest_expiration, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (company_id, material_id)
			DO UPDATE SET earliest_expiration = EXCLUDED.earliest_expiration, updated_at = EXCLUDED.updated_at`,
			mat.CompanyID, mat.MaterialID, mat.EarliestExpiration, now)
		if err != nil {
			return fmt.Errorf("upsert material view: %w", err)
		}
		if _, err := r.q.Exec(ctx,
			`DELETE FROM material_stock_lots WHERE company_id = $1 AND material_id = $2`,
			mat.CompanyID, mat.MaterialID); err != nil {
			return fmt.Errorf("clear lots: %w", err)
		}
		for _, lot := range mat.Lots {
			if _, err := r.q.Exec(ctx, `
				INSERT INTO material_stock_lots (company_id, material_id, shelf_id, expiration, amount)
				VALUES ($1, $2, $3, $4, $5)`,
				mat.CompanyID, mat.MaterialID, nullIfEmpty(lot.ShelfID), lot.Expiration, lot.Amount); err != nil {
				return fmt.Errorf("insert lot: %w", err)
			}
		}
	}

	if shelf != nil {
		_, err := r.q.Exec(ctx, `
			INSERT INTO shelf_contents_views (company_id, shelf_id, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (company_id, shelf_id)
			DO UPDATE SET updated_at = EXCLUDED.updated_at`,
			shelf.CompanyID, shelf.ShelfID, now)
		if err != nil {
			return fmt.Errorf("upsert shelf view: %w", err)
		}
		if _, err := r.q.Exec(ctx,
			`DELETE FROM shelf_contents WHERE company_id = $1 AND shelf_id = $2`,
			shelf.CompanyID, shelf.ShelfID); err != nil {
			return fmt.Errorf("clear shelf contents: %w", err)
		}
		for _, c := range shelf.Contents {
			if _, err := r.q.Exec(ctx, `
				INSERT INTO shelf_contents (company_id, shelf_id, material_id, expiration, amount)
				VALUES ($1, $2, $3, $4, $5)`,
				shelf.CompanyID, shelf.ShelfID, c.MaterialID, c.Expiration, c.Amount); err != nil {
				return fmt.Errorf("insert shelf content: %w", err)
			}
		}
	}
	return nil
}
