package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, org_id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, w.ID, w.OrgID, w.Name, w.Address, w.IsActive, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega de la organización.
func (r *WarehouseRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, org_id, name, address, is_active, created_at, updated_at
		FROM warehouses WHERE org_id = $1 AND id = $2`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, orgID, id).Scan(
		&w.ID, &w.OrgID, &w.Name, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List lista bodegas de la organización.
func (r *WarehouseRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Warehouse, error) {
	query, args := limitClause(`
		SELECT id, org_id, name, address, is_active, created_at, updated_at
		FROM warehouses WHERE org_id = $1 ORDER BY name`, []any{orgID}, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.OrgID, &w.Name, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
