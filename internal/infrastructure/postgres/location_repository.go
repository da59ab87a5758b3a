package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación; el código es único por bodega.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, org_id, warehouse_id, code, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.OrgID, l.WarehouseID, l.Code, l.Name, l.IsActive, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Location, error) {
	query := `
		SELECT id, org_id, warehouse_id, code, name, is_active, created_at, updated_at
		FROM locations WHERE org_id = $1 AND id = $2`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, orgID, id).Scan(
		&l.ID, &l.OrgID, &l.WarehouseID, &l.Code, &l.Name, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) ListByWarehouse(ctx context.Context, orgID, warehouseID string) ([]*entity.Location, error) {
	query := `
		SELECT id, org_id, warehouse_id, code, name, is_active, created_at, updated_at
		FROM locations WHERE org_id = $1 AND warehouse_id = $2 ORDER BY code`
	rows, err := r.q.Query(ctx, query, orgID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.OrgID, &l.WarehouseID, &l.Code, &l.Name, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
